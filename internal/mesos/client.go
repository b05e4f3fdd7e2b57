// Package mesos is the cluster state client: it fetches the node roster and
// the cluster metadata from a DC/OS cluster over HTTP.
package mesos

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/logger"
)

const (
	// StateSummaryPath serves the master's roster of agents.
	StateSummaryPath = "/mesos/master/state-summary"
	// MetadataPath serves the cluster's public address.
	MetadataPath = "/metadata"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 512
)

// Client talks to the cluster's admin router.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	log logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends the ACS token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.Token = token }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify() Option {
	return func(c *Client) {
		c.HTTPClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in via core.ssl_verify=false
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the cluster at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StateSummary fetches the master's state summary.
func (c *Client) StateSummary(ctx context.Context) (*StateSummary, error) {
	var s StateSummary
	if err := c.get(ctx, StateSummaryPath, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Slaves fetches the current node roster in the order the master reports it.
func (c *Client) Slaves(ctx context.Context) ([]Slave, error) {
	s, err := c.StateSummary(ctx)
	if err != nil {
		return nil, err
	}
	return s.Slaves, nil
}

// Metadata fetches the cluster metadata.
func (c *Client) Metadata(ctx context.Context) (*Metadata, error) {
	var m Metadata
	if err := c.get(ctx, MetadataPath, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransportError{URL: url, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "token="+c.Token)
	}

	c.log.Debug("GET %s", url)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &TransportError{URL: url, Cause: err}
	}
	defer resp.Body.Close()
	c.log.Debug("GET %s -> %d", url, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{URL: url, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &TransportError{URL: url, Status: resp.StatusCode, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// TransportError is a failed request to the cluster: a network failure, a
// non-200 response, or an undecodable body.
type TransportError struct {
	URL    string
	Status int
	Body   string
	Cause  error
}

func (e *TransportError) Error() string {
	return errors.Format(e.message(), e.detail(), e.ErrorSuggestion())
}

func (e *TransportError) message() string {
	if e.Status != 0 && e.Cause == nil {
		return fmt.Sprintf("Request to %s returned HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("Request to %s failed", e.URL)
}

func (e *TransportError) detail() error {
	if e.Cause != nil {
		return e.Cause
	}
	if e.Body != "" {
		return fmt.Errorf("%s", e.Body)
	}
	return nil
}

// Unwrap returns the underlying network or decode error.
func (e *TransportError) Unwrap() error { return e.Cause }

// ErrorCode implements errors.Coded.
func (e *TransportError) ErrorCode() string { return errors.ErrTransport }

// ErrorSuggestion implements errors.Coded.
func (e *TransportError) ErrorSuggestion() string {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Your credentials were rejected. Update core.dcos_acs_token with 'dcos config set core.dcos_acs_token <token>'"
	case 0:
		return "Check that core.dcos_url points at a reachable cluster"
	}
	return "The cluster reported an error; check its health and try again"
}
