package mesos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateSummaryFixture = `{
  "hostname": "master-0",
  "cluster": "prod",
  "slaves": [
    {"id": "S0", "hostname": "agent-0", "pid": "slave(1)@10.0.0.5:5051", "active": true, "resources": {"cpus": 4}},
    {"id": "S1", "hostname": "agent-1", "pid": "slave(1)@10.0.0.6:5051", "active": false}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Slaves(t *testing.T) {
	var gotPath, gotAuth string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(stateSummaryFixture))
	})

	c := New(srv.URL+"/", WithToken("abc"))
	slaves, err := c.Slaves(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateSummaryPath, gotPath)
	assert.Equal(t, "token=abc", gotAuth)
	require.Len(t, slaves, 2)
	assert.Equal(t, "S0", slaves[0].ID)
	assert.Equal(t, "agent-0", slaves[0].Hostname)
	assert.True(t, slaves[0].Active)
	assert.Equal(t, map[string]any{"cpus": json.Number("4")}, slaves[0].Raw["resources"])
	assert.Equal(t, "S1", slaves[1].ID)
}

func TestClient_NoTokenSendsNoAuthorization(t *testing.T) {
	var hasAuth bool
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"slaves": []}`))
	})

	slaves, err := New(srv.URL).Slaves(context.Background())

	require.NoError(t, err)
	assert.Empty(t, slaves)
	assert.False(t, hasAuth)
}

func TestClient_Metadata(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MetadataPath, r.URL.Path)
		_, _ = w.Write([]byte(`{"PUBLIC_IPV4": "52.1.2.3", "CLUSTER_ID": "c-1"}`))
	})

	md, err := New(srv.URL).Metadata(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "52.1.2.3", md.PublicIPv4)
	assert.Equal(t, "c-1", md.ClusterID)
}

func TestClient_NonOKIsTransportError(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		wantSuggestion string
	}{
		{"unauthorized", http.StatusUnauthorized, "credentials were rejected"},
		{"forbidden", http.StatusForbidden, "credentials were rejected"},
		{"server error", http.StatusInternalServerError, "cluster reported an error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			_, err := New(srv.URL).Slaves(context.Background())

			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.status, te.Status)
			assert.Equal(t, "nope", te.Body)
			assert.True(t, errors.IsCode(err, errors.ErrTransport))
			assert.Contains(t, err.Error(), "returned HTTP")
			assert.Contains(t, err.Error(), tt.wantSuggestion)
		})
	}
}

func TestClient_BadJSONIsTransportError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := New(srv.URL).Metadata(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_UnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(time.Second)).Slaves(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.Status)
	assert.NotNil(t, te.Unwrap())
	assert.Contains(t, te.ErrorSuggestion(), "core.dcos_url")
}

func TestClient_HonorsContextCancellation(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).Slaves(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_LogsRequests(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	log := logger.NewBufferLogger()

	_, err := New(srv.URL, WithLogger(log)).Metadata(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, log.Messages)
	assert.True(t, log.HasLevel("debug"))
	assert.Contains(t, log.Messages[0].Message, MetadataPath)
}

func TestWithInsecureSkipVerify(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"PUBLIC_IPV4": "52.1.2.3"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).Metadata(context.Background())
	require.Error(t, err, "self-signed certificate is rejected by default")

	md, err := New(srv.URL, WithInsecureSkipVerify()).Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "52.1.2.3", md.PublicIPv4)
}
