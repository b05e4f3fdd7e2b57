package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/rileyhilliard/dcos-cli/internal/errors"
	"github.com/rileyhilliard/dcos-cli/internal/mesos"
	"github.com/rileyhilliard/dcos-cli/internal/node"
)

// JSONEnvelope wraps error output in a consistent structure for machine parsing.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeUsage          = "USAGE"
	ErrCodeAgentMissing   = "SSH_AGENT_MISSING"
	ErrCodeNodeNotFound   = "NODE_NOT_FOUND"
	ErrCodeAuthFailed     = "CLUSTER_AUTH_FAILED"
	ErrCodeUnreachable    = "CLUSTER_UNREACHABLE"
	ErrCodeCommandFailed  = "COMMAND_FAILED"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var transport *mesos.TransportError
	if stderrors.As(err, &transport) {
		return transportErrorToJSON(transport)
	}

	var notFound *node.NotFoundError
	if stderrors.As(err, &notFound) {
		return &JSONError{
			Code:       ErrCodeNodeNotFound,
			Message:    firstLine(notFound),
			Suggestion: notFound.ErrorSuggestion(),
			Details:    map[string]interface{}{"id": notFound.ID},
		}
	}

	var cliErr *errors.Error
	if stderrors.As(err, &cliErr) {
		return &JSONError{
			Code:       mapErrorCode(cliErr.Code, cliErr.Message),
			Message:    cliErr.Message,
			Suggestion: cliErr.Suggestion,
		}
	}

	var coded errors.Coded
	if stderrors.As(err, &coded) {
		return &JSONError{
			Code:       mapErrorCode(coded.ErrorCode(), ""),
			Message:    firstLine(coded),
			Suggestion: coded.ErrorSuggestion(),
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "missing required") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrUsage:
		return ErrCodeUsage
	case errors.ErrAgent:
		return ErrCodeAgentMissing
	case errors.ErrNotFound:
		return ErrCodeNodeNotFound
	case errors.ErrTransport:
		return ErrCodeUnreachable
	case errors.ErrExec, errors.ErrSSH:
		return ErrCodeCommandFailed
	}
	return ErrCodeUnknown
}

func transportErrorToJSON(e *mesos.TransportError) *JSONError {
	code := ErrCodeUnreachable
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		code = ErrCodeAuthFailed
	}
	details := map[string]interface{}{"url": e.URL}
	if e.Status != 0 {
		details["status"] = e.Status
	}
	return &JSONError{
		Code:       code,
		Message:    firstLine(e),
		Suggestion: e.ErrorSuggestion(),
		Details:    details,
	}
}
