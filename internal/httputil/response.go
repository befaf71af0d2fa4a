// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// directoryRetryAfter is sent with 503 responses while the directory is unreachable.
const directoryRetryAfter = 5

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// errorMapping ties an error class to its response. Detailed mappings echo
// the error text, which names the device, AE title or field involved.
type errorMapping struct {
	target   error
	status   int
	kind     string
	message  string
	detailed bool
}

// errorMappings are tried in order; the first class err belongs to wins.
var errorMappings = []errorMapping{
	{target: apperrors.ErrNotFound, status: http.StatusNotFound, kind: "not_found", detailed: true},
	{target: apperrors.ErrConflict, status: http.StatusConflict, kind: "conflict", detailed: true},
	{target: apperrors.ErrInvalidInput, status: http.StatusUnprocessableEntity, kind: "invalid_input", detailed: true},
	{
		target:  apperrors.ErrTransportBroken,
		status:  http.StatusServiceUnavailable,
		kind:    "directory_unavailable",
		message: "The configuration directory is not reachable",
	},
}

// HandleErrorGin maps an error of the device API to its status code and
// writes the JSON error. Unknown errors are logged but never echoed. A write
// that was applied with cleanup left behind carries code partially_applied.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		status = m.status
		resp = ErrorResponse{Error: m.kind, Message: m.message}
		if m.detailed {
			resp.Message = err.Error()
		}
		break
	}

	if apperrors.IsPartiallyApplied(err) {
		resp.Code = "partially_applied"
	}
	resp.Fields = fieldErrors(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", strconv.Itoa(directoryRetryAfter))
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", status),
			slog.String("error_code", resp.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(status, resp)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 response. Rule violations are also
// listed per field, e.g. "ApplicationEntities.0.AETitle".
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
		Fields:  fieldErrors(err),
	})
}

// fieldErrors flattens the validation.Errors in err's chain into dotted
// field paths. It returns nil when err carries none.
func fieldErrors(err error) map[string]string {
	var errs validation.Errors
	if !apperrors.As(err, &errs) {
		return nil
	}
	out := make(map[string]string)
	flattenFieldErrors("", errs, out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func flattenFieldErrors(prefix string, errs validation.Errors, out map[string]string) {
	for key, err := range errs {
		if err == nil {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := err.(validation.Errors); ok {
			flattenFieldErrors(path, nested, out)
			continue
		}
		out[path] = err.Error()
	}
}
