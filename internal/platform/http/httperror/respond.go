// Package httperror translates application errors into HTTP responses.
// It is the only place where an apperr.Kind becomes a status code.
package httperror

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"task_backend/internal/shared/apperr"
)

// MsgInternal is the generic message for 500 responses. Do not expose internal details to clients.
const MsgInternal = "internal server error"

// MsgInvalidRequest is returned for request bodies that cannot be decoded.
const MsgInvalidRequest = "invalid request"

// MsgBodyTooLarge is returned when a body exceeds the http.MaxBytesReader limit.
const MsgBodyTooLarge = "request body too large"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Status returns the HTTP status for err's kind.
func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindDuplicate:
		return http.StatusConflict
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error response. 5xx responses carry only MsgInternal;
// the cause is logged with the request's ID.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"kind", apperr.KindOf(err).String(),
			"error", err)
		c.AbortWithStatusJSON(status, ErrorResponse{Error: MsgInternal})
		return
	}

	msg, _ := apperr.MessageOf(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// RespondBind writes a 400 for a failed ShouldBind call, listing invalid fields when known.
// A body cut off by http.MaxBytesReader is answered with 413.
func RespondBind(c *gin.Context, err error) {
	slog.Warn("request validation failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: MsgBodyTooLarge})
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequest, Fields: fields})
		return
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind == apperr.KindValidation {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: appErr.Msg})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequest})
}

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

var jsonNamesOnce sync.Once

// UseJSONFieldNames makes gin's validator report fields by their json tag
// ("dueDate" rather than "DueDate"). It is safe to call more than once.
func UseJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}
