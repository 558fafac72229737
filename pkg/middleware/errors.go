package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultErrorMessage is sent when an error carries no client-facing message.
const DefaultErrorMessage = "Something went wrong"

// HTTPError is an error with an HTTP status and a client-facing message.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// NewHTTPError creates an HTTPError
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body written for every handled error.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ErrorHandler renders an error surfaced by a middleware or a controller.
type ErrorHandler interface {
	HandleError(c *gin.Context, err error)
}

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc func(c *gin.Context, err error)

// HandleError calls f(c, err).
func (f ErrorHandlerFunc) HandleError(c *gin.Context, err error) {
	f(c, err)
}

// DefaultErrorHandler writes {"status", "message"} using the HTTPError in the
// chain, falling back to 500 and a generic message.
func DefaultErrorHandler(logger *zap.Logger) ErrorHandler {
	return ErrorHandlerFunc(func(c *gin.Context, err error) {
		status := http.StatusInternalServerError
		message := DefaultErrorMessage

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.Status != 0 {
				status = httpErr.Status
			}
			if httpErr.Message != "" {
				message = httpErr.Message
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", status),
				zap.Error(err))
		}

		c.AbortWithStatusJSON(status, ErrorResponse{Status: status, Message: message})
	})
}

// ErrorBoundary renders the last error recorded on the context once the rest
// of the chain has returned, unless a response was already written. Panics
// are recovered and rendered as 500. The handler is resolved per request so
// it can be installed after the boundary itself; with no handler installed
// only the status code is sent.
func ErrorBoundary(handler func() ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := c.Writer
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				_ = c.Error(&HTTPError{Status: http.StatusInternalServerError, Err: fmt.Errorf("panic: %w", err)})
			}
			render(c, w, handler())
		}()

		c.Next()
	}
}

func render(c *gin.Context, w gin.ResponseWriter, h ErrorHandler) {
	if len(c.Errors) == 0 || w.Written() {
		return
	}

	// An inner stage (compression) swapped the writer and has already been
	// unwound; render uncompressed on the writer this boundary saw.
	if c.Writer != w {
		c.Writer = w
		w.Header().Del("Content-Encoding")
		w.Header().Del("Content-Length")
	}

	err := c.Errors.Last().Err
	if h == nil {
		status := http.StatusInternalServerError
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Status != 0 {
			status = httpErr.Status
		}
		c.AbortWithStatus(status)
		return
	}
	h.HandleError(c, err)
}
