package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// DefaultBodyLimit matches the conventional 100kb request body limit.
const DefaultBodyLimit int64 = 100 << 10

// BodyKey is the gin context key holding the validated JSON body as json.RawMessage.
const BodyKey = "json_body"

const (
	mimeJSON           = "application/json"
	mimeFormURLEncoded = "application/x-www-form-urlencoded"
)

// JSONBody validates application/json request bodies up to limit bytes.
// Only an object or an array is accepted at the top level. The body is left
// readable for handler binding. Malformed JSON is reported as 400 and
// oversized bodies as 413; either stops the chain.
func JSONBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasContentType(c.Request, mimeJSON) {
			c.Next()
			return
		}

		data, err := readBody(c, limit)
		if err != nil {
			fail(c, err)
			return
		}

		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
			if !json.Valid(trimmed) || (trimmed[0] != '{' && trimmed[0] != '[') {
				fail(c, NewHTTPError(http.StatusBadRequest, "Invalid JSON body"))
				return
			}
			c.Set(BodyKey, json.RawMessage(data))
		}

		c.Next()
	}
}

// URLEncodedBody parses application/x-www-form-urlencoded bodies up to limit
// bytes into Request.PostForm and Request.Form.
func URLEncodedBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasContentType(c.Request, mimeFormURLEncoded) {
			c.Next()
			return
		}

		data, err := readBody(c, limit)
		if err != nil {
			fail(c, err)
			return
		}

		form, err := url.ParseQuery(string(data))
		if err != nil {
			fail(c, &HTTPError{Status: http.StatusBadRequest, Message: "Invalid form body", Err: err})
			return
		}
		c.Request.PostForm = form
		if err := c.Request.ParseForm(); err != nil {
			fail(c, &HTTPError{Status: http.StatusBadRequest, Message: "Invalid form body", Err: err})
			return
		}

		c.Next()
	}
}

// readBody reads the whole body and replaces it with a rereadable copy.
func readBody(c *gin.Context, limit int64) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	_ = c.Request.Body.Close()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &HTTPError{Status: http.StatusRequestEntityTooLarge, Message: "Request body too large", Err: err}
		}
		return nil, &HTTPError{Status: http.StatusBadRequest, Message: "Unable to read request body", Err: err}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

func hasContentType(r *http.Request, want string) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == want
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
