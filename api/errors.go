package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// StatusError reports a response whose status was not 2xx.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	// Body holds the trimmed response body, usually the server's message.
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNotFound reports whether err, or the error it wraps, is a 404 response.
func IsNotFound(err error) bool {
	se, ok := errors.Cause(err).(*StatusError)
	return ok && se.StatusCode == http.StatusNotFound
}

// StatusCodeOf returns the response status carried by err, or 0 if err did not
// come from a completed request.
func StatusCodeOf(err error) int {
	if se, ok := errors.Cause(err).(*StatusError); ok {
		return se.StatusCode
	}
	return 0
}

// RequestError reports a request that failed before a response was received.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Cause() error {
	return e.Err
}

// IsRequestError reports whether err or any error it wraps is a *RequestError.
func IsRequestError(err error) bool {
	type causer interface {
		Cause() error
	}
	for err != nil {
		if _, ok := err.(*RequestError); ok {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}
