package api

import (
	"errors"
	"net/http"
)

// StatusError attaches an HTTP status to an error.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error.
func (e *StatusError) StatusCode() int {
	return e.Status
}

func withStatus(status int, err error) error {
	return &StatusError{Status: status, Err: err}
}

// statusCoder is implemented by errors that know their HTTP status, including
// downstream API errors.
type statusCoder interface {
	StatusCode() int
}

// statusOf returns the status carried by err, or 500 when none is set.
func statusOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 400 && code <= 599 {
			return code
		}
	}
	return http.StatusInternalServerError
}

// errorHandlerFunc is an HTTP handler that reports failure by returning an error.
type errorHandlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn so every returned error goes through writeError.
func (s *Server) handle(fn errorHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	}
}

// writeError sends the error message as a plain text body with its status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	attrs := []any{"path", r.URL.Path, "status", status, "error", err}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
	} else {
		s.logger.Warn("request rejected", attrs...)
	}
	http.Error(w, err.Error(), status)
}
