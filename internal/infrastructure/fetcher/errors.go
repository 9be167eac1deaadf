package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies a failed transport attempt for logs and metrics.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindConnection  ErrorKind = "connection"
	KindForbidden   ErrorKind = "forbidden"
	KindNotFound    ErrorKind = "not_found"
	KindRateLimited ErrorKind = "rate_limited"
	KindStatus      ErrorKind = "status"
	KindDecode      ErrorKind = "decode"
	KindEmpty       ErrorKind = "empty"
	KindOther       ErrorKind = "other"
)

var (
	// errEmptyBody is wrapped when a source answered without usable content.
	errEmptyBody = errors.New("empty body")

	// errDecode is wrapped when a body or JSON envelope cannot be decoded.
	errDecode = errors.New("decode failed")
)

// FetchError describes one failed transport attempt.
type FetchError struct {
	Strategy   string
	URL        string
	StatusCode int
	Kind       ErrorKind
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %s (status %d): %v", e.Strategy, e.URL, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Strategy, e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// newFetchError builds a classified FetchError.
func newFetchError(strategy, target string, statusCode int, err error) *FetchError {
	return &FetchError{
		Strategy:   strategy,
		URL:        target,
		StatusCode: statusCode,
		Kind:       classify(err, statusCode),
		Err:        err,
	}
}

func classify(err error, statusCode int) ErrorKind {
	if errors.Is(err, errEmptyBody) {
		return KindEmpty
	}
	if errors.Is(err, errDecode) {
		return KindDecode
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}

	switch {
	case statusCode == http.StatusForbidden:
		return KindForbidden
	case statusCode == http.StatusNotFound:
		return KindNotFound
	case statusCode == http.StatusTooManyRequests:
		return KindRateLimited
	case statusCode != 0:
		return KindStatus
	}

	return KindOther
}

// kindOf returns the classification label of any error returned by a strategy.
func kindOf(err error) string {
	if err == nil {
		return "ok"
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return string(fe.Kind)
	}
	return string(classify(err, 0))
}
