package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("provider not configured")
	ErrTimeout       = errors.New("timeout")
	ErrUpstream      = errors.New("upstream error")
	ErrAuth          = errors.New("auth error")
	ErrStore         = errors.New("store error")
)

// ErrorKind buckets an error into the reporting taxonomy.
type ErrorKind string

const (
	KindNotConfigured ErrorKind = "not_configured"
	KindTimeout       ErrorKind = "timeout"
	KindUpstream      ErrorKind = "upstream_error"
	KindAuth          ErrorKind = "auth_error"
	KindStore         ErrorKind = "store_error"
	KindUnknown       ErrorKind = "unknown"
)

// Classify maps an error onto the taxonomy. Context deadline errors count as
// timeouts so a connector does not have to translate them itself.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return KindNotConfigured
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrStore):
		return KindStore
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	}
	return KindUnknown
}
