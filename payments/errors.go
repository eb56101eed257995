package payments

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingParameter is matched by every *ParamError.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrTransport wraps network failures and non-2xx HTTP statuses.
	ErrTransport = errors.New("transport error")
	// ErrCertificateRequired is returned for mutual-TLS endpoints when no client certificate is configured.
	ErrCertificateRequired = errors.New("client certificate required")
	// ErrNoPrepayID is returned when a derivation needs a prepay id the gateway did not issue.
	ErrNoPrepayID = errors.New("prepay id not issued")
)

// ParamError names the request fields that failed validation.
type ParamError struct {
	Fields []string
	Reason string
}

func (e *ParamError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrMissingParameter, strings.Join(e.Fields, ", "))
	if e.Reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Reason)
	}
	return msg
}

func (e *ParamError) Unwrap() error {
	return ErrMissingParameter
}
