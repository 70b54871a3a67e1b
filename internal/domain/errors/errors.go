package errors

import (
	"errors"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrConfiguration      = errors.New("configuration fault")
	ErrStoreUnavailable   = errors.New("order store unavailable")
	ErrNetworkBlocked     = errors.New("connection blocked by client")
	ErrPaymentProvider    = errors.New("payment provider failure")
	ErrMalformedBody      = errors.New("malformed request body")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrSubmitInProgress   = errors.New("checkout submit already in progress")
)

// Fault is an error of a known kind carrying a caller-facing message.
type Fault struct {
	Kind error
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	if f.Msg != "" {
		return f.Msg
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return f.Kind.Error()
}

// Is reports whether target is the fault kind.
func (f *Fault) Is(target error) bool {
	return target == f.Kind
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Validation builds a validation fault with a caller-facing message.
func Validation(msg string) error {
	return &Fault{Kind: ErrValidation, Msg: msg}
}

// Configuration builds a configuration fault.
func Configuration(msg string) error {
	return &Fault{Kind: ErrConfiguration, Msg: msg}
}

// Provider wraps a payment provider error keeping its message.
func Provider(err error) error {
	return &Fault{Kind: ErrPaymentProvider, Err: err}
}

var blockedSignatures = []string{"ERR_BLOCKED_BY_CLIENT"}

// IsNetworkBlocked detects failures caused by a client-side blocker
// between the shopper and the order store.
func IsNetworkBlocked(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetworkBlocked) {
		return true
	}
	msg := err.Error()
	for _, sig := range blockedSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
