package diagnostic

import (
	"errors"
	"fmt"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind classifies the failures of a remapping run.
type Kind int

const (
	_ Kind = iota // zero value is not a valid kind

	// LookupMiss is a class or member absent from the mapping. It is recovered
	// locally by passthrough everywhere except when resolving the entry being transformed.
	LookupMiss
	// InvalidUsage is a call outside a function's narrow contract.
	InvalidUsage
	// UnsupportedConstruct is a class-file shape the rewrite pass has no rule for.
	UnsupportedConstruct
	// MissingResource is a requested archive entry that does not exist.
	MissingResource
)

// Sentinels usable with errors.Is against any *Error of the same kind.
var (
	ErrLookupMiss           error = kindSentinel(LookupMiss)
	ErrInvalidUsage         error = kindSentinel(InvalidUsage)
	ErrUnsupportedConstruct error = kindSentinel(UnsupportedConstruct)
	ErrMissingResource      error = kindSentinel(MissingResource)
)

type kindSentinel Kind

func (k kindSentinel) Error() string {
	return Kind(k).String()
}

// Error is a classified remapping failure. None of the kinds are retryable.
type Error struct {
	Kind Kind
	// Subject is the class, member or descriptor the error is about.
	Subject string
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// New creates an *Error with a formatted message.
func New(kind Kind, subject, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap classifies err under kind.
func Wrap(kind Kind, subject string, err error) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		Message: err.Error(),
		Err:     err,
	}
}

// Error implements error.
func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Subject, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(kindSentinel)
	return ok && Kind(k) == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}

	return 0, false
}
