// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package waerror defines the structured error type shared by the codec and
// the thin connection layer that sits on top of it. Every error carries a
// short description, an optional underlying cause, and the call site that
// raised it, mirroring the error values the protocol's reference
// implementation returns across its decode/encode boundary.
package waerror

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind enumerates the taxonomy of errors the codec can raise. Kind does not
// replace Go's error chain; it is attached to an Error so that callers can
// switch on the failure category without string matching.
type Kind int

// The error kinds named in the codec's contract.
const (
	// KindOther covers codec-external failures (e.g. a dialer or I/O error)
	// that are wrapped without being reclassified.
	KindOther Kind = iota
	KindUnexpectedEnd
	KindInvalidToken
	KindInvalidNode
	KindInvalidJIDType
	KindNonStringKey
	KindInvalidUTF8
	KindDecompressFailed
	KindLengthOverflow
	KindPackedAlphabetViolation
	KindAttributeMismatch
	KindAttributeParseFailure
	KindAttributeMissing
	KindInvalidJIDFormat
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedEnd:
		return "unexpected end of buffer"
	case KindInvalidToken:
		return "invalid token"
	case KindInvalidNode:
		return "invalid node"
	case KindInvalidJIDType:
		return "invalid JID type"
	case KindNonStringKey:
		return "non-string key"
	case KindInvalidUTF8:
		return "invalid UTF-8"
	case KindDecompressFailed:
		return "decompression failed"
	case KindLengthOverflow:
		return "length overflow"
	case KindPackedAlphabetViolation:
		return "packed alphabet violation"
	case KindAttributeMismatch:
		return "attribute type mismatch"
	case KindAttributeParseFailure:
		return "attribute parse failure"
	case KindAttributeMissing:
		return "attribute missing"
	case KindInvalidJIDFormat:
		return "invalid JID format"
	default:
		return "error"
	}
}

// Error is the structured error value returned across the codec's boundary.
// It records a human-readable description, the cause that was wrapped (if
// any), and the source location that raised it. The zero value is not
// usable; construct one with New or Wrap.
type Error struct {
	Kind        Kind
	Description string
	cause       error
	stack       error // carries pkg/errors' captured stack/location
}

// New builds an Error of the given kind with no further cause. The call
// site is captured via github.com/pkg/errors so that the location survives
// into logs even after repeated wrapping.
func New(kind Kind, description string) *Error {
	return &Error{
		Kind:        kind,
		Description: description,
		stack:       errors.New(description),
	}
}

// Wrap builds an Error of the given kind that chains cause as the
// underlying error. If cause is nil, Wrap behaves like New.
func Wrap(kind Kind, cause error, description string) *Error {
	if cause == nil {
		return New(kind, description)
	}
	return &Error{
		Kind:        kind,
		Description: description,
		cause:       cause,
		stack:       errors.Wrap(cause, description),
	}
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Description, e.cause.Error())
	}
	return e.Description
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Location renders the call stack captured by pkg/errors at the point the
// error was created, giving the same "description / cause / location" shape
// the reference implementation's error type carries.
func (e *Error) Location() string {
	return fmt.Sprintf("%+v", e.stack)
}

// Is reports whether the first *Error in err's chain (err itself, if it is
// one) has the given kind. Errors of other kinds wrapped deeper in the
// chain are not examined.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// AggregateError collects the errors an AttrGetter accumulates while
// extracting multiple attributes from the same node, so a caller can keep
// pulling attributes after the first failure and inspect every failure at
// once instead of bailing out on the first one.
type AggregateError struct {
	Errors []error
}

func (a *AggregateError) Error() string {
	if len(a.Errors) == 1 {
		return a.Errors[0].Error()
	}
	msgs := make([]string, len(a.Errors))
	for i, err := range a.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d attribute error(s): [%s]", len(a.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes every accumulated error to errors.Is/errors.As (Go 1.20+
// multi-error unwrapping).
func (a *AggregateError) Unwrap() []error {
	return a.Errors
}
