package core

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for caller retry/escalation decisions.
// Only KindTransient is a retry candidate; every other kind is terminal
// for the current call.
type Kind string

// Failure kinds.
const (
	KindNotFound       Kind = "not_found"
	KindAccessDenied   Kind = "access_denied"
	KindValidation     Kind = "validation"
	KindQuotaExceeded  Kind = "quota_exceeded"
	KindSchemaMismatch Kind = "schema_mismatch"
	KindTransient      Kind = "transient"
	KindTimeout        Kind = "timeout"
	KindRemoteQuery    Kind = "remote_query"
)

// Error is the typed failure surfaced by all datacore components. It
// carries the operation, the identifier involved, and the underlying
// cause, so callers can decide what to do without string matching.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Op names the failing operation, e.g. "warehouse.run_query".
	Op string
	// Ref identifies the subject: a secret name, table, execution ID.
	Ref string
	// Err is the underlying cause, if any.
	Err error
}

// E constructs an Error. Ref may be empty when no identifier applies.
func E(kind Kind, op, ref string, err error) *Error {
	return &Error{Kind: kind, Op: op, Ref: ref, Err: err}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Ref != "" {
		msg += fmt.Sprintf(" (%s)", e.Ref)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain. Returns the
// empty kind for nil or untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// RefOf extracts the subject identifier from an error chain, e.g. the
// execution ID carried by a timeout.
func RefOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Ref
	}
	return ""
}

// IsNotFound reports whether err is a not_found failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsAccessDenied reports whether err is an access_denied failure.
func IsAccessDenied(err error) bool { return KindOf(err) == KindAccessDenied }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsQuotaExceeded reports whether err is a quota_exceeded failure.
func IsQuotaExceeded(err error) bool { return KindOf(err) == KindQuotaExceeded }

// IsSchemaMismatch reports whether err is a schema_mismatch failure.
func IsSchemaMismatch(err error) bool { return KindOf(err) == KindSchemaMismatch }

// IsTransient reports whether err is a transient failure the caller may
// retry with backoff.
func IsTransient(err error) bool { return KindOf(err) == KindTransient }

// IsTimeout reports whether err is a timeout failure.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsRemoteQuery reports whether err is a remote_query failure.
func IsRemoteQuery(err error) bool { return KindOf(err) == KindRemoteQuery }
