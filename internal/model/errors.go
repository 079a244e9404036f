package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so that callers and the transport layer can
// react to it without inspecting messages.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindConflict        ErrorKind = "conflict"
	KindAuthorization   ErrorKind = "authorization"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindNotFound        ErrorKind = "not_found"
	KindLedger          ErrorKind = "ledger"
	KindPersistence     ErrorKind = "persistence"
)

// Error is a typed domain error. Two errors are considered equal by errors.Is
// when their codes match, so sentinels survive WithMessage and Wrap.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

// Wrap returns a copy of e carrying the underlying cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// KindOf returns the kind of the first *Error in err's chain, or an empty kind.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the code of the first *Error in err's chain, or an empty string.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Store level facts.
var (
	ErrNotFound = newError(KindNotFound, "not_found", "not found")
)

// Identity errors.
var (
	ErrUserNotFound         = newError(KindNotFound, "user_not_found", "user not found")
	ErrDuplicateUsername    = newError(KindConflict, "duplicate_username", "username already exists")
	ErrDuplicateEmail       = newError(KindConflict, "duplicate_email", "email already registered")
	ErrDuplicateAddress     = newError(KindConflict, "duplicate_address", "address is linked to another user")
	ErrInvalidAddressFormat = newError(KindValidation, "invalid_address_format", "invalid wallet address")
	ErrInvalidCredential    = newError(KindUnauthenticated, "invalid_credential", "invalid username or password")
	ErrInvalidSession       = newError(KindUnauthenticated, "invalid_session", "invalid or expired session")
)

// Registry errors.
var (
	ErrParcelNotFound    = newError(KindNotFound, "parcel_not_found", "parcel not found")
	ErrDuplicateLedgerID = newError(KindConflict, "duplicate_ledger_id", "ledger id already registered")
	ErrNotOwner          = newError(KindAuthorization, "not_owner", "caller does not own the parcel")
	ErrInvalidInput      = newError(KindValidation, "invalid_input", "invalid input")
	ErrInvalidImage      = newError(KindValidation, "invalid_image", "unsupported image")
)

// Transfer rejection reasons.
var (
	ErrInvalidReference         = newError(KindValidation, "invalid_reference", "malformed ledger reference")
	ErrAlreadyOwner             = newError(KindConflict, "already_owner", "buyer already owns the parcel")
	ErrNotForSale               = newError(KindConflict, "not_for_sale", "parcel is not for sale")
	ErrDuplicateLedgerReference = newError(KindConflict, "duplicate_ledger_reference", "ledger reference already used")
	ErrTransferNotFound         = newError(KindNotFound, "transfer_not_found", "transfer not found")
	ErrLedgerTxNotFound         = newError(KindLedger, "ledger_not_found", "transaction not found on ledger")
	ErrLedgerTimeout            = newError(KindLedger, "ledger_timeout", "ledger did not confirm in time")
	ErrLedgerMismatch           = newError(KindLedger, "ledger_mismatch", "ledger transaction does not match the purchase")
	ErrLedgerUnavailable        = newError(KindLedger, "ledger_unavailable", "ledger is unavailable")
	ErrPersistence              = newError(KindPersistence, "persistence_failure", "failed to persist changes")
)
