package lending

import (
	"errors"
	"fmt"
)

// Kind groups failures by how a caller should react to them
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindStateConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidInput:
		return "InvalidInput"
	case KindStateConflict:
		return "StateConflict"
	case KindStorage:
		return "StorageError"
	default:
		return "Unknown"
	}
}

// Code names one specific failure
type Code string

const (
	CodeBookNotFound             Code = "BookNotFound"
	CodeMemberNotFound           Code = "MemberNotFound"
	CodeUserNotFound             Code = "UserNotFound"
	CodeMemberInactive           Code = "MemberInactive"
	CodeBorrowLimitReached       Code = "BorrowLimitReached"
	CodeUnpaidFines              Code = "UnpaidFines"
	CodeBookUnavailable          Code = "BookUnavailable"
	CodeBookNotCurrentlyBorrowed Code = "BookNotCurrentlyBorrowed"
	CodeWrongBorrower            Code = "WrongBorrower"
	CodeNoMatchingBorrowRecord   Code = "NoMatchingBorrowRecord"
	CodeInvalidAmount            Code = "InvalidAmount"
	CodeOverpaymentRejected      Code = "OverpaymentRejected"
	CodeBookCurrentlyBorrowed    Code = "BookCurrentlyBorrowed"
	CodeMemberHasBorrowedBooks   Code = "MemberHasBorrowedBooks"
	CodeInvalidInput             Code = "InvalidInput"
	CodeStorageError             Code = "StorageError"
)

// Error is the failure returned by every Library operation.
// Msg is meant for the person at the desk; Err carries the backend cause, if any.
type Error struct {
	Kind Kind
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrBookNotFound             = &Error{Kind: KindNotFound, Code: CodeBookNotFound, Msg: "Book not found"}
	ErrMemberNotFound           = &Error{Kind: KindNotFound, Code: CodeMemberNotFound, Msg: "Member not found"}
	ErrUserNotFound             = &Error{Kind: KindNotFound, Code: CodeUserNotFound, Msg: "User not found"}
	ErrMemberInactive           = &Error{Kind: KindStateConflict, Code: CodeMemberInactive, Msg: "Member account is inactive"}
	ErrBorrowLimitReached       = &Error{Kind: KindStateConflict, Code: CodeBorrowLimitReached, Msg: "Member has reached maximum borrow limit"}
	ErrUnpaidFines              = &Error{Kind: KindStateConflict, Code: CodeUnpaidFines, Msg: "Member has unpaid fines"}
	ErrBookUnavailable          = &Error{Kind: KindStateConflict, Code: CodeBookUnavailable, Msg: "Book is already borrowed"}
	ErrBookNotCurrentlyBorrowed = &Error{Kind: KindStateConflict, Code: CodeBookNotCurrentlyBorrowed, Msg: "Book is not currently borrowed"}
	ErrWrongBorrower            = &Error{Kind: KindStateConflict, Code: CodeWrongBorrower, Msg: "This book was not borrowed by this member"}
	ErrNoMatchingBorrowRecord   = &Error{Kind: KindNotFound, Code: CodeNoMatchingBorrowRecord, Msg: "Borrow transaction not found"}
	ErrInvalidAmount            = &Error{Kind: KindInvalidInput, Code: CodeInvalidAmount, Msg: "Invalid payment amount"}
	ErrOverpaymentRejected      = &Error{Kind: KindStateConflict, Code: CodeOverpaymentRejected, Msg: "Payment amount exceeds fine amount"}
	ErrBookCurrentlyBorrowed    = &Error{Kind: KindStateConflict, Code: CodeBookCurrentlyBorrowed, Msg: "Cannot remove borrowed book"}
	ErrMemberHasBorrowedBooks   = &Error{Kind: KindStateConflict, Code: CodeMemberHasBorrowedBooks, Msg: "Cannot remove member with borrowed books"}
	ErrInvalidInput             = &Error{Kind: KindInvalidInput, Code: CodeInvalidInput, Msg: "Invalid input"}
	ErrStorage                  = &Error{Kind: KindStorage, Code: CodeStorageError, Msg: "Storage error"}
)

// fail returns a copy of sentinel, optionally with a more specific message
func fail(sentinel *Error, format string, args ...any) *Error {
	e := *sentinel
	if format != "" {
		e.Msg = fmt.Sprintf(format, args...)
	}
	return &e
}

func storageError(op string, err error) *Error {
	e := *ErrStorage
	e.Msg = "Failed to " + op
	e.Err = err
	return &e
}

// KindOf returns the kind of a Library error, or KindUnknown for anything else
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
