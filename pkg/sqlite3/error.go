package sqlite3

import (
	"errors"
	"fmt"

	lib "modernc.org/sqlite/lib"
)

// Code is an engine result code. Zero means success; every other value
// identifies a failure class defined by the engine. When extended result
// codes are enabled, the low byte carries the primary code and the high
// bytes refine it.
type Code int32

// Primary result codes.
const (
	CodeOK         Code = lib.SQLITE_OK
	CodeError      Code = lib.SQLITE_ERROR
	CodeInternal   Code = lib.SQLITE_INTERNAL
	CodePerm       Code = lib.SQLITE_PERM
	CodeAbort      Code = lib.SQLITE_ABORT
	CodeBusy       Code = lib.SQLITE_BUSY
	CodeLocked     Code = lib.SQLITE_LOCKED
	CodeNoMem      Code = lib.SQLITE_NOMEM
	CodeReadOnly   Code = lib.SQLITE_READONLY
	CodeInterrupt  Code = lib.SQLITE_INTERRUPT
	CodeIOErr      Code = lib.SQLITE_IOERR
	CodeCorrupt    Code = lib.SQLITE_CORRUPT
	CodeNotFound   Code = lib.SQLITE_NOTFOUND
	CodeFull       Code = lib.SQLITE_FULL
	CodeCantOpen   Code = lib.SQLITE_CANTOPEN
	CodeProtocol   Code = lib.SQLITE_PROTOCOL
	CodeSchema     Code = lib.SQLITE_SCHEMA
	CodeTooBig     Code = lib.SQLITE_TOOBIG
	CodeConstraint Code = lib.SQLITE_CONSTRAINT
	CodeMismatch   Code = lib.SQLITE_MISMATCH
	CodeMisuse     Code = lib.SQLITE_MISUSE
	CodeNoLFS      Code = lib.SQLITE_NOLFS
	CodeAuth       Code = lib.SQLITE_AUTH
	CodeFormat     Code = lib.SQLITE_FORMAT
	CodeRange      Code = lib.SQLITE_RANGE
	CodeNotADB     Code = lib.SQLITE_NOTADB
	CodeRow        Code = lib.SQLITE_ROW
	CodeDone       Code = lib.SQLITE_DONE
)

// Primary strips any extended-result-code bits, leaving the primary code.
func (c Code) Primary() Code { return c & 0xff }

// IsBusy reports whether the code signals lock contention that may
// resolve on retry (SQLITE_BUSY or SQLITE_LOCKED).
func (c Code) IsBusy() bool {
	p := c.Primary()
	return p == CodeBusy || p == CodeLocked
}

// IsConstraint reports whether the code signals a schema-level rejection.
func (c Code) IsConstraint() bool { return c.Primary() == CodeConstraint }

// IsMisuse reports whether the code signals API use in an invalid state.
func (c Code) IsMisuse() bool { return c.Primary() == CodeMisuse }

// IsIOErr reports whether the code signals a filesystem-level failure.
func (c Code) IsIOErr() bool { return c.Primary() == CodeIOErr }

// IsCorrupt reports whether the code signals a persisted-store integrity
// failure (SQLITE_CORRUPT, SQLITE_FORMAT or SQLITE_NOTADB).
func (c Code) IsCorrupt() bool {
	p := c.Primary()
	return p == CodeCorrupt || p == CodeFormat || p == CodeNotADB
}

// IsRange reports whether the code signals an out-of-range column or
// parameter index.
func (c Code) IsRange() bool { return c.Primary() == CodeRange }

// String returns the engine constant name for the primary code.
func (c Code) String() string {
	switch c.Primary() {
	case CodeOK:
		return "SQLITE_OK"
	case CodeError:
		return "SQLITE_ERROR"
	case CodeInternal:
		return "SQLITE_INTERNAL"
	case CodePerm:
		return "SQLITE_PERM"
	case CodeAbort:
		return "SQLITE_ABORT"
	case CodeBusy:
		return "SQLITE_BUSY"
	case CodeLocked:
		return "SQLITE_LOCKED"
	case CodeNoMem:
		return "SQLITE_NOMEM"
	case CodeReadOnly:
		return "SQLITE_READONLY"
	case CodeInterrupt:
		return "SQLITE_INTERRUPT"
	case CodeIOErr:
		return "SQLITE_IOERR"
	case CodeCorrupt:
		return "SQLITE_CORRUPT"
	case CodeNotFound:
		return "SQLITE_NOTFOUND"
	case CodeFull:
		return "SQLITE_FULL"
	case CodeCantOpen:
		return "SQLITE_CANTOPEN"
	case CodeProtocol:
		return "SQLITE_PROTOCOL"
	case CodeSchema:
		return "SQLITE_SCHEMA"
	case CodeTooBig:
		return "SQLITE_TOOBIG"
	case CodeConstraint:
		return "SQLITE_CONSTRAINT"
	case CodeMismatch:
		return "SQLITE_MISMATCH"
	case CodeMisuse:
		return "SQLITE_MISUSE"
	case CodeNoLFS:
		return "SQLITE_NOLFS"
	case CodeAuth:
		return "SQLITE_AUTH"
	case CodeFormat:
		return "SQLITE_FORMAT"
	case CodeRange:
		return "SQLITE_RANGE"
	case CodeNotADB:
		return "SQLITE_NOTADB"
	case CodeRow:
		return "SQLITE_ROW"
	case CodeDone:
		return "SQLITE_DONE"
	default:
		return fmt.Sprintf("Code(%d)", int32(c))
	}
}

// Error is the error type returned by every fallible operation in this
// package. Code is the engine result code; Message is the engine's error
// message when one was available, or a description supplied by the
// binding.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "sqlite3: " + e.Code.String()
	}
	return fmt.Sprintf("sqlite3: %s (%s)", e.Message, e.Code)
}

// ErrCode extracts the engine code from err. It returns CodeError for a
// non-nil error that is not an *Error, and CodeOK for nil.
func ErrCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeError
}

// Common misuse errors reported by the binding itself, before any engine
// call is made.
var (
	errClosed      = &Error{Code: CodeMisuse, Message: "connection is not open"}
	errNotPrepared = &Error{Code: CodeMisuse, Message: "statement is not prepared"}
)
