package sqlite3

import (
	"sync"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// Hook closures registered on a Conn run synchronously and re-entrantly
// on the same call stack as the engine operation that triggered them.
// They must not operate on the connection's in-flight statement and must
// not assume isolation from it.

// BusyFunc decides whether a lock-contended operation retries. count is
// the number of prior invocations for the same contention; returning
// false makes the operation fail with a busy error.
type BusyFunc func(count int) bool

// CommitFunc runs before a transaction commits. Returning false converts
// the commit into a rollback.
type CommitFunc func() bool

// RollbackFunc runs whenever a transaction is rolled back.
type RollbackFunc func()

// UpdateFunc runs after a row is inserted, updated or deleted.
type UpdateFunc func(op Op, db, table string, rowid int64)

// AuthorizerFunc runs during statement compilation for each action the
// statement would perform. The meaning of the four string arguments
// depends on action; absent arguments are empty strings.
type AuthorizerFunc func(action Action, arg1, arg2, db, trigger string) AuthResult

// Op identifies the row operation reported by an update hook.
type Op int32

const (
	OpInsert Op = lib.SQLITE_INSERT
	OpDelete Op = lib.SQLITE_DELETE
	OpUpdate Op = lib.SQLITE_UPDATE
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "INSERT"
	case OpDelete:
		return "DELETE"
	case OpUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// Action identifies the operation an authorizer is asked to vet. The
// values are the engine's authorizer action codes; only the common ones
// are named here.
type Action int32

const (
	ActionCreateTable Action = lib.SQLITE_CREATE_TABLE
	ActionDelete      Action = lib.SQLITE_DELETE
	ActionDropTable   Action = lib.SQLITE_DROP_TABLE
	ActionInsert      Action = lib.SQLITE_INSERT
	ActionPragma      Action = lib.SQLITE_PRAGMA
	ActionRead        Action = lib.SQLITE_READ
	ActionSelect      Action = lib.SQLITE_SELECT
	ActionTransaction Action = lib.SQLITE_TRANSACTION
	ActionUpdate      Action = lib.SQLITE_UPDATE
	ActionAttach      Action = lib.SQLITE_ATTACH
	ActionDetach      Action = lib.SQLITE_DETACH
)

// AuthResult is an authorizer verdict.
type AuthResult int32

const (
	// AuthOK allows the action.
	AuthOK AuthResult = lib.SQLITE_OK
	// AuthDeny aborts compilation with an authorization error.
	AuthDeny AuthResult = lib.SQLITE_DENY
	// AuthIgnore disallows the specific action but lets compilation
	// continue (e.g. a denied column read compiles to NULL).
	AuthIgnore AuthResult = lib.SQLITE_IGNORE
)

// SetBusyHandler registers f to arbitrate lock contention, replacing any
// previous handler or busy timeout. A nil f removes the handler.
func (c *Conn) SetBusyHandler(f BusyFunc) error {
	if c.db == 0 {
		return errClosed
	}
	c.busyFunc = f
	if f == nil {
		return c.error(lib.Xsqlite3_busy_handler(c.tls, c.db, 0, 0))
	}
	return c.error(lib.Xsqlite3_busy_handler(c.tls, c.db, cFuncPointer(busyCallback), c.db))
}

func busyCallback(tls *libc.TLS, pArg uintptr, count int32) int32 {
	c := lookupConn(pArg)
	if c == nil || c.busyFunc == nil {
		return 0
	}
	if c.busyFunc(int(count)) {
		return 1
	}
	return 0
}

// SetCommitHook registers f to run before each commit, replacing any
// previous hook. A nil f removes the hook.
func (c *Conn) SetCommitHook(f CommitFunc) error {
	if c.db == 0 {
		return errClosed
	}
	c.commitFunc = f
	if f == nil {
		lib.Xsqlite3_commit_hook(c.tls, c.db, 0, 0)
		return nil
	}
	lib.Xsqlite3_commit_hook(c.tls, c.db, cFuncPointer(commitCallback), c.db)
	return nil
}

func commitCallback(tls *libc.TLS, pArg uintptr) int32 {
	c := lookupConn(pArg)
	if c == nil || c.commitFunc == nil {
		return 0
	}
	if c.commitFunc() {
		return 0
	}
	return 1
}

// SetRollbackHook registers f to run on each rollback, replacing any
// previous hook. A nil f removes the hook.
func (c *Conn) SetRollbackHook(f RollbackFunc) error {
	if c.db == 0 {
		return errClosed
	}
	c.rollbackFunc = f
	if f == nil {
		lib.Xsqlite3_rollback_hook(c.tls, c.db, 0, 0)
		return nil
	}
	lib.Xsqlite3_rollback_hook(c.tls, c.db, cFuncPointer(rollbackCallback), c.db)
	return nil
}

func rollbackCallback(tls *libc.TLS, pArg uintptr) {
	c := lookupConn(pArg)
	if c == nil || c.rollbackFunc == nil {
		return
	}
	c.rollbackFunc()
}

// SetUpdateHook registers f to run after each row change, replacing any
// previous hook. A nil f removes the hook.
func (c *Conn) SetUpdateHook(f UpdateFunc) error {
	if c.db == 0 {
		return errClosed
	}
	c.updateFunc = f
	if f == nil {
		lib.Xsqlite3_update_hook(c.tls, c.db, 0, 0)
		return nil
	}
	lib.Xsqlite3_update_hook(c.tls, c.db, cFuncPointer(updateCallback), c.db)
	return nil
}

func updateCallback(tls *libc.TLS, pArg uintptr, op int32, zDb, zTbl uintptr, rowid int64) {
	c := lookupConn(pArg)
	if c == nil || c.updateFunc == nil {
		return
	}
	c.updateFunc(Op(op), libc.GoString(zDb), libc.GoString(zTbl), rowid)
}

// SetAuthorizer registers f to vet statement compilation, replacing any
// previous authorizer. A nil f removes it.
func (c *Conn) SetAuthorizer(f AuthorizerFunc) error {
	if c.db == 0 {
		return errClosed
	}
	c.authorizerFunc = f
	if f == nil {
		return c.error(lib.Xsqlite3_set_authorizer(c.tls, c.db, 0, 0))
	}
	return c.error(lib.Xsqlite3_set_authorizer(c.tls, c.db, cFuncPointer(authorizerCallback), c.db))
}

func authorizerCallback(tls *libc.TLS, pArg uintptr, action int32, z1, z2, z3, z4 uintptr) int32 {
	c := lookupConn(pArg)
	if c == nil || c.authorizerFunc == nil {
		return int32(AuthOK)
	}
	verdict := c.authorizerFunc(Action(action),
		libc.GoString(z1), libc.GoString(z2), libc.GoString(z3), libc.GoString(z4))
	return int32(verdict)
}

// LogFunc receives engine diagnostics: the result code of the event and
// the engine's message.
type LogFunc func(code Code, msg string)

var (
	logMu   sync.Mutex
	logFunc LogFunc
)

// ConfigLog registers a process-wide error-log callback with the engine.
// There is exactly one owner at a time: a new registration replaces the
// previous one, and a nil f tears the registration down. The engine only
// accepts the registration before its first use, so ConfigLog must be
// called before any connection is opened; afterwards it fails with a
// misuse error.
func ConfigLog(f LogFunc) error {
	logMu.Lock()
	defer logMu.Unlock()

	tls := libc.NewTLS()
	defer tls.Close()

	var cb uintptr
	if f != nil {
		cb = cFuncPointer(logCallback)
	}
	varArgs := libc.NewVaList(cb, uintptr(0))
	if varArgs == 0 {
		return &Error{Code: CodeNoMem, Message: "cannot allocate memory"}
	}
	defer libc.Xfree(tls, varArgs)

	if rc := lib.Xsqlite3_config(tls, lib.SQLITE_CONFIG_LOG, varArgs); rc != lib.SQLITE_OK {
		return &Error{Code: Code(rc), Message: "config log rejected; register before the first Open"}
	}
	logFunc = f
	return nil
}

func logCallback(tls *libc.TLS, pArg uintptr, code int32, zMsg uintptr) {
	logMu.Lock()
	f := logFunc
	logMu.Unlock()
	if f != nil {
		f(Code(code), libc.GoString(zMsg))
	}
}
