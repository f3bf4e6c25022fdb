package sqlite3

import (
	"sync"
	"time"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// OpenFlags select the mode passed to sqlite3_open_v2.
type OpenFlags int32

const (
	OpenReadOnly     OpenFlags = lib.SQLITE_OPEN_READONLY
	OpenReadWrite    OpenFlags = lib.SQLITE_OPEN_READWRITE
	OpenCreate       OpenFlags = lib.SQLITE_OPEN_CREATE
	OpenURI          OpenFlags = lib.SQLITE_OPEN_URI
	OpenMemory       OpenFlags = lib.SQLITE_OPEN_MEMORY
	OpenNoMutex      OpenFlags = lib.SQLITE_OPEN_NOMUTEX
	OpenFullMutex    OpenFlags = lib.SQLITE_OPEN_FULLMUTEX
	OpenSharedCache  OpenFlags = lib.SQLITE_OPEN_SHAREDCACHE
	OpenPrivateCache OpenFlags = lib.SQLITE_OPEN_PRIVATECACHE
)

// SyncMode is the value of PRAGMA synchronous.
type SyncMode int

const (
	SyncOff SyncMode = iota
	SyncNormal
	SyncFull
	SyncExtra
)

func (m SyncMode) String() string {
	switch m {
	case SyncOff:
		return "OFF"
	case SyncNormal:
		return "NORMAL"
	case SyncFull:
		return "FULL"
	case SyncExtra:
		return "EXTRA"
	default:
		return "NORMAL"
	}
}

var initOnce sync.Once

func initlib(tls *libc.TLS) {
	initOnce.Do(func() {
		lib.Xsqlite3_initialize(tls)
	})
}

// conns maps native db handles back to their Conn so that engine
// callbacks (busy handler, hooks, authorizer) can reach the registered
// Go closures.
var conns sync.Map // uintptr -> *Conn

func lookupConn(db uintptr) *Conn {
	v, _ := conns.Load(db)
	c, _ := v.(*Conn)
	return c
}

// Conn owns one native database handle. A Conn is not safe for
// concurrent use; callers must serialize access to it and to every
// statement derived from it. A Conn must outlive its statements, and
// every statement must be finished before Close succeeds.
type Conn struct {
	tls *libc.TLS
	db  uintptr

	// Registered hook closures. The engine may invoke these at any time
	// during a call on this connection, so they are kept alive here for
	// as long as the engine-side registration stands.
	busyFunc       BusyFunc
	commitFunc     CommitFunc
	rollbackFunc   RollbackFunc
	updateFunc     UpdateFunc
	authorizerFunc AuthorizerFunc
}

// NewConn returns an unconnected Conn. Call Connect before use.
func NewConn() *Conn { return &Conn{} }

// Open opens a connection to the database at path, creating the file if
// needed. The path may be a filename, a "file:" URI (with OpenURI), or
// ":memory:" for a private in-memory database. With no flags the default
// OpenReadWrite|OpenCreate is used.
func Open(path string, flags ...OpenFlags) (*Conn, error) {
	var f OpenFlags
	for _, fl := range flags {
		f |= fl
	}
	if f == 0 {
		f = OpenReadWrite | OpenCreate
	}
	c := &Conn{}
	if err := c.Connect(path, f, ""); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect opens the database at path, closing any previously open handle
// first. vfs names an alternate virtual filesystem registered with the
// engine; the empty string selects the default.
func (c *Conn) Connect(path string, flags OpenFlags, vfs string) error {
	if err := c.Close(); err != nil {
		return err
	}

	tls := libc.NewTLS()
	initlib(tls)

	fail := func(err error) error {
		tls.Close()
		return err
	}

	cpath, err := libc.CString(path)
	if err != nil {
		return fail(err)
	}
	defer libc.Xfree(tls, cpath)

	var cvfs uintptr
	if vfs != "" {
		cvfs, err = libc.CString(vfs)
		if err != nil {
			return fail(err)
		}
		defer libc.Xfree(tls, cvfs)
	}

	dbPtr, err := malloc(tls, ptrSize)
	if err != nil {
		return fail(err)
	}
	defer libc.Xfree(tls, dbPtr)

	rc := lib.Xsqlite3_open_v2(tls, cpath, dbPtr, int32(flags), cvfs)
	db := derefPtr(dbPtr)
	if db == 0 {
		return fail(&Error{Code: CodeNoMem, Message: "cannot allocate database handle"})
	}
	if rc != lib.SQLITE_OK {
		// The engine may hand back a handle just to carry the error.
		err := &Error{Code: Code(rc), Message: libc.GoString(lib.Xsqlite3_errmsg(tls, db))}
		lib.Xsqlite3_close_v2(tls, db)
		return fail(err)
	}

	c.tls = tls
	c.db = db
	conns.Store(db, c)
	return nil
}

// IsConnected reports whether the Conn holds an open handle.
func (c *Conn) IsConnected() bool { return c.db != 0 }

// Close releases the native handle. It fails with a BUSY-class error if
// unfinished statements remain, leaving the connection open. Closing an
// already-closed Conn is a no-op.
func (c *Conn) Close() error {
	if c.db == 0 {
		return nil
	}
	if rc := lib.Xsqlite3_close(c.tls, c.db); rc != lib.SQLITE_OK {
		return c.error(rc)
	}
	conns.Delete(c.db)
	c.db = 0
	c.busyFunc = nil
	c.commitFunc = nil
	c.rollbackFunc = nil
	c.updateFunc = nil
	c.authorizerFunc = nil
	c.tls.Close()
	c.tls = nil
	return nil
}

// error translates a result code into an error carrying the engine's
// current message, or nil for SQLITE_OK.
func (c *Conn) error(rc int32) error {
	if rc == lib.SQLITE_OK {
		return nil
	}
	e := &Error{Code: Code(rc)}
	if c.db != 0 {
		e.Message = libc.GoString(lib.Xsqlite3_errmsg(c.tls, c.db))
	}
	return e
}

// Exec runs one or more SQL statements with no parameter binding and no
// result retrieval.
func (c *Conn) Exec(sql string) error {
	if c.db == 0 {
		return errClosed
	}
	csql, err := libc.CString(sql)
	if err != nil {
		return err
	}
	defer libc.Xfree(c.tls, csql)
	return c.error(lib.Xsqlite3_exec(c.tls, c.db, csql, 0, 0, 0))
}

// Execf formats SQL with the safe-quoting verbs understood by Mprintf
// and executes the result.
func (c *Conn) Execf(format string, args ...any) error {
	sql, err := Mprintf(format, args...)
	if err != nil {
		return err
	}
	return c.Exec(sql)
}

// Begin starts a deferred transaction.
func (c *Conn) Begin() error { return c.Exec("BEGIN") }

// BeginImmediate starts a transaction that takes the write lock up front.
func (c *Conn) BeginImmediate() error { return c.Exec("BEGIN IMMEDIATE") }

// Commit commits the current transaction.
func (c *Conn) Commit() error { return c.Exec("COMMIT") }

// Rollback aborts the current transaction.
func (c *Conn) Rollback() error { return c.Exec("ROLLBACK") }

// Attach attaches the database file at path under the schema name name.
func (c *Conn) Attach(path, name string) error {
	return c.Execf("ATTACH %Q AS %Q", path, name)
}

// Detach detaches a previously attached database.
func (c *Conn) Detach(name string) error {
	return c.Execf("DETACH %Q", name)
}

// LastInsertRowID returns the rowid of the most recent successful INSERT
// on this connection. Meaningful only immediately after a mutating call.
func (c *Conn) LastInsertRowID() int64 {
	if c.db == 0 {
		return 0
	}
	return lib.Xsqlite3_last_insert_rowid(c.tls, c.db)
}

// Changes returns the number of rows changed by the most recent
// statement.
func (c *Conn) Changes() int {
	if c.db == 0 {
		return 0
	}
	return int(lib.Xsqlite3_changes(c.tls, c.db))
}

// TotalChanges returns the number of rows changed since the connection
// was opened.
func (c *Conn) TotalChanges() int {
	if c.db == 0 {
		return 0
	}
	return int(lib.Xsqlite3_total_changes(c.tls, c.db))
}

// ErrCode returns the result code of the most recent failed call.
func (c *Conn) ErrCode() Code {
	if c.db == 0 {
		return CodeMisuse
	}
	return Code(lib.Xsqlite3_errcode(c.tls, c.db))
}

// ExtendedErrCode returns the extended result code of the most recent
// failed call.
func (c *Conn) ExtendedErrCode() Code {
	if c.db == 0 {
		return CodeMisuse
	}
	return Code(lib.Xsqlite3_extended_errcode(c.tls, c.db))
}

// ErrMsg returns the engine's message for the most recent failed call.
func (c *Conn) ErrMsg() string {
	if c.db == 0 {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_errmsg(c.tls, c.db))
}

// Filename returns the full path of the main database file, or "" for
// in-memory and temporary databases.
func (c *Conn) Filename() string {
	if c.db == 0 {
		return ""
	}
	cname, err := libc.CString("main")
	if err != nil {
		return ""
	}
	defer libc.Xfree(c.tls, cname)
	return libc.GoString(lib.Xsqlite3_db_filename(c.tls, c.db, cname))
}

// AutoCommit reports whether the connection is outside an explicit
// transaction.
func (c *Conn) AutoCommit() bool {
	if c.db == 0 {
		return true
	}
	return lib.Xsqlite3_get_autocommit(c.tls, c.db) != 0
}

// SetBusyTimeout installs the engine's built-in busy handler, which
// retries lock acquisition for up to d before surfacing a busy error.
// A non-positive d disables busy handling. Replaces any handler set with
// SetBusyHandler.
func (c *Conn) SetBusyTimeout(d time.Duration) error {
	if c.db == 0 {
		return errClosed
	}
	c.busyFunc = nil
	return c.error(lib.Xsqlite3_busy_timeout(c.tls, c.db, int32(d/time.Millisecond)))
}

// SetSynchronous sets PRAGMA synchronous for the main database.
func (c *Conn) SetSynchronous(mode SyncMode) error {
	return c.Exec("PRAGMA synchronous=" + mode.String())
}

// EnableForeignKeys turns foreign-key constraint enforcement on or off.
func (c *Conn) EnableForeignKeys(enable bool) error {
	return c.dbConfig(lib.SQLITE_DBCONFIG_ENABLE_FKEY, enable)
}

// EnableTriggers turns trigger execution on or off.
func (c *Conn) EnableTriggers(enable bool) error {
	return c.dbConfig(lib.SQLITE_DBCONFIG_ENABLE_TRIGGER, enable)
}

func (c *Conn) dbConfig(op int32, enable bool) error {
	if c.db == 0 {
		return errClosed
	}
	onoff := int32(0)
	if enable {
		onoff = 1
	}
	varArgs := libc.NewVaList(onoff, uintptr(0))
	if varArgs == 0 {
		return &Error{Code: CodeNoMem, Message: "cannot allocate memory"}
	}
	defer libc.Xfree(c.tls, varArgs)
	return c.error(lib.Xsqlite3_db_config(c.tls, c.db, op, varArgs))
}

// EnableExtendedResultCodes makes subsequent calls report extended
// result codes instead of primary ones.
func (c *Conn) EnableExtendedResultCodes(enable bool) error {
	if c.db == 0 {
		return errClosed
	}
	onoff := int32(0)
	if enable {
		onoff = 1
	}
	return c.error(lib.Xsqlite3_extended_result_codes(c.tls, c.db, onoff))
}

// IsThreadsafe reports whether the engine was built with its internal
// mutexes enabled.
func IsThreadsafe() bool {
	tls := libc.NewTLS()
	defer tls.Close()
	return lib.Xsqlite3_threadsafe(tls) != 0
}
