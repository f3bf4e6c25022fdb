package sqlite3

import (
	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// CopySemantic declares who owns the backing storage of a bound text or
// blob value.
type CopySemantic int

const (
	// Copy hands the engine a private heap copy which it frees itself;
	// the caller's value may change or disappear immediately after the
	// bind call.
	Copy CopySemantic = iota

	// NoCopy pins a single allocation on the statement for the
	// statement's remaining lifetime, and the engine references it
	// without copying. Cheaper for values rebound across many resets;
	// the allocation is only released by Finish or a re-Prepare.
	NoCopy
)

// Stmt owns one compiled statement tied to a Conn. The Conn must outlive
// the Stmt, and the Stmt must be finished before the Conn can close.
//
// A Stmt moves through the states unprepared -> prepared -> (rows) ->
// done; a failed Step leaves it in an error state that only Reset or
// Finish clears. The engine enforces these transitions and reports
// violations as misuse errors.
type Stmt struct {
	conn *Conn
	stmt uintptr
	tail string

	// C allocations bound with NoCopy, released on Finish/re-Prepare.
	pinned []uintptr
}

// Prepare compiles the first statement in sql and returns a Stmt bound
// to c. Any unconsumed text after the first statement is available via
// Tail. Preparing a blank or comment-only string yields a Stmt with no
// compiled handle; stepping it is a misuse error.
func (c *Conn) Prepare(sql string) (*Stmt, error) {
	s := &Stmt{conn: c}
	if err := s.Prepare(sql); err != nil {
		return nil, err
	}
	return s, nil
}

// Prepare recompiles the statement from sql, finalizing any previously
// compiled handle first.
func (s *Stmt) Prepare(sql string) error {
	if err := s.Finish(); err != nil {
		return err
	}
	c := s.conn
	if c == nil || c.db == 0 {
		return errClosed
	}

	csql, err := libc.CString(sql)
	if err != nil {
		return err
	}
	defer libc.Xfree(c.tls, csql)

	stmtPtr, err := malloc(c.tls, ptrSize)
	if err != nil {
		return err
	}
	defer libc.Xfree(c.tls, stmtPtr)
	tailPtr, err := malloc(c.tls, ptrSize)
	if err != nil {
		return err
	}
	defer libc.Xfree(c.tls, tailPtr)

	if rc := lib.Xsqlite3_prepare_v2(c.tls, c.db, csql, -1, stmtPtr, tailPtr); rc != lib.SQLITE_OK {
		return c.error(rc)
	}

	s.stmt = derefPtr(stmtPtr)
	s.tail = ""
	if ctail := derefPtr(tailPtr); ctail != 0 {
		if off := int(ctail - csql); off >= 0 && off < len(sql) {
			s.tail = sql[off:]
		}
	}
	return nil
}

// Tail returns the unconsumed SQL text left over after the most recent
// successful Prepare.
func (s *Stmt) Tail() string { return s.tail }

// Conn returns the connection this statement is tied to.
func (s *Stmt) Conn() *Conn { return s.conn }

// IsPrepared reports whether the statement holds a compiled handle.
func (s *Stmt) IsPrepared() bool { return s.stmt != 0 }

// Finish releases the compiled handle and any pinned bind storage. It is
// safe to call any number of times.
func (s *Stmt) Finish() error {
	var rc int32
	if s.stmt != 0 {
		if s.conn == nil || s.conn.tls == nil {
			s.stmt = 0
			s.pinned = nil
			return errClosed
		}
		rc = lib.Xsqlite3_finalize(s.conn.tls, s.stmt)
		s.stmt = 0
		s.tail = ""
	}
	s.freePinned()
	if rc != lib.SQLITE_OK {
		return s.conn.error(rc)
	}
	return nil
}

func (s *Stmt) freePinned() {
	if s.conn == nil || s.conn.tls == nil {
		s.pinned = nil
		return
	}
	for _, p := range s.pinned {
		libc.Xfree(s.conn.tls, p)
	}
	s.pinned = nil
}

// handle validates the statement and connection state before an engine
// call, returning the compiled handle.
func (s *Stmt) handle() (uintptr, error) {
	if s.conn == nil || s.conn.db == 0 {
		return 0, errClosed
	}
	if s.stmt == 0 {
		return 0, errNotPrepared
	}
	return s.stmt, nil
}

// Step advances execution by one unit. It returns (true, nil) when a
// result row is available, (false, nil) on completion, and an error
// otherwise. After an error the statement stays in an error state until
// Reset or Finish.
func (s *Stmt) Step() (bool, error) {
	st, err := s.handle()
	if err != nil {
		return false, err
	}
	switch rc := lib.Xsqlite3_step(s.conn.tls, st); Code(rc).Primary() {
	case CodeRow:
		return true, nil
	case CodeDone:
		return false, nil
	default:
		return false, s.conn.error(rc)
	}
}

// Exec steps the statement to completion, discarding any result rows.
func (s *Stmt) Exec() error {
	for {
		has, err := s.Step()
		if err != nil {
			return err
		}
		if !has {
			return nil
		}
	}
}

// Reset rewinds the statement to its pre-execution state. Bound
// parameter values are retained.
func (s *Stmt) Reset() error {
	st, err := s.handle()
	if err != nil {
		return err
	}
	return s.conn.error(lib.Xsqlite3_reset(s.conn.tls, st))
}

// ClearBindings unbinds every parameter; each reads as NULL until
// rebound.
func (s *Stmt) ClearBindings() error {
	st, err := s.handle()
	if err != nil {
		return err
	}
	return s.conn.error(lib.Xsqlite3_clear_bindings(s.conn.tls, st))
}

// BindParameterCount returns the number of SQL parameters in the
// statement.
func (s *Stmt) BindParameterCount() int {
	if s.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_bind_parameter_count(s.conn.tls, s.stmt))
}

// BindIndex resolves a named parameter (":name", "@name" or "$name",
// spelled with its prefix) to its 1-based index. Unmatched names yield a
// range-class error.
func (s *Stmt) BindIndex(name string) (int, error) {
	st, err := s.handle()
	if err != nil {
		return 0, err
	}
	cname, err := libc.CString(name)
	if err != nil {
		return 0, err
	}
	defer libc.Xfree(s.conn.tls, cname)
	i := lib.Xsqlite3_bind_parameter_index(s.conn.tls, st, cname)
	if i == 0 {
		return 0, &Error{Code: CodeRange, Message: "no such parameter: " + name}
	}
	return int(i), nil
}

// SQL returns the text the statement was compiled from.
func (s *Stmt) SQL() string {
	if s.stmt == 0 {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_sql(s.conn.tls, s.stmt))
}

// ErrMsg returns the connection's message for the most recent failure.
func (s *Stmt) ErrMsg() string {
	if s.conn == nil {
		return ""
	}
	return s.conn.ErrMsg()
}

// BindNull binds NULL to the 1-based parameter i.
func (s *Stmt) BindNull(i int) error {
	st, err := s.handle()
	if err != nil {
		return err
	}
	return s.conn.error(lib.Xsqlite3_bind_null(s.conn.tls, st, int32(i)))
}

// BindInt binds an int to the 1-based parameter i.
func (s *Stmt) BindInt(i int, v int) error {
	return s.BindInt64(i, int64(v))
}

// BindInt64 binds an int64 to the 1-based parameter i.
func (s *Stmt) BindInt64(i int, v int64) error {
	st, err := s.handle()
	if err != nil {
		return err
	}
	return s.conn.error(lib.Xsqlite3_bind_int64(s.conn.tls, st, int32(i), v))
}

// BindBool binds a bool as integer 0 or 1 to the 1-based parameter i.
func (s *Stmt) BindBool(i int, v bool) error {
	n := int64(0)
	if v {
		n = 1
	}
	return s.BindInt64(i, n)
}

// BindFloat binds a float64 to the 1-based parameter i.
func (s *Stmt) BindFloat(i int, v float64) error {
	st, err := s.handle()
	if err != nil {
		return err
	}
	return s.conn.error(lib.Xsqlite3_bind_double(s.conn.tls, st, int32(i), v))
}

// BindText binds a string to the 1-based parameter i under the given
// copy semantic.
func (s *Stmt) BindText(i int, v string, sem CopySemantic) error {
	st, err := s.handle()
	if err != nil {
		return err
	}
	if len(v) == 0 {
		return s.conn.error(lib.Xsqlite3_bind_text(s.conn.tls, st, int32(i), emptyCString, 0, sqliteStatic))
	}
	p, err := allocString(s.conn.tls, v)
	if err != nil {
		return err
	}
	destructor := freeFuncPtr
	if sem == NoCopy {
		s.pinned = append(s.pinned, p)
		destructor = sqliteStatic
	}
	return s.conn.error(lib.Xsqlite3_bind_text(s.conn.tls, st, int32(i), p, int32(len(v)), destructor))
}

// BindBlob binds a byte slice to the 1-based parameter i under the given
// copy semantic. A nil slice binds NULL.
func (s *Stmt) BindBlob(i int, v []byte, sem CopySemantic) error {
	st, err := s.handle()
	if err != nil {
		return err
	}
	if v == nil {
		return s.BindNull(i)
	}
	if len(v) == 0 {
		return s.conn.error(lib.Xsqlite3_bind_blob(s.conn.tls, st, int32(i), emptyCString, 0, sqliteStatic))
	}
	p, err := allocBytes(s.conn.tls, v)
	if err != nil {
		return err
	}
	destructor := freeFuncPtr
	if sem == NoCopy {
		s.pinned = append(s.pinned, p)
		destructor = sqliteStatic
	}
	return s.conn.error(lib.Xsqlite3_bind_blob(s.conn.tls, st, int32(i), p, int32(len(v)), destructor))
}

// SetNull binds NULL to a named parameter.
func (s *Stmt) SetNull(name string) error {
	i, err := s.BindIndex(name)
	if err != nil {
		return err
	}
	return s.BindNull(i)
}

// SetInt binds an int to a named parameter.
func (s *Stmt) SetInt(name string, v int) error {
	i, err := s.BindIndex(name)
	if err != nil {
		return err
	}
	return s.BindInt(i, v)
}

// SetInt64 binds an int64 to a named parameter.
func (s *Stmt) SetInt64(name string, v int64) error {
	i, err := s.BindIndex(name)
	if err != nil {
		return err
	}
	return s.BindInt64(i, v)
}

// SetBool binds a bool to a named parameter.
func (s *Stmt) SetBool(name string, v bool) error {
	i, err := s.BindIndex(name)
	if err != nil {
		return err
	}
	return s.BindBool(i, v)
}

// SetFloat binds a float64 to a named parameter.
func (s *Stmt) SetFloat(name string, v float64) error {
	i, err := s.BindIndex(name)
	if err != nil {
		return err
	}
	return s.BindFloat(i, v)
}

// SetText binds a string to a named parameter.
func (s *Stmt) SetText(name, v string, sem CopySemantic) error {
	i, err := s.BindIndex(name)
	if err != nil {
		return err
	}
	return s.BindText(i, v, sem)
}

// SetBlob binds a byte slice to a named parameter.
func (s *Stmt) SetBlob(name string, v []byte, sem CopySemantic) error {
	i, err := s.BindIndex(name)
	if err != nil {
		return err
	}
	return s.BindBlob(i, v, sem)
}
