package sqlite3

import lib "modernc.org/sqlite/lib"

// Insert is a Stmt specialized for INSERT (and other rowid-producing)
// statements: Insert executes one round and reports the new rowid.
type Insert struct {
	Stmt
}

// Inserter prepares sql as an Insert.
func (c *Conn) Inserter(sql string) (*Insert, error) {
	in := &Insert{}
	in.conn = c
	if err := in.Stmt.Prepare(sql); err != nil {
		return nil, err
	}
	return in, nil
}

// Insert executes the statement once and returns the rowid of the
// inserted row. A statement that completes without producing a rowid
// (for example on a WITHOUT ROWID table) is a misuse error. On success
// the statement is reset so that it can be rebound and run again.
//
// The connection's last-insert-rowid is cleared before stepping, so a
// value left behind by an earlier INSERT is never reported. A row whose
// rowid is explicitly 0 is indistinguishable from no rowid at all and
// reads as the misuse error.
func (in *Insert) Insert() (int64, error) {
	c := in.conn
	if c == nil || c.db == 0 {
		return 0, errClosed
	}
	lib.Xsqlite3_set_last_insert_rowid(c.tls, c.db, 0)
	if err := in.Exec(); err != nil {
		return 0, err
	}
	rowid := c.LastInsertRowID()
	if rowid == 0 {
		return 0, &Error{Code: CodeMisuse, Message: "statement did not produce a rowid"}
	}
	if err := in.Reset(); err != nil {
		return 0, err
	}
	return rowid, nil
}
