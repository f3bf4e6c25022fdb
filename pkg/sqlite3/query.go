package sqlite3

import (
	"iter"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// DataType identifies the storage class of a result column value.
type DataType int32

const (
	Integer DataType = lib.SQLITE_INTEGER
	Float   DataType = lib.SQLITE_FLOAT
	Text    DataType = lib.SQLITE_TEXT
	Blob    DataType = lib.SQLITE_BLOB
	Null    DataType = lib.SQLITE_NULL
)

func (t DataType) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case Text:
		return "TEXT"
	case Blob:
		return "BLOB"
	case Null:
		return "NULL"
	default:
		return "UNKNOWN"
	}
}

// Query is a Stmt specialized for reading rows. Next gives a clean
// loop condition; a step failure ends the loop and is recoverable from
// Err afterwards.
type Query struct {
	Stmt
	stepErr error
}

// Query prepares sql for row-by-row reading.
func (c *Conn) Query(sql string) (*Query, error) {
	q := &Query{}
	q.conn = c
	if err := q.Stmt.Prepare(sql); err != nil {
		return nil, err
	}
	return q, nil
}

// Next advances to the next result row. It returns false both at the end
// of the result set and on error; check Err after the loop to tell the
// two apart.
func (q *Query) Next() bool {
	has, err := q.Step()
	if err != nil {
		q.stepErr = err
		return false
	}
	return has
}

// Err returns the error that ended the most recent Next loop, if any.
func (q *Query) Err() error { return q.stepErr }

// Reset rewinds the query for re-execution and clears any retained step
// error.
func (q *Query) Reset() error {
	q.stepErr = nil
	return q.Stmt.Reset()
}

// ColumnCount returns the number of columns in the result set.
func (q *Query) ColumnCount() int {
	if q.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_column_count(q.conn.tls, q.stmt))
}

// ColumnName returns the name of the 0-based result column i, or "" when
// i is out of range.
func (q *Query) ColumnName(i int) string {
	if q.stmt == 0 || i < 0 || i >= q.ColumnCount() {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_column_name(q.conn.tls, q.stmt, int32(i)))
}

// ColumnIndex resolves a column name to its 0-based index.
func (q *Query) ColumnIndex(name string) (int, bool) {
	for i, n := 0, q.ColumnCount(); i < n; i++ {
		if q.ColumnName(i) == name {
			return i, true
		}
	}
	return 0, false
}

// DeclType returns the declared type of the 0-based result column i, or
// "" for expressions and out-of-range indexes.
func (q *Query) DeclType(i int) string {
	if q.stmt == 0 || i < 0 || i >= q.ColumnCount() {
		return ""
	}
	p := lib.Xsqlite3_column_decltype(q.conn.tls, q.stmt, int32(i))
	if p == 0 {
		return ""
	}
	return libc.GoString(p)
}

// Row reads column values from the query's current row. It is only
// valid between a true Next and the following Next, Reset or Finish.
func (q *Query) Row() Row { return Row{q: q} }

// Rows iterates over the remaining result rows. The retained step error,
// if any, is available from Err after the loop.
func (q *Query) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for q.Next() {
			if !yield(q.Row()) {
				return
			}
		}
	}
}

// Row is a view over the current result row of a Query.
type Row struct {
	q *Query
}

// Count returns the number of values in the current row.
func (r Row) Count() int {
	if r.q.stmt == 0 {
		return 0
	}
	return int(lib.Xsqlite3_data_count(r.q.conn.tls, r.q.stmt))
}

// ok reports whether i names a value of the current row. Accessors
// return zero values for anything else rather than hand the engine an
// out-of-range index.
func (r Row) ok(i int) bool {
	return r.q.stmt != 0 && i >= 0 && i < r.Count()
}

// Type returns the storage class of the 0-based column i. Out-of-range
// columns read as Null.
func (r Row) Type(i int) DataType {
	if !r.ok(i) {
		return Null
	}
	return DataType(lib.Xsqlite3_column_type(r.q.conn.tls, r.q.stmt, int32(i)))
}

// IsNull reports whether the 0-based column i holds NULL.
func (r Row) IsNull(i int) bool { return r.Type(i) == Null }

// Bytes returns the size in bytes of the text or blob in the 0-based
// column i.
func (r Row) Bytes(i int) int {
	if !r.ok(i) {
		return 0
	}
	return int(lib.Xsqlite3_column_bytes(r.q.conn.tls, r.q.stmt, int32(i)))
}

// Int reads the 0-based column i as an int.
func (r Row) Int(i int) int { return int(r.Int64(i)) }

// Int64 reads the 0-based column i as an int64.
func (r Row) Int64(i int) int64 {
	if !r.ok(i) {
		return 0
	}
	return lib.Xsqlite3_column_int64(r.q.conn.tls, r.q.stmt, int32(i))
}

// Bool reads the 0-based column i as a bool; any nonzero integer is
// true.
func (r Row) Bool(i int) bool { return r.Int64(i) != 0 }

// Float reads the 0-based column i as a float64.
func (r Row) Float(i int) float64 {
	if !r.ok(i) {
		return 0
	}
	return lib.Xsqlite3_column_double(r.q.conn.tls, r.q.stmt, int32(i))
}

// Text reads the 0-based column i as a string. NULL reads as "".
func (r Row) Text(i int) string {
	if !r.ok(i) {
		return ""
	}
	p := lib.Xsqlite3_column_text(r.q.conn.tls, r.q.stmt, int32(i))
	if p == 0 {
		return ""
	}
	return goStringN(p, r.Bytes(i))
}

// Blob reads the 0-based column i as a copied byte slice. NULL reads as
// nil.
func (r Row) Blob(i int) []byte {
	if !r.ok(i) {
		return nil
	}
	p := lib.Xsqlite3_column_blob(r.q.conn.tls, r.q.stmt, int32(i))
	if p == 0 {
		return nil
	}
	n := r.Bytes(i)
	out := make([]byte, n)
	copy(out, libc.GoBytes(p, n))
	return out
}

// GetInt reads a column by name; unknown names read as the zero value.
func (r Row) GetInt(name string) int {
	if i, ok := r.q.ColumnIndex(name); ok {
		return r.Int(i)
	}
	return 0
}

// GetInt64 reads a column by name; unknown names read as the zero value.
func (r Row) GetInt64(name string) int64 {
	if i, ok := r.q.ColumnIndex(name); ok {
		return r.Int64(i)
	}
	return 0
}

// GetBool reads a column by name; unknown names read as false.
func (r Row) GetBool(name string) bool {
	if i, ok := r.q.ColumnIndex(name); ok {
		return r.Bool(i)
	}
	return false
}

// GetFloat reads a column by name; unknown names read as the zero value.
func (r Row) GetFloat(name string) float64 {
	if i, ok := r.q.ColumnIndex(name); ok {
		return r.Float(i)
	}
	return 0
}

// GetText reads a column by name; unknown names read as "".
func (r Row) GetText(name string) string {
	if i, ok := r.q.ColumnIndex(name); ok {
		return r.Text(i)
	}
	return ""
}

// GetBlob reads a column by name; unknown names read as nil.
func (r Row) GetBlob(name string) []byte {
	if i, ok := r.q.ColumnIndex(name); ok {
		return r.Blob(i)
	}
	return nil
}
