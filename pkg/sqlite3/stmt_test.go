package sqlite3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareAndStep(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER)"))

	s, err := c.Prepare("INSERT INTO t VALUES (?)")
	require.NoError(t, err)
	defer s.Finish()

	assert.True(t, s.IsPrepared())
	assert.Equal(t, 1, s.BindParameterCount())
	assert.Equal(t, "INSERT INTO t VALUES (?)", s.SQL())

	require.NoError(t, s.BindInt(1, 7))
	has, err := s.Step()
	require.NoError(t, err)
	assert.False(t, has, "INSERT yields no rows")
	assert.Equal(t, int64(1), c.LastInsertRowID())
}

func TestPrepareSyntaxError(t *testing.T) {
	c := testConn(t)
	_, err := c.Prepare("SELEC 1")
	require.Error(t, err)
	assert.Equal(t, CodeError, ErrCode(err).Primary())
}

func TestPrepareTail(t *testing.T) {
	c := testConn(t)
	s, err := c.Prepare("SELECT 1; SELECT 2")
	require.NoError(t, err)
	defer s.Finish()
	assert.Equal(t, "SELECT 2", strings.TrimSpace(s.Tail()))
}

func TestPrepareWhitespaceOnly(t *testing.T) {
	c := testConn(t)
	s, err := c.Prepare("  -- just a comment\n")
	require.NoError(t, err)
	defer s.Finish()
	assert.False(t, s.IsPrepared())

	_, err = s.Step()
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsMisuse())
}

func TestStepUnprepared(t *testing.T) {
	s := &Stmt{conn: testConn(t)}
	_, err := s.Step()
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsMisuse())
}

func TestRePrepare(t *testing.T) {
	c := testConn(t)
	s, err := c.Prepare("SELECT 1")
	require.NoError(t, err)
	defer s.Finish()

	require.NoError(t, s.Prepare("SELECT 2"))
	assert.Equal(t, "SELECT 2", s.SQL())
	has, err := s.Step()
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBindPositional(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (i INTEGER, f REAL, s TEXT, b BLOB, n INTEGER, z INTEGER)"))

	s, err := c.Prepare("INSERT INTO t VALUES (?, ?, ?, ?, ?, ?)")
	require.NoError(t, err)
	defer s.Finish()

	require.NoError(t, s.BindInt64(1, 42))
	require.NoError(t, s.BindFloat(2, 3.5))
	require.NoError(t, s.BindText(3, "hello", Copy))
	require.NoError(t, s.BindBlob(4, []byte{0xde, 0xad}, Copy))
	require.NoError(t, s.BindNull(5))
	require.NoError(t, s.BindBool(6, true))
	require.NoError(t, s.Exec())

	q, err := c.Query("SELECT i, f, s, b, n, z FROM t")
	require.NoError(t, err)
	defer q.Finish()
	require.True(t, q.Next())

	row := q.Row()
	assert.Equal(t, int64(42), row.Int64(0))
	assert.Equal(t, 3.5, row.Float(1))
	assert.Equal(t, "hello", row.Text(2))
	assert.Equal(t, []byte{0xde, 0xad}, row.Blob(3))
	assert.True(t, row.IsNull(4))
	assert.True(t, row.Bool(5))
}

func TestBindNamed(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (a INTEGER, b TEXT)"))

	s, err := c.Prepare("INSERT INTO t VALUES (:a, :b)")
	require.NoError(t, err)
	defer s.Finish()

	i, err := s.BindIndex(":a")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	require.NoError(t, s.SetInt64(":a", 9))
	require.NoError(t, s.SetText(":b", "nine", Copy))
	require.NoError(t, s.Exec())

	q, err := c.Query("SELECT a, b FROM t")
	require.NoError(t, err)
	defer q.Finish()
	require.True(t, q.Next())
	assert.Equal(t, int64(9), q.Row().Int64(0))
	assert.Equal(t, "nine", q.Row().Text(1))
}

func TestBindIndexUnknownName(t *testing.T) {
	c := testConn(t)
	s, err := c.Prepare("SELECT :a")
	require.NoError(t, err)
	defer s.Finish()

	_, err = s.BindIndex(":nope")
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsRange())
	assert.Contains(t, err.Error(), ":nope")
}

func TestBindOutOfRange(t *testing.T) {
	c := testConn(t)
	s, err := c.Prepare("SELECT ?")
	require.NoError(t, err)
	defer s.Finish()

	err = s.BindInt(2, 1)
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsRange())
}

func TestBindNoCopySurvivesResets(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (s TEXT)"))

	s, err := c.Prepare("INSERT INTO t VALUES (?)")
	require.NoError(t, err)
	defer s.Finish()

	require.NoError(t, s.BindText(1, "pinned", NoCopy))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Exec())
		require.NoError(t, s.Reset())
	}

	q, err := c.Query("SELECT count(*), min(s), max(s) FROM t")
	require.NoError(t, err)
	defer q.Finish()
	require.True(t, q.Next())
	assert.Equal(t, 3, q.Row().Int(0))
	assert.Equal(t, "pinned", q.Row().Text(1))
	assert.Equal(t, "pinned", q.Row().Text(2))
}

func TestBindBlobNil(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (b BLOB)"))

	s, err := c.Prepare("INSERT INTO t VALUES (?)")
	require.NoError(t, err)
	defer s.Finish()

	require.NoError(t, s.BindBlob(1, nil, Copy))
	require.NoError(t, s.Exec())
	require.NoError(t, s.Reset())
	require.NoError(t, s.BindBlob(1, []byte{}, Copy))
	require.NoError(t, s.Exec())

	q, err := c.Query("SELECT b FROM t ORDER BY rowid")
	require.NoError(t, err)
	defer q.Finish()
	require.True(t, q.Next())
	assert.True(t, q.Row().IsNull(0), "nil slice binds NULL")
	require.True(t, q.Next())
	assert.False(t, q.Row().IsNull(0), "empty slice binds a zero-length blob")
	assert.Equal(t, 0, q.Row().Bytes(0))
}

func TestRebindOverwrites(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER)"))

	s, err := c.Prepare("INSERT INTO t VALUES (?)")
	require.NoError(t, err)
	defer s.Finish()

	require.NoError(t, s.BindInt(1, 1))
	require.NoError(t, s.BindInt(1, 2))
	require.NoError(t, s.Exec())

	q, err := c.Query("SELECT x FROM t")
	require.NoError(t, err)
	defer q.Finish()
	require.True(t, q.Next())
	assert.Equal(t, 2, q.Row().Int(0), "latest binding wins")
}

func TestClearBindings(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER)"))

	s, err := c.Prepare("INSERT INTO t VALUES (?)")
	require.NoError(t, err)
	defer s.Finish()

	require.NoError(t, s.BindInt(1, 5))
	require.NoError(t, s.Exec())
	require.NoError(t, s.Reset())
	require.NoError(t, s.ClearBindings())
	require.NoError(t, s.Exec())

	q, err := c.Query("SELECT x FROM t ORDER BY rowid")
	require.NoError(t, err)
	defer q.Finish()
	require.True(t, q.Next())
	assert.Equal(t, 5, q.Row().Int(0))
	require.True(t, q.Next())
	assert.True(t, q.Row().IsNull(0))
}

func TestFinishIdempotent(t *testing.T) {
	c := testConn(t)
	s, err := c.Prepare("SELECT 1")
	require.NoError(t, err)

	require.NoError(t, s.Finish())
	require.NoError(t, s.Finish())
	assert.False(t, s.IsPrepared())
}

func TestConstraintViolation(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER UNIQUE)"))
	require.NoError(t, c.Exec("INSERT INTO t VALUES (1)"))

	s, err := c.Prepare("INSERT INTO t VALUES (1)")
	require.NoError(t, err)
	defer s.Finish()

	err = s.Exec()
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsConstraint())
}
