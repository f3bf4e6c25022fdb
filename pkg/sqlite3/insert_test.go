package sqlite3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertReturnsRowID(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)"))

	in, err := c.Inserter("INSERT INTO t (name) VALUES (?)")
	require.NoError(t, err)
	defer in.Finish()

	var last int64
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, in.BindText(1, name, Copy))
		rowid, err := in.Insert()
		require.NoError(t, err)
		assert.Greater(t, rowid, last, "rowids increase across inserts")
		last = rowid
	}
	assert.Equal(t, int64(3), last)
}

func TestInsertConstraintFailure(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER UNIQUE)"))

	in, err := c.Inserter("INSERT INTO t VALUES (1)")
	require.NoError(t, err)
	defer in.Finish()

	_, err = in.Insert()
	require.NoError(t, err)

	// Insert resets on success, so the same statement runs again.
	_, err = in.Insert()
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsConstraint())
}

func TestInsertWithoutRowID(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (k TEXT PRIMARY KEY, v TEXT) WITHOUT ROWID"))

	in, err := c.Inserter("INSERT INTO t VALUES ('a', 'b')")
	require.NoError(t, err)
	defer in.Finish()

	_, err = in.Insert()
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsMisuse())
}

func TestInsertWithoutRowIDIgnoresStaleRowID(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec(`
		CREATE TABLE plain (x INTEGER);
		CREATE TABLE norow (k TEXT PRIMARY KEY, v TEXT) WITHOUT ROWID;
	`))

	// Leave a last-insert-rowid behind on the connection.
	require.NoError(t, c.Exec("INSERT INTO plain VALUES (1)"))
	require.Equal(t, int64(1), c.LastInsertRowID())

	in, err := c.Inserter("INSERT INTO norow VALUES ('a', 'b')")
	require.NoError(t, err)
	defer in.Finish()

	_, err = in.Insert()
	require.Error(t, err, "stale rowid from the earlier insert must not be reported")
	assert.True(t, ErrCode(err).IsMisuse())
}

func TestInsertExplicitNegativeRowID(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)"))

	in, err := c.Inserter("INSERT INTO t (id, v) VALUES (-5, 'x')")
	require.NoError(t, err)
	defer in.Finish()

	rowid, err := in.Insert()
	require.NoError(t, err)
	assert.Equal(t, int64(-5), rowid)
}
