package sqlite3

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConn(t *testing.T) *Conn {
	t.Helper()
	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenInMemory(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	assert.True(t, c.IsConnected())

	require.NoError(t, c.Close())
	assert.False(t, c.IsConnected())
	assert.NoError(t, c.Close(), "second close is a no-op")
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER)"))
	assert.Contains(t, c.Filename(), "test.db")
	require.NoError(t, c.Close())

	ro, err := Open(path, OpenReadOnly)
	require.NoError(t, err)
	defer ro.Close()

	err = ro.Exec("INSERT INTO t VALUES (1)")
	require.Error(t, err)
	assert.Equal(t, CodeReadOnly, ErrCode(err).Primary())
}

func TestOpenMissingFileReadOnly(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"), OpenReadOnly)
	require.Error(t, err)
	assert.Equal(t, CodeCantOpen, ErrCode(err).Primary())
}

func TestConnectReplacesHandle(t *testing.T) {
	c := NewConn()
	assert.False(t, c.IsConnected())

	require.NoError(t, c.Connect(":memory:", OpenReadWrite|OpenCreate, ""))
	require.NoError(t, c.Exec("CREATE TABLE a (x)"))

	// Connecting again closes the previous database.
	require.NoError(t, c.Connect(":memory:", OpenReadWrite|OpenCreate, ""))
	err := c.Exec("SELECT * FROM a")
	require.Error(t, err)
	require.NoError(t, c.Close())
}

func TestExecOnClosedConn(t *testing.T) {
	c := NewConn()
	err := c.Exec("SELECT 1")
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsMisuse())
}

func TestExecf(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (name TEXT)"))
	require.NoError(t, c.Execf("INSERT INTO t VALUES (%Q)", "O'Brien"))

	q, err := c.Query("SELECT name FROM t")
	require.NoError(t, err)
	defer q.Finish()
	require.True(t, q.Next())
	assert.Equal(t, "O'Brien", q.Row().Text(0))
}

func TestCloseWithLiveStatement(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)

	s, err := c.Prepare("SELECT 1")
	require.NoError(t, err)

	err = c.Close()
	require.Error(t, err, "close must fail while a statement is live")
	assert.True(t, c.IsConnected())

	require.NoError(t, s.Finish())
	require.NoError(t, c.Close())
}

func TestLastInsertRowIDAndChanges(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER)"))

	require.NoError(t, c.Exec("INSERT INTO t VALUES (1)"))
	assert.Equal(t, int64(1), c.LastInsertRowID())
	assert.Equal(t, 1, c.Changes())

	require.NoError(t, c.Exec("INSERT INTO t VALUES (2), (3)"))
	assert.Equal(t, int64(3), c.LastInsertRowID())
	assert.Equal(t, 2, c.Changes())
	assert.Equal(t, 3, c.TotalChanges())

	require.NoError(t, c.Exec("UPDATE t SET x = x + 10"))
	assert.Equal(t, 3, c.Changes())
}

func TestTransactionControl(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER)"))

	assert.True(t, c.AutoCommit())
	require.NoError(t, c.Begin())
	assert.False(t, c.AutoCommit())
	require.NoError(t, c.Exec("INSERT INTO t VALUES (1)"))
	require.NoError(t, c.Rollback())
	assert.True(t, c.AutoCommit())

	q, err := c.Query("SELECT count(*) FROM t")
	require.NoError(t, err)
	defer q.Finish()
	require.True(t, q.Next())
	assert.Equal(t, 0, q.Row().Int(0))
}

func TestAttachDetach(t *testing.T) {
	c := testConn(t)
	other := filepath.Join(t.TempDir(), "other.db")

	require.NoError(t, c.Attach(other, "aux"))
	require.NoError(t, c.Exec("CREATE TABLE aux.t (x INTEGER)"))
	require.NoError(t, c.Detach("aux"))

	err := c.Exec("INSERT INTO aux.t VALUES (1)")
	require.Error(t, err, "detached schema must be gone")
}

func TestErrMsgAndCodes(t *testing.T) {
	c := testConn(t)

	err := c.Exec("SELECT * FROM missing")
	require.Error(t, err)
	assert.Equal(t, CodeError, c.ErrCode().Primary())
	assert.Contains(t, c.ErrMsg(), "missing")

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "sqlite3:")
}

func TestEnableForeignKeys(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.EnableForeignKeys(true))
	require.NoError(t, c.Exec(`
		CREATE TABLE parent (id INTEGER PRIMARY KEY);
		CREATE TABLE child (pid INTEGER REFERENCES parent(id));
	`))

	err := c.Exec("INSERT INTO child VALUES (42)")
	require.Error(t, err)
	assert.True(t, ErrCode(err).IsConstraint())

	require.NoError(t, c.EnableForeignKeys(false))
	assert.NoError(t, c.Exec("INSERT INTO child VALUES (42)"))
}

func TestSetSynchronous(t *testing.T) {
	c := testConn(t)
	for _, mode := range []SyncMode{SyncOff, SyncNormal, SyncFull, SyncExtra} {
		assert.NoError(t, c.SetSynchronous(mode), mode.String())
	}
}

func TestSetBusyTimeout(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.SetBusyTimeout(50*time.Millisecond))
}

func TestExtendedResultCodes(t *testing.T) {
	c := testConn(t)
	require.NoError(t, c.EnableExtendedResultCodes(true))
	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER NOT NULL)"))

	err := c.Exec("INSERT INTO t VALUES (NULL)")
	require.Error(t, err)
	code := ErrCode(err)
	assert.True(t, code.IsConstraint())
	assert.NotEqual(t, code, code.Primary(), "extended code carries detail bits")
}

func TestIsThreadsafe(t *testing.T) {
	assert.True(t, IsThreadsafe())
}
