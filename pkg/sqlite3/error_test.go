package sqlite3

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodePredicates(t *testing.T) {
	assert.True(t, CodeBusy.IsBusy())
	assert.True(t, CodeLocked.IsBusy(), "locked counts as busy")
	assert.True(t, CodeConstraint.IsConstraint())
	assert.True(t, CodeMisuse.IsMisuse())
	assert.True(t, CodeIOErr.IsIOErr())
	assert.True(t, CodeCorrupt.IsCorrupt())
	assert.True(t, CodeNotADB.IsCorrupt(), "not-a-db counts as corrupt")
	assert.True(t, CodeRange.IsRange())
	assert.False(t, CodeOK.IsBusy())
}

func TestCodePrimaryStripsExtendedBits(t *testing.T) {
	// SQLITE_IOERR_READ is SQLITE_IOERR | (1<<8).
	ext := Code(int32(CodeIOErr) | (1 << 8))
	assert.Equal(t, CodeIOErr, ext.Primary())
	assert.True(t, ext.IsIOErr())
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, CodeOK, ErrCode(nil))
	assert.Equal(t, CodeError, ErrCode(errors.New("not ours")))

	err := &Error{Code: CodeBusy, Message: "database is locked"}
	assert.Equal(t, CodeBusy, ErrCode(err))
	assert.Equal(t, CodeBusy, ErrCode(fmt.Errorf("exec: %w", err)))
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: CodeConstraint, Message: "UNIQUE constraint failed"}
	assert.Equal(t, "sqlite3: UNIQUE constraint failed (SQLITE_CONSTRAINT)", err.Error())
}
