package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestProject(t *testing.T) *Project {
	t.Helper()
	return NewProject(nil)
}

func TestTransactionCommitPublishesData(t *testing.T) {
	p := newTestProject(t)
	txn, err := p.BeginTransaction()
	assert.NoError(t, err)

	source := NewFileSource("/clips/a.wav", 100)
	assert.NoError(t, txn.AddSource(source))
	assert.NoError(t, txn.AddClip(source.ID, 0))

	assert.NoError(t, txn.Commit())
	assert.Equal(t, 1, p.Data().Cuts.Len())
}

func TestTransactionOnlyOneAtATime(t *testing.T) {
	p := newTestProject(t)
	_, err := p.BeginTransaction()
	assert.NoError(t, err)

	_, err = p.BeginTransaction()
	assert.ErrorIs(t, err, ErrTransactionConflict)
}

func TestTransactionRollbackDiscardsChanges(t *testing.T) {
	p := newTestProject(t)
	txn, err := p.BeginTransaction()
	assert.NoError(t, err)

	source := NewFileSource("/clips/a.wav", 100)
	assert.NoError(t, txn.AddSource(source))
	txn.Rollback()

	assert.Equal(t, 0, p.Data().Sources.Len())

	_, err = p.BeginTransaction()
	assert.NoError(t, err)
}

func TestTransactionResetRestoresOriginal(t *testing.T) {
	p := newTestProject(t)
	txn, err := p.BeginTransaction()
	assert.NoError(t, err)

	source := NewFileSource("/clips/a.wav", 100)
	assert.NoError(t, txn.AddSource(source))
	assert.Equal(t, 1, txn.Current().Sources.Len())

	txn.Reset()
	assert.Equal(t, 0, txn.Current().Sources.Len())
}

func TestTransactionDoubleCommitFails(t *testing.T) {
	p := newTestProject(t)
	txn, err := p.BeginTransaction()
	assert.NoError(t, err)

	assert.NoError(t, txn.Commit())
	assert.ErrorIs(t, txn.Commit(), ErrTransactionConflict)
}

func TestTransactionModifyUnknownCutFails(t *testing.T) {
	p := newTestProject(t)
	txn, err := p.BeginTransaction()
	assert.NoError(t, err)

	err = txn.Modify("missing", func(c Cut) Cut { return c })
	assert.ErrorIs(t, err, ErrUnknownID)
	txn.Rollback()
}
