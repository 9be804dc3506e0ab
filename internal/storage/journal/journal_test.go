package journal

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/corefin/payproc/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dir, err := os.MkdirTemp("", "audit_wal_*")
	require.NoError(t, err)
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	store, err := NewStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestStoreAppendAndReadBack(t *testing.T) {
	store := newTestStore(t)

	d, err := domain.NewDeposit(1, 1, decimal.RequireFromString("10.5"))
	require.NoError(t, err)

	before := store.CurrentIndex()
	require.NoError(t, store.Append(NewRecord("run-1", d)))
	require.NoError(t, store.Append(NewRecord("run-1", domain.NewDispute(1, 1))))

	records, err := store.RecordsAfter(before)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0].Record
	require.Equal(t, "run-1", first.RunID)
	require.Equal(t, "deposit", first.Kind)
	require.EqualValues(t, 1, first.Client)
	require.EqualValues(t, 1, first.Tx)
	require.True(t, first.Amount.Equal(decimal.RequireFromString("10.5")))
	require.NotEmpty(t, first.ID)

	require.Equal(t, "dispute", records[1].Record.Kind)
}

func TestStoreRecordsAfterCurrentIndex(t *testing.T) {
	store := newTestStore(t)

	records, err := store.RecordsAfter(store.CurrentIndex())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestStoreNotInitialized(t *testing.T) {
	var store *Store
	require.Error(t, store.Append(Record{}))
	require.Error(t, store.Close())
	require.EqualValues(t, 0, store.CurrentIndex())
}
