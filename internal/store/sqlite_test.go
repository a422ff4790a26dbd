package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/robot-exposure/internal/dataset"
	"github.com/sells-group/robot-exposure/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_LoadWithoutSnapshot(t *testing.T) {
	st := newTestSQLiteStore(t)

	ref, err := st.LoadReference(context.Background())
	assert.Nil(t, ref)
	assert.True(t, eris.Is(err, ErrNoSnapshot))
}

func TestSQLite_SaveAndLoad(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	want := testReference()

	require.NoError(t, st.SaveReference(ctx, want))

	got, err := st.LoadReference(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.Professions, got.Professions)
	assert.Equal(t, want.Classifications, got.Classifications)
	assert.Equal(t, want.Installations, got.Installations)
	assert.True(t, want.LoadedAt.Equal(got.LoadedAt), "loaded_at %v != %v", want.LoadedAt, got.LoadedAt)

	// Nullable codes survive the round trip as absent, not zero.
	assert.Equal(t, model.None[int](), got.Professions[1].IFRLevel1)
	assert.Equal(t, model.Some(160), got.Professions[0].UnifiedIFRClass)
}

func TestSQLite_SaveReplacesSnapshot(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveReference(ctx, testReference()))

	smaller := &dataset.Reference{
		Professions: []model.ProfessionRecord{
			model.NewProfessionRecord("Saldatore", true, false, model.Some(114), model.None[int]()),
		},
	}
	require.NoError(t, st.SaveReference(ctx, smaller))

	got, err := st.LoadReference(ctx)
	require.NoError(t, err)
	require.Len(t, got.Professions, 1)
	assert.Equal(t, "Saldatore", got.Professions[0].Description)
	assert.Empty(t, got.Classifications)
	assert.Empty(t, got.Installations)
	assert.False(t, got.LoadedAt.IsZero())
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}
