package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqtrace/reqtrace/internal/models"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := openStore(t)

	issues := []models.Issue{
		{Number: 5, Title: "REQ-F-001: export", Body: "**Traces to**: #2", State: "open", Labels: []string{"type:requirement:functional"}},
		{Number: 2, Title: "ADR-001: cache", State: "closed"},
	}
	require.NoError(t, store.Put("acme/widgets", issues))

	snap, err := store.Get("acme/widgets")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "acme/widgets", snap.Repository)
	assert.False(t, snap.FetchedAt.IsZero())
	assert.Equal(t, issues, snap.Issues)
}

func TestStore_MissingEntry(t *testing.T) {
	store := openStore(t)

	snap, err := store.Get("acme/unknown")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_PutOverwrites(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Put("acme/widgets", []models.Issue{{Number: 1, Title: "old"}}))
	require.NoError(t, store.Put("acme/widgets", []models.Issue{{Number: 2, Title: "new"}}))

	snap, err := store.Get("acme/widgets")
	require.NoError(t, err)
	require.Len(t, snap.Issues, 1)
	assert.Equal(t, 2, snap.Issues[0].Number)
}

func TestStore_SnapshotsAreKeyedByRepository(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Put("acme/widgets", []models.Issue{{Number: 1}}))
	require.NoError(t, store.Put("acme/gadgets", []models.Issue{{Number: 9}}))

	widgets, err := store.Get("acme/widgets")
	require.NoError(t, err)
	gadgets, err := store.Get("acme/gadgets")
	require.NoError(t, err)

	assert.Equal(t, 1, widgets.Issues[0].Number)
	assert.Equal(t, 9, gadgets.Issues[0].Number)
}
