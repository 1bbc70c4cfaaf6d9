package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "namespace.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	ctx := t.Context()

	err := s.Set(ctx, Namespace{
		"https://a.test": json.RawMessage(`{"url":"https://a.test","addedAt":1}`),
		"settings":       json.RawMessage(`{"viewAll":true}`),
	})
	require.NoError(t, err)

	ns, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, ns, 2)
	assert.JSONEq(t, `{"viewAll":true}`, string(ns["settings"]))
}

func TestSQLiteUpsert(t *testing.T) {
	s := setupTestDB(t)
	ctx := t.Context()

	require.NoError(t, s.Set(ctx, Namespace{"k": json.RawMessage(`{"n":1}`)}))
	require.NoError(t, s.Set(ctx, Namespace{"k": json.RawMessage(`{"n":2}`)}))

	ns, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(ns["k"]))
}

func TestSQLiteRemove(t *testing.T) {
	s := setupTestDB(t)
	ctx := t.Context()

	require.NoError(t, s.Set(ctx, Namespace{"k": json.RawMessage(`1`)}))
	require.NoError(t, s.Remove(ctx, "k", "missing"))

	ns, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestSQLiteGetMissingKeys(t *testing.T) {
	s := setupTestDB(t)

	ns, err := s.Get(t.Context(), "nope")
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
