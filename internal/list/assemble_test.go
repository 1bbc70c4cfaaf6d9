package list

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateconpizza/later/internal/store"
)

func rawItem(t *testing.T, url, title string, addedAt int64, index *int) json.RawMessage {
	t.Helper()
	m := map[string]any{"url": url, "title": title, "addedAt": addedAt}
	if index != nil {
		m["index"] = *index
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)

	return b
}

func intPtr(i int) *int { return &i }

func TestAssembleStripsReservedKeys(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://a.test": rawItem(t, "https://a.test", "a", 100, nil),
		keySettings:      json.RawMessage(`{"viewAll":true}`),
	}))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://a.test", items[0].URL)
}

func TestAssembleNoLoss(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	// a healthy indexed record, an orphan, and a corrupt one
	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://indexed.test": rawItem(t, "https://indexed.test", "i", 100, intPtr(0)),
		"https://orphan.test":  rawItem(t, "https://orphan.test", "o", 200, nil),
		"https://corrupt.test": json.RawMessage(`{{{`),
	}))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3, "no record is ever dropped")
}

func TestAssembleOrderIndexedThenOrphans(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://second.test":    rawItem(t, "https://second.test", "2", 50, intPtr(1)),
		"https://first.test":     rawItem(t, "https://first.test", "1", 10, intPtr(0)),
		"https://old-orphan.test": rawItem(t, "https://old-orphan.test", "old", 100, nil),
		"https://new-orphan.test": rawItem(t, "https://new-orphan.test", "new", 900, nil),
	}))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://first.test",
		"https://second.test",
		"https://new-orphan.test",
		"https://old-orphan.test",
	}, urls(items))
}

func TestAssembleStorageErrorSurfaced(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)

	mem.FailNext()
	_, err := s.Items(t.Context())
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}

func TestLegacyIndexMigration(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://a.test": rawItem(t, "https://a.test", "a", 100, nil),
		"https://b.test": rawItem(t, "https://b.test", "b", 200, nil),
		keyLegacyIndex:   json.RawMessage(`["https://b.test","https://a.test"]`),
	}))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.test", "https://a.test"}, urls(items))

	// the legacy key is gone and the indexes are embedded
	ns, err := mem.GetAll(ctx)
	require.NoError(t, err)
	_, ok := ns[keyLegacyIndex]
	assert.False(t, ok, "legacy key deleted after migration")

	got := decodeItem("https://b.test", ns["https://b.test"])
	require.NotNil(t, got.Index)
	assert.Equal(t, 0, *got.Index)
}

func TestLegacyMigrationIdempotent(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://a.test": rawItem(t, "https://a.test", "a", 100, nil),
		keyLegacyList:    json.RawMessage(`["https://a.test"]`),
	}))

	first, err := s.Items(ctx)
	require.NoError(t, err)
	afterFirst, err := mem.GetAll(ctx)
	require.NoError(t, err)

	second, err := s.Items(ctx)
	require.NoError(t, err)
	afterSecond, err := mem.GetAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, urls(first), urls(second))
	assert.Equal(t, afterFirst, afterSecond, "second run changes nothing")
}

func TestLegacyListWithFullRecords(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	// a readingList era array holding full objects, plus a loose record for
	// one of the same URLs; the loose record wins, the array contributes
	// ordering and the record only the array knows about
	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://loose.test": rawItem(t, "https://loose.test", "loose title", 500, nil),
		keyLegacyList: json.RawMessage(
			`[{"url":"https://loose.test","title":"stale","addedAt":1},` +
				`{"url":"https://array-only.test","title":"rescued","addedAt":2}]`),
	}))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://loose.test", items[0].URL)
	assert.Equal(t, "loose title", items[0].Title, "loose record wins on collision")
	assert.Equal(t, "https://array-only.test", items[1].URL)
	assert.Equal(t, "rescued", items[1].Title)
}

func TestLegacyMigrationSurvivesFailedWrite(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://a.test": rawItem(t, "https://a.test", "a", 100, nil),
		keyLegacyIndex:   json.RawMessage(`["https://a.test"]`),
	}))

	// the GetAll succeeds, the repair Set fails; the read path still
	// returns the migrated view
	mem.FailAfter(2)

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://a.test", items[0].URL)
}

func TestLegacyEmptyArrayKeyDeleted(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	// nothing to migrate, the stale key still goes away
	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://a.test": rawItem(t, "https://a.test", "a", 100, nil),
		keyLegacyIndex:   json.RawMessage(`[]`),
	}))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	ns, err := mem.GetAll(ctx)
	require.NoError(t, err)
	_, ok := ns[keyLegacyIndex]
	assert.False(t, ok, "empty legacy key deleted")
}

func TestLegacyCorruptKeyDeleted(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	require.NoError(t, mem.Set(ctx, store.Namespace{
		"https://a.test": rawItem(t, "https://a.test", "a", 100, nil),
		keyLegacyList:    json.RawMessage(`{{{`),
	}))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://a.test", items[0].URL)

	ns, err := mem.GetAll(ctx)
	require.NoError(t, err)
	_, ok := ns[keyLegacyList]
	assert.False(t, ok, "unreadable legacy key deleted")
}

func TestReviewItemInjection(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	for i := 0; i < reviewThreshold; i++ {
		mustAdd(t, s, fmt.Sprintf("https://page-%d.test", i), fmt.Sprintf("page %d", i))
	}

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, reviewThreshold+1)
	assert.True(t, items[0].Shiny, "review item at the front")
	assert.Equal(t, reviewURL, items[0].URL)

	// one-shot: a second read does not inject again
	again, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, again, reviewThreshold+1)

	cfg, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.AskedForReview)
}

func TestReviewItemNotInjectedBelowThreshold(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	for i := 0; i < reviewThreshold-1; i++ {
		mustAdd(t, s, fmt.Sprintf("https://page-%d.test", i), "p")
	}

	items, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, reviewThreshold-1)

	cfg, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.AskedForReview)
}

func TestSearchExactTitle(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	mustAdd(t, s, "https://a.test", "Distributed Systems Notes")
	mustAdd(t, s, "https://b.test", "Cooking")

	got, err := s.Search(ctx, "Distributed Systems Notes")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://a.test", got[0].URL)

	all, err := s.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestItemsAppliesSortSettings(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	mustAdd(t, s, "https://a.test", "a")
	mustAdd(t, s, "https://b.test", "b")
	require.NoError(t, s.SetSortOrder(ctx, "date", "ascending"))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://a.test", items[0].URL, "oldest first under date/ascending")
}
