package list

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateconpizza/later/internal/event"
	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/store"
	"github.com/mateconpizza/later/internal/tabs"
)

// testService wires a Service over an in-memory store with a fake host and
// a strictly increasing clock.
func testService(t *testing.T) (*Service, *store.Memory, *tabs.Fake) {
	t.Helper()
	mem := store.NewMemory()
	fake := &tabs.Fake{}

	var tick atomic.Int64
	clock := func() time.Time {
		return time.UnixMilli(1700000000000 + tick.Add(1))
	}

	return New(mem, WithTabs(fake), WithClock(clock)), mem, fake
}

func mustAdd(t *testing.T, s *Service, url, title string) *item.ListItem {
	t.Helper()
	it, err := s.Add(t.Context(), url, title)
	require.NoError(t, err)

	return it
}

func urls(items []*item.ListItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.URL)
	}

	return out
}

func TestAddEmptyStore(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)

	it := mustAdd(t, s, "https://example.com", "Example")

	items, err := s.Items(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://example.com", items[0].URL)
	assert.Equal(t, "Example", items[0].Title)
	assert.False(t, items[0].Viewed)
	assert.Equal(t, it.AddedAt, items[0].AddedAt)
}

func TestAddInvalidURL(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)

	_, err := s.Add(t.Context(), "not a url", "t")
	assert.ErrorIs(t, err, item.ErrInvalidURL)
	assert.Equal(t, 0, mem.Len())
}

func TestAddNormalizesReaderURL(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)

	it := mustAdd(t, s, "about:reader?url=https%3A%2F%2Fexample.com%2Fpost", "Post")
	assert.Equal(t, "https://example.com/post", it.URL)
}

func TestAddUniqueByURL(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	mustAdd(t, s, "https://a.test", "first")
	mustAdd(t, s, "https://b.test", "other")
	mustAdd(t, s, "https://a.test", "second")

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2, "one entry per URL")

	seen := make(map[string]int)
	for _, it := range items {
		seen[it.URL]++
	}
	assert.Equal(t, 1, seen["https://a.test"])
}

func TestAddReplacesAndPromotes(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	old := mustAdd(t, s, "https://a.test", "old title")
	mustAdd(t, s, "https://b.test", "b")
	mustAdd(t, s, "https://c.test", "c")

	renewed := mustAdd(t, s, "https://a.test", "new title")

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "https://a.test", items[0].URL, "re-added item moves to the top")
	assert.Equal(t, "new title", items[0].Title, "old entry fully replaced")
	assert.Greater(t, renewed.AddedAt, old.AddedAt, "addedAt renewed")
	assert.False(t, items[0].Viewed)
}

func TestAddSetsBadge(t *testing.T) {
	t.Parallel()
	s, _, fake := testService(t)

	mustAdd(t, s, "https://a.test/p#section", "a")

	require.Len(t, fake.Badges, 1)
	assert.Equal(t, "https://a.test/p", fake.Badges[0].URL, "fragment stripped for tab matching")
	assert.Equal(t, tabs.OnListBadge, fake.Badges[0].Text)
}

func TestAddBroadcasts(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	mustAdd(t, s, "https://a.test", "a")

	ev := <-ch
	assert.Equal(t, event.Add, ev.Type)
	assert.Equal(t, "https://a.test", ev.URL)
	require.NotNil(t, ev.Item)
	assert.Equal(t, "a", ev.Item.Title)
}

func TestAddSurfacesStorageError(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)

	mem.FailNext()
	_, err := s.Add(t.Context(), "https://a.test", "a")
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s, _, fake := testService(t)
	ctx := t.Context()
	ch, cancel := s.Subscribe()
	defer cancel()

	mustAdd(t, s, "https://a.test", "a")
	<-ch // add event

	require.NoError(t, s.Remove(ctx, "https://a.test"))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	ev := <-ch
	assert.Equal(t, event.Remove, ev.Type)

	// badge set then cleared
	require.Len(t, fake.Badges, 2)
	assert.Equal(t, "", fake.Badges[1].Text)
}

func TestRemoveMissingURLIsNoOp(t *testing.T) {
	t.Parallel()
	s, mem, fake := testService(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Remove(t.Context(), "https://a.test"))

	assert.Equal(t, 0, mem.Len(), "no storage write")
	assert.Empty(t, fake.Badges)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev.Type)
	default:
	}
}

func TestRename(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	added := mustAdd(t, s, "https://a.test", "old")
	require.NoError(t, s.Rename(ctx, "https://a.test", "new"))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].Title)
	assert.Equal(t, added.AddedAt, items[0].AddedAt, "addedAt untouched")
	assert.False(t, items[0].Viewed, "viewed untouched")
	require.NotNil(t, items[0].Index, "index untouched")
}

func TestRenameMissingURLIsNoOp(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)

	require.NoError(t, s.Rename(t.Context(), "https://gone.test", "title"))
	assert.Equal(t, 0, mem.Len())
}

func TestMarkViewed(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	mustAdd(t, s, "https://a.test", "a")

	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.MarkViewed(ctx, "https://a.test"))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	assert.True(t, items[0].Viewed)

	ev := <-ch
	assert.Equal(t, event.Update, ev.Type)

	// idempotent: second call skips the write and broadcasts nothing
	require.NoError(t, s.MarkViewed(ctx, "https://a.test"))
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev.Type)
	default:
	}
}

func TestMarkViewedMissingURLIsNoOp(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	require.NoError(t, s.MarkViewed(t.Context(), "https://gone.test"))
}

func TestSetSortOrderBroadcastsOrderChanged(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()
	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.SetSortOrder(ctx, "date", "ascending"))

	ev := <-ch
	assert.Equal(t, event.OrderChanged, ev.Type)

	cfg, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "date", string(cfg.SortOption))
}

func TestSetSortOrderRejectsUnknownOption(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	err := s.SetSortOrder(t.Context(), "bogus", "ascending")
	assert.ErrorIs(t, err, item.ErrInvalidInput)
}

func TestSetViewAllHidesViewedItems(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	mustAdd(t, s, "https://a.test", "a")
	mustAdd(t, s, "https://b.test", "b")
	require.NoError(t, s.MarkViewed(ctx, "https://a.test"))
	require.NoError(t, s.SetViewAll(ctx, false))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://b.test", items[0].URL)
}

func TestConcurrentSurfacesDoNotClobber(t *testing.T) {
	t.Parallel()
	// two services over the same store, the per-URL write granularity keeps
	// one surface's rename from reverting the other's viewed flag
	mem := store.NewMemory()
	a := New(mem, WithTabs(&tabs.Fake{}))
	b := New(mem, WithTabs(&tabs.Fake{}))
	ctx := context.Background()

	_, err := a.Add(ctx, "https://x.test", "x")
	require.NoError(t, err)
	_, err = a.Add(ctx, "https://y.test", "y")
	require.NoError(t, err)

	require.NoError(t, a.MarkViewed(ctx, "https://x.test"))
	require.NoError(t, b.Rename(ctx, "https://y.test", "renamed"))

	items, err := a.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		switch it.URL {
		case "https://x.test":
			assert.True(t, it.Viewed)
		case "https://y.test":
			assert.Equal(t, "renamed", it.Title)
		}
	}
}

func TestSettingsDefaults(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)

	cfg, err := s.Settings(t.Context())
	require.NoError(t, err)
	assert.True(t, cfg.ViewAll)
	assert.False(t, cfg.AskedForReview)
	assert.Equal(t, "light", cfg.Theme)
}

func TestSetTheme(t *testing.T) {
	t.Parallel()
	s, _, _ := testService(t)
	ctx := t.Context()

	require.NoError(t, s.SetTheme(ctx, "dark"))

	cfg, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)

	err = s.SetTheme(ctx, "")
	assert.ErrorIs(t, err, item.ErrInvalidInput)
}

func TestSettingsCorruptRecordFallsBack(t *testing.T) {
	t.Parallel()
	s, mem, _ := testService(t)
	ctx := t.Context()

	require.NoError(t, mem.Set(ctx, store.Namespace{keySettings: json.RawMessage(`"oops`)}))

	cfg, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.ViewAll)
}
