package list

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/store"
	"github.com/mateconpizza/later/internal/view"
)

// Review prompt, injected at most once when the list grows past the
// threshold.
const (
	reviewThreshold = 6
	reviewURL       = "https://github.com/mateconpizza/later#readme"
	reviewTitle     = "Enjoying Later? Leave a review"
)

// Items assembles the full reading list in its presentation order: legacy
// ordering forms migrated, indexed items by index, orphans by recency, the
// active sort/unread settings applied on top. The persisted order is
// independent of the settings-driven view.
func (s *Service) Items(ctx context.Context) ([]*item.ListItem, error) {
	ns, err := s.kv.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading namespace: %w", err)
	}

	items, migrated := assemble(ns)

	// persist the one-time legacy repair; the in-memory view stands even if
	// the write fails. A legacy key that contributed no records (empty or
	// unreadable) is still stale and gets deleted.
	if hasLegacyKeys(ns) {
		if err := s.persistMigration(ctx, ns, migrated); err != nil {
			slog.Error("persisting legacy migration", "error", err)
		}
	}

	cfg := decodeSettings(ns[keySettings])
	items = s.maybeInjectReview(ctx, items, cfg)

	if cfg.SortOption != view.SortNone {
		items = view.Sort(items, cfg.SortOption, cfg.SortDirection)
	}
	if !cfg.ViewAll {
		items = view.Unread(items)
	}

	return items, nil
}

// Search returns the assembled list narrowed by a fuzzy query. The query is
// transient and never persisted.
func (s *Service) Search(ctx context.Context, query string) ([]*item.ListItem, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	return view.Filter(items, query), nil
}

// assemble projects a raw namespace into the canonical ordered sequence:
// reserved keys stripped, legacy ordering folded into per-item indexes,
// indexed items first (ascending), orphans after (most recent first). It
// returns the migrated records that still need to be persisted.
func assemble(ns store.Namespace) ([]*item.ListItem, store.Namespace) {
	byURL := make(map[string]*item.ListItem, len(ns))
	for key, raw := range ns {
		if isReserved(key) {
			continue
		}
		byURL[key] = decodeItem(key, raw)
	}

	migrated := migrateLegacyOrder(ns, byURL)

	indexed := make([]*item.ListItem, 0, len(byURL))
	orphans := make([]*item.ListItem, 0, len(byURL))
	for _, it := range byURL {
		if it.HasIndex() {
			indexed = append(indexed, it)
		} else {
			orphans = append(orphans, it)
		}
	}

	sort.SliceStable(indexed, func(i, j int) bool { return *indexed[i].Index < *indexed[j].Index })
	sort.SliceStable(orphans, func(i, j int) bool { return orphans[i].AddedAt > orphans[j].AddedAt })

	return append(indexed, orphans...), migrated
}

// migrateLegacyOrder folds a legacy ordering key (an array under "index" or
// "readingList") into per-item Index fields. Loose per-URL records win on
// collision; the legacy array only contributes ordering, plus full records
// for URLs that have no loose key. Returns the records to persist, empty
// when there was nothing to migrate. Safe to run on every read.
func migrateLegacyOrder(ns store.Namespace, byURL map[string]*item.ListItem) store.Namespace {
	var entries []json.RawMessage
	for _, key := range []string{keyLegacyIndex, keyLegacyList} {
		raw, ok := ns[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &entries); err != nil {
			slog.Debug("unreadable legacy ordering key", "key", key, "error", err)
			continue
		}

		break
	}
	if entries == nil {
		return nil
	}

	migrated := make(store.Namespace)
	pos := 0
	for _, entry := range entries {
		it := decodeLegacyEntry(entry)
		if it == nil {
			continue
		}

		existing, ok := byURL[it.URL]
		if !ok {
			// the legacy array is the only place this record survives
			byURL[it.URL] = it
			existing = it
		}
		if !existing.HasIndex() {
			existing.SetIndex(pos)
		}

		raw, err := store.Marshal(existing)
		if err != nil {
			slog.Error("encoding migrated record", "url", existing.URL, "error", err)
			continue
		}
		migrated[existing.URL] = raw
		pos++
	}

	return migrated
}

// decodeLegacyEntry reads one element of a legacy ordering array: either a
// bare URL string or a full item object.
func decodeLegacyEntry(raw json.RawMessage) *item.ListItem {
	var url string
	if err := json.Unmarshal(raw, &url); err == nil {
		if url == "" {
			return nil
		}
		return &item.ListItem{URL: url}
	}

	var it item.ListItem
	if err := json.Unmarshal(raw, &it); err != nil || it.URL == "" {
		return nil
	}

	return &it
}

// hasLegacyKeys reports whether any legacy ordering key is still stored.
func hasLegacyKeys(ns store.Namespace) bool {
	for _, key := range []string{keyLegacyIndex, keyLegacyList} {
		if _, ok := ns[key]; ok {
			return true
		}
	}

	return false
}

// persistMigration writes the migrated records, if any, and deletes the
// legacy ordering keys. Re-running with no legacy key present is a no-op.
func (s *Service) persistMigration(ctx context.Context, ns store.Namespace, migrated store.Namespace) error {
	if len(migrated) > 0 {
		if err := s.kv.Set(ctx, migrated); err != nil {
			return fmt.Errorf("writing migrated records: %w", err)
		}
	}

	stale := make([]string, 0, 2)
	for _, key := range []string{keyLegacyIndex, keyLegacyList} {
		if _, ok := ns[key]; ok {
			stale = append(stale, key)
		}
	}
	if err := s.kv.Remove(ctx, stale...); err != nil {
		return fmt.Errorf("deleting legacy keys: %w", err)
	}
	slog.Debug("migrated legacy ordering", "records", len(migrated))

	return nil
}

// maybeInjectReview prepends the one-shot review item once the list reaches
// the threshold. Persisting the item and the flag together makes the
// injection idempotent; if the write fails the item is still shown and the
// next read tries again.
func (s *Service) maybeInjectReview(ctx context.Context, items []*item.ListItem, cfg *Settings) []*item.ListItem {
	if cfg.AskedForReview || len(items) < reviewThreshold {
		return items
	}

	review := item.New(reviewURL, reviewTitle, s.now())
	review.Shiny = true

	rawItem, err := store.Marshal(review)
	if err != nil {
		slog.Error("encoding review item", "error", err)
		return items
	}

	cfg.AskedForReview = true
	rawCfg, err := store.Marshal(cfg)
	if err != nil {
		slog.Error("encoding settings", "error", err)
		return items
	}

	if err := s.kv.Set(ctx, store.Namespace{review.URL: rawItem, keySettings: rawCfg}); err != nil {
		slog.Error("persisting review item", "error", err)
	}

	return append([]*item.ListItem{review}, items...)
}
