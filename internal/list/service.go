// Package list is the reconciliation core of the reading list: it projects
// the flat namespace into an ordered, de-duplicated sequence of items, keeps
// the persisted ordering index consistent across mutations, and broadcasts
// changes so other open surfaces can patch their views.
package list

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mateconpizza/later/internal/event"
	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/store"
	"github.com/mateconpizza/later/internal/tabs"
	"github.com/mateconpizza/later/internal/view"
)

// Service is one surface's session over the shared namespace. Each surface
// owns its own Service; there is no process-wide singleton. Every operation
// reads-modifies-writes by key against the authoritative store, never
// against a cached list, so concurrent surfaces cannot clobber unrelated
// records.
type Service struct {
	kv   store.KV
	bus  *event.Bus
	tabs tabs.Tabs
	now  func() time.Time
}

type OptFn func(*Service)

// WithBus sets the cross-surface notifier.
func WithBus(b *event.Bus) OptFn {
	return func(s *Service) { s.bus = b }
}

// WithTabs sets the host tab collaborator.
func WithTabs(t tabs.Tabs) OptFn {
	return func(s *Service) { s.tabs = t }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) OptFn {
	return func(s *Service) { s.now = now }
}

// New creates a Service over the given store.
func New(kv store.KV, opts ...OptFn) *Service {
	s := &Service{
		kv:   kv,
		bus:  event.NewBus(),
		tabs: tabs.System{},
		now:  time.Now,
	}
	for _, fn := range opts {
		fn(s)
	}

	return s
}

// Subscribe registers a listener on the service's notifier.
func (s *Service) Subscribe() (<-chan event.Event, func()) {
	return s.bus.Subscribe()
}

// Add validates and saves a page, replacing any existing record for the
// same URL and promoting it to the top of the list.
func (s *Service) Add(ctx context.Context, rawURL, title string) (*item.ListItem, error) {
	normalized, err := item.Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	it := item.New(normalized, title, s.now())
	raw, err := store.Marshal(it)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, store.Namespace{it.URL: raw}); err != nil {
		return nil, fmt.Errorf("saving %q: %w", it.URL, err)
	}

	// place the new item first
	if err := s.Reindex(ctx, s.promotedOrder(ctx, it.URL)); err != nil {
		slog.Error("reindex after add", "url", it.URL, "error", err)
	}

	s.bus.Publish(event.Event{Type: event.Add, URL: it.URL, Item: it})

	if err := s.tabs.SetBadge(ctx, item.StripFragment(it.URL), tabs.OnListBadge); err != nil {
		slog.Error("setting badge", "url", it.URL, "error", err)
	}

	return it, nil
}

// Remove deletes a page from the list. A URL that is not on the list is a
// benign no-op: no write, no event.
func (s *Service) Remove(ctx context.Context, url string) error {
	ns, err := s.kv.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("reading %q: %w", url, err)
	}
	if _, ok := ns[url]; !ok {
		slog.Debug("remove: not on the list", "url", url)
		return nil
	}

	if err := s.kv.Remove(ctx, url); err != nil {
		return fmt.Errorf("removing %q: %w", url, err)
	}

	s.bus.Publish(event.Event{Type: event.Remove, URL: url})

	if err := s.tabs.ClearBadge(ctx, item.StripFragment(url)); err != nil {
		slog.Error("clearing badge", "url", url, "error", err)
	}

	if err := s.Reindex(ctx, s.remainingOrder(ctx)); err != nil {
		slog.Error("reindex after remove", "url", url, "error", err)
	}

	return nil
}

// Rename changes only the title of an existing record. A missing URL is a
// benign no-op, since a concurrent delete from another surface is possible.
func (s *Service) Rename(ctx context.Context, url, title string) error {
	it, err := s.readOne(ctx, url)
	if err != nil {
		return err
	}
	if it == nil {
		slog.Debug("rename: not on the list", "url", url)
		return nil
	}

	it.Title = title
	raw, err := store.Marshal(it)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, store.Namespace{url: raw}); err != nil {
		return fmt.Errorf("renaming %q: %w", url, err)
	}

	s.bus.Publish(event.Event{Type: event.Update, URL: url, Item: it})

	return nil
}

// MarkViewed sets the viewed flag. Already-viewed items skip the write; a
// missing URL is a benign no-op.
func (s *Service) MarkViewed(ctx context.Context, url string) error {
	it, err := s.readOne(ctx, url)
	if err != nil {
		return err
	}
	if it == nil || it.Viewed {
		return nil
	}

	it.Viewed = true
	raw, err := store.Marshal(it)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, store.Namespace{url: raw}); err != nil {
		return fmt.Errorf("marking %q viewed: %w", url, err)
	}

	s.bus.Publish(event.Event{Type: event.Update, URL: url, Item: it})

	return nil
}

// SetSortOrder persists the sort option and direction, and tells other
// surfaces to re-render.
func (s *Service) SetSortOrder(ctx context.Context, option view.SortOption, dir view.Direction) error {
	if !option.Valid() {
		return fmt.Errorf("%w: sort option %q", item.ErrInvalidInput, option)
	}

	cfg, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	cfg.SortOption = option
	cfg.SortDirection = dir
	if err := s.saveSettings(ctx, cfg); err != nil {
		return err
	}

	s.bus.Publish(event.Event{Type: event.OrderChanged})

	return nil
}

// SetViewAll persists the all-vs-unread filter toggle.
func (s *Service) SetViewAll(ctx context.Context, viewAll bool) error {
	cfg, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	cfg.ViewAll = viewAll
	if err := s.saveSettings(ctx, cfg); err != nil {
		return err
	}

	s.bus.Publish(event.Event{Type: event.OrderChanged})

	return nil
}

// SetTheme persists the shared theme name.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if theme == "" {
		return fmt.Errorf("%w: empty theme", item.ErrInvalidInput)
	}

	cfg, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	cfg.Theme = theme

	return s.saveSettings(ctx, cfg)
}

// Open navigates to a saved page and marks it viewed.
func (s *Service) Open(ctx context.Context, url string) error {
	cfg, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	if err := s.tabs.Open(ctx, url, cfg.OpenNewTab); err != nil {
		return fmt.Errorf("opening %q: %w", url, err)
	}

	return s.MarkViewed(ctx, url)
}

// readOne fetches and decodes a single item record, nil when absent.
func (s *Service) readOne(ctx context.Context, url string) (*item.ListItem, error) {
	ns, err := s.kv.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", url, err)
	}
	raw, ok := ns[url]
	if !ok {
		return nil, nil
	}

	return decodeItem(url, raw), nil
}

// promotedOrder returns the canonical display order with url moved to the
// front.
func (s *Service) promotedOrder(ctx context.Context, url string) []string {
	order := []string{url}
	for _, u := range s.canonicalOrder(ctx) {
		if u != url {
			order = append(order, u)
		}
	}

	return order
}

// remainingOrder returns the canonical display order of whatever is stored.
func (s *Service) remainingOrder(ctx context.Context) []string {
	return s.canonicalOrder(ctx)
}

// canonicalOrder assembles the current namespace and returns its URL order.
// Best-effort: an unreachable store yields an empty order and the reindex
// becomes a no-op.
func (s *Service) canonicalOrder(ctx context.Context) []string {
	ns, err := s.kv.GetAll(ctx)
	if err != nil {
		slog.Error("reading namespace for ordering", "error", err)
		return nil
	}

	items, _ := assemble(ns)
	order := make([]string, 0, len(items))
	for _, it := range items {
		order = append(order, it.URL)
	}

	return order
}

// decodeItem parses a raw item record. Corrupt records are repaired into a
// minimal item carrying only their key, so no record is ever dropped.
func decodeItem(key string, raw json.RawMessage) *item.ListItem {
	var it item.ListItem
	if err := json.Unmarshal(raw, &it); err != nil {
		slog.Debug("repairing unreadable record", "key", key, "error", err)
		return &item.ListItem{URL: key}
	}
	if it.URL == "" {
		it.URL = key
	}

	return &it
}
