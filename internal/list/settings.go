package list

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mateconpizza/later/internal/store"
	"github.com/mateconpizza/later/internal/view"
)

// Reserved namespace keys. Everything else in the namespace is an item
// record keyed by its URL.
const (
	keySettings = "settings"

	// legacy ordering representations, migrated on read
	keyLegacyIndex = "index"
	keyLegacyList  = "readingList"
)

func isReserved(key string) bool {
	switch key {
	case keySettings, keyLegacyIndex, keyLegacyList:
		return true
	}

	return false
}

// Settings is the singleton record stored under the reserved "settings" key.
type Settings struct {
	Theme          string          `json:"theme"`
	AnimateItems   bool            `json:"animateItems"`
	AddContextMenu bool            `json:"addContextMenu"`
	AddPageAction  bool            `json:"addPageAction"`
	OpenNewTab     bool            `json:"openNewTab"`
	SortOption     view.SortOption `json:"sortOption"`
	SortDirection  view.Direction  `json:"sortDirection"`
	ViewAll        bool            `json:"viewAll"`
	AskedForReview bool            `json:"askedForReview"`
}

// DefaultSettings returns the settings for a fresh namespace.
func DefaultSettings() *Settings {
	return &Settings{
		Theme:          "light",
		AddContextMenu: true,
		AddPageAction:  true,
		SortOption:     view.SortNone,
		SortDirection:  view.Descending,
		ViewAll:        true,
	}
}

// Settings loads the settings record, returning defaults when absent.
func (s *Service) Settings(ctx context.Context) (*Settings, error) {
	ns, err := s.kv.Get(ctx, keySettings)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	return decodeSettings(ns[keySettings]), nil
}

// decodeSettings parses a raw settings record, falling back to defaults on
// absence or corruption.
func decodeSettings(raw json.RawMessage) *Settings {
	cfg := DefaultSettings()
	if len(raw) == 0 {
		return cfg
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return DefaultSettings()
	}
	if !cfg.SortOption.Valid() {
		cfg.SortOption = view.SortNone
	}

	return cfg
}

// saveSettings persists the settings record.
func (s *Service) saveSettings(ctx context.Context, cfg *Settings) error {
	raw, err := store.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, store.Namespace{keySettings: raw}); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	return nil
}
