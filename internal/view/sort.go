package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mateconpizza/later/internal/item"
)

// SortOption selects the comparison key.
type SortOption string

const (
	SortNone  SortOption = "none"
	SortDate  SortOption = "date"
	SortTitle SortOption = "title"
)

// Direction selects ascending or descending order.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Valid reports whether o is a known sort option.
func (o SortOption) Valid() bool {
	switch o {
	case SortNone, SortDate, SortTitle:
		return true
	}

	return false
}

// Sort returns a reordered copy of items. SortNone returns a plain copy in
// the given order. Title comparison is locale-aware, numeric-aware and
// case-insensitive; date comparison uses AddedAt. The sort is stable.
func Sort(items []*item.ListItem, option SortOption, dir Direction) []*item.ListItem {
	out := make([]*item.ListItem, len(items))
	copy(out, items)

	var less func(a, b *item.ListItem) bool

	switch option {
	case SortDate:
		less = func(a, b *item.ListItem) bool { return a.AddedAt < b.AddedAt }
	case SortTitle:
		c := collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
		less = func(a, b *item.ListItem) bool {
			return c.CompareString(a.DisplayTitle(), b.DisplayTitle()) < 0
		}
	default:
		return out
	}

	if dir == Descending {
		asc := less
		less = func(a, b *item.ListItem) bool { return asc(b, a) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })

	return out
}

// Unread returns only the items not yet viewed.
func Unread(items []*item.ListItem) []*item.ListItem {
	out := make([]*item.ListItem, 0, len(items))
	for _, it := range items {
		if !it.Viewed {
			out = append(out, it)
		}
	}

	return out
}
