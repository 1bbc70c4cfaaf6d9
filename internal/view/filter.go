// Package view derives presentation views of the assembled list: fuzzy
// filtering and sorting. Nothing here touches persisted state.
package view

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/mateconpizza/later/internal/item"
)

// slab sizes used by the fzf matcher.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

func init() {
	_ = algo.Init("default")
}

// Filter returns the items whose title or URL fuzzy-match the query. An
// empty or whitespace-only query returns the input unchanged.
func Filter(items []*item.ListItem, query string) []*item.ListItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	pattern := []rune(strings.ToLower(query))
	slab := util.MakeSlab(slab16Size, slab32Size)

	matched := make([]*item.ListItem, 0, len(items))
	for _, it := range items {
		if matches(it.Title, pattern, slab) || matches(it.URL, pattern, slab) {
			matched = append(matched, it)
		}
	}

	return matched
}

// matches runs the fzf fuzzy matcher against s, case-insensitive.
func matches(s string, pattern []rune, slab *util.Slab) bool {
	if s == "" {
		return false
	}
	chars := util.ToChars([]byte(s))
	res, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)

	return res.Start >= 0
}
