// Package item defines the reading list record and its validation rules.
package item

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

var (
	ErrInvalidURL   = errors.New("invalid URL")
	ErrInvalidInput = errors.New("invalid input")
	ErrURLEmpty     = errors.New("URL cannot be empty")
	ErrNotRecovery  = errors.New("no destination URL embedded")
)

// defaultTitle is shown when a record carries no title. Render-time only,
// never stored.
const defaultTitle = "?"

// ListItem is one saved page. URL is the identity and the storage key.
type ListItem struct {
	URL     string `json:"url"             db:"url"`
	Title   string `json:"title"           db:"title"`
	AddedAt int64  `json:"addedAt"         db:"added_at"`
	Viewed  bool   `json:"viewed"          db:"viewed"`
	Index   *int   `json:"index,omitempty" db:"idx"`
	Shiny   bool   `json:"shiny,omitempty" db:"shiny"`
}

// DisplayTitle returns the title, falling back to "?" when empty.
func (it *ListItem) DisplayTitle() string {
	if it.Title == "" {
		return defaultTitle
	}

	return it.Title
}

// Host returns the hostname of the item's URL, or the raw URL if it cannot
// be parsed.
func (it *ListItem) Host() string {
	u, err := url.Parse(it.URL)
	if err != nil || u.Host == "" {
		return it.URL
	}

	return u.Host
}

// HasIndex reports whether the item carries an explicit position. Items
// without one are orphans, placed by recency.
func (it *ListItem) HasIndex() bool {
	return it.Index != nil && *it.Index >= 0
}

// SetIndex sets the explicit position.
func (it *ListItem) SetIndex(i int) {
	it.Index = &i
}

// New creates a new ListItem stamped with the given time.
func New(rawURL, title string, now time.Time) *ListItem {
	return &ListItem{
		URL:     rawURL,
		Title:   title,
		AddedAt: now.UnixMilli(),
	}
}

// Validate checks that s is a syntactically valid absolute URL.
func Validate(s string) error {
	if s == "" {
		return ErrURLEmpty
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURL, s)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, s)
	}

	return nil
}

// readerSchemes are browser-internal wrappers around a real page URL. The
// destination is carried in the "url" query parameter.
var readerSchemes = []string{"about:reader", "about:preferences"}

// Normalize unwraps browser-internal reader/preferences URLs into their
// embedded destination and validates the result. Regular URLs pass through
// untouched.
func Normalize(s string) (string, error) {
	for _, prefix := range readerSchemes {
		if len(s) < len(prefix) || s[:len(prefix)] != prefix {
			continue
		}
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidURL, s)
		}
		dest := u.Query().Get("url")
		if dest == "" {
			return "", fmt.Errorf("%w: %q", ErrNotRecovery, s)
		}
		if err := Validate(dest); err != nil {
			return "", err
		}

		return dest, nil
	}

	if err := Validate(s); err != nil {
		return "", err
	}

	return s, nil
}

// StripFragment removes the #fragment part of a URL, used when matching
// open tabs against a saved page.
func StripFragment(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.Fragment = ""

	return u.String()
}
