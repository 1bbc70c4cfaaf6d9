// Package tabs is the host tab collaborator: badge updates for pages that
// are on the list, and navigation.
package tabs

import (
	"context"
	"sync"

	"github.com/mateconpizza/later/internal/sys"
)

// OnListBadge marks a tab whose page is saved on the list.
const OnListBadge = "✔"

// Tabs abstracts the host tab API. URL matching ignores the fragment.
type Tabs interface {
	// SetBadge sets the badge text on tabs showing url.
	SetBadge(ctx context.Context, url, text string) error

	// ClearBadge removes the badge from tabs showing url.
	ClearBadge(ctx context.Context, url string) error

	// Open navigates to url, in a new tab when newTab is set.
	Open(ctx context.Context, url string, newTab bool) error
}

// System opens URLs in the default browser. Badges have no system-level
// counterpart outside a host extension runtime, so they are no-ops.
type System struct{}

func (System) SetBadge(ctx context.Context, url, text string) error { return nil }

func (System) ClearBadge(ctx context.Context, url string) error { return nil }

func (System) Open(ctx context.Context, url string, newTab bool) error {
	return sys.OpenInBrowser(url)
}

// BadgeCall records one badge mutation.
type BadgeCall struct {
	URL  string
	Text string
}

// Fake records calls for tests.
type Fake struct {
	mu     sync.Mutex
	Badges []BadgeCall
	Opened []string
}

func (f *Fake) SetBadge(ctx context.Context, url, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Badges = append(f.Badges, BadgeCall{URL: url, Text: text})

	return nil
}

func (f *Fake) ClearBadge(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Badges = append(f.Badges, BadgeCall{URL: url, Text: ""})

	return nil
}

func (f *Fake) Open(ctx context.Context, url string, newTab bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opened = append(f.Opened, url)

	return nil
}
