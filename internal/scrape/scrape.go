// Package scrape fetches a page and pulls the bits of metadata a reading
// list cares about, mainly the title.
package scrape

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mateconpizza/rotato"
)

var ErrNotStarted = errors.New("scrape not started")

const maxBodyBytes = 10 * 1024 * 1024

type OptFn func(*Options)

type Options struct {
	uri     string
	doc     *goquery.Document
	ctx     context.Context
	started bool
	sp      *rotato.Spinner
}

// Scraper fetches a single page. Zero network errors leak to the caller;
// a failed fetch yields an empty document and empty values.
type Scraper struct {
	Options
}

func WithContext(ctx context.Context) OptFn {
	return func(o *Options) {
		o.ctx = ctx
	}
}

func WithSpinner() OptFn {
	return func(o *Options) {
		o.sp = rotato.New(
			rotato.WithMesg("fetching page title..."),
			rotato.WithMesgColor(rotato.ColorYellow),
			rotato.WithSpinnerColor(rotato.ColorBrightMagenta),
		)
	}
}

// New creates a Scraper for the given URL.
func New(s string, opts ...OptFn) *Scraper {
	o := &Options{ctx: context.Background()}
	for _, opt := range opts {
		opt(o)
	}

	o.uri = s

	return &Scraper{Options: *o}
}

// Start fetches and parses the page. Calling it twice is a no-op.
func (s *Scraper) Start() error {
	if s.started {
		return nil
	}

	if s.sp != nil {
		s.sp.Start()
		defer s.sp.Done()
	}

	s.doc = fetch(s.ctx, s.uri)
	s.started = true

	return nil
}

// Title returns the page title, empty when the page has none. Records keep
// the empty title; the placeholder for untitled pages is render-time only.
func (s *Scraper) Title() (string, error) {
	if !s.started {
		return "", ErrNotStarted
	}

	return strings.TrimSpace(s.doc.Find("title").Text()), nil
}

// Desc returns the page description from the usual meta tags.
func (s *Scraper) Desc() (string, error) {
	if !s.started {
		return "", ErrNotStarted
	}

	var desc string
	for _, selector := range []string{
		"meta[name='description']",
		"meta[property='description']",
		"meta[property='og:description']",
		"meta[name='og:description']",
	} {
		desc = s.doc.Find(selector).AttrOr("content", "")
		if desc != "" {
			break
		}
	}

	return strings.TrimSpace(desc), nil
}

func setHeaders(r *http.Request) {
	r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0")
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("Accept-Language", "en-US,en;q=0.5")
}

// fetch downloads and parses the HTML at the URL. Any failure is logged
// and collapses to an empty document.
func fetch(ctx context.Context, s string) *goquery.Document {
	if !isSupportedScheme(s) {
		slog.Warn("unsupported scheme", "url", s)
		return emptyDoc()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s, http.NoBody)
	if err != nil {
		slog.Warn("failed to create request", "url", s, "error", err)
		return emptyDoc()
	}

	setHeaders(req)

	cl := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}

	res, err := cl.Do(req)
	if err != nil {
		slog.Warn("request failed", "url", s, "error", err)
		return emptyDoc()
	}

	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("error closing response body", "url", s, "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		slog.Warn("non-2xx response", "url", s, "status", res.StatusCode)
		return emptyDoc()
	}

	ct := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(ct), "html") {
		slog.Warn("unexpected content type", "url", s, "content_type", ct)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		slog.Warn("failed to parse HTML", "url", s, "error", err)
		return emptyDoc()
	}

	return doc
}

func emptyDoc() *goquery.Document {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
	return doc
}

func isSupportedScheme(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}

	return parsed.Scheme == "http" || parsed.Scheme == "https"
}
