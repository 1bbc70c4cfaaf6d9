// Package status probes the pages on a reading list and reports which
// still answer.
package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/mateconpizza/later/internal/item"
)

const (
	maxConRequests = 25
	reqTimeout     = 5 * time.Second
	// small gap between launches so a long list does not hammer one host
	launchDelay = 50 * time.Millisecond
)

// Result is the outcome of probing one saved page.
type Result struct {
	URL      string
	Code     int
	Err      error
	Duration time.Duration
}

// OK reports whether the page answered with a 2xx.
func (r *Result) OK() bool {
	return r.Err == nil && r.Code >= 200 && r.Code < 300
}

func (r *Result) String() string {
	state := "ok"
	if !r.OK() {
		state = "dead"
	}

	return fmt.Sprintf("%-4s %3d %s", state, r.Code, r.URL)
}

// Summary aggregates results for display.
type Summary struct {
	Results []*Result
	Took    time.Duration
}

// Dead returns the results that did not answer with a 2xx.
func (s *Summary) Dead() []*Result {
	var dead []*Result
	for _, r := range s.Results {
		if !r.OK() {
			dead = append(dead, r)
		}
	}

	return dead
}

// Check probes every item concurrently, bounded by a weighted semaphore.
// Results come back in list order.
func Check(ctx context.Context, items []*item.ListItem) (*Summary, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]*Result, 0, len(items))
	)

	sem := semaphore.NewWeighted(int64(maxConRequests))
	start := time.Now()

	for _, it := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("acquiring semaphore: %w", err)
		}

		time.Sleep(launchDelay)

		wg.Add(1)

		go func(it *item.ListItem) {
			defer wg.Done()
			defer sem.Release(1)

			res := probe(ctx, it.URL)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(it)
	}

	wg.Wait()

	order := make(map[string]int, len(items))
	for i, it := range items {
		order[it.URL] = i
	}
	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].URL] < order[results[j].URL]
	})

	return &Summary{Results: results, Took: time.Since(start)}, nil
}

func probe(ctx context.Context, url string) *Result {
	ctx, cancel := context.WithTimeout(ctx, reqTimeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		slog.Error("creating request", "url", url, "error", err)
		return &Result{URL: url, Code: http.StatusNotFound, Err: err}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return &Result{
			URL:      url,
			Code:     codeForError(err),
			Err:      err,
			Duration: time.Since(start),
		}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("closing response body", "url", url, "error", err)
		}
	}()

	return &Result{URL: url, Code: resp.StatusCode, Duration: time.Since(start)}
}

func codeForError(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case isNetworkUnreachable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusNotFound
	}
}

func isNetworkUnreachable(err error) bool {
	var netOpErr *net.OpError
	if errors.As(err, &netOpErr) {
		return netOpErr.Op == "connect" &&
			strings.Contains(netOpErr.Err.Error(), "network is unreachable")
	}

	return false
}
