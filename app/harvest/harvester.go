// Package harvest runs the ingestion pipeline: for every registered feed
// source it fetches the feed, filters items through the dedup/lookback
// window, resolves article content and stores the surviving batch.
package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
)

type Harvester struct {
	sources     []sources.Source
	fetcher     *feed.Fetcher
	resolver    *feed.Resolver
	repo        database.EntryRepository
	lookback    time.Duration
	workerCount int
}

type sourceResult struct {
	source   string
	checked  int
	inserted int
	err      error
}

func NewHarvester(srcs []sources.Source, fetcher *feed.Fetcher, resolver *feed.Resolver,
	repo database.EntryRepository, lookback time.Duration, workerCount int) *Harvester {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Harvester{
		sources:     srcs,
		fetcher:     fetcher,
		resolver:    resolver,
		repo:        repo,
		lookback:    lookback,
		workerCount: workerCount,
	}
}

// Run harvests all registered sources once and returns the total number of
// newly inserted entries. Fetch and parse failures are per-source warnings;
// only store-level failures surface in the returned error, and they never
// abort the remaining sources.
func (h *Harvester) Run(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-h.lookback)

	recentIDs, err := h.repo.RecentIDs(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to preload recent ids: %w", err)
	}

	slog.Info("Harvest started",
		"sources", len(h.sources),
		"known_ids", len(recentIDs),
		"cutoff", cutoff.Format(time.RFC3339),
		"workers", h.workerCount)

	filter := NewFilter(cutoff, recentIDs)

	jobs := make(chan sources.Source)
	results := make(chan sourceResult)

	var wg sync.WaitGroup
	for i := 0; i < h.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				results <- h.processSource(ctx, src, filter)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, src := range h.sources {
			select {
			case jobs <- src:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	totalInserted := 0
	failedSources := 0
	for res := range results {
		if res.err != nil {
			failedSources++
			slog.Error("Source failed", "source", res.source, "error", res.err)
			continue
		}
		totalInserted += res.inserted
	}

	slog.Info("Harvest finished", "inserted", totalInserted, "failed_sources", failedSources)

	if failedSources > 0 {
		return totalInserted, fmt.Errorf("%d of %d sources failed at the store", failedSources, len(h.sources))
	}

	return totalInserted, nil
}

// processSource runs the fetch-filter-resolve-store pipeline for one source.
// The whole surviving batch is inserted in a single repository call.
func (h *Harvester) processSource(ctx context.Context, src sources.Source, filter *Filter) sourceResult {
	items, err := h.fetcher.Run(ctx, src.URL)
	if err != nil {
		slog.Warn("Feed fetch failed", "source", src.Name, "url", src.URL, "error", err)
		items = nil
	}

	var batch []database.Entry
	for _, item := range items {
		select {
		case <-ctx.Done():
			return sourceResult{source: src.Name, checked: len(items), err: ctx.Err()}
		default:
		}

		id, ok := filter.Candidate(item)
		if !ok {
			continue
		}

		content := h.resolver.Run(ctx, item)
		if content == "" {
			// no resolvable content after all fallbacks, drop silently
			continue
		}

		batch = append(batch, database.Entry{
			ID:        id,
			Title:     item.Title,
			Link:      item.Link,
			Published: PublishedAt(item),
			Source:    src.Name,
			Category:  src.Category,
			Content:   content,
		})
	}

	inserted := 0
	if len(batch) > 0 {
		n, err := h.repo.InsertEntries(ctx, batch)
		if err != nil {
			return sourceResult{source: src.Name, checked: len(items), err: fmt.Errorf("failed to insert batch: %w", err)}
		}
		inserted = n
	}

	slog.Info("Source processed", "source", src.Name, "checked", len(items), "inserted", inserted)

	return sourceResult{source: src.Name, checked: len(items), inserted: inserted}
}
