// Package articles answers category- and time-bounded queries over stored
// entries, assembling results across fixed-size repository pages.
package articles

import (
	"context"
	"fmt"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
)

const (
	// pageSize bounds each internal repository fetch
	pageSize = 100
	// MaxLimit caps the caller-visible limit per query
	MaxLimit = 10000
)

type Meta struct {
	TotalCount int  `json:"total_count"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
}

type Service struct {
	repo            database.EntryRepository
	defaultCategory string
	now             func() time.Time
}

func NewService(repo database.EntryRepository, defaultCategory string) *Service {
	return &Service{
		repo:            repo,
		defaultCategory: defaultCategory,
		now:             time.Now,
	}
}

// FetchArticles returns up to limit entries uploaded within the hoursBack
// window, filtered by the given categories (the default category when none
// are supplied), newest upload first. An empty result is not an error.
func (s *Service) FetchArticles(ctx context.Context, categories []string, hoursBack, limit, offset int) ([]database.Entry, Meta, error) {
	if len(categories) == 0 {
		categories = []string{s.defaultCategory}
	}
	if hoursBack <= 0 {
		hoursBack = 24
	}
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	cutoff := s.cutoffTime(hoursBack)

	// Accumulate fixed-size pages until the limit is reached or a short page
	// signals the end of data, then truncate to exactly limit.
	var accumulated []database.Entry
	lastPageShort := false
	for {
		page, err := s.repo.ArticlesPage(ctx, categories, cutoff, pageSize, offset+len(accumulated))
		if err != nil {
			return nil, Meta{}, fmt.Errorf("failed to fetch articles page: %w", err)
		}

		accumulated = append(accumulated, page...)
		if len(page) < pageSize {
			lastPageShort = true
			break
		}
		if len(accumulated) >= limit {
			break
		}
	}

	hasMore := len(accumulated) > limit
	if len(accumulated) > limit {
		accumulated = accumulated[:limit]
	} else if len(accumulated) == limit && !lastPageShort {
		// the limit landed exactly on a page boundary; peek one row to tell
		// "no more data" apart from "more pages behind the cap"
		peek, err := s.repo.ArticlesPage(ctx, categories, cutoff, 1, offset+len(accumulated))
		if err != nil {
			return nil, Meta{}, fmt.Errorf("failed to fetch articles page: %w", err)
		}
		hasMore = len(peek) > 0
	}

	meta := Meta{
		TotalCount: len(accumulated),
		Limit:      limit,
		Offset:     offset,
		HasMore:    hasMore,
	}

	return accumulated, meta, nil
}

// LatestByCategory lists the most recently published entries of a category
// with no time filter; rows carry title, link, published and source only.
func (s *Service) LatestByCategory(ctx context.Context, category string, limit int) ([]database.Entry, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	entries, err := s.repo.LatestByCategory(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest entries: %w", err)
	}

	return entries, nil
}

// cutoffTime computes the lower bound of the retrieval window. Under 24 hours
// the cutoff rolls with the current instant; at 24 hours and beyond it aligns
// to the start of the current UTC day minus whole days, so day-bucketed
// requests stay stable across repeated calls within the same day.
func (s *Service) cutoffTime(hoursBack int) time.Time {
	now := s.now().UTC()

	if hoursBack >= 24 {
		days := hoursBack / 24
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return dayStart.AddDate(0, 0, -days)
	}

	return now.Add(-time.Duration(hoursBack) * time.Hour)
}
