package database

import (
	"context"
	"time"
)

type EntryRepository interface {
	// InsertEntries bulk-inserts a batch with insert-if-absent semantics on
	// id and returns the number of rows actually inserted.
	InsertEntries(ctx context.Context, entries []Entry) (int, error)

	// RecentIDs returns the ids of all entries that are undated or published
	// at or after cutoff.
	RecentIDs(ctx context.Context, cutoff time.Time) (map[string]struct{}, error)

	// ArticlesPage returns one page of entries uploaded at or after cutoff in
	// any of the given categories, newest upload first.
	ArticlesPage(ctx context.Context, categories []string, cutoff time.Time, limit, offset int) ([]Entry, error)

	// LatestByCategory returns the most recently published entries of a
	// category; only title, link, published and source are populated.
	LatestByCategory(ctx context.Context, category string, limit int) ([]Entry, error)

	// Unsummarized returns entries not yet included in a digest, most recent
	// published first. An empty category matches all categories.
	Unsummarized(ctx context.Context, category string, limit int) ([]Entry, error)

	// MarkSummarized stamps summarized_at on the given ids in one update.
	MarkSummarized(ctx context.Context, ids []string, at time.Time) error
}
