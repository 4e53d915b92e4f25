package database

import (
	"time"
)

// Entry is the persisted, deduplicated article record. Published is nil for
// undated feed items; UploadedAt is set by the database at insertion time and
// drives the retrieval recency axis.
type Entry struct {
	ID           string
	Title        string
	Link         string
	Published    *time.Time
	Source       string
	Category     string
	Content      string
	SummarizedAt *time.Time
	UploadedAt   time.Time
}
