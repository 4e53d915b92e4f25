package feed

import (
	"time"
)

// Item is one entry parsed out of a feed document, prior to windowing and
// persistence. Summary carries the feed's short description (RSS description
// or Atom summary); Description carries the in-feed body (content:encoded or
// Atom content) when the feed supplies one.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Summary     string
	Description string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
}
