package harvest

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/news-comb/app/feed"
)

// knownIDs is the set of entry ids already seen, either preloaded from the
// store or added during the current run. Safe for concurrent workers.
type knownIDs struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newKnownIDs(preloaded map[string]struct{}) *knownIDs {
	if preloaded == nil {
		preloaded = make(map[string]struct{})
	}
	return &knownIDs{ids: preloaded}
}

func (k *knownIDs) contains(id string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.ids[id]
	return ok
}

// add returns false if the id was already present.
func (k *knownIDs) add(id string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.ids[id]; ok {
		return false
	}
	k.ids[id] = struct{}{}
	return true
}

// deriveID computes the dedup key for a raw item: the feed-supplied GUID if
// present, else the link, else a random id so link-less items still persist.
func deriveID(item feed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	if item.Link != "" {
		return item.Link
	}
	return uuid.NewString()
}

// Filter decides which raw items become candidates for content resolution:
// unseen id and either undated or published at/after the cutoff.
type Filter struct {
	cutoff time.Time
	known  *knownIDs
}

func NewFilter(cutoff time.Time, preloaded map[string]struct{}) *Filter {
	return &Filter{
		cutoff: cutoff,
		known:  newKnownIDs(preloaded),
	}
}

// Candidate returns the item's dedup id and whether it should proceed to
// content resolution. Candidate ids are claimed in the known set immediately,
// so two items resolving to the same id within one run collapse to one.
func (f *Filter) Candidate(item feed.Item) (string, bool) {
	id := deriveID(item)

	if f.known.contains(id) {
		return id, false
	}

	published := item.PublishedAt
	if published == nil {
		published = item.UpdatedAt
	}

	// Undated items are treated as always-recent
	if published != nil && published.Before(f.cutoff) {
		return id, false
	}

	if !f.known.add(id) {
		// another worker claimed the id between the checks
		return id, false
	}

	return id, true
}

// PublishedAt returns the timestamp used for windowing and persistence:
// published, falling back to updated, nil when the item carries neither.
func PublishedAt(item feed.Item) *time.Time {
	if item.PublishedAt != nil {
		return item.PublishedAt
	}
	return item.UpdatedAt
}
