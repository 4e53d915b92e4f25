// Package digest composes a thematic narrative summary over stored entries
// that have not yet been included in a digest.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
)

const (
	// maxArticlesPerDigest caps how many entries feed one summarization call
	maxArticlesPerDigest = 10000
)

// EmptyResult is returned when no unsummarized entries exist; the external
// summarization call is skipped entirely in that case.
const EmptyResult = "Nothing to summarize: no unsummarized articles found."

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Composer struct {
	repo       database.EntryRepository
	summarizer Summarizer
	now        func() time.Time
}

func NewComposer(repo database.EntryRepository, summarizer Summarizer) *Composer {
	return &Composer{
		repo:       repo,
		summarizer: summarizer,
		now:        time.Now,
	}
}

// Run selects unsummarized entries (all categories when category is empty),
// summarizes them in one external call and marks them summarized. Rows are
// marked only after the call succeeds, so a failed invocation leaves the same
// candidates eligible for the next one.
func (c *Composer) Run(ctx context.Context, category string) (string, error) {
	entries, err := c.repo.Unsummarized(ctx, category, maxArticlesPerDigest)
	if err != nil {
		return "", fmt.Errorf("failed to select unsummarized entries: %w", err)
	}

	if len(entries) == 0 {
		return EmptyResult, nil
	}

	summary, err := c.summarizer.Summarize(ctx, renderBlocks(entries))
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	if err := c.repo.MarkSummarized(ctx, ids, c.now().UTC()); err != nil {
		return "", fmt.Errorf("failed to mark entries summarized: %w", err)
	}

	var out strings.Builder
	out.WriteString(strings.TrimSpace(summary))
	out.WriteString("\n\nSources:\n")
	out.WriteString(renderSourceList(entries))

	return out.String(), nil
}

// renderBlocks formats each entry as a labeled block whose citation marker
// matches its position in the appended source list.
func renderBlocks(entries []database.Entry) string {
	var sb strings.Builder
	for i, entry := range entries {
		if i > 0 {
			sb.WriteString("\n==========ARTICLE_SEPARATOR==========\n")
		}
		published := "unknown"
		if entry.Published != nil {
			published = entry.Published.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(&sb, "[%d] TITLE: %s\nSOURCE: %s\nPUBLISHED: %s\nCONTENT:\n%s\n",
			i+1, entry.Title, entry.Source, published, entry.Content)
	}
	return sb.String()
}

func renderSourceList(entries []database.Entry) string {
	var sb strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&sb, "[%d] %s (%s)\n", i+1, entry.Title, entry.Link)
	}
	return sb.String()
}
