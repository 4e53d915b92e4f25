package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

const entryColumns = 7 // id, title, link, published, source, category, content

type entryRepository struct {
	db *DB
}

func NewEntryRepository(db *DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) InsertEntries(ctx context.Context, entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	valueRows := make([]string, 0, len(entries))
	args := make([]interface{}, 0, len(entries)*entryColumns)

	for i, entry := range entries {
		base := i * entryColumns
		valueRows = append(valueRows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, entry.ID, entry.Title, entry.Link, entry.Published,
			entry.Source, entry.Category, entry.Content)
	}

	// uploaded_at and summarized_at take their column defaults
	query := `
		INSERT INTO entries (id, title, link, published, source, category, content)
		VALUES ` + strings.Join(valueRows, ", ") + `
		ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entries: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count inserted entries: %w", err)
	}

	return int(inserted), nil
}

func (r *entryRepository) RecentIDs(ctx context.Context, cutoff time.Time) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM entries
		WHERE published IS NULL OR published >= $1
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id row: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating id rows: %w", err)
	}

	return ids, nil
}

func (r *entryRepository) ArticlesPage(ctx context.Context, categories []string, cutoff time.Time, limit, offset int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, link, published, source, category, content, summarized_at, uploaded_at
		FROM entries
		WHERE uploaded_at >= $1
		  AND category = ANY($2)
		ORDER BY uploaded_at DESC, published DESC NULLS LAST
		LIMIT $3 OFFSET $4
	`, cutoff, pq.Array(categories), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles page: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *entryRepository) LatestByCategory(ctx context.Context, category string, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT title, link, published, source
		FROM entries
		WHERE category = $1
		ORDER BY published DESC NULLS LAST
		LIMIT $2
	`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var published sql.NullTime
		if err := rows.Scan(&entry.Title, &entry.Link, &published, &entry.Source); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		if published.Valid {
			entry.Published = &published.Time
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

func (r *entryRepository) Unsummarized(ctx context.Context, category string, limit int) ([]Entry, error) {
	query := `
		SELECT id, title, link, published, source, category, content, summarized_at, uploaded_at
		FROM entries
		WHERE summarized_at IS NULL`
	args := []interface{}{}

	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}

	query += fmt.Sprintf(` ORDER BY published DESC NULLS LAST LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get unsummarized entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *entryRepository) MarkSummarized(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE entries SET summarized_at = $1
		WHERE id = ANY($2)
	`, at, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark entries summarized: %w", err)
	}

	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var published, summarizedAt sql.NullTime
		err := rows.Scan(
			&entry.ID, &entry.Title, &entry.Link, &published,
			&entry.Source, &entry.Category, &entry.Content,
			&summarizedAt, &entry.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		if published.Valid {
			entry.Published = &published.Time
		}
		if summarizedAt.Valid {
			entry.SummarizedAt = &summarizedAt.Time
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}
