package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/clickwheel/internal/artwork"
	"github.com/desertthunder/clickwheel/internal/shared"
)

var _ artwork.Store = (*ArtworkRepository)(nil)

// CachedArtwork is a row of the artwork_cache table.
type CachedArtwork struct {
	ID        string
	Key       string
	Value     string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArtworkRepository implements [artwork.Store] on SQLite.
//
// Keys are unique; [ArtworkRepository.Put] upserts so repeated writes keep the original row id and creation time.
type ArtworkRepository struct {
	db     *sql.DB
	source string
}

// NewArtworkRepository creates a new ArtworkRepository with the given database connection
func NewArtworkRepository(db *sql.DB) *ArtworkRepository {
	return &ArtworkRepository{db: db}
}

// WithSource returns a repository that tags the rows it writes with source (e.g. "remote", "manual").
func (r *ArtworkRepository) WithSource(source string) *ArtworkRepository {
	return &ArtworkRepository{db: r.db, source: source}
}

// Get returns the cached value for key. A missing key is not an error.
func (r *ArtworkRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM artwork_cache WHERE cache_key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query artwork: %w", err)
	}
	return value, true, nil
}

// Put inserts or replaces the value for key.
func (r *ArtworkRepository) Put(ctx context.Context, key, value string) error {
	if !strings.HasPrefix(key, artwork.KeyPrefix) || len(key) == len(artwork.KeyPrefix) {
		return fmt.Errorf("%w: artwork key %q", shared.ErrInvalidInput, key)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO artwork_cache (id, cache_key, value, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			value = excluded.value,
			source = excluded.source,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, shared.GenerateID(), key, value, r.source, now, now); err != nil {
		return fmt.Errorf("failed to store artwork: %w", err)
	}
	return nil
}

// Delete removes key from the cache.
func (r *ArtworkRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM artwork_cache WHERE cache_key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete artwork: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrArtworkNotFound, key)
	}
	return nil
}

// List returns every cached row ordered by key.
func (r *ArtworkRepository) List(ctx context.Context) ([]CachedArtwork, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cache_key, value, source, created_at, updated_at
		FROM artwork_cache
		ORDER BY cache_key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query artwork: %w", err)
	}
	defer rows.Close()

	var out []CachedArtwork
	for rows.Next() {
		var a CachedArtwork
		if err := rows.Scan(&a.ID, &a.Key, &a.Value, &a.Source, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artwork: %w", err)
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}
