package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/ganot/rota/internal/repository"
)

const documentName = "scheduler"

// DocumentRepository implements repository.DocumentBackend on SQLite,
// storing the whole scheduler document in a single row. The row is
// replaced wholesale on every write, matching the load → modify → save
// discipline of the stats store.
type DocumentRepository struct {
	db         *DB
	legacyPath string
}

// NewDocumentRepository creates a new DocumentRepository. legacyPath, if
// non-empty, points at the standalone statistics file consumed once by
// migration.
func NewDocumentRepository(db *DB, legacyPath string) *DocumentRepository {
	return &DocumentRepository{db: db, legacyPath: legacyPath}
}

// Read returns the current document bytes.
func (r *DocumentRepository) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE name = ?`, documentName,
	).Scan(&body)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %w", repository.ErrStorageRead, err)
	}

	return body, nil
}

// Write replaces the document row.
func (r *DocumentRepository) Write(ctx context.Context, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, documentName, data)

	if err != nil {
		return fmt.Errorf("%w: write document: %w", repository.ErrStorageWrite, err)
	}

	return nil
}

// ReadLegacy returns the configured legacy statistics file contents.
func (r *DocumentRepository) ReadLegacy(ctx context.Context) ([]byte, error) {
	if r.legacyPath == "" {
		return nil, repository.ErrNotFound
	}
	data, err := os.ReadFile(r.legacyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read legacy stats: %w", repository.ErrStorageRead, err)
	}
	return data, nil
}
