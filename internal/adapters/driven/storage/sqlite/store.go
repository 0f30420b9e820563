// Package sqlite provides the persistent document store backed by a
// local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.veridoc/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".veridoc", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies any pending .up.sql migrations from the embedded FS.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocument stores or updates a document record.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (doc_id, filename, num_pages, ingested_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			filename = excluded.filename,
			num_pages = excluded.num_pages,
			ingested_at = excluded.ingested_at
	`, doc.ID, doc.Filename, doc.NumPages, doc.IngestedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SavePage stores the extracted text of one page.
func (s *Store) SavePage(ctx context.Context, page *domain.Page) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (doc_id, page, page_text, content_hash)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(doc_id, page) DO UPDATE SET
			page_text = excluded.page_text,
			content_hash = excluded.content_hash
	`, page.DocID, page.Number, page.Text, page.ContentHash)
	if err != nil {
		return fmt.Errorf("saving page: %w", err)
	}
	return nil
}

// GetPage retrieves one page by (docID, number).
func (s *Store) GetPage(ctx context.Context, docID string, number int) (*domain.Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT doc_id, page, page_text, content_hash
		FROM pages WHERE doc_id = ? AND page = ?
	`, docID, number)

	var page domain.Page
	err := row.Scan(&page.DocID, &page.Number, &page.Text, &page.ContentHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting page: %w", err)
	}
	return &page, nil
}

// SaveChunks stores a batch of chunks in one transaction.
func (s *Store) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, doc_id, page, char_start, char_end,
			heading, chunk_text, token_count, policy, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			doc_id = excluded.doc_id,
			page = excluded.page,
			char_start = excluded.char_start,
			char_end = excluded.char_end,
			heading = excluded.heading,
			chunk_text = excluded.chunk_text,
			token_count = excluded.token_count,
			policy = excluded.policy,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocID, chunk.Page,
			chunk.CharStart, chunk.CharEnd, chunk.Heading, chunk.Text,
			chunk.TokenCount, string(chunk.Policy), embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *Store) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT chunk_id, doc_id, page, char_start, char_end,
			heading, chunk_text, token_count, policy, embedding
		FROM chunks WHERE chunk_id = ?
	`, id)

	chunk, err := scanChunk(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting chunk: %w", err)
	}
	return chunk, nil
}

// ListChunks returns all chunks cut under the given policy, ordered by
// (doc_id, page, char_start).
func (s *Store) ListChunks(ctx context.Context, policy domain.ChunkPolicy) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, doc_id, page, char_start, char_end,
			heading, chunk_text, token_count, policy, embedding
		FROM chunks WHERE policy = ?
		ORDER BY doc_id, page, char_start
	`, string(policy))
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// DeleteChunks removes all chunks cut under the given policy.
func (s *Store) DeleteChunks(ctx context.Context, policy domain.ChunkPolicy) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE policy = ?", string(policy)); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// DeleteDocumentChunks removes one document's chunks cut under the
// given policy.
func (s *Store) DeleteDocumentChunks(ctx context.Context, docID string, policy domain.ChunkPolicy) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE doc_id = ? AND policy = ?", docID, string(policy)); err != nil {
		return fmt.Errorf("deleting document chunks: %w", err)
	}
	return nil
}

// ListDocuments returns all documents in the corpus.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, filename, num_pages, ingested_at
		FROM documents ORDER BY doc_id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		var ingestedAt time.Time
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.NumPages, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.IngestedAt = ingestedAt
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document; pages and chunks cascade.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE doc_id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// scanChunk scans one chunk row through the given Scan function.
func scanChunk(scan func(...any) error) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var policy string
	var embedding []byte

	err := scan(&chunk.ID, &chunk.DocID, &chunk.Page, &chunk.CharStart, &chunk.CharEnd,
		&chunk.Heading, &chunk.Text, &chunk.TokenCount, &policy, &embedding)
	if err != nil {
		return nil, err
	}

	chunk.Policy = domain.ChunkPolicy(policy)
	chunk.Embedding = bytesToFloat32Slice(embedding)
	return &chunk, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
