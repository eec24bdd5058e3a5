// Package store persists generated documents in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	bizdoc "github.com/alnah/go-bizdoc"
)

// List limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// busyBackoff is the wait before each retry of a transaction that hit
// SQLITE_BUSY.
var busyBackoff = []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	form_data  TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_created_at ON documents(created_at);
`

const selectColumns = `SELECT id, type, title, content, form_data, status, created_at FROM documents`

// Store is a document repository backed by one SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %q: %w", pragma, err)
		}
	}
	return newStore(db)
}

// OpenMemory opens a private in-memory database.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each connection would see its own empty database.
	db.SetMaxOpenConns(1)
	return newStore(db)
}

func newStore(db *sql.DB) (*Store, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create stores doc. A missing ID, creation time or status is filled in
// on doc before it is validated.
func (s *Store) Create(ctx context.Context, doc *bizdoc.Document) error {
	if doc == nil {
		return bizdoc.ErrNilDocument
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now().UTC()
	}
	if doc.Status == "" {
		doc.Status = bizdoc.StatusPending
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	formData, err := json.Marshal(doc.FormData)
	if err != nil {
		return fmt.Errorf("encode form data: %w", err)
	}
	content := string(doc.Content)
	if content == "" {
		content = "null"
	}

	return s.RunTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, type, title, content, form_data, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			doc.ID, string(doc.Type), doc.Title, content, string(formData), string(doc.Status),
			doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert document %s: %w", doc.ID, err)
		}
		return nil
	})
}

// Get returns the document with id, or bizdoc.ErrDocumentNotFound.
func (s *Store) Get(ctx context.Context, id string) (*bizdoc.Document, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", bizdoc.ErrDocumentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// List returns up to limit documents, newest first. A limit outside
// 1..MaxListLimit is replaced by DefaultListLimit or clamped.
func (s *Store) List(ctx context.Context, limit int) ([]*bizdoc.Document, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*bizdoc.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// UpdateStatus sets the status of document id. Status is the only column
// that changes after creation.
func (s *Store) UpdateStatus(ctx context.Context, id string, status bizdoc.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", bizdoc.ErrInvalidStatus, status)
	}
	return s.RunTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE documents SET status = ? WHERE id = ?`, string(status), id)
		if err != nil {
			return fmt.Errorf("update status of %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update status of %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", bizdoc.ErrDocumentNotFound, id)
		}
		return nil
	})
}

// RunTx runs fn in a transaction. The whole transaction is retried with
// backoff while SQLite reports the database as busy.
func (s *Store) RunTx(ctx context.Context, fn func(*sql.Tx) error) error {
	for attempt := 0; ; attempt++ {
		err := s.runTxOnce(ctx, fn)
		if err == nil || !isBusy(err) || attempt >= len(busyBackoff) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(busyBackoff[attempt]):
		}
	}
}

func (s *Store) runTxOnce(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED.
func isBusy(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}
	return strings.Contains(err.Error(), "database is locked")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*bizdoc.Document, error) {
	var doc bizdoc.Document
	var typ, content, formData, status, createdAt string
	if err := row.Scan(&doc.ID, &typ, &doc.Title, &content, &formData, &status, &createdAt); err != nil {
		return nil, err
	}

	doc.Type = bizdoc.DocumentType(typ)
	doc.Status = bizdoc.Status(status)
	doc.Content = json.RawMessage(content)
	if err := json.Unmarshal([]byte(formData), &doc.FormData); err != nil {
		return nil, fmt.Errorf("decode form data of %s: %w", doc.ID, err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of %s: %w", doc.ID, err)
	}
	doc.CreatedAt = created
	return &doc, nil
}
