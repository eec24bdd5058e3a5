package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	bizdoc "github.com/alnah/go-bizdoc"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	doc := &bizdoc.Document{
		Type:    bizdoc.TypeQuotation,
		Title:   "Q1 견적",
		Content: json.RawMessage(`{"documentType":"X","customer":"Y"}`),
		FormData: bizdoc.FormData{
			Fields: map[string]any{"customer": "Y"},
			Files:  []bizdoc.FileMeta{{Name: "spec.pdf", MIMEType: "application/pdf"}},
		},
	}
	if err := s.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if doc.ID == "" || doc.CreatedAt.IsZero() {
		t.Fatalf("Create() did not fill ID and CreatedAt: %+v", doc)
	}
	if doc.Status != bizdoc.StatusPending {
		t.Errorf("Status = %q, want pending by default", doc.Status)
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != doc.Title || got.Type != doc.Type || got.Status != doc.Status {
		t.Errorf("Get() = %+v, want %+v", got, doc)
	}
	if string(got.Content) != string(doc.Content) {
		t.Errorf("Content = %s, want byte-identical %s", got.Content, doc.Content)
	}
	if !got.CreatedAt.Equal(doc.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, doc.CreatedAt)
	}
	if len(got.FormData.Files) != 1 || got.FormData.Files[0].Name != "spec.pdf" {
		t.Errorf("FormData.Files = %+v", got.FormData.Files)
	}
	if got.FormData.Fields["customer"] != "Y" {
		t.Errorf("FormData.Fields = %+v", got.FormData.Fields)
	}
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		doc     *bizdoc.Document
		wantErr error
	}{
		{name: "nil", doc: nil, wantErr: bizdoc.ErrNilDocument},
		{name: "unknown type", doc: &bizdoc.Document{Type: "memo", Title: "x"}, wantErr: bizdoc.ErrInvalidDocumentType},
		{name: "empty title", doc: &bizdoc.Document{Type: bizdoc.TypeEmail}, wantErr: bizdoc.ErrEmptyTitle},
		{name: "unknown status", doc: &bizdoc.Document{Type: bizdoc.TypeEmail, Title: "x", Status: "draft"}, wantErr: bizdoc.ErrInvalidStatus},
	}

	for _, tt := range tests {
		if err := s.Create(ctx, tt.doc); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: Create() error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	doc := &bizdoc.Document{ID: "fixed", Type: bizdoc.TypeMinutes, Title: "주간 회의"}
	if err := s.Create(ctx, doc); err != nil {
		t.Fatal(err)
	}
	dup := &bizdoc.Document{ID: "fixed", Type: bizdoc.TypeMinutes, Title: "주간 회의"}
	if err := s.Create(ctx, dup); err == nil {
		t.Error("Create() with a duplicate ID succeeded")
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, bizdoc.ErrDocumentNotFound) {
		t.Errorf("Get() error = %v, want ErrDocumentNotFound", err)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		doc := &bizdoc.Document{
			ID:        fmt.Sprintf("doc-%d", i),
			Type:      bizdoc.TypeProposal,
			Title:     fmt.Sprintf("제안 %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.Create(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := s.List(ctx, 3)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("List(3) returned %d documents", len(docs))
	}
	for i, want := range []string{"doc-4", "doc-3", "doc-2"} {
		if docs[i].ID != want {
			t.Errorf("docs[%d].ID = %q, want %q", i, docs[i].ID, want)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("List(0) returned %d documents, want all 5", len(all))
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	doc := &bizdoc.Document{Type: bizdoc.TypeContract, Title: "용역 계약서", Content: json.RawMessage(`{"a":"b"}`)}
	if err := s.Create(ctx, doc); err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateStatus(ctx, doc.ID, bizdoc.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != bizdoc.StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if string(got.Content) != `{"a":"b"}` || got.Title != doc.Title {
		t.Error("UpdateStatus changed more than the status")
	}

	if err := s.UpdateStatus(ctx, "missing", bizdoc.StatusFailed); !errors.Is(err, bizdoc.ErrDocumentNotFound) {
		t.Errorf("UpdateStatus(missing) error = %v, want ErrDocumentNotFound", err)
	}
	if err := s.UpdateStatus(ctx, doc.ID, "archived"); !errors.Is(err, bizdoc.ErrInvalidStatus) {
		t.Errorf("UpdateStatus(archived) error = %v, want ErrInvalidStatus", err)
	}
}

func TestRunTx_RetriesBusy(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	var calls atomic.Int32

	err := s.RunTx(context.Background(), func(*sql.Tx) error {
		if calls.Add(1) < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTx() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("fn called %d times, want 3", calls.Load())
	}
}

func TestRunTx_GivesUp(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	var calls atomic.Int32
	busy := errors.New("database is locked")

	err := s.RunTx(context.Background(), func(*sql.Tx) error {
		calls.Add(1)
		return busy
	})
	if !errors.Is(err, busy) {
		t.Errorf("RunTx() error = %v, want the busy error", err)
	}
	if want := int32(len(busyBackoff) + 1); calls.Load() != want {
		t.Errorf("fn called %d times, want %d", calls.Load(), want)
	}
}

func TestRunTx_DoesNotRetryOtherErrors(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	var calls atomic.Int32
	boom := errors.New("constraint failed")

	err := s.RunTx(context.Background(), func(*sql.Tx) error {
		calls.Add(1)
		return boom
	})
	if !errors.Is(err, boom) || calls.Load() != 1 {
		t.Errorf("RunTx() = %v after %d calls, want one failed call", err, calls.Load())
	}
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bizdoc.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	doc := &bizdoc.Document{ID: "persisted", Type: bizdoc.TypeEmail, Title: "안내 메일"}
	if err := s.Create(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(context.Background(), "persisted"); err != nil {
		t.Errorf("Get() after reopen error = %v", err)
	}
}
