// Package snapshot provides a file-backed DocumentStore that rewrites
// the full index as one JSON document on every mutation.
//
// The write protocol is wholesale replacement: the new snapshot is
// written to a temporary file and renamed over the previous one, so a
// crash mid-write can lose at most the most recent mutation and never
// corrupts prior state. The cost is O(index size) I/O per mutation,
// which is acceptable because mutations happen at upload frequency,
// not query frequency.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/talosedu/materia/internal/core/domain"
	"github.com/talosedu/materia/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// record is the serialised form of one document. Every domain field
// round-trips exactly, including empty chunk lists and empty raw text.
type record struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	Chunks    []string  `json:"chunks"`
	RawText   string    `json:"raw_text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a JSON-snapshot implementation of driven.DocumentStore.
type Store struct {
	mu       sync.RWMutex
	path     string
	index    map[string]record
}

// NewStore creates a snapshot store at the given file path, loading any
// existing snapshot. If path is empty, defaults to
// ~/.materia/data/index.json.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".materia", "data", "index.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{
		path:  path,
		index: make(map[string]record),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Save stores or replaces a document and rewrites the snapshot.
func (s *Store) Save(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.index[doc.ID]
	s.index[doc.ID] = toRecord(doc)

	if err := s.persist(); err != nil {
		// The in-memory index must not drift ahead of disk: restore
		// the overwritten record, or remove the entry if it was new.
		if existed {
			s.index[doc.ID] = prev
		} else {
			delete(s.index, doc.ID)
		}
		return err
	}
	return nil
}

// Get retrieves a document by ID.
func (s *Store) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := toDocument(rec)
	return &doc, nil
}

// ListByCourse returns all documents scoped to a course.
func (s *Store) ListByCourse(_ context.Context, courseID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Document
	for _, rec := range s.index {
		if rec.CourseID == courseID {
			result = append(result, toDocument(rec))
		}
	}
	return result, nil
}

// List returns every stored document.
func (s *Store) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Document, 0, len(s.index))
	for _, rec := range s.index {
		result = append(result, toDocument(rec))
	}
	return result, nil
}

// Delete removes a document and rewrites the snapshot.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.index[id]
	if !ok {
		return nil
	}

	delete(s.index, id)
	if err := s.persist(); err != nil {
		s.index[id] = rec
		return err
	}
	return nil
}

// load reads the snapshot file if it exists.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading snapshot: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	index := make(map[string]record)
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("decoding snapshot %s: %w", s.path, err)
	}

	s.index = index
	return nil
}

// persist writes the full index to a temporary file and renames it
// over the snapshot. Callers hold the write lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

func toRecord(doc *domain.Document) record {
	chunks := doc.Chunks
	if chunks == nil {
		chunks = []string{}
	}
	return record{
		ID:        doc.ID,
		CourseID:  doc.CourseID,
		Filename:  doc.Filename,
		Status:    string(doc.Status),
		Chunks:    chunks,
		RawText:   doc.RawText,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func toDocument(rec record) domain.Document {
	chunks := make([]string, len(rec.Chunks))
	copy(chunks, rec.Chunks)
	return domain.Document{
		ID:        rec.ID,
		CourseID:  rec.CourseID,
		Filename:  rec.Filename,
		Status:    domain.DocumentStatus(rec.Status),
		Chunks:    chunks,
		RawText:   rec.RawText,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
