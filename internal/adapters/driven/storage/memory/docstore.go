// Package memory provides an in-memory DocumentStore, used in tests
// and as a non-durable backend for embedding programs.
package memory

import (
	"context"
	"sync"

	"github.com/talosedu/materia/internal/core/domain"
	"github.com/talosedu/materia/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// Save stores or replaces a document.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = cloneDocument(doc)
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneDocument(&doc)
	return &out, nil
}

// ListByCourse returns all documents scoped to a course.
func (s *DocumentStore) ListByCourse(_ context.Context, courseID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if doc.CourseID == courseID {
			result = append(result, cloneDocument(&doc))
		}
	}
	return result, nil
}

// List returns every stored document.
func (s *DocumentStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		doc := s.documents[id]
		result = append(result, cloneDocument(&doc))
	}
	return result, nil
}

// Delete removes a document.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

// cloneDocument copies a document so callers cannot alias the stored
// chunk slice.
func cloneDocument(doc *domain.Document) domain.Document {
	out := *doc
	if doc.Chunks != nil {
		out.Chunks = make([]string, len(doc.Chunks))
		copy(out.Chunks, doc.Chunks)
	}
	return out
}
