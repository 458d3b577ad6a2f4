package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/talosedu/materia/internal/chunker"
	"github.com/talosedu/materia/internal/core/domain"
	"github.com/talosedu/materia/internal/core/ports/driven"
	"github.com/talosedu/materia/internal/core/ports/driving"
	"github.com/talosedu/materia/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService maintains the document index. It is the only component
// that mutates the document store, and AttachText is the only call
// site of the chunker.
type IndexService struct {
	store    driven.DocumentStore
	splitter *chunker.Splitter
}

// NewIndexService creates an index service over the given store and splitter.
func NewIndexService(store driven.DocumentStore, splitter *chunker.Splitter) *IndexService {
	return &IndexService{
		store:    store,
		splitter: splitter,
	}
}

// Register creates or resets the document entry for (courseID, filename).
// Any previously attached chunks are wiped: they would be stale relative
// to the new upload.
func (s *IndexService) Register(ctx context.Context, courseID, filename string) (string, error) {
	if strings.TrimSpace(courseID) == "" || strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("%w: course ID and filename are required", domain.ErrInvalidInput)
	}

	id := domain.DocumentID(courseID, filename)
	now := time.Now().UTC()

	doc := &domain.Document{
		ID:        id,
		CourseID:  courseID,
		Filename:  filename,
		Status:    domain.StatusRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Preserve the original registration time across re-ingestion.
	if prev, err := s.store.Get(ctx, id); err == nil {
		doc.CreatedAt = prev.CreatedAt
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	logger.Info("Registered document %s", id)
	return id, nil
}

// AttachText chunks the extracted text and stores it on the registered
// document. The document must have been registered first.
func (s *IndexService) AttachText(ctx context.Context, courseID, filename, text string) (*domain.Document, error) {
	id := domain.DocumentID(courseID, filename)

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}

	doc.Chunks = s.splitter.Split(text)
	doc.RawText = text
	doc.Status = domain.StatusIndexed
	doc.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Indexed document %s: %d chunks", id, len(doc.Chunks))
	return doc, nil
}

// Get retrieves a document by ID.
func (s *IndexService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.store.Get(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	return doc, nil
}

// ListByCourse returns all documents for a course.
func (s *IndexService) ListByCourse(ctx context.Context, courseID string) ([]domain.Document, error) {
	docs, err := s.store.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
