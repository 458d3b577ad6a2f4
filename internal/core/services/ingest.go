package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/talosedu/materia/internal/core/domain"
	"github.com/talosedu/materia/internal/core/ports/driven"
	"github.com/talosedu/materia/internal/core/ports/driving"
	"github.com/talosedu/materia/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService orchestrates one upload end to end: persist the raw
// bytes, register the document, attach the caller-extracted text.
type IngestService struct {
	files driven.FileStore
	index driving.IndexService
}

// NewIngestService creates an ingestion pipeline over the given file
// store and index.
func NewIngestService(files driven.FileStore, index driving.IndexService) *IngestService {
	return &IngestService{
		files: files,
		index: index,
	}
}

// Upload stores the raw file bytes and registers the document.
// If the file write fails nothing is registered, so a failed upload
// never leaves a dangling index entry.
func (s *IngestService) Upload(ctx context.Context, courseID, filename string, contents io.Reader) (string, error) {
	if strings.TrimSpace(courseID) == "" || strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("%w: course ID and filename are required", domain.ErrInvalidInput)
	}

	path, err := s.files.Save(ctx, filename, contents)
	if err != nil {
		return "", fmt.Errorf("store upload %s: %w", filename, err)
	}
	logger.Debug("Stored upload at %s", path)

	id, err := s.index.Register(ctx, courseID, filename)
	if err != nil {
		return "", fmt.Errorf("register %s: %w", filename, err)
	}

	return id, nil
}

// Attach hands the extracted text to the index for chunking.
func (s *IngestService) Attach(ctx context.Context, courseID, filename, text string) (*domain.Document, error) {
	doc, err := s.index.AttachText(ctx, courseID, filename, text)
	if err != nil {
		return nil, fmt.Errorf("attach text to %s: %w", domain.DocumentID(courseID, filename), err)
	}
	return doc, nil
}

// Ingest runs the full pipeline in one call. Re-running it for the
// same (courseID, filename) reproduces the same end state rather than
// duplicating entries.
func (s *IngestService) Ingest(
	ctx context.Context, courseID, filename string, contents io.Reader, text string,
) (*domain.Document, error) {
	if _, err := s.Upload(ctx, courseID, filename, contents); err != nil {
		return nil, err
	}
	return s.Attach(ctx, courseID, filename, text)
}
