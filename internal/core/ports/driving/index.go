package driving

import (
	"context"

	"github.com/talosedu/materia/internal/core/domain"
)

// IndexService manages the document index: registration, text
// attachment (the only place chunking happens) and lookups.
type IndexService interface {
	// Register creates or resets the document entry for a
	// (courseID, filename) pair and returns its ID. Re-registering
	// wipes any previously attached chunks.
	Register(ctx context.Context, courseID, filename string) (string, error)

	// AttachText chunks the extracted text and stores it on the
	// previously registered document, marking it indexed.
	// Fails with domain.ErrNotFound when the document was never registered.
	AttachText(ctx context.Context, courseID, filename, text string) (*domain.Document, error)

	// Get retrieves a document by its ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// ListByCourse returns all documents for a course.
	ListByCourse(ctx context.Context, courseID string) ([]domain.Document, error)
}
