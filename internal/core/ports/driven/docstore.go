package driven

import (
	"context"

	"github.com/talosedu/materia/internal/core/domain"
)

// DocumentStore persists documents and their chunk lists.
// Implementations must make each mutation durable before returning:
// a crash after Save returns may lose a later mutation but never an
// acknowledged one, and never corrupts prior state.
type DocumentStore interface {
	// Save stores or wholesale-replaces a document. Conflicts on ID
	// overwrite; individual chunks are never mutated in place.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID.
	// Returns domain.ErrNotFound if no such document exists.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// ListByCourse returns all documents scoped to a course.
	// Order is unspecified and may change across mutations.
	ListByCourse(ctx context.Context, courseID string) ([]domain.Document, error)

	// List returns every document in the store, order unspecified.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error
}
