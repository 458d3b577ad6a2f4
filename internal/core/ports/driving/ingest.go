package driving

import (
	"context"
	"io"

	"github.com/talosedu/materia/internal/core/domain"
)

// IngestService orchestrates one upload: persist raw bytes, register
// the document, attach extracted text. Retrying the same
// (courseID, filename) reproduces the same end state.
type IngestService interface {
	// Upload stores the raw file bytes and registers the document.
	// The document stays in the registered state until Attach runs.
	Upload(ctx context.Context, courseID, filename string, contents io.Reader) (string, error)

	// Attach hands the caller-extracted text to the index.
	Attach(ctx context.Context, courseID, filename, text string) (*domain.Document, error)

	// Ingest runs Upload and Attach in one call.
	Ingest(ctx context.Context, courseID, filename string, contents io.Reader, text string) (*domain.Document, error)
}

// GateService manages safety-gate tokens on behalf of callers that
// embed a local gate (the CLI, tests). The retriever itself only ever
// sees the driven AccessGate boundary.
type GateService interface {
	// Issue mints a token valid for the given number of seconds.
	// ttlSeconds <= 0 issues a token without expiry.
	Issue(ctx context.Context, ttlSeconds int) (domain.AccessToken, error)

	// Revoke invalidates a token immediately.
	Revoke(ctx context.Context, token domain.AccessToken) error

	// Validate reports whether a token currently validates.
	Validate(ctx context.Context, token domain.AccessToken) (bool, error)

	// List returns every current grant, most recently issued first.
	List(ctx context.Context) ([]domain.TokenGrant, error)
}
