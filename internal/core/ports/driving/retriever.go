package driving

import (
	"context"

	"github.com/talosedu/materia/internal/core/domain"
)

// RetrieverService answers free-text queries with the most relevant
// chunks, gated by a safety-gate token.
type RetrieverService interface {
	// Retrieve validates the token, scores all eligible chunks and
	// returns a tagged result. courseID scopes the search; empty means
	// all courses. A denial or an empty corpus is not an error.
	Retrieve(ctx context.Context, query string, token domain.AccessToken, courseID string) (domain.RetrievalResult, error)

	// SearchContext is the legacy string contract: the formatted
	// context block, or "" on denial or no match.
	SearchContext(ctx context.Context, query string, token domain.AccessToken, courseID string) (string, error)
}
