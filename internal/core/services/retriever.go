package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/talosedu/materia/internal/core/domain"
	"github.com/talosedu/materia/internal/core/ports/driven"
	"github.com/talosedu/materia/internal/core/ports/driving"
	"github.com/talosedu/materia/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.RetrieverService = (*RetrieverService)(nil)

// topResults is the number of chunks included in the context block.
const topResults = 3

// snippetSeparator joins formatted context entries.
const snippetSeparator = "\n\n---\n\n"

// scoredChunk holds one candidate chunk during ranking.
type scoredChunk struct {
	filename string
	content  string
	score    int
}

// RetrieverService ranks indexed chunks against a query and assembles
// the context block. Every query is gated by the safety-gate token
// before any scoring work happens.
type RetrieverService struct {
	store driven.DocumentStore
	gate  driven.AccessGate
}

// NewRetrieverService creates a retriever over the given store and gate.
func NewRetrieverService(store driven.DocumentStore, gate driven.AccessGate) *RetrieverService {
	return &RetrieverService{
		store: store,
		gate:  gate,
	}
}

// Retrieve validates the token, scores all eligible chunks and returns
// a tagged result. An invalid token short-circuits before any store
// access. courseID scopes candidates; empty means all courses.
func (s *RetrieverService) Retrieve(
	ctx context.Context, query string, token domain.AccessToken, courseID string,
) (domain.RetrievalResult, error) {
	logger.Section("Context Retrieval")
	logger.Debug("Query: %q, course: %q", query, courseID)

	ok, err := s.gate.Validate(ctx, token)
	if err != nil {
		// A gate that cannot be consulted is a denial, not a crash.
		logger.Warn("Gate validation error: %v", err)
		return domain.RetrievalResult{Outcome: domain.OutcomeDenied}, nil
	}
	if !ok {
		logger.Info("Token rejected by gate")
		return domain.RetrievalResult{Outcome: domain.OutcomeDenied}, nil
	}

	terms := queryTerms(query)
	if len(terms) == 0 {
		return domain.RetrievalResult{Outcome: domain.OutcomeEmpty}, nil
	}
	logger.Debug("Query terms: %v", terms)

	candidates, err := s.candidates(ctx, courseID)
	if err != nil {
		return domain.RetrievalResult{}, err
	}

	scored := scoreChunks(candidates, terms)
	logger.Debug("Chunks with positive score: %d", len(scored))

	if len(scored) == 0 {
		return domain.RetrievalResult{Outcome: domain.OutcomeEmpty}, nil
	}

	return domain.RetrievalResult{
		Outcome: domain.OutcomeFound,
		Context: formatContext(scored),
		Matches: len(scored),
	}, nil
}

// SearchContext preserves the legacy contract: the context block, or ""
// on denial or no match. Callers that need to tell the two apart use
// Retrieve.
func (s *RetrieverService) SearchContext(
	ctx context.Context, query string, token domain.AccessToken, courseID string,
) (string, error) {
	result, err := s.Retrieve(ctx, query, token, courseID)
	if err != nil {
		return "", err
	}
	return result.Context, nil
}

// candidates returns the documents eligible for the given course scope.
func (s *RetrieverService) candidates(ctx context.Context, courseID string) ([]domain.Document, error) {
	if courseID == "" {
		docs, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		return docs, nil
	}

	docs, err := s.store.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list documents for course %s: %w", courseID, err)
	}
	return docs, nil
}

// queryTerms tokenizes and filters a query. The query is lower-cased,
// question marks and full stops are stripped, and the result is split
// on whitespace. Stop words and single characters are dropped; if that
// removes every term the unfiltered list is used instead, so a query
// is never silently empty.
func queryTerms(query string) []string {
	cleaned := strings.ToLower(query)
	cleaned = strings.ReplaceAll(cleaned, "?", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")

	raw := strings.Fields(cleaned)
	if len(raw) == 0 {
		return nil
	}

	filtered := make([]string, 0, len(raw))
	for _, term := range raw {
		if len(term) < 2 {
			continue
		}
		if _, stop := stopwords[term]; stop {
			continue
		}
		filtered = append(filtered, term)
	}

	if len(filtered) == 0 {
		return raw
	}
	return filtered
}

// scoreChunks scores every chunk of every indexed document against the terms
// and returns those with a strictly positive score, best first. Equal
// scores keep scan order; callers must not rely on a particular order
// among ties.
func scoreChunks(docs []domain.Document, terms []string) []scoredChunk {
	var scored []scoredChunk

	for i := range docs {
		doc := &docs[i]
		// Registered-but-unindexed documents have nothing to offer.
		if !doc.Indexed() {
			continue
		}
		for _, chunk := range doc.Chunks {
			lower := strings.ToLower(chunk)

			score := 0
			for _, term := range terms {
				score += strings.Count(lower, term) * 2
			}

			if score > 0 {
				scored = append(scored, scoredChunk{
					filename: doc.Filename,
					content:  chunk,
					score:    score,
				})
			}
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	return scored
}

// formatContext renders the top chunks as the context block.
func formatContext(scored []scoredChunk) string {
	n := len(scored)
	if n > topResults {
		n = topResults
	}

	entries := make([]string, n)
	for i := 0; i < n; i++ {
		entries[i] = fmt.Sprintf("From %s:\n%s", scored[i].filename, scored[i].content)
	}

	return strings.Join(entries, snippetSeparator)
}
