package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talosedu/materia/internal/adapters/driven/storage/memory"
	"github.com/talosedu/materia/internal/chunker"
	"github.com/talosedu/materia/internal/core/domain"
)

// --- Mock implementations ---

// mockGate implements driven.AccessGate for testing.
type mockGate struct {
	valid       bool
	validateErr error
	calls       int
}

func (m *mockGate) Validate(_ context.Context, _ domain.AccessToken) (bool, error) {
	m.calls++
	if m.validateErr != nil {
		return false, m.validateErr
	}
	return m.valid, nil
}

// failingStore counts accesses so tests can prove the retriever never
// touched storage.
type failingStore struct {
	accesses int
}

func (f *failingStore) Save(_ context.Context, _ *domain.Document) error {
	f.accesses++
	return errors.New("store must not be touched")
}

func (f *failingStore) Get(_ context.Context, _ string) (*domain.Document, error) {
	f.accesses++
	return nil, errors.New("store must not be touched")
}

func (f *failingStore) ListByCourse(_ context.Context, _ string) ([]domain.Document, error) {
	f.accesses++
	return nil, errors.New("store must not be touched")
}

func (f *failingStore) List(_ context.Context) ([]domain.Document, error) {
	f.accesses++
	return nil, errors.New("store must not be touched")
}

func (f *failingStore) Delete(_ context.Context, _ string) error {
	f.accesses++
	return errors.New("store must not be touched")
}

// --- Helpers ---

func seedDocument(t *testing.T, store *memory.DocumentStore, courseID, filename, text string) {
	t.Helper()
	splitter, err := chunker.New()
	require.NoError(t, err)
	doc := &domain.Document{
		ID:       domain.DocumentID(courseID, filename),
		CourseID: courseID,
		Filename: filename,
		Status:   domain.StatusIndexed,
		Chunks:   splitter.Split(text),
		RawText:  text,
	}
	require.NoError(t, store.Save(context.Background(), doc))
}

func validToken() domain.AccessToken {
	return domain.AccessToken{ID: "granted"}
}

func TestRetriever_DenialShortCircuitsScoring(t *testing.T) {
	store := &failingStore{}
	gate := &mockGate{valid: false}
	svc := NewRetrieverService(store, gate)

	result, err := svc.Retrieve(context.Background(), "What is photosynthesis?", validToken(), "c1")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeDenied, result.Outcome)
	assert.Empty(t, result.Context)
	assert.Equal(t, 1, gate.calls)
	assert.Zero(t, store.accesses, "denied query must never reach the store")
}

func TestRetriever_GateErrorIsDenial(t *testing.T) {
	store := &failingStore{}
	gate := &mockGate{validateErr: errors.New("gate unreachable")}
	svc := NewRetrieverService(store, gate)

	result, err := svc.Retrieve(context.Background(), "anything", validToken(), "")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeDenied, result.Outcome)
	assert.Zero(t, store.accesses)
}

func TestRetriever_FindsRelevantChunk(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "c1", "biology.txt",
		"Photosynthesis is the process plants use to convert light into chemical energy.")
	svc := NewRetrieverService(store, &mockGate{valid: true})

	result, err := svc.Retrieve(context.Background(), "What is photosynthesis?", validToken(), "c1")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeFound, result.Outcome)
	assert.Contains(t, result.Context, "From biology.txt:")
	assert.Contains(t, result.Context, "Photosynthesis")
}

func TestRetriever_NoMatchIsEmpty(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "c1", "biology.txt", "Cells divide through mitosis.")
	svc := NewRetrieverService(store, &mockGate{valid: true})

	result, err := svc.Retrieve(context.Background(), "quantum entanglement", validToken(), "c1")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeEmpty, result.Outcome)
	assert.Empty(t, result.Context)
}

func TestRetriever_ScopeIsolation(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "A", "a.txt", "gravity appears once here")
	seedDocument(t, store, "B", "b.txt",
		"gravity gravity gravity gravity gravity scores far higher on raw terms")
	svc := NewRetrieverService(store, &mockGate{valid: true})

	result, err := svc.Retrieve(context.Background(), "gravity", validToken(), "A")
	require.NoError(t, err)

	require.Equal(t, domain.OutcomeFound, result.Outcome)
	assert.Contains(t, result.Context, "From a.txt:")
	assert.NotContains(t, result.Context, "b.txt")
}

func TestRetriever_UnscopedSearchesAllCourses(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "A", "a.txt", "tectonic plates shift slowly")
	seedDocument(t, store, "B", "b.txt", "tectonic activity builds mountains")
	svc := NewRetrieverService(store, &mockGate{valid: true})

	result, err := svc.Retrieve(context.Background(), "tectonic", validToken(), "")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeFound, result.Outcome)
	assert.Equal(t, 2, result.Matches)
}

func TestRetriever_RegisteredDocumentsContributeNothing(t *testing.T) {
	store := memory.NewDocumentStore()
	require.NoError(t, store.Save(context.Background(), &domain.Document{
		ID: "c1_pending", CourseID: "c1", Filename: "pending.pdf",
		Status:  domain.StatusRegistered,
		RawText: "", // file stored, text never attached
	}))
	svc := NewRetrieverService(store, &mockGate{valid: true})

	result, err := svc.Retrieve(context.Background(), "pending", validToken(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeEmpty, result.Outcome)
}

func TestRetriever_TopThreeBestFirst(t *testing.T) {
	store := memory.NewDocumentStore()
	// Four single-chunk documents with increasing term frequency.
	seedDocument(t, store, "c1", "one.txt", "enzyme")
	seedDocument(t, store, "c1", "two.txt", "enzyme enzyme")
	seedDocument(t, store, "c1", "three.txt", "enzyme enzyme enzyme")
	seedDocument(t, store, "c1", "four.txt", "enzyme enzyme enzyme enzyme")
	svc := NewRetrieverService(store, &mockGate{valid: true})

	result, err := svc.Retrieve(context.Background(), "enzyme", validToken(), "c1")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeFound, result.Outcome)
	assert.Equal(t, 4, result.Matches)

	entries := strings.Split(result.Context, "\n\n---\n\n")
	require.Len(t, entries, 3, "context holds at most the top 3 chunks")

	// The weakest match must be the one cut.
	assert.NotContains(t, result.Context, "From one.txt:")
	assert.True(t, strings.HasPrefix(entries[0], "From four.txt:"))
}

func TestRetriever_StopWordOnlyQueryFallsBack(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "c1", "notes.txt", "this is about the and of it all")
	svc := NewRetrieverService(store, &mockGate{valid: true})

	// Every term is a stop word; the unfiltered list must be used so the
	// query still matches.
	result, err := svc.Retrieve(context.Background(), "the and of", validToken(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFound, result.Outcome)
}

func TestRetriever_EmptyQuery(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "c1", "notes.txt", "content")
	svc := NewRetrieverService(store, &mockGate{valid: true})

	result, err := svc.Retrieve(context.Background(), "   ", validToken(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeEmpty, result.Outcome)
}

func TestRetriever_SearchContextLegacyContract(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocument(t, store, "c1", "notes.txt", "photosynthesis in plants")

	t.Run("denial is empty string", func(t *testing.T) {
		svc := NewRetrieverService(store, &mockGate{valid: false})
		out, err := svc.SearchContext(context.Background(), "photosynthesis", validToken(), "c1")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("match is formatted context", func(t *testing.T) {
		svc := NewRetrieverService(store, &mockGate{valid: true})
		out, err := svc.SearchContext(context.Background(), "photosynthesis", validToken(), "c1")
		require.NoError(t, err)
		assert.Contains(t, out, "From notes.txt:")
	})
}

// TestRetriever_ScenarioNotesUpload walks the end-to-end scenario:
// a 2500-character document whose only mention of "photosynthesis"
// sits at characters 1800-1820, so exactly one of the three chunks
// (the one starting at 1600) can match.
func TestRetriever_ScenarioNotesUpload(t *testing.T) {
	ctx := context.Background()

	filler := strings.Repeat("cell biology covers membranes organelles and energy pathways ", 100)
	text := filler[:1800] + " photosynthesis " + filler[:2500-1800-len(" photosynthesis ")]
	require.Len(t, text, 2500)

	splitter, err := chunker.New()
	require.NoError(t, err)
	store := memory.NewDocumentStore()
	index := NewIndexService(store, splitter)

	_, err = index.Register(ctx, "c1", "notes.txt")
	require.NoError(t, err)
	doc, err := index.AttachText(ctx, "c1", "notes.txt", text)
	require.NoError(t, err)

	require.Len(t, doc.Chunks, 3)
	assert.NotContains(t, doc.Chunks[0], "photosynthesis")
	assert.NotContains(t, doc.Chunks[1], "photosynthesis")
	assert.Contains(t, doc.Chunks[2], "photosynthesis")

	svc := NewRetrieverService(store, &mockGate{valid: true})

	result, err := svc.Retrieve(ctx, "What is photosynthesis?", validToken(), "c1")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeFound, result.Outcome)
	assert.Equal(t, 1, result.Matches)
	assert.NotContains(t, result.Context, snippetSeparator,
		"exactly one entry means no separator")
	assert.Contains(t, result.Context, "From notes.txt:")
	assert.Contains(t, result.Context, "photosynthesis")

	// The same query scoped to another course finds nothing.
	other, err := svc.Retrieve(ctx, "What is photosynthesis?", validToken(), "c2")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeEmpty, other.Outcome)
	assert.Empty(t, other.Context)
}

func TestQueryTerms(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		terms := queryTerms("What is Photosynthesis?")
		assert.Equal(t, []string{"photosynthesis"}, terms)
	})

	t.Run("drops single characters", func(t *testing.T) {
		terms := queryTerms("x photosynthesis")
		assert.Equal(t, []string{"photosynthesis"}, terms)
	})

	t.Run("strips full stops", func(t *testing.T) {
		terms := queryTerms("explain mitosis.")
		assert.Equal(t, []string{"explain", "mitosis"}, terms)
	})

	t.Run("stop-word-only query falls back to raw terms", func(t *testing.T) {
		terms := queryTerms("the and of")
		assert.Equal(t, []string{"the", "and", "of"}, terms)
	})

	t.Run("empty query yields no terms", func(t *testing.T) {
		assert.Nil(t, queryTerms(""))
		assert.Nil(t, queryTerms("  "))
	})
}

func TestScoreChunks(t *testing.T) {
	docs := []domain.Document{
		{
			Filename: "a.txt",
			Status:   domain.StatusIndexed,
			Chunks:   []string{"Enzyme enzyme here", "nothing relevant"},
		},
	}

	scored := scoreChunks(docs, []string{"enzyme"})
	require.Len(t, scored, 1, "zero-score chunks are excluded")
	assert.Equal(t, 4, scored[0].score, "two case-insensitive occurrences at weight 2")
}

func TestScoreChunks_SkipsUnindexedDocuments(t *testing.T) {
	docs := []domain.Document{
		{
			Filename: "stale.txt",
			Status:   domain.StatusRegistered,
			Chunks:   []string{"enzyme enzyme"},
		},
		{
			Filename: "live.txt",
			Status:   domain.StatusIndexed,
			Chunks:   []string{"enzyme"},
		},
	}

	scored := scoreChunks(docs, []string{"enzyme"})
	require.Len(t, scored, 1)
	assert.Equal(t, "live.txt", scored[0].filename)
}
