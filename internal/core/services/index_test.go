package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talosedu/materia/internal/adapters/driven/storage/memory"
	"github.com/talosedu/materia/internal/chunker"
	"github.com/talosedu/materia/internal/core/domain"
)

func newTestIndex(t *testing.T) (*IndexService, *memory.DocumentStore) {
	t.Helper()
	splitter, err := chunker.New()
	require.NoError(t, err)
	store := memory.NewDocumentStore()
	return NewIndexService(store, splitter), store
}

func TestIndexService_Register(t *testing.T) {
	svc, _ := newTestIndex(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "c1", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "c1_notes.txt", id)

	doc, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRegistered, doc.Status)
	assert.Empty(t, doc.Chunks)
	assert.Empty(t, doc.RawText)
}

func TestIndexService_Register_ValidatesInput(t *testing.T) {
	svc, _ := newTestIndex(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "notes.txt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, "c1", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexService_Register_ResetsPriorChunks(t *testing.T) {
	svc, _ := newTestIndex(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "c1", "notes.txt")
	require.NoError(t, err)
	_, err = svc.AttachText(ctx, "c1", "notes.txt", "some course text")
	require.NoError(t, err)

	// Re-registering wipes stale chunks from the earlier upload.
	id, err := svc.Register(ctx, "c1", "notes.txt")
	require.NoError(t, err)

	doc, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRegistered, doc.Status)
	assert.Empty(t, doc.Chunks)
}

func TestIndexService_AttachText(t *testing.T) {
	svc, _ := newTestIndex(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "c1", "notes.txt")
	require.NoError(t, err)

	text := strings.Repeat("photosynthesis converts light into energy. ", 60)
	doc, err := svc.AttachText(ctx, "c1", "notes.txt", text)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusIndexed, doc.Status)
	assert.NotEmpty(t, doc.Chunks)
	assert.Equal(t, text, doc.RawText)
}

func TestIndexService_AttachText_RequiresRegistration(t *testing.T) {
	svc, _ := newTestIndex(t)

	_, err := svc.AttachText(context.Background(), "c1", "never-registered.txt", "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexService_ReingestionReplacesChunks(t *testing.T) {
	svc, _ := newTestIndex(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "c1", "notes.txt")
	require.NoError(t, err)
	_, err = svc.AttachText(ctx, "c1", "notes.txt", "first upload about volcanoes")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "c1", "notes.txt")
	require.NoError(t, err)
	doc, err := svc.AttachText(ctx, "c1", "notes.txt", "second upload about glaciers")
	require.NoError(t, err)

	// Exactly one document for the key, reflecting only the second text.
	docs, err := svc.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Contains(t, doc.RawText, "glaciers")
	for _, chunk := range doc.Chunks {
		assert.NotContains(t, chunk, "volcanoes")
	}
}

func TestIndexService_ListByCourse(t *testing.T) {
	svc, _ := newTestIndex(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "c1", "a.txt")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "c1", "b.txt")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "c2", "a.txt")
	require.NoError(t, err)

	docs, err := svc.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
