package driven

import (
	"context"
	"io"
)

// FileStore persists raw uploaded file bytes, keyed by filename.
// Saving the same filename twice overwrites the previous bytes, matching
// the overwrite-on-reingest semantics of the document index.
type FileStore interface {
	// Save writes the file contents durably and returns the stored path.
	Save(ctx context.Context, filename string, contents io.Reader) (string, error)

	// Open returns a reader over previously stored bytes.
	// Returns domain.ErrNotFound if the filename was never saved.
	Open(ctx context.Context, filename string) (io.ReadCloser, error)

	// Remove deletes stored bytes. Removing an absent file is not an error.
	Remove(ctx context.Context, filename string) error
}
