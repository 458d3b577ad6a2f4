package domain

import "time"

// DocumentStatus is the lifecycle marker of a document.
type DocumentStatus string

const (
	// StatusRegistered means the raw file is stored but no text has been
	// attached yet. A registered document has zero chunks and is never
	// returned by retrieval.
	StatusRegistered DocumentStatus = "registered"

	// StatusIndexed means extracted text has been attached and chunked.
	StatusIndexed DocumentStatus = "indexed"
)

// Document represents an uploaded course material.
// It is the canonical representation after text extraction.
type Document struct {
	// ID is the unique identifier, derived from (CourseID, Filename).
	ID string

	// CourseID is the scoping namespace for retrieval.
	CourseID string

	// Filename is the display label, quoted verbatim in context snippets.
	Filename string

	// Status tracks the ingestion lifecycle.
	Status DocumentStatus

	// Chunks is the ordered sequence of chunk strings.
	// Empty until text is attached; replaced wholesale on re-ingestion.
	Chunks []string

	// RawText is the full extracted text, retained for reference.
	// Scoring operates on Chunks, not on RawText.
	RawText string

	// CreatedAt is when the document was first registered.
	CreatedAt time.Time

	// UpdatedAt is when the document was last mutated.
	UpdatedAt time.Time
}

// DocumentID derives the stable document identifier for a
// (courseID, filename) pair. Re-ingesting the same filename for the
// same course produces the same ID, so ingestion overwrites rather
// than appends.
func DocumentID(courseID, filename string) string {
	return courseID + "_" + filename
}

// Indexed reports whether the document has chunked text attached.
func (d *Document) Indexed() bool {
	return d.Status == StatusIndexed && len(d.Chunks) > 0
}
