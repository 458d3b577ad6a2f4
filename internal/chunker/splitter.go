// Package chunker provides fixed-size overlapping text splitting.
package chunker

import (
	"fmt"

	"github.com/talosedu/materia/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters
// shared by consecutive chunks.
const DefaultOverlap = 200

// Splitter splits raw text into overlapping fixed-size chunks.
// It is pure: identical input always yields identical output.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		s.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		s.overlap = overlap
	}
}

// New creates a splitter with the given options.
// It fails with domain.ErrInvalidChunking when chunkSize is not positive
// or overlap is negative or not strictly smaller than chunkSize. Invalid
// parameters are a configuration error, not something to clamp quietly.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", domain.ErrInvalidChunking, s.chunkSize)
	}
	if s.overlap < 0 || s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d with chunk size %d",
			domain.ErrInvalidChunking, s.overlap, s.chunkSize)
	}

	return s, nil
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split materialises the full chunk list for the given text.
// Empty text produces no chunks. Consecutive full-length chunks share
// exactly the configured overlap at their boundary; the final chunk may
// be shorter than the chunk size.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	textLen := len(text)
	step := s.chunkSize - s.overlap

	chunks := make([]string, 0, textLen/step+1)

	for start := 0; start < textLen; start += step {
		end := start + s.chunkSize
		if end > textLen {
			end = textLen
		}

		chunks = append(chunks, text[start:end])

		// Once a chunk reaches the end of the text, further windows would
		// only re-cover overlapped material.
		if end == textLen {
			break
		}
	}

	return chunks
}
