package domain

// Outcome tags the result of a retrieval query. Callers that only
// want the legacy string contract can ignore it and read Context,
// but the tag lets them distinguish a policy denial from a corpus
// that simply had nothing relevant.
type Outcome string

const (
	// OutcomeDenied means the access token failed validation.
	// Context is always empty.
	OutcomeDenied Outcome = "denied"

	// OutcomeEmpty means the token was valid but no chunk scored
	// above zero. Context is empty.
	OutcomeEmpty Outcome = "empty"

	// OutcomeFound means at least one chunk matched. Context holds
	// the formatted snippets.
	OutcomeFound Outcome = "found"
)

// RetrievalResult is the outcome of a context query.
type RetrievalResult struct {
	// Outcome tags how the query resolved.
	Outcome Outcome

	// Context is the formatted, ranked concatenation of the retrieved
	// chunks. Empty unless Outcome is OutcomeFound.
	Context string

	// Matches is the number of chunks that scored above zero,
	// before the top-N cut.
	Matches int
}

// Denied reports whether the query was blocked by the safety gate.
func (r RetrievalResult) Denied() bool {
	return r.Outcome == OutcomeDenied
}
