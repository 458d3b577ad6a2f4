package driven

import (
	"context"

	"github.com/talosedu/materia/internal/core/domain"
)

// AccessGate is the single-call boundary to the external safety gate.
// The retriever invokes Validate before doing any work and treats any
// non-true result as a denial. The gate owns token issuance and the
// meaning of the token's identifier; the core only forwards it.
type AccessGate interface {
	// Validate reports whether the gate currently considers the token
	// valid. An error means the gate could not be consulted, which
	// callers must also treat as a denial.
	Validate(ctx context.Context, token domain.AccessToken) (bool, error)
}
