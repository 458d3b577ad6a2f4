package domain

import "time"

// AccessToken is an opaque capability proving a query already passed
// the external safety gate's scan. The retriever never inspects the
// identifier; it only forwards the token to the gate for validation.
type AccessToken struct {
	// ID is the gate-issued identifier. Opaque to everything but the gate.
	ID string
}

// IsZero reports whether the token carries no identifier at all.
func (t AccessToken) IsZero() bool {
	return t.ID == ""
}

// TokenGrant is a gate-side record of an issued token.
// Only gate implementations interpret it; the retriever sees AccessToken.
type TokenGrant struct {
	// ID matches the AccessToken identifier handed to the caller.
	ID string

	// IssuedAt is when the gate issued the token.
	IssuedAt time.Time

	// ExpiresAt is when the token stops validating. Zero means no expiry.
	ExpiresAt time.Time
}

// Valid reports whether the grant is still usable at the given instant.
func (g TokenGrant) Valid(now time.Time) bool {
	return g.ExpiresAt.IsZero() || now.Before(g.ExpiresAt)
}
