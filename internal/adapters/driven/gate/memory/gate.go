// Package memory provides an in-process safety-gate token registry,
// used in tests and by programs that embed the index directly.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talosedu/materia/internal/core/domain"
	"github.com/talosedu/materia/internal/core/ports/driven"
	"github.com/talosedu/materia/internal/core/ports/driving"
)

// Ensure Gate implements both the validation boundary and the
// management surface.
var (
	_ driven.AccessGate   = (*Gate)(nil)
	_ driving.GateService = (*Gate)(nil)
)

// Gate keeps issued token grants in memory. The retriever only ever
// calls Validate; issuance and revocation belong to the gate's owner.
type Gate struct {
	mu     sync.RWMutex
	grants map[string]domain.TokenGrant
	now    func() time.Time
}

// NewGate creates an empty in-memory gate.
func NewGate() *Gate {
	return &Gate{
		grants: make(map[string]domain.TokenGrant),
		now:    time.Now,
	}
}

// SetClock overrides the gate's clock. Useful for expiry tests.
func (g *Gate) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Issue mints a token valid for ttlSeconds. A non-positive ttl issues
// a token without expiry.
func (g *Gate) Issue(_ context.Context, ttlSeconds int) (domain.AccessToken, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	grant := domain.TokenGrant{
		ID:       uuid.New().String(),
		IssuedAt: now,
	}
	if ttlSeconds > 0 {
		grant.ExpiresAt = now.Add(time.Duration(ttlSeconds) * time.Second)
	}

	g.grants[grant.ID] = grant
	return domain.AccessToken{ID: grant.ID}, nil
}

// Revoke invalidates a token immediately. Revoking an unknown token
// is not an error.
func (g *Gate) Revoke(_ context.Context, token domain.AccessToken) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.grants, token.ID)
	return nil
}

// List returns every current grant, most recently issued first.
func (g *Gate) List(_ context.Context) ([]domain.TokenGrant, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	grants := make([]domain.TokenGrant, 0, len(g.grants))
	for _, grant := range g.grants {
		grants = append(grants, grant)
	}
	sort.Slice(grants, func(i, j int) bool {
		return grants[i].IssuedAt.After(grants[j].IssuedAt)
	})
	return grants, nil
}

// Validate reports whether the token is known and unexpired.
func (g *Gate) Validate(_ context.Context, token domain.AccessToken) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if token.IsZero() {
		return false, nil
	}
	grant, ok := g.grants[token.ID]
	if !ok {
		return false, nil
	}
	return grant.Valid(g.now()), nil
}
