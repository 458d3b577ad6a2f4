// Package file provides a file-backed safety-gate token registry.
//
// The CLI issues a token in one process and validates it in another,
// so grants have to outlive a single invocation. Grants are kept in a
// JSON file next to the rest of the data directory, rewritten whole on
// every mutation like the index snapshot.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talosedu/materia/internal/core/domain"
	"github.com/talosedu/materia/internal/core/ports/driven"
	"github.com/talosedu/materia/internal/core/ports/driving"
)

// Ensure Gate implements both boundaries.
var (
	_ driven.AccessGate   = (*Gate)(nil)
	_ driving.GateService = (*Gate)(nil)
)

// grantRecord is the serialised form of one token grant.
type grantRecord struct {
	ID        string    `json:"id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Gate persists token grants in a JSON file.
type Gate struct {
	mu     sync.RWMutex
	path   string
	grants map[string]grantRecord
	now    func() time.Time
}

// NewGate creates a gate whose grants live at the given file path.
// If path is empty, defaults to ~/.materia/data/tokens.json.
func NewGate(path string) (*Gate, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".materia", "data", "tokens.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	g := &Gate{
		path:   path,
		grants: make(map[string]grantRecord),
		now:    time.Now,
	}

	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
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

	now := g.now().UTC()
	rec := grantRecord{
		ID:       uuid.New().String(),
		IssuedAt: now,
	}
	if ttlSeconds > 0 {
		rec.ExpiresAt = now.Add(time.Duration(ttlSeconds) * time.Second)
	}

	g.grants[rec.ID] = rec
	if err := g.persist(); err != nil {
		delete(g.grants, rec.ID)
		return domain.AccessToken{}, err
	}

	return domain.AccessToken{ID: rec.ID}, nil
}

// Revoke invalidates a token immediately.
func (g *Gate) Revoke(_ context.Context, token domain.AccessToken) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.grants[token.ID]
	if !ok {
		return nil
	}

	delete(g.grants, token.ID)
	if err := g.persist(); err != nil {
		g.grants[token.ID] = rec
		return err
	}
	return nil
}

// List returns every current grant, most recently issued first.
func (g *Gate) List(_ context.Context) ([]domain.TokenGrant, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	grants := make([]domain.TokenGrant, 0, len(g.grants))
	for _, rec := range g.grants {
		grants = append(grants, domain.TokenGrant{
			ID: rec.ID, IssuedAt: rec.IssuedAt, ExpiresAt: rec.ExpiresAt,
		})
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
	rec, ok := g.grants[token.ID]
	if !ok {
		return false, nil
	}

	grant := domain.TokenGrant{ID: rec.ID, IssuedAt: rec.IssuedAt, ExpiresAt: rec.ExpiresAt}
	return grant.Valid(g.now()), nil
}

func (g *Gate) load() error {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading token file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	grants := make(map[string]grantRecord)
	if err := json.Unmarshal(data, &grants); err != nil {
		return fmt.Errorf("decoding token file %s: %w", g.path, err)
	}
	g.grants = grants
	return nil
}

// persist rewrites the grant file. Callers hold the write lock.
func (g *Gate) persist() error {
	data, err := json.MarshalIndent(g.grants, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(g.path), ".tokens-*.json")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing token file: %w", err)
	}

	if err := os.Rename(tmpName, g.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing token file: %w", err)
	}
	return nil
}
