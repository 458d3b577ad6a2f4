package file

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/talosedu/materia/internal/core/domain"
)

func TestGate_IssueSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	ctx := context.Background()

	gate, err := NewGate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := gate.Issue(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh gate over the same file must honour the grant.
	reloaded, err := NewGate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := reloaded.Validate(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected issued token to validate after reload")
	}
}

func TestGate_RevokeSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	ctx := context.Background()

	gate, err := NewGate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := gate.Issue(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Revoke(ctx, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewGate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, _ := reloaded.Validate(ctx, token)
	if ok {
		t.Error("revoked token must not validate after reload")
	}
}

func TestGate_UnknownToken(t *testing.T) {
	gate, err := NewGate(filepath.Join(t.TempDir(), "tokens.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := gate.Validate(context.Background(), domain.AccessToken{ID: "forged"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("unknown token must not validate")
	}
}

func TestGate_ListSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	ctx := context.Background()

	gate, err := NewGate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := gate.Issue(ctx, 3600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewGate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	grants, err := reloaded.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected 1 grant, got %d", len(grants))
	}
	if grants[0].ID != token.ID {
		t.Errorf("expected grant %s, got %s", token.ID, grants[0].ID)
	}
	if grants[0].ExpiresAt.IsZero() {
		t.Error("grant with ttl should carry an expiry")
	}
}

func TestGate_ExpiryAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	ctx := context.Background()

	current := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	gate, err := NewGate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gate.SetClock(func() time.Time { return current })

	token, err := gate.Issue(ctx, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh process within the ttl still accepts the token.
	reloaded, err := NewGate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reloaded.SetClock(func() time.Time { return current.Add(30 * time.Second) })
	ok, err := reloaded.Validate(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("token should validate before expiry")
	}

	reloaded.SetClock(func() time.Time { return current.Add(2 * time.Minute) })
	ok, _ = reloaded.Validate(ctx, token)
	if ok {
		t.Error("token must not validate after expiry")
	}
}
