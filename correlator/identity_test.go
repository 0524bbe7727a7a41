package correlator

import (
	"testing"

	"github.com/google/uuid"
)

func TestDeriveRunID_DeterministicForNamedRuns(t *testing.T) {
	a := DeriveRunID("nightly-2024-01-15")
	b := DeriveRunID("nightly-2024-01-15")
	if a != b {
		t.Fatalf("run id mismatch for same name: %q vs %q", a, b)
	}

	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("run id is not a UUID: %v", err)
	}
	if parsed.Version() != 5 {
		t.Fatalf("run id version=%d, want 5", parsed.Version())
	}
}

func TestDeriveRunID_DistinctNamesDistinctIDs(t *testing.T) {
	if DeriveRunID("run-a") == DeriveRunID("run-b") {
		t.Fatalf("distinct run names derived the same id")
	}
}

func TestDeriveRunID_TrimsName(t *testing.T) {
	if DeriveRunID("  nightly  ") != DeriveRunID("nightly") {
		t.Fatalf("surrounding whitespace changed the derived id")
	}
}

func TestDeriveRunID_RandomFallbackForEmptyName(t *testing.T) {
	a := DeriveRunID("")
	b := DeriveRunID("")
	if a == b {
		t.Fatalf("empty run name must derive fresh ids, got %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("fallback id is not a UUID: %v", err)
	}
}
