package web

import (
	"testing"
	"time"
)

// TestWorkspaceRegistry_Get verifies tokens map to stable workspaces.
func TestWorkspaceRegistry_Get(t *testing.T) {
	now := testNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })

	reg := newWorkspaceRegistry(time.Hour)
	a := reg.Get("token-a")
	if reg.Get("token-a") != a {
		t.Error("same token returned a different workspace")
	}
	if reg.Get("token-b") == a {
		t.Error("different tokens share a workspace")
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}

	// Touching a keeps it alive across the sweep that drops b.
	now = now.Add(40 * time.Minute)
	reg.Get("token-a")
	now = now.Add(40 * time.Minute)
	if reg.Get("token-a") != a {
		t.Error("recently used workspace was replaced")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", reg.Len())
	}
}

// TestWorkspaceRegistry_NilLen verifies Len on an unset registry.
func TestWorkspaceRegistry_NilLen(t *testing.T) {
	var reg *workspaceRegistry
	if reg.Len() != 0 {
		t.Error("nil registry reported workspaces")
	}
}
