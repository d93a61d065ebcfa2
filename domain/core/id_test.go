package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseSessionID(t *testing.T) {
	id := NewID()
	sid, err := ParseSessionID(id.String())
	if err != nil {
		t.Fatalf("ParseSessionID(%q) failed: %v", id, err)
	}
	if sid.String() != id.String() {
		t.Errorf("Expected %s, got %s", id, sid)
	}

	for _, bad := range []string{"", "   ", "not-a-uuid"} {
		if _, err := ParseSessionID(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
