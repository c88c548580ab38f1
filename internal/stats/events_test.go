package stats

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEventSerialization(t *testing.T) {
	ev := Event{
		ID:        1,
		Type:      EventWelcome,
		Date:      "2026-03-10",
		Timestamp: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Minutes:   5,
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	t.Run("empty meta serializes as an object", func(t *testing.T) {
		if !strings.Contains(string(raw), `"meta":{}`) {
			t.Errorf("expected meta object in %s", raw)
		}
	})

	t.Run("ownerless events omit userId", func(t *testing.T) {
		if strings.Contains(string(raw), `"userId"`) {
			t.Errorf("unexpected userId in %s", raw)
		}
	})
}
