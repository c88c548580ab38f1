package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestRoadmapDocumentRoundTrip(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 84)
	finished := start.AddDate(0, 0, 60)

	t.Run("summary progress survives the jsonb cycle", func(t *testing.T) {
		original := RoadmapSummaryProgress{
			CurrentWeek:      9,
			CompletedWeeks:   8,
			TotalWeeks:       12,
			Percentage:       67,
			StartDate:        start,
			EstimatedEndDate: end,
			ActualEndDate:    &finished,
		}
		raw, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var decoded RoadmapSummaryProgress
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.CompletedWeeks != original.CompletedWeeks {
			t.Errorf("completedWeeks %d, want %d", decoded.CompletedWeeks, original.CompletedWeeks)
		}
		if decoded.TotalWeeks != original.TotalWeeks {
			t.Errorf("totalWeeks %d, want %d", decoded.TotalWeeks, original.TotalWeeks)
		}
		if !reflect.DeepEqual(decoded, original) {
			t.Errorf("round trip changed the record:\n got %+v\nwant %+v", decoded, original)
		}
	})

	t.Run("phases keep step completion flags", func(t *testing.T) {
		original := []RoadmapPhase{
			{
				Title:    "Foundation",
				Duration: "Weeks 1-2",
				Steps: []RoadmapStep{
					{Title: "Set up the toolchain", Resources: []string{"Official docs"}, Completed: true},
					{Title: "First project", Completed: false},
				},
			},
			{
				Title:    "Core Skills",
				Duration: "Weeks 3-4",
				Steps: []RoadmapStep{
					{Title: "Data structures", Resources: []string{"Course", "Practice set"}, Completed: true},
				},
			},
		}
		raw, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var decoded []RoadmapPhase
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !reflect.DeepEqual(decoded, original) {
			t.Errorf("round trip changed the phases:\n got %+v\nwant %+v", decoded, original)
		}
		if !decoded[0].Steps[0].Completed || decoded[0].Steps[1].Completed {
			t.Errorf("completion flags shifted: %+v", decoded[0].Steps)
		}
	})
}
