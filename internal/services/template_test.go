package services

import (
	"strings"
	"testing"
)

func TestTemplateRoadmap(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		first, _ := TemplateRoadmap("Go, backend", true, "beginner")
		second, _ := TemplateRoadmap("Go, backend", true, "beginner")
		if first != second {
			t.Error("template output differs between calls")
		}
	})

	t.Run("interpolates interests literally", func(t *testing.T) {
		text, _ := TemplateRoadmap("Rust systems programming", false, "")
		if !strings.Contains(text, "12-Week Personalized Learning Roadmap: Rust systems programming") {
			t.Error("header missing interests")
		}
		if !strings.Contains(text, "Understand the core concepts behind Rust systems programming") {
			t.Error("goal missing interests")
		}
	})

	t.Run("produces six two-week phases", func(t *testing.T) {
		text, phases := TemplateRoadmap("Go", false, "")
		if len(phases) != 6 {
			t.Fatalf("expected 6 phases, got %d", len(phases))
		}
		for _, heading := range []string{"Weeks 1-2", "Weeks 3-4", "Weeks 5-6", "Weeks 7-8", "Weeks 9-10", "Weeks 11-12"} {
			if !strings.Contains(text, heading) {
				t.Errorf("missing heading %q", heading)
			}
		}
		for _, phase := range phases {
			if phase.Duration != "2 weeks" {
				t.Errorf("phase %q duration %q", phase.Title, phase.Duration)
			}
			if len(phase.Steps) != 4 {
				t.Errorf("phase %q has %d steps, want 4", phase.Title, len(phase.Steps))
			}
			last := phase.Steps[len(phase.Steps)-1]
			if !strings.HasPrefix(last.Title, "Project: ") {
				t.Errorf("phase %q last step %q is not the project", phase.Title, last.Title)
			}
		}
	})

	t.Run("mentions resume and level when given", func(t *testing.T) {
		text, _ := TemplateRoadmap("Go", true, "intermediate")
		if !strings.Contains(text, "Experience level: intermediate") {
			t.Error("experience level missing")
		}
		if !strings.Contains(text, "resume") {
			t.Error("resume note missing")
		}
	})

	t.Run("includes milestones and tips", func(t *testing.T) {
		text, _ := TemplateRoadmap("Go", false, "")
		if !strings.Contains(text, "Milestones:") || !strings.Contains(text, "Tips for Success:") {
			t.Error("closing sections missing")
		}
	})
}

func TestParsePhases(t *testing.T) {
	t.Run("parses the template's own text", func(t *testing.T) {
		text, wantPhases := TemplateRoadmap("Go", false, "")
		phases, ok := ParsePhases(text)
		if !ok {
			t.Fatal("expected template text to parse")
		}
		if len(phases) != len(wantPhases) {
			t.Errorf("expected %d phases, got %d", len(wantPhases), len(phases))
		}
	})

	t.Run("parses markdown-style AI output", func(t *testing.T) {
		text := strings.Join([]string{
			"## Week 1: Getting Started",
			"- Install the toolchain",
			"- Read the tour",
			"",
			"## Weeks 2-3: Fundamentals",
			"1. Learn about slices",
			"2) Learn about maps",
			"* Practice daily",
		}, "\n")
		phases, ok := ParsePhases(text)
		if !ok {
			t.Fatal("expected parse to succeed")
		}
		if len(phases) != 2 {
			t.Fatalf("expected 2 phases, got %d", len(phases))
		}
		if len(phases[0].Steps) != 2 {
			t.Errorf("expected 2 steps in phase 1, got %d", len(phases[0].Steps))
		}
		if len(phases[1].Steps) != 3 {
			t.Errorf("expected 3 steps in phase 2, got %d", len(phases[1].Steps))
		}
		if phases[1].Steps[0].Title != "Learn about slices" {
			t.Errorf("unexpected step title %q", phases[1].Steps[0].Title)
		}
	})

	t.Run("rejects unstructured prose", func(t *testing.T) {
		if _, ok := ParsePhases("Just study hard and build projects."); ok {
			t.Error("expected parse to fail")
		}
	})

	t.Run("rejects a single phase", func(t *testing.T) {
		text := "Week 1: Start\n- do a thing\n"
		if _, ok := ParsePhases(text); ok {
			t.Error("expected parse to fail with one phase")
		}
	})

	t.Run("drops heading-only phases", func(t *testing.T) {
		text := strings.Join([]string{
			"Week 1: Empty",
			"Week 2: Real",
			"- a step",
			"Week 3: Also real",
			"- another step",
		}, "\n")
		phases, ok := ParsePhases(text)
		if !ok {
			t.Fatal("expected parse to succeed")
		}
		if len(phases) != 2 {
			t.Fatalf("expected 2 phases, got %d", len(phases))
		}
		if phases[0].Title != "Week 2: Real" {
			t.Errorf("unexpected first phase %q", phases[0].Title)
		}
	})
}
