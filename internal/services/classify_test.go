package services

import (
	"reflect"
	"testing"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		interests string
		want      string
	}{
		{"React and frontend development", "web-development"},
		{"Flutter mobile apps", "mobile-development"},
		{"machine learning with Python", "data-science"},
		{"Docker and Kubernetes", "devops"},
		{"Unity game design", "game-development"},
		{"penetration testing", "cybersecurity"},
		{"quantum computing", "general-technology"},
		{"", "general-technology"},
	}
	for _, tc := range cases {
		if got := Categorize(tc.interests); got != tc.want {
			t.Errorf("Categorize(%q) = %q, want %q", tc.interests, got, tc.want)
		}
	}

	t.Run("category order decides ties", func(t *testing.T) {
		// "web" matches before "python" because web-development is checked first
		if got := Categorize("web scraping with python"); got != "web-development" {
			t.Errorf("expected web-development, got %q", got)
		}
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		if got := Categorize("REACT"); got != "web-development" {
			t.Errorf("expected web-development, got %q", got)
		}
	})
}

func TestExtractTags(t *testing.T) {
	t.Run("returns tags in vocabulary order", func(t *testing.T) {
		got := ExtractTags("Python, Docker and React")
		want := []string{"react", "python", "docker"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractTags = %v, want %v", got, want)
		}
	})

	t.Run("deduplicates repeats", func(t *testing.T) {
		got := ExtractTags("react react react")
		if len(got) != 1 || got[0] != "react" {
			t.Errorf("expected single react tag, got %v", got)
		}
	})

	t.Run("unknown interests yield no tags", func(t *testing.T) {
		got := ExtractTags("basket weaving")
		if len(got) != 0 {
			t.Errorf("expected no tags, got %v", got)
		}
	})
}
