package services

import "strings"

// Category keyword lists, checked in order; the first list with a match wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"web-development", []string{"react", "frontend", "front-end", "javascript", "html", "css", "web", "vue", "angular", "node"}},
	{"mobile-development", []string{"flutter", "android", "ios", "mobile", "react native", "swift", "kotlin"}},
	{"data-science", []string{"machine learning", "python", "data science", "data", "ai", "deep learning", "analytics", "pandas"}},
	{"devops", []string{"devops", "docker", "kubernetes", "aws", "cloud", "terraform", "ci/cd", "infrastructure"}},
	{"game-development", []string{"game", "unity", "unreal", "godot"}},
	{"cybersecurity", []string{"security", "cybersecurity", "penetration", "hacking", "cryptography"}},
}

// Categorize derives a roadmap category from the interests string via
// keyword matching. Deterministic; unknown interests land in
// general-technology.
func Categorize(interests string) string {
	lower := strings.ToLower(interests)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.category
			}
		}
	}
	return "general-technology"
}

// tagKeywords is the fixed technology/domain vocabulary for tag extraction.
var tagKeywords = []string{
	"javascript", "typescript", "react", "vue", "angular", "node",
	"html", "css", "frontend", "backend", "fullstack",
	"python", "java", "go", "rust", "c++", "c#",
	"flutter", "android", "ios", "swift", "kotlin",
	"machine learning", "deep learning", "data science", "ai",
	"sql", "mongodb", "postgres",
	"docker", "kubernetes", "aws", "azure", "gcp", "devops",
	"security", "cybersecurity", "blockchain",
	"unity", "game development",
	"ui/ux", "design",
}

// ExtractTags returns the deduplicated tags whose keyword appears in the
// interests string, in vocabulary order.
func ExtractTags(interests string) []string {
	lower := strings.ToLower(interests)
	seen := map[string]bool{}
	tags := []string{}
	for _, keyword := range tagKeywords {
		if strings.Contains(lower, keyword) && !seen[keyword] {
			seen[keyword] = true
			tags = append(tags, keyword)
		}
	}
	return tags
}
