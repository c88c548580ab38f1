package services

import (
	"fmt"
	"regexp"
	"strings"

	"careercraft-backend-go/internal/models"
)

// templateBlock is one two-week block of the fallback roadmap.
type templateBlock struct {
	title     string
	weeks     string
	goals     []string
	resources []string
	project   string
}

func templateBlocks(interests string) []templateBlock {
	return []templateBlock{
		{
			title: "Foundations", weeks: "Weeks 1-2",
			goals: []string{
				fmt.Sprintf("Understand the core concepts behind %s", interests),
				"Set up your development environment and tooling",
				"Finish an introductory course or official getting-started guide",
			},
			resources: []string{"Official documentation", "freeCodeCamp", "YouTube crash courses"},
			project:   "Build a hello-world-level starter project and publish it to GitHub",
		},
		{
			title: "Core Concepts", weeks: "Weeks 3-4",
			goals: []string{
				"Work through the fundamental building blocks in depth",
				"Practice daily with small, focused exercises",
				"Start a learning journal of what you discover",
			},
			resources: []string{"Interactive tutorials", "Exercism / LeetCode easy problems", "Community forums"},
			project:   "Recreate a simple existing app from scratch without following a tutorial",
		},
		{
			title: "Hands-On Practice", weeks: "Weeks 5-6",
			goals: []string{
				"Apply what you have learned to progressively harder problems",
				"Read other people's code and note idioms you want to adopt",
				"Learn the debugging and testing workflow for your stack",
			},
			resources: []string{"Open-source codebases", "Testing framework docs", "Code review communities"},
			project:   "Extend your earlier project with tests and at least one real feature",
		},
		{
			title: "Intermediate Projects", weeks: "Weeks 7-8",
			goals: []string{
				fmt.Sprintf("Build something non-trivial in %s end to end", interests),
				"Integrate a third-party API or external data source",
				"Deploy your work somewhere public",
			},
			resources: []string{"API documentation", "Deployment platform guides", "Blog posts and case studies"},
			project:   "Ship a deployed, usable project with a README and screenshots",
		},
		{
			title: "Advanced Topics", weeks: "Weeks 9-10",
			goals: []string{
				"Pick two advanced topics in your area and study them deeply",
				"Profile and improve the performance of an earlier project",
				"Contribute a small fix or doc improvement to an open-source project",
			},
			resources: []string{"Conference talks", "Advanced books", "Open-source issue trackers"},
			project:   "Write up a deep-dive on one advanced topic you studied",
		},
		{
			title: "Capstone & Portfolio", weeks: "Weeks 11-12",
			goals: []string{
				"Design and build a capstone project that showcases the full journey",
				"Polish your portfolio, resume and public profiles",
				"Practice explaining your projects as you would in an interview",
			},
			resources: []string{"Portfolio examples", "Interview prep guides", "Peer feedback"},
			project:   "Complete and present your capstone project",
		},
	}
}

// TemplateRoadmap synthesizes the deterministic fallback roadmap: a 12-week
// plan in six two-week blocks plus closing milestones and tips. Pure string
// templating over the supplied interests; it cannot fail.
func TemplateRoadmap(interests string, hasResume bool, experienceLevel string) (string, []models.RoadmapPhase) {
	blocks := templateBlocks(interests)

	var b strings.Builder
	fmt.Fprintf(&b, "12-Week Personalized Learning Roadmap: %s\n", interests)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	if experienceLevel != "" {
		fmt.Fprintf(&b, "Experience level: %s\n", experienceLevel)
	}
	if hasResume {
		b.WriteString("Tailored around the background described in your resume.\n")
	}
	b.WriteString("\n")

	phases := make([]models.RoadmapPhase, 0, len(blocks))
	for _, block := range blocks {
		fmt.Fprintf(&b, "%s: %s\n", block.weeks, block.title)
		b.WriteString("Goals:\n")
		for _, goal := range block.goals {
			fmt.Fprintf(&b, "  - %s\n", goal)
		}
		b.WriteString("Resources:\n")
		for _, res := range block.resources {
			fmt.Fprintf(&b, "  - %s\n", res)
		}
		fmt.Fprintf(&b, "Project: %s\n\n", block.project)

		steps := make([]models.RoadmapStep, 0, len(block.goals)+1)
		for _, goal := range block.goals {
			steps = append(steps, models.RoadmapStep{Title: goal, Resources: block.resources})
		}
		steps = append(steps, models.RoadmapStep{Title: "Project: " + block.project})
		phases = append(phases, models.RoadmapPhase{
			Title:    fmt.Sprintf("%s: %s", block.weeks, block.title),
			Duration: "2 weeks",
			Steps:    steps,
		})
	}

	b.WriteString("Milestones:\n")
	b.WriteString("  - Week 2: environment ready, first project published\n")
	b.WriteString("  - Week 6: comfortable building and testing small projects\n")
	b.WriteString("  - Week 10: one deployed project and an open-source contribution\n")
	b.WriteString("  - Week 12: capstone complete, portfolio updated\n\n")
	b.WriteString("Tips for Success:\n")
	b.WriteString("  - Study a little every day; streaks beat cramming\n")
	b.WriteString("  - Build in public and ask for feedback early\n")
	b.WriteString("  - Revisit earlier weeks whenever something feels shaky\n")

	return b.String(), phases
}

var weekHeading = regexp.MustCompile(`(?i)^#{0,3}\s*\**\s*weeks?\s+\d+\s*(?:[-–—to]+\s*\d+)?\s*[:.\-]?\s*(.*?)\**\s*$`)
var bulletLine = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)

// ParsePhases extracts a phase/step breakdown from generated roadmap text by
// splitting on week headings and collecting their bullet lines. Returns
// false when the text does not yield at least two phases with steps; callers
// then fall back to the template structure.
func ParsePhases(text string) ([]models.RoadmapPhase, bool) {
	phases := []models.RoadmapPhase{}
	var current *models.RoadmapPhase
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if match := weekHeading.FindStringSubmatch(trimmed); match != nil {
			title := strings.TrimSpace(strings.Trim(trimmed, "#* "))
			phases = append(phases, models.RoadmapPhase{Title: title})
			current = &phases[len(phases)-1]
			continue
		}
		if current == nil {
			continue
		}
		if match := bulletLine.FindStringSubmatch(line); match != nil {
			title := strings.TrimSpace(match[1])
			if title != "" {
				current.Steps = append(current.Steps, models.RoadmapStep{Title: title})
			}
		}
	}

	withSteps := 0
	for _, phase := range phases {
		if len(phase.Steps) > 0 {
			withSteps++
		}
	}
	if withSteps < 2 {
		return nil, false
	}
	kept := phases[:0]
	for _, phase := range phases {
		if len(phase.Steps) > 0 {
			kept = append(kept, phase)
		}
	}
	return kept, true
}
