package mail

import (
	"strings"
	"testing"

	"readiness-quiz-service/internal/domain"
	"readiness-quiz-service/internal/quiz"
)

func templateParams() ResultEmailParams {
	return ResultEmailParams{
		FirstName:    "Anna",
		TotalPercent: 68,
		Level:        quiz.LevelInfo(domain.LevelFastStartklar),
		CategoryScores: []domain.CategoryScore{
			{Category: domain.CategoryDaten, Label: "Eure Daten", Percentage: 75, MaxScore: 10},
			{Category: domain.CategoryTeam, Label: "Euer Team", Percentage: 55, MaxScore: 8},
		},
		BookingURL: "https://skaile.de/termin",
	}
}

func TestRenderResultEmailContainsScoreAndCategories(t *testing.T) {
	htmlBody, textBody := RenderResultEmail(templateParams())

	for _, want := range []string{"Hallo Anna!", "68%", "Eure Daten", "Euer Team", "https://skaile.de/termin"} {
		if !strings.Contains(htmlBody, want) {
			t.Fatalf("html missing %q", want)
		}
	}
	for _, want := range []string{"Hallo Anna!", "68%", "- Eure Daten: 75%", "- Euer Team: 55%"} {
		if !strings.Contains(textBody, want) {
			t.Fatalf("text missing %q", want)
		}
	}
}

func TestRenderResultEmailEscapesUserContent(t *testing.T) {
	p := templateParams()
	p.FirstName = `<script>alert("x")</script>`

	htmlBody, _ := RenderResultEmail(p)
	if strings.Contains(htmlBody, "<script>") {
		t.Fatalf("html must escape user content")
	}
	if !strings.Contains(htmlBody, "&lt;script&gt;") {
		t.Fatalf("expected escaped name in html")
	}
}

func TestRenderResultEmailWithoutAnalysis(t *testing.T) {
	htmlBody, textBody := RenderResultEmail(templateParams())

	if strings.Contains(htmlBody, "Deine persönliche AI-Analyse") {
		t.Fatalf("analysis section must be omitted without analysis")
	}
	if strings.Contains(textBody, "Deine persönliche AI-Analyse") {
		t.Fatalf("text analysis section must be omitted without analysis")
	}
}

func TestRenderResultEmailWithAnalysis(t *testing.T) {
	p := templateParams()
	p.Analysis = &domain.NarrativeAnalysis{
		Summary:      "Gute Ausgangslage.",
		Strengths:    []string{"Zentrale Daten"},
		Improvements: []string{"Tool-Integration"},
		NextSteps:    []string{"Erstgespräch buchen"},
	}

	htmlBody, textBody := RenderResultEmail(p)
	for _, want := range []string{"Gute Ausgangslage.", "Zentrale Daten", "Tool-Integration", "Erstgespräch buchen"} {
		if !strings.Contains(htmlBody, want) {
			t.Fatalf("html missing %q", want)
		}
		if !strings.Contains(textBody, want) {
			t.Fatalf("text missing %q", want)
		}
	}
}

func TestPresentCategoriesDropsAbsentOnes(t *testing.T) {
	scores := []domain.CategoryScore{
		{Category: domain.CategoryDaten, MaxScore: 10, Percentage: 60},
		{Category: domain.CategoryDatenschutz, MaxScore: 0, Percentage: 25},
	}

	present := presentCategories(scores)
	if len(present) != 1 || present[0].Category != domain.CategoryDaten {
		t.Fatalf("expected only answered categories, got %+v", present)
	}
}
