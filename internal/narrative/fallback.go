package narrative

import (
	"sort"

	"readiness-quiz-service/internal/domain"
)

// Sales-focused copy for the deterministic fallback. One message per category;
// strengths celebrate what is there, improvements are framed as "how we help".
var strengthMessages = map[domain.Category]string{
	domain.CategoryDaten:       "Eure Datenstruktur bietet gute Anknüpfungspunkte für Automatisierung",
	domain.CategoryAufgaben:    "Ihr habt klare Vorstellungen von euren Arbeitsabläufen",
	domain.CategoryTools:       "Eure bestehenden Tools lassen sich gut in AI-Lösungen integrieren",
	domain.CategoryTeam:        "Euer Team zeigt Interesse an neuen Technologien",
	domain.CategoryZiele:       "Ihr wisst, was ihr mit AI erreichen wollt",
	domain.CategoryDatenschutz: "Ihr habt Datenschutz auf dem Schirm - wichtig für DSGVO-konforme Lösungen",
}

var helpMessages = map[domain.Category]string{
	domain.CategoryDaten:       "Wir helfen euch, eure Daten optimal für AI-Nutzung zu strukturieren",
	domain.CategoryAufgaben:    "Wir identifizieren gemeinsam die besten Automatisierungs-Kandidaten",
	domain.CategoryTools:       "Wir verbinden eure bestehenden Tools zu einem nahtlosen Workflow",
	domain.CategoryTeam:        "Wir begleiten euer Team mit Schulungen und Support beim Umstieg",
	domain.CategoryZiele:       "Wir entwickeln mit euch eine klare Roadmap für eure AI-Einführung",
	domain.CategoryDatenschutz: "Wir setzen auf DSGVO-konforme Lösungen - 100% made in Germany",
}

var fallbackNextSteps = []string{
	"Kostenloses 15-Minuten Erstgespräch buchen - wir lernen uns kennen",
	"Wir besprechen eure aktuelle Situation und Herausforderungen",
	"Ihr bekommt einen klaren Überblick, wie die nächsten Schritte aussehen könnten",
}

// Fallback builds the deterministic narrative used when the model is
// unavailable, errored, or the user skipped lead capture. Pure and total:
// it performs no I/O and never fails.
func Fallback(result domain.QuizResult) domain.NarrativeAnalysis {
	var summary string
	switch {
	case result.TotalPercentage >= 75:
		summary = "Ausgezeichnet! Ihr habt hervorragende Voraussetzungen für AI-Automatisierung. Wir können direkt mit der Umsetzung starten und schnell erste Ergebnisse liefern."
	case result.TotalPercentage >= 55:
		summary = "Sehr gute Ausgangslage! Ihr habt bereits wichtige Grundlagen geschaffen. Mit unserer Unterstützung könnt ihr innerhalb kurzer Zeit von AI profitieren."
	case result.TotalPercentage >= 40:
		summary = "Solide Basis mit viel Potenzial! Wir haben schon vielen Unternehmen in ähnlicher Situation geholfen, erfolgreich AI einzuführen - das schaffen wir auch bei euch."
	default:
		summary = "Perfekter Zeitpunkt für den Einstieg! Wir begleiten euch von Anfang an und bauen gemeinsam die ideale Grundlage für eure AI-Zukunft auf."
	}

	// Categories sorted by adjusted percentage, best first. Stable so equal
	// scores keep display order and the output stays deterministic.
	sorted := make([]domain.Category, 0, len(domain.ScoredCategories))
	for _, c := range domain.ScoredCategories {
		if _, ok := result.Scores[c]; ok {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return result.Scores[sorted[i]] > result.Scores[sorted[j]]
	})

	strengths := make([]string, 0, maxListItems)
	for _, c := range sorted {
		if len(strengths) == maxListItems {
			break
		}
		if msg, ok := strengthMessages[c]; ok {
			strengths = append(strengths, msg)
		}
	}

	improvements := make([]string, 0, maxListItems)
	for i := len(sorted) - 1; i >= 0; i-- {
		c := sorted[i]
		if result.Scores[c] >= 70 || len(improvements) == maxListItems {
			continue
		}
		if msg, ok := helpMessages[c]; ok {
			improvements = append(improvements, msg)
		}
	}

	nextSteps := make([]string, len(fallbackNextSteps))
	copy(nextSteps, fallbackNextSteps)

	return domain.NarrativeAnalysis{
		Summary:      summary,
		Strengths:    strengths,
		Improvements: improvements,
		NextSteps:    nextSteps,
	}
}
