package quiz

import "readiness-quiz-service/internal/domain"

// CategoryWeights sum to 1.0 over the scored categories. The detail category
// contributes nothing to the total.
var CategoryWeights = map[domain.Category]float64{
	domain.CategoryDaten:       0.25,
	domain.CategoryAufgaben:    0.20,
	domain.CategoryTools:       0.15,
	domain.CategoryTeam:        0.15,
	domain.CategoryZiele:       0.15,
	domain.CategoryDatenschutz: 0.10,
	domain.CategoryDetail:      0,
}

// CategoryLabels are the display names used in results, transcripts and emails.
var CategoryLabels = map[domain.Category]string{
	domain.CategoryDaten:       "Eure Daten",
	domain.CategoryAufgaben:    "Eure Aufgaben",
	domain.CategoryTools:       "Eure Tools",
	domain.CategoryTeam:        "Euer Team",
	domain.CategoryZiele:       "Eure Ziele",
	domain.CategoryDatenschutz: "Datenschutz",
	domain.CategoryDetail:      "Details",
}

// ScoreLevels are the five readiness tiers, highest first. Bands are inclusive
// on both ends and partition [0,100].
var ScoreLevels = []domain.ScoreLevelInfo{
	{
		Level:          domain.LevelBereit,
		MinPercentage:  75,
		MaxPercentage:  100,
		Title:          "Top vorbereitet!",
		Emoji:          "🏆",
		Description:    "Ausgezeichnet! Ihr habt ideale Voraussetzungen für AI - wir können direkt mit der Umsetzung starten.",
		CTAText:        "Jetzt Termin buchen",
		CTADescription: "Perfekte Ausgangslage! In einem kostenlosen 15-Minuten-Call zeige ich dir, welche AI-Lösung bei euch am schnellsten Ergebnisse bringt.",
	},
	{
		Level:          domain.LevelFastStartklar,
		MinPercentage:  55,
		MaxPercentage:  74,
		Title:          "Sehr gute Basis!",
		Emoji:          "🚀",
		Description:    "Starke Grundlagen! Mit unserer Unterstützung könnt ihr schnell von AI profitieren.",
		CTAText:        "Kostenloses Gespräch",
		CTADescription: "Tolle Voraussetzungen! Lass uns in einem kurzen Call besprechen, wie wir eure Stärken optimal nutzen und euch AI-ready machen.",
	},
	{
		Level:          domain.LevelAufGutemWeg,
		MinPercentage:  40,
		MaxPercentage:  54,
		Title:          "Gutes Potenzial!",
		Emoji:          "💡",
		Description:    "Solide Basis mit viel Potenzial! Wir helfen euch, die richtigen Weichen für AI zu stellen.",
		CTAText:        "Beratung anfragen",
		CTADescription: "Ihr habt Potenzial! In einem Gespräch zeige ich dir, wie wir gemeinsam die Grundlagen stärken und AI bei euch einführen.",
	},
	{
		Level:          domain.LevelGrundlagen,
		MinPercentage:  25,
		MaxPercentage:  39,
		Title:          "Wir machen euch ready!",
		Emoji:          "🎯",
		Description:    "Es gibt Optimierungspotenzial - und genau dabei unterstützen wir euch. Gemeinsam machen wir euch AI-ready!",
		CTAText:        "Jetzt beraten lassen",
		CTADescription: "Kein Problem! Wir begleiten euch auf dem Weg zur AI-Readiness. In einem Gespräch zeige ich dir die ersten konkreten Schritte.",
	},
	{
		Level:          domain.LevelAnfangReise,
		MinPercentage:  0,
		MaxPercentage:  24,
		Title:          "Der perfekte Zeitpunkt!",
		Emoji:          "🌟",
		Description:    "Jetzt ist der ideale Moment, mit Experten zu starten! Wir begleiten euch von Anfang an und bauen gemeinsam eure AI-Zukunft auf.",
		CTAText:        "Erstgespräch vereinbaren",
		CTADescription: "Jeder Erfolg beginnt mit dem ersten Schritt! Lass uns gemeinsam herausfinden, wie wir euch am besten unterstützen können.",
	},
}

// ScoreLevelFor maps a total percentage into its band. Total over [0,100] by
// construction of the bands.
func ScoreLevelFor(percentage int) domain.ScoreLevel {
	for _, info := range ScoreLevels {
		if percentage >= info.MinPercentage && percentage <= info.MaxPercentage {
			return info.Level
		}
	}
	return domain.LevelAnfangReise
}

// LevelInfo returns the display copy for a tier.
func LevelInfo(level domain.ScoreLevel) domain.ScoreLevelInfo {
	for _, info := range ScoreLevels {
		if info.Level == level {
			return info
		}
	}
	return ScoreLevels[len(ScoreLevels)-1]
}
