package quiz

import (
	"readiness-quiz-service/internal/domain"
)

// quickCheckIDs is the hand-picked 7-question subset for the quick check,
// in presentation order.
var quickCheckIDs = []string{
	"daten_1",
	"daten_3",
	"aufgaben_1",
	"aufgaben_3",
	"tools_2",
	"team_1",
	"ziele_1",
}

// QuestionsForMode returns the ordered question sequence for a mode.
// Unknown modes fail loudly with domain.ErrInvalidMode.
func QuestionsForMode(bank domain.Bank, mode domain.QuizMode) ([]domain.Question, error) {
	switch mode {
	case domain.ModeQuickCheck:
		byID := make(map[string]domain.Question, len(bank.Questions))
		for _, q := range bank.Questions {
			byID[q.ID] = q
		}
		picked := make([]domain.Question, 0, len(quickCheckIDs))
		for _, id := range quickCheckIDs {
			if q, ok := byID[id]; ok {
				picked = append(picked, q)
			}
		}
		return picked, nil
	case domain.ModeDetailed:
		questions := make([]domain.Question, len(bank.Questions))
		copy(questions, bank.Questions)
		return questions, nil
	default:
		return nil, domain.ErrInvalidMode
	}
}

// QuestionCountForMode reports how many questions a mode runs through.
func QuestionCountForMode(bank domain.Bank, mode domain.QuizMode) (int, error) {
	questions, err := QuestionsForMode(bank, mode)
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}

// DefaultBankID names the built-in catalog.
const DefaultBankID = "ai-readiness-v1"

// DefaultBank returns the built-in AI-readiness catalog. Content and point
// values are product copy; changing them changes scoring behavior.
func DefaultBank() domain.Bank {
	questions := make([]domain.Question, 0, 20)
	questions = append(questions, datenQuestions...)
	questions = append(questions, aufgabenQuestions...)
	questions = append(questions, toolsQuestions...)
	questions = append(questions, teamQuestions...)
	questions = append(questions, zieleQuestions...)
	questions = append(questions, datenschutzQuestions...)
	questions = append(questions, detailQuestions...)
	return domain.Bank{ID: DefaultBankID, Questions: questions}
}

var datenQuestions = []domain.Question{
	{
		ID:       "daten_1",
		Category: domain.CategoryDaten,
		Prompt:   "Wo speichert ihr eure wichtigsten Informationen - Kundendaten, Rechnungen, Notizen?",
		Options: []domain.Option{
			{ID: "daten_1_a", Label: "In einem zentralen System, auf das alle zugreifen können (z.B. ein Kundenverwaltungs-Programm)", Score: 4},
			{ID: "daten_1_b", Label: "Hauptsächlich in Excel-Tabellen oder Word-Dokumenten auf dem Computer", Score: 3},
			{ID: "daten_1_c", Label: "Überall verstreut - Google Drive, Dropbox, E-Mails, Notizen-Apps...", Score: 2},
			{ID: "daten_1_d", Label: "Ehrlich gesagt: Ich weiß nicht genau, wo was liegt", Score: 1, Emoji: "😅"},
		},
	},
	{
		ID:       "daten_2",
		Category: domain.CategoryDaten,
		Prompt:   "Wenn ein neuer Mitarbeiter wissen will, wie ein bestimmter Ablauf funktioniert - wo findet er das?",
		Options: []domain.Option{
			{ID: "daten_2_a", Label: "Es gibt eine Anleitung oder ein Handbuch, wo alles aufgeschrieben ist", Score: 4},
			{ID: "daten_2_b", Label: "Bei manchen Sachen ja, bei anderen nicht", Score: 3},
			{ID: "daten_2_c", Label: "Das muss man den Kollegen fragen - es steht nirgendwo", Score: 2},
			{ID: "daten_2_d", Label: "Wir haben keine festen Abläufe, jeder macht es ein bisschen anders", Score: 1},
		},
	},
	{
		ID:       "daten_3",
		Category: domain.CategoryDaten,
		Prompt:   "Wie ordentlich sind eure gespeicherten Informationen?",
		Options: []domain.Option{
			{ID: "daten_3_a", Label: "Ziemlich gut - wir haben ein System und halten uns dran", Score: 4},
			{ID: "daten_3_b", Label: "Geht so - manche Sachen sind ordentlich, andere chaotisch", Score: 3},
			{ID: "daten_3_c", Label: "Eher Chaos - jeder speichert, wie er will", Score: 2},
			{ID: "daten_3_d", Label: "Wir finden oft Sachen nicht wieder", Score: 1},
		},
	},
}

var aufgabenQuestions = []domain.Question{
	{
		ID:       "aufgaben_1",
		Category: domain.CategoryAufgaben,
		Prompt:   "Welche Aufgaben kosten euch am meisten Zeit?",
		Options: []domain.Option{
			{ID: "aufgaben_1_a", Label: "Immer das Gleiche tippen - Daten von hier nach da kopieren, Formulare ausfüllen", Score: 4},
			{ID: "aufgaben_1_b", Label: "E-Mails beantworten und Nachrichten schreiben", Score: 4},
			{ID: "aufgaben_1_c", Label: "Informationen zusammensuchen und Recherche", Score: 3},
			{ID: "aufgaben_1_d", Label: "Nachdenken, planen, kreativ sein", Score: 2},
			{ID: "aufgaben_1_e", Label: "Alles! Wir haben zu viel zu tun", Score: 3},
		},
	},
	{
		ID:       "aufgaben_2",
		Category: domain.CategoryAufgaben,
		Prompt:   "Wie oft macht ihr diese zeitfressenden Aufgaben?",
		Options: []domain.Option{
			{ID: "aufgaben_2_a", Label: "Jeden Tag - immer wieder das Gleiche", Score: 4},
			{ID: "aufgaben_2_b", Label: "Mehrmals pro Woche", Score: 3},
			{ID: "aufgaben_2_c", Label: "Ab und zu", Score: 2},
			{ID: "aufgaben_2_d", Label: "Selten - jede Aufgabe ist anders", Score: 1},
		},
	},
	{
		ID:       "aufgaben_3",
		Category: domain.CategoryAufgaben,
		Prompt:   "Könnte man diese Aufgaben mit klaren Regeln beschreiben? Also: \"Wenn X passiert, dann mache Y\"?",
		Options: []domain.Option{
			{ID: "aufgaben_3_a", Label: "Ja, eigentlich schon - es sind meistens die gleichen Schritte", Score: 4},
			{ID: "aufgaben_3_b", Label: "Teilweise - manches ist klar, manches braucht Erfahrung", Score: 3},
			{ID: "aufgaben_3_c", Label: "Eher nicht - man muss immer abwägen und entscheiden", Score: 2},
			{ID: "aufgaben_3_d", Label: "Nein, das kann nur ein Mensch mit Erfahrung", Score: 1},
		},
	},
}

var toolsQuestions = []domain.Question{
	{
		ID:          "tools_1",
		Category:    domain.CategoryTools,
		Prompt:      "Welche Programme nutzt ihr für eure Arbeit?",
		MultiSelect: true,
		Options: []domain.Option{
			{ID: "tools_1_a", Label: "E-Mail (Gmail, Outlook, oder ähnliches)", Score: 1},
			{ID: "tools_1_b", Label: "Google-Sachen (Drive, Docs, Tabellen)", Score: 1},
			{ID: "tools_1_c", Label: "Microsoft-Sachen (Word, Excel, Teams)", Score: 1},
			{ID: "tools_1_d", Label: "Ein Programm für Kundenverwaltung (CRM)", Score: 2},
			{ID: "tools_1_e", Label: "Buchhaltungs-Software", Score: 2},
			{ID: "tools_1_f", Label: "Projektmanagement-Tools (z.B. Trello, Asana, Monday)", Score: 2},
			{ID: "tools_1_g", Label: "WhatsApp oder Telegram fürs Geschäft", Score: 1},
			{ID: "tools_1_h", Label: "Branchen-spezifische Software (z.B. Handwerker-Software, Praxis-Software)", Score: 2},
		},
	},
	{
		ID:       "tools_2",
		Category: domain.CategoryTools,
		Prompt:   "Tauschen eure Programme untereinander Daten aus? Oder müsst ihr Sachen manuell übertragen?",
		Options: []domain.Option{
			{ID: "tools_2_a", Label: "Ja, vieles läuft automatisch - wenn ich hier was eintrage, ist es dort auch", Score: 4},
			{ID: "tools_2_b", Label: "Ein bisschen, aber viel machen wir noch per Hand", Score: 3},
			{ID: "tools_2_c", Label: "Nein, jedes Programm ist für sich - wir kopieren viel hin und her", Score: 2},
			{ID: "tools_2_d", Label: "Ich weiß nicht, ob das überhaupt geht", Score: 1},
		},
	},
}

var teamQuestions = []domain.Question{
	{
		ID:       "team_1",
		Category: domain.CategoryTeam,
		Prompt:   "Wie reagiert euer Team, wenn ihr ein neues Tool einführen wollt?",
		Options: []domain.Option{
			{ID: "team_1_a", Label: "Die meisten freuen sich und probieren gerne Neues aus", Score: 4},
			{ID: "team_1_b", Label: "Offen, wenn es ihnen die Arbeit erleichtert", Score: 3},
			{ID: "team_1_c", Label: "Skeptisch - \"Muss das sein? Das alte funktioniert doch\"", Score: 2},
			{ID: "team_1_d", Label: "Widerstand - Veränderungen kommen nicht gut an", Score: 1},
		},
	},
	{
		ID:       "team_2",
		Category: domain.CategoryTeam,
		Prompt:   "Wer würde sich um ein AI-Projekt kümmern?",
		Options: []domain.Option{
			{ID: "team_2_a", Label: "Die Chefs wollen das - es ist eine Priorität von oben", Score: 4},
			{ID: "team_2_b", Label: "Ein paar technik-begeisterte Mitarbeiter würden das übernehmen", Score: 3},
			{ID: "team_2_c", Label: "Keiner speziell - da bräuchten wir externe Hilfe", Score: 2},
			{ID: "team_2_d", Label: "Ich glaube, niemand hätte Zeit oder Lust dafür", Score: 1},
		},
	},
}

var zieleQuestions = []domain.Question{
	{
		ID:       "ziele_1",
		Category: domain.CategoryZiele,
		Prompt:   "Was wäre für euch der größte Gewinn durch AI?",
		Options: []domain.Option{
			{ID: "ziele_1_a", Label: "Zeit sparen bei nervigen Routine-Aufgaben", Score: 4},
			{ID: "ziele_1_b", Label: "Weniger Fehler und Vergessen", Score: 4},
			{ID: "ziele_1_c", Label: "Mehr schaffen ohne mehr Leute einstellen zu müssen", Score: 4},
			{ID: "ziele_1_d", Label: "Modern bleiben - die Konkurrenz macht das ja auch", Score: 3},
			{ID: "ziele_1_e", Label: "Ich bin einfach neugierig, was möglich ist", Score: 2},
		},
	},
	{
		ID:       "ziele_2",
		Category: domain.CategoryZiele,
		Prompt:   "Habt ihr schon eine konkrete Idee, was AI bei euch machen könnte?",
		Options: []domain.Option{
			{ID: "ziele_2_a", Label: "Ja, ich weiß genau, was ich will", Score: 4},
			{ID: "ziele_2_b", Label: "So grob - ein paar Ideen schwirren mir im Kopf", Score: 3},
			{ID: "ziele_2_c", Label: "Nicht wirklich - ich will erstmal verstehen, was geht", Score: 2},
			{ID: "ziele_2_d", Label: "Nein, ich mache das Quiz einfach aus Interesse", Score: 1},
		},
	},
	{
		ID:       "ziele_3",
		Category: domain.CategoryZiele,
		Prompt:   "Was wärt ihr bereit, für eine gute Lösung zu investieren?",
		Options: []domain.Option{
			{ID: "ziele_3_a", Label: "Über 10.000€ - wenn es sich lohnt, ist das kein Problem", Score: 4},
			{ID: "ziele_3_b", Label: "2.000€ bis 10.000€ zum Starten", Score: 4},
			{ID: "ziele_3_c", Label: "Unter 2.000€ - erstmal klein anfangen", Score: 3},
			{ID: "ziele_3_d", Label: "Möglichst wenig - wir haben kein großes Budget", Score: 2},
			{ID: "ziele_3_e", Label: "Keine Ahnung - müsste ich erstmal klären", Score: 1},
		},
	},
}

var datenschutzQuestions = []domain.Question{
	{
		ID:       "datenschutz_1",
		Category: domain.CategoryDatenschutz,
		Prompt:   "Wie sensibel sind die Daten, mit denen ihr arbeitet?",
		Options: []domain.Option{
			// Very sensitive data scores lower: more groundwork before automating.
			{ID: "datenschutz_1_a", Label: "Sehr sensibel - Gesundheitsdaten, Finanzen, persönliche Infos von Kunden", Score: 2},
			{ID: "datenschutz_1_b", Label: "Normal sensibel - Geschäftsdaten, Kontakte, Aufträge", Score: 3},
			{ID: "datenschutz_1_c", Label: "Wenig sensibel - hauptsächlich öffentliche Informationen", Score: 4},
			{ID: "datenschutz_1_d", Label: "Gemischt - teils sensibel, teils nicht", Score: 3},
		},
	},
	{
		ID:       "datenschutz_2",
		Category: domain.CategoryDatenschutz,
		Prompt:   "Wie gut kennt ihr euch mit Datenschutz-Regeln aus?",
		Options: []domain.Option{
			{ID: "datenschutz_2_a", Label: "Gut - wir haben das im Griff und dokumentiert", Score: 4},
			{ID: "datenschutz_2_b", Label: "Einigermaßen - wir versuchen alles richtig zu machen", Score: 3},
			{ID: "datenschutz_2_c", Label: "Nicht so gut - da müssten wir uns mehr drum kümmern", Score: 2},
			{ID: "datenschutz_2_d", Label: "Ehrlich gesagt: Das Thema haben wir vernachlässigt", Score: 1},
		},
	},
}

var detailQuestions = []domain.Question{
	{
		ID:           "detail_problem",
		Category:     domain.CategoryDetail,
		Prompt:       "Beschreib kurz das Problem oder den Ablauf, den du gerne automatisieren würdest:",
		IsTextInput:  true,
		Placeholder:  "z.B. Wir müssen jeden Tag Rechnungen aus E-Mails in unser System übertragen...",
		DetailedOnly: true,
	},
	{
		ID:           "detail_bereich",
		Category:     domain.CategoryDetail,
		Prompt:       "In welchem Bereich liegt das Problem?",
		DetailedOnly: true,
		Options: []domain.Option{
			{ID: "detail_bereich_a", Label: "Verkauf & Kundengewinnung"},
			{ID: "detail_bereich_b", Label: "Marketing & Social Media"},
			{ID: "detail_bereich_c", Label: "Kundenservice & Support"},
			{ID: "detail_bereich_d", Label: "Verwaltung & Organisation"},
			{ID: "detail_bereich_e", Label: "Personal & Bewerbungen"},
			{ID: "detail_bereich_f", Label: "Buchhaltung & Finanzen"},
			{ID: "detail_bereich_g", Label: "Etwas anderes"},
		},
	},
	{
		ID:           "detail_personen",
		Category:     domain.CategoryDetail,
		Prompt:       "Wie viele Leute bei euch sind davon betroffen?",
		DetailedOnly: true,
		Options: []domain.Option{
			{ID: "detail_personen_a", Label: "Nur ich"},
			{ID: "detail_personen_b", Label: "2-5 Personen"},
			{ID: "detail_personen_c", Label: "6-20 Personen"},
			{ID: "detail_personen_d", Label: "Mehr als 20 / das ganze Unternehmen"},
		},
	},
	{
		ID:           "detail_haeufigkeit",
		Category:     domain.CategoryDetail,
		Prompt:       "Wie oft kommt dieses Problem vor?",
		DetailedOnly: true,
		Options: []domain.Option{
			{ID: "detail_haeufigkeit_a", Label: "Mehrmals am Tag"},
			{ID: "detail_haeufigkeit_b", Label: "Einmal am Tag"},
			{ID: "detail_haeufigkeit_c", Label: "Mehrmals pro Woche"},
			{ID: "detail_haeufigkeit_d", Label: "Einmal pro Woche oder seltener"},
		},
	},
	{
		ID:           "detail_nervt",
		Category:     domain.CategoryDetail,
		Prompt:       "Was nervt euch an diesem Ablauf am meisten?",
		DetailedOnly: true,
		Options: []domain.Option{
			{ID: "detail_nervt_a", Label: "Es dauert einfach zu lange"},
			{ID: "detail_nervt_b", Label: "Es passieren immer wieder Fehler"},
			{ID: "detail_nervt_c", Label: "Es kostet zu viel (Zeit oder Geld)"},
			{ID: "detail_nervt_d", Label: "Es ist zu kompliziert"},
			{ID: "detail_nervt_e", Label: "Es wird zu viel, wir kommen nicht mehr hinterher"},
		},
	},
}
