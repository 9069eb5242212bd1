package narrative

import (
	"encoding/json"
	"strings"
	"testing"

	"readiness-quiz-service/internal/domain"
	"readiness-quiz-service/internal/quiz"
)

// The outbound payload carries scores and the Q&A transcript, never lead data.
func TestPayloadCarriesNoLeadFields(t *testing.T) {
	bank := quiz.DefaultBank()
	result := domain.QuizResult{
		Mode:            domain.ModeDetailed,
		Scores:          map[domain.Category]int{domain.CategoryDaten: 70},
		TotalPercentage: 61,
		Answers: []domain.Answer{
			{QuestionID: "daten_1", SelectedOptionIDs: []string{"daten_1_a"}},
		},
		ProblemText:   "Rechnungen abtippen",
		ProblemDomain: "Buchhaltung & Finanzen",
	}

	payload := BuildPayload(bank, result)
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	serialized := strings.ToLower(string(raw))
	for _, forbidden := range []string{"firstname", "email", "phone", "company", "acceptedprivacy"} {
		if strings.Contains(serialized, forbidden) {
			t.Fatalf("payload leaks %q: %s", forbidden, raw)
		}
	}

	if payload.TotalScore != 61 {
		t.Fatalf("total score: %d", payload.TotalScore)
	}
	if len(payload.Answers) != 1 || !strings.Contains(payload.Answers[0], "→") {
		t.Fatalf("expected transcript entry, got %v", payload.Answers)
	}
	if payload.ProblemText == "" || payload.ProblemDomain == "" {
		t.Fatalf("problem context must pass through: %+v", payload)
	}
}
