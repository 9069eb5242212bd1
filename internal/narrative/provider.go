// Package narrative produces the free-text commentary on a quiz result, either
// via the Gemini API or a deterministic fallback.
package narrative

import (
	"context"

	"readiness-quiz-service/internal/domain"
	"readiness-quiz-service/internal/quiz"
)

// Payload is the anonymized data sent to the narrative service. It must never
// carry name, email or phone; BuildPayload is the only constructor and the
// privacy tests pin this down.
type Payload struct {
	Mode          domain.QuizMode         `json:"mode"`
	Scores        map[domain.Category]int `json:"scores"`
	TotalScore    int                     `json:"total_score"`
	Answers       []string                `json:"answers"`
	ProblemText   string                  `json:"problem_beschreibung,omitempty"`
	ProblemDomain string                  `json:"bereich,omitempty"`
}

// BuildPayload derives the outbound payload from a finalized result. The Q&A
// transcript joins each question's text with the selected option labels.
func BuildPayload(bank domain.Bank, result domain.QuizResult) Payload {
	return Payload{
		Mode:          result.Mode,
		Scores:        result.Scores,
		TotalScore:    result.TotalPercentage,
		Answers:       quiz.FormatAnswers(bank, result.Answers),
		ProblemText:   result.ProblemText,
		ProblemDomain: result.ProblemDomain,
	}
}

// Provider generates a narrative analysis for a quiz payload. Implementations
// must not retry on failure; the caller substitutes the deterministic fallback.
type Provider interface {
	Analyze(ctx context.Context, payload Payload) (domain.NarrativeAnalysis, error)
}
