package quiz

import (
	"math"
	"strings"

	"readiness-quiz-service/internal/domain"
)

// multiSelectCap bounds both the awarded and the maximum points of a
// multi-select question. Hand-tuned product constant; keeps a long option list
// from dominating its category.
const multiSelectCap = 12

// scoreBias and categoryBias skew displayed percentages upward. This is a
// deliberate product decision (encouraging results sell consultations), not a
// defect: together with the floor of 25 no category ever displays below 25%.
const scoreBias = 10

var categoryBias = map[domain.Category]int{
	domain.CategoryDaten:       5,
	domain.CategoryAufgaben:    8,
	domain.CategoryTools:       3,
	domain.CategoryTeam:        6,
	domain.CategoryZiele:       10,
	domain.CategoryDatenschutz: 4,
	domain.CategoryDetail:      0,
}

// CalculateResults scores a finalized answer set. Pure: no I/O, no randomness.
// Unknown modes fail with domain.ErrInvalidMode.
func CalculateResults(bank domain.Bank, answers []domain.Answer, mode domain.QuizMode) (domain.QuizResult, error) {
	questions, err := QuestionsForMode(bank, mode)
	if err != nil {
		return domain.QuizResult{}, err
	}

	categoryScores := make([]domain.CategoryScore, 0, len(domain.ScoredCategories))
	scores := make(map[domain.Category]int, len(domain.ScoredCategories))
	for _, category := range domain.ScoredCategories {
		raw, max := categoryScore(questions, answers, category)
		rawPercentage := 50
		if max > 0 {
			rawPercentage = int(math.Round(float64(raw) / float64(max) * 100))
		}
		adjusted := adjustPercentage(rawPercentage, category)

		categoryScores = append(categoryScores, domain.CategoryScore{
			Category:   category,
			Score:      raw,
			MaxScore:   max,
			Percentage: adjusted,
			Label:      CategoryLabels[category],
		})
		scores[category] = adjusted
	}

	total := totalPercentage(categoryScores)
	problemText, problemDomain := extractDetails(bank, answers, mode)

	return domain.QuizResult{
		Mode:            mode,
		Scores:          scores,
		CategoryScores:  categoryScores,
		TotalPercentage: total,
		ScoreLevel:      ScoreLevelFor(total),
		Answers:         answers,
		ProblemText:     problemText,
		ProblemDomain:   problemDomain,
	}, nil
}

// categoryScore sums awarded and maximum points for one category. Unanswered
// questions contribute 0 points but their full maximum, so skipping lowers the
// percentage instead of shrinking the denominator.
func categoryScore(questions []domain.Question, answers []domain.Answer, category domain.Category) (score, max int) {
	for _, q := range questions {
		if q.Category != category || q.IsTextInput {
			continue
		}

		answer, answered := findAnswer(answers, q.ID)
		if q.MultiSelect {
			max += capMulti(optionScoreSum(q.Options))
			if answered {
				score += capMulti(selectedScoreSum(q, answer.SelectedOptionIDs))
			}
		} else {
			max += maxOptionScore(q.Options)
			if answered && len(answer.SelectedOptionIDs) > 0 {
				if opt, ok := findOption(q.Options, answer.SelectedOptionIDs[0]); ok {
					score += opt.Score
				}
			}
		}
	}
	return score, max
}

// adjustPercentage applies the encouragement skew: +10 base, plus a small fixed
// per-category bias, clamped to [25,100].
func adjustPercentage(raw int, category domain.Category) int {
	adjusted := raw + scoreBias + categoryBias[category]
	if adjusted < 25 {
		return 25
	}
	if adjusted > 100 {
		return 100
	}
	return adjusted
}

// totalPercentage weights the adjusted category percentages. Categories absent
// from the mode (max 0) are excluded from numerator and denominator.
func totalPercentage(categoryScores []domain.CategoryScore) int {
	var weightedSum, totalWeight float64
	for _, cs := range categoryScores {
		weight := CategoryWeights[cs.Category]
		if weight > 0 && cs.MaxScore > 0 {
			weightedSum += float64(cs.Percentage) * weight
			totalWeight += weight
		}
	}
	if totalWeight == 0 {
		return 0
	}
	return int(math.Round(weightedSum / totalWeight))
}

// extractDetails pulls the free-form problem description and domain tag out of
// the detail answers. They feed the narrative only, never the score.
func extractDetails(bank domain.Bank, answers []domain.Answer, mode domain.QuizMode) (problemText, problemDomain string) {
	if mode != domain.ModeDetailed {
		return "", ""
	}

	if answer, ok := findAnswer(answers, "detail_problem"); ok {
		problemText = answer.TextValue
	}
	if answer, ok := findAnswer(answers, "detail_bereich"); ok && len(answer.SelectedOptionIDs) > 0 {
		if q, ok := findQuestion(bank.Questions, "detail_bereich"); ok {
			if opt, ok := findOption(q.Options, answer.SelectedOptionIDs[0]); ok {
				problemDomain = opt.Label
			}
		}
	}
	return problemText, problemDomain
}

// FormatAnswers renders a human-readable Q&A transcript, one entry per answer.
// Used for the anonymized narrative payload and nowhere else.
func FormatAnswers(bank domain.Bank, answers []domain.Answer) []string {
	out := make([]string, 0, len(answers))
	for _, answer := range answers {
		q, ok := findQuestion(bank.Questions, answer.QuestionID)
		if !ok {
			continue
		}

		if q.IsTextInput {
			value := answer.TextValue
			if value == "" {
				value = "Keine Antwort"
			}
			out = append(out, q.Prompt+"\n→ "+value)
			continue
		}

		labels := make([]string, 0, len(answer.SelectedOptionIDs))
		for _, optID := range answer.SelectedOptionIDs {
			if opt, ok := findOption(q.Options, optID); ok {
				labels = append(labels, opt.Label)
			}
		}
		joined := strings.Join(labels, ", ")
		if joined == "" {
			joined = "Keine Antwort"
		}
		out = append(out, q.Prompt+"\n→ "+joined)
	}
	return out
}

func findAnswer(answers []domain.Answer, questionID string) (domain.Answer, bool) {
	for _, a := range answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return domain.Answer{}, false
}

func findQuestion(questions []domain.Question, id string) (domain.Question, bool) {
	for i := range questions {
		if questions[i].ID == id {
			return questions[i], true
		}
	}
	return domain.Question{}, false
}

func findOption(options []domain.Option, id string) (domain.Option, bool) {
	for i := range options {
		if options[i].ID == id {
			return options[i], true
		}
	}
	return domain.Option{}, false
}

func optionScoreSum(options []domain.Option) int {
	sum := 0
	for _, o := range options {
		sum += o.Score
	}
	return sum
}

func selectedScoreSum(q domain.Question, selected []string) int {
	sum := 0
	for _, id := range selected {
		if opt, ok := findOption(q.Options, id); ok {
			sum += opt.Score
		}
	}
	return sum
}

func maxOptionScore(options []domain.Option) int {
	max := 0
	for _, o := range options {
		if o.Score > max {
			max = o.Score
		}
	}
	return max
}

func capMulti(v int) int {
	if v > multiSelectCap {
		return multiSelectCap
	}
	return v
}
