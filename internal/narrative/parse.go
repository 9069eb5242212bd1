package narrative

import (
	"encoding/json"
	"strings"

	"readiness-quiz-service/internal/domain"
)

const maxListItems = 3

// parsedAnalysis mirrors the JSON shape the model is instructed to produce.
type parsedAnalysis struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	NextSteps       []string `json:"nextSteps"`
	ProblemAnalysis *string  `json:"problemAnalysis"`
}

// ParseResponse extracts a structured analysis from a model response. First
// tier: the outermost JSON object embedded in the blob. Second tier: heuristic
// plain-text section scanning. It is total over non-empty input; a blob with
// no recognizable structure still yields a summary from its leading lines.
func ParseResponse(text string) domain.NarrativeAnalysis {
	if raw, ok := extractJSONObject(text); ok {
		var parsed parsedAnalysis
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			analysis := domain.NarrativeAnalysis{
				Summary:      parsed.Summary,
				Strengths:    clampList(parsed.Strengths),
				Improvements: clampList(parsed.Improvements),
				NextSteps:    clampList(parsed.NextSteps),
			}
			if parsed.ProblemAnalysis != nil {
				analysis.ProblemAnalysis = *parsed.ProblemAnalysis
			}
			return analysis
		}
	}
	return parsePlainText(text)
}

// extractJSONObject returns the span from the first '{' to the last '}' in the
// blob, matching how the model wraps JSON in surrounding prose.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// parsePlainText scans a prose response. The first three non-empty lines form
// the summary; heading keywords switch the active section and bullet lines are
// collected under the most recently seen heading.
func parsePlainText(text string) domain.NarrativeAnalysis {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	summaryEnd := len(lines)
	if summaryEnd > 3 {
		summaryEnd = 3
	}
	summaryParts := make([]string, 0, summaryEnd)
	for _, line := range lines[:summaryEnd] {
		summaryParts = append(summaryParts, strings.TrimSpace(line))
	}

	analysis := domain.NarrativeAnalysis{
		Summary:      strings.TrimSpace(strings.Join(summaryParts, " ")),
		Strengths:    []string{},
		Improvements: []string{},
		NextSteps:    []string{},
	}

	section := ""
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "stärke") || strings.Contains(lower, "gut im griff"):
			section = "strengths"
			continue
		case strings.Contains(lower, "verbesser") || strings.Contains(lower, "nachbessern"):
			section = "improvements"
			continue
		case strings.Contains(lower, "schritt") || strings.Contains(lower, "empfehl"):
			section = "steps"
			continue
		}

		content, ok := bulletContent(line)
		if !ok {
			continue
		}
		switch section {
		case "strengths":
			analysis.Strengths = append(analysis.Strengths, content)
		case "improvements":
			analysis.Improvements = append(analysis.Improvements, content)
		case "steps":
			analysis.NextSteps = append(analysis.NextSteps, content)
		}
	}

	analysis.Strengths = clampList(analysis.Strengths)
	analysis.Improvements = clampList(analysis.Improvements)
	analysis.NextSteps = clampList(analysis.NextSteps)
	return analysis
}

func bulletContent(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range []string{"- ", "• ", "* "} {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):]), true
		}
	}
	return "", false
}

func clampList(items []string) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > maxListItems {
		return items[:maxListItems]
	}
	return items
}
