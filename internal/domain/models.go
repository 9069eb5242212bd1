package domain

// QuizMode selects which slice of the question bank a session runs through.
type QuizMode string

const (
	// ModeQuickCheck is the 7-question check, answerable in about two minutes.
	ModeQuickCheck QuizMode = "schnell_check"
	// ModeDetailed runs the full bank including free-text and context questions.
	ModeDetailed QuizMode = "detaillierte_analyse"
)

// Category groups questions thematically. Each scored category carries a fixed
// weight; CategoryDetail collects free-form context and is never scored.
type Category string

const (
	CategoryDaten       Category = "daten"
	CategoryAufgaben    Category = "aufgaben"
	CategoryTools       Category = "tools"
	CategoryTeam        Category = "team"
	CategoryZiele       Category = "ziele"
	CategoryDatenschutz Category = "datenschutz"
	CategoryDetail      Category = "detail"
)

// ScoredCategories lists the categories contributing to the total, in display order.
var ScoredCategories = []Category{
	CategoryDaten,
	CategoryAufgaben,
	CategoryTools,
	CategoryTeam,
	CategoryZiele,
	CategoryDatenschutz,
}

// Option is a selectable answer carrying the points it awards.
// Option ids are unique within their question.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Score int    `json:"score"`
	Emoji string `json:"emoji,omitempty"`
}

// Question is immutable bank content, defined at process start.
type Question struct {
	ID           string   `json:"id"`
	Category     Category `json:"category"`
	Prompt       string   `json:"prompt"`
	Options      []Option `json:"options"`
	MultiSelect  bool     `json:"multiSelect,omitempty"`
	IsTextInput  bool     `json:"isTextInput,omitempty"`
	Placeholder  string   `json:"placeholder,omitempty"`
	DetailedOnly bool     `json:"detailedOnly,omitempty"`
}

// Bank is the full question catalog, loadable from a backing store.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Answer records one response per question id. Resubmitting for the same
// question replaces the prior answer; no history is kept. Selection order is
// preserved for multi-select questions.
type Answer struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
	TextValue         string   `json:"textValue,omitempty"`
}

// CategoryScore is derived per category when the answer set is finalized.
// Percentage is the adjusted value (floor of 25, encouragement bias applied).
type CategoryScore struct {
	Category   Category `json:"category"`
	Score      int      `json:"score"`
	MaxScore   int      `json:"maxScore"`
	Percentage int      `json:"percentage"`
	Label      string   `json:"label"`
}

// ScoreLevel is one of five ordered readiness tiers.
type ScoreLevel string

const (
	LevelBereit        ScoreLevel = "bereit"
	LevelFastStartklar ScoreLevel = "fast_startklar"
	LevelAufGutemWeg   ScoreLevel = "auf_gutem_weg"
	LevelGrundlagen    ScoreLevel = "erst_grundlagen"
	LevelAnfangReise   ScoreLevel = "anfang_reise"
)

// ScoreLevelInfo carries the display copy for a tier. The five bands are
// inclusive on both ends and partition [0,100] with no gaps.
type ScoreLevelInfo struct {
	Level          ScoreLevel `json:"level"`
	MinPercentage  int        `json:"minPercentage"`
	MaxPercentage  int        `json:"maxPercentage"`
	Title          string     `json:"title"`
	Emoji          string     `json:"emoji"`
	Description    string     `json:"description"`
	CTAText        string     `json:"ctaText"`
	CTADescription string     `json:"ctaDescription"`
}

// QuizResult is created once at the end of the question loop and treated as
// immutable afterwards.
type QuizResult struct {
	Mode            QuizMode         `json:"mode"`
	Scores          map[Category]int `json:"scores"`
	CategoryScores  []CategoryScore  `json:"categoryScores"`
	TotalPercentage int              `json:"totalPercentage"`
	ScoreLevel      ScoreLevel       `json:"scoreLevel"`
	Answers         []Answer         `json:"answers"`
	ProblemText     string           `json:"problemText,omitempty"`
	ProblemDomain   string           `json:"problemDomain,omitempty"`
}

// NarrativeAnalysis is the LLM-generated (or deterministic fallback) commentary
// on a result. Lifecycle: loading, then success or error; on error the caller
// substitutes the fallback instead of retrying.
type NarrativeAnalysis struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	NextSteps       []string `json:"nextSteps"`
	ProblemAnalysis string   `json:"problemAnalysis,omitempty"`
	Loading         bool     `json:"loading"`
	Error           string   `json:"error,omitempty"`
}

// Settled reports whether the analysis finished loading (success or error).
func (a NarrativeAnalysis) Settled() bool {
	return !a.Loading
}

// EmailStatus reports the outcome of the at-most-once result email.
type EmailStatus struct {
	Success   bool   `json:"success"`
	Skipped   bool   `json:"skipped,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SessionEvent is pushed to session subscribers when async work settles.
type SessionEvent struct {
	Type     string             `json:"type"`
	Analysis *NarrativeAnalysis `json:"analysis,omitempty"`
	Email    *EmailStatus       `json:"email,omitempty"`
}

const (
	EventAnalysis = "analysis"
	EventEmail    = "emailStatus"
)
