package app

import (
	"sync"

	"readiness-quiz-service/internal/domain"
)

// Step names the quiz flow states.
type Step string

const (
	StepIntro     Step = "intro"
	StepQuestions Step = "questions"
	StepLeadForm  Step = "lead_form"
	StepResult    Step = "result"
)

// State is the serializable snapshot of one quiz session. All transitions go
// through Session methods; nothing outside this package mutates it.
type State struct {
	Step          Step                      `json:"step"`
	Mode          domain.QuizMode           `json:"mode,omitempty"`
	QuestionIndex int                       `json:"questionIndex"`
	Answers       []domain.Answer           `json:"answers"`
	Lead          *domain.LeadFormData      `json:"lead,omitempty"`
	Results       *domain.QuizResult        `json:"results,omitempty"`
	Analysis      *domain.NarrativeAnalysis `json:"analysis,omitempty"`
	EmailSent     bool                      `json:"emailSent"`
	Generation    int                       `json:"generation"`
}

// Session owns the state of one quiz run. A browser session maps to exactly
// one Session; nothing is shared across sessions. The generation counter
// guards async completions: work started before a restart is dropped when it
// lands.
type Session struct {
	id          string
	mu          sync.RWMutex
	state       State
	questions   []domain.Question
	subscribers map[chan domain.SessionEvent]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return &Session{
		id:          id,
		state:       State{Step: StepIntro, Generation: 1},
		subscribers: make(map[chan domain.SessionEvent]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot copies the current state for inspection or serialization.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	snap.Answers = append([]domain.Answer(nil), s.state.Answers...)
	return snap
}

// SelectMode starts the question loop: answers cleared, index reset. Only
// valid from intro (restart first to run again).
func (s *Session) SelectMode(mode domain.QuizMode, questions []domain.Question) (domain.Question, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step != StepIntro {
		return domain.Question{}, 0, domain.ErrInvalidTransition
	}
	if len(questions) == 0 {
		return domain.Question{}, 0, domain.ErrNoActiveQuiz
	}

	s.state.Step = StepQuestions
	s.state.Mode = mode
	s.state.QuestionIndex = 0
	s.state.Answers = nil
	s.questions = questions
	return questions[0], len(questions), nil
}

// CurrentQuestion returns the question at the cursor.
func (s *Session) CurrentQuestion() (domain.Question, int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Step != StepQuestions {
		return domain.Question{}, 0, 0, domain.ErrNoActiveQuiz
	}
	return s.questions[s.state.QuestionIndex], s.state.QuestionIndex, len(s.questions), nil
}

// UpsertAnswer stores one answer keyed by question id. Re-answering replaces
// the prior answer in place; the answer set never grows past one entry per
// question. Does not advance the cursor.
func (s *Session) UpsertAnswer(answer domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step != StepQuestions {
		return domain.ErrNoActiveQuiz
	}

	var question *domain.Question
	for i := range s.questions {
		if s.questions[i].ID == answer.QuestionID {
			question = &s.questions[i]
			break
		}
	}
	if question == nil {
		return domain.ErrUnknownQuestion
	}
	if !question.IsTextInput {
		for _, optID := range answer.SelectedOptionIDs {
			if _, ok := findOption(question.Options, optID); !ok {
				return domain.ErrUnknownOption
			}
		}
	}

	for i := range s.state.Answers {
		if s.state.Answers[i].QuestionID == answer.QuestionID {
			s.state.Answers[i] = answer
			return nil
		}
	}
	s.state.Answers = append(s.state.Answers, answer)
	return nil
}

// Advance moves the cursor. At the last question the loop finishes and the
// session enters lead_form, waiting for the computed results. Skipping a
// free-text question is the same operation without a stored answer.
func (s *Session) Advance() (next *domain.Question, finished bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step != StepQuestions {
		return nil, false, domain.ErrNoActiveQuiz
	}
	if s.state.QuestionIndex >= len(s.questions)-1 {
		s.state.Step = StepLeadForm
		return nil, true, nil
	}
	s.state.QuestionIndex++
	q := s.questions[s.state.QuestionIndex]
	return &q, false, nil
}

// Answers returns a copy of the current answer set.
func (s *Session) Answers() []domain.Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Answer(nil), s.state.Answers...)
}

// Mode returns the selected quiz mode.
func (s *Session) Mode() domain.QuizMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Mode
}

// SetResults attaches the scored result after the loop finished. The result is
// immutable from here on.
func (s *Session) SetResults(results domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step != StepLeadForm {
		return domain.ErrInvalidTransition
	}
	s.state.Results = &results
	return nil
}

// Results returns the computed result, if any.
func (s *Session) Results() (domain.QuizResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Results == nil {
		return domain.QuizResult{}, false
	}
	return *s.state.Results, true
}

// SubmitLead validates and stores the lead, enters result, and marks the
// narrative as loading. Returns the generation the caller must present when
// completing async work.
func (s *Session) SubmitLead(lead domain.LeadFormData) (int, domain.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step != StepLeadForm {
		return 0, domain.QuizResult{}, domain.ErrInvalidTransition
	}
	if s.state.Results == nil {
		return 0, domain.QuizResult{}, domain.ErrNoResults
	}
	if err := lead.Validate(); err != nil {
		return 0, domain.QuizResult{}, err
	}

	s.state.Lead = &lead
	s.state.Step = StepResult
	s.state.Analysis = &domain.NarrativeAnalysis{Loading: true}
	return s.state.Generation, *s.state.Results, nil
}

// SkipLead enters result without lead data. The caller supplies the fallback
// narrative synchronously; no network call happens on this path.
func (s *Session) SkipLead() (int, domain.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step != StepLeadForm {
		return 0, domain.QuizResult{}, domain.ErrInvalidTransition
	}
	if s.state.Results == nil {
		return 0, domain.QuizResult{}, domain.ErrNoResults
	}

	s.state.Step = StepResult
	s.state.Analysis = &domain.NarrativeAnalysis{Loading: true}
	return s.state.Generation, *s.state.Results, nil
}

// CompleteAnalysis lands an analysis for the given generation. Stale
// completions (session restarted since the fetch began) are dropped and
// reported false.
func (s *Session) CompleteAnalysis(generation int, analysis domain.NarrativeAnalysis) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.state.Generation || s.state.Step != StepResult {
		return false
	}
	analysis.Loading = false
	s.state.Analysis = &analysis
	s.broadcastLocked(domain.SessionEvent{Type: domain.EventAnalysis, Analysis: &analysis})
	return true
}

// Analysis returns the current narrative state.
func (s *Session) Analysis() (domain.NarrativeAnalysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Analysis == nil {
		return domain.NarrativeAnalysis{}, false
	}
	return *s.state.Analysis, true
}

// ClaimEmailDispatch acquires the one-shot send latch. It succeeds exactly
// once per session: afterwards, and for stale generations, missing leads or an
// unsettled narrative, it returns false. Only Restart rearms the latch.
func (s *Session) ClaimEmailDispatch(generation int) (domain.LeadFormData, domain.QuizResult, domain.NarrativeAnalysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.state.Generation ||
		s.state.Step != StepResult ||
		s.state.EmailSent ||
		s.state.Lead == nil ||
		s.state.Results == nil ||
		s.state.Analysis == nil ||
		s.state.Analysis.Loading {
		return domain.LeadFormData{}, domain.QuizResult{}, domain.NarrativeAnalysis{}, false
	}

	s.state.EmailSent = true
	return *s.state.Lead, *s.state.Results, *s.state.Analysis, true
}

// RecordEmailStatus publishes the delivery outcome unless the session moved on.
func (s *Session) RecordEmailStatus(generation int, status domain.EmailStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.state.Generation {
		return
	}
	s.broadcastLocked(domain.SessionEvent{Type: domain.EventEmail, Email: &status})
}

// Restart clears the whole session, including the email latch, and bumps the
// generation so in-flight async work lands nowhere.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	generation := s.state.Generation + 1
	s.state = State{Step: StepIntro, Generation: generation}
	s.questions = nil
}

// Subscribe returns a channel receiving async session events. The caller must
// invoke the cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionEvent, func()) {
	ch := make(chan domain.SessionEvent, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// HasSubscribers reports whether anyone is still listening.
func (s *Session) HasSubscribers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers) > 0
}

func (s *Session) broadcastLocked(event domain.SessionEvent) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Drop the oldest pending event rather than block the transition.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

func findOption(options []domain.Option, id string) (domain.Option, bool) {
	for i := range options {
		if options[i].ID == id {
			return options[i], true
		}
	}
	return domain.Option{}, false
}
