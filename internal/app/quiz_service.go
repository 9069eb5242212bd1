package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"readiness-quiz-service/internal/domain"
	"readiness-quiz-service/internal/narrative"
	"readiness-quiz-service/internal/quiz"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// BankRepository loads the question catalog (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) (domain.Bank, error)
}

// ResultMailer dispatches the result email. Implementations report transport
// failures through the error; they are never retried.
type ResultMailer interface {
	SendResult(ctx context.Context, lead domain.LeadFormData, result domain.QuizResult, analysis *domain.NarrativeAnalysis) (messageID string, err error)
}

// mailTimeout bounds the single email dispatch attempt.
const mailTimeout = 15 * time.Second

// QuizService contains the quiz use cases: running the question loop, scoring
// at the end, fetching the narrative, and delivering the result email.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	provider narrative.Provider // nil means fallback-only
	mailer   ResultMailer       // nil disables outbound mail
	logger   *zap.Logger
}

func NewQuizService(sessions SessionRepository, banks BankRepository, provider narrative.Provider, mailer ResultMailer, logger *zap.Logger) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		sessions: sessions,
		banks:    banks,
		provider: provider,
		mailer:   mailer,
		logger:   logger,
	}
}

// Advance describes the outcome of moving the question cursor.
type Advance struct {
	Question        *domain.Question
	Index           int
	Total           int
	Finished        bool
	TotalPercentage int
}

// StartQuiz begins the question loop for a mode. Unknown modes fail with
// domain.ErrInvalidMode before any session state changes.
func (s *QuizService) StartQuiz(ctx context.Context, sessionID string, mode domain.QuizMode) (domain.Question, int, error) {
	bank, err := s.banks.GetBank(ctx)
	if err != nil {
		return domain.Question{}, 0, err
	}
	questions, err := quiz.QuestionsForMode(bank, mode)
	if err != nil {
		return domain.Question{}, 0, err
	}

	session := s.sessions.GetOrCreate(sessionID)
	return session.SelectMode(mode, questions)
}

// SubmitAnswer upserts one answer without advancing.
func (s *QuizService) SubmitAnswer(_ context.Context, sessionID string, answer domain.Answer) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.UpsertAnswer(answer)
}

// Next advances the cursor. At the end of the loop it scores the answer set
// and the session enters lead capture; the total is returned so clients can
// tease the result.
func (s *QuizService) Next(ctx context.Context, sessionID string) (Advance, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Advance{}, domain.ErrSessionNotFound
	}

	next, finished, err := session.Advance()
	if err != nil {
		return Advance{}, err
	}

	if !finished {
		_, index, total, err := session.CurrentQuestion()
		if err != nil {
			return Advance{}, err
		}
		return Advance{Question: next, Index: index, Total: total}, nil
	}

	bank, err := s.banks.GetBank(ctx)
	if err != nil {
		return Advance{}, err
	}
	results, err := quiz.CalculateResults(bank, session.Answers(), session.Mode())
	if err != nil {
		return Advance{}, err
	}
	if err := session.SetResults(results); err != nil {
		return Advance{}, err
	}
	return Advance{Finished: true, TotalPercentage: results.TotalPercentage}, nil
}

// SubmitLead stores validated lead data, enters the result step and kicks off
// the async narrative fetch. The numeric result is available immediately; the
// narrative and the email status arrive on the session event stream.
func (s *QuizService) SubmitLead(ctx context.Context, sessionID string, lead domain.LeadFormData) (domain.QuizResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuizResult{}, domain.ErrSessionNotFound
	}

	generation, results, err := session.SubmitLead(lead)
	if err != nil {
		return domain.QuizResult{}, err
	}

	bank, err := s.banks.GetBank(ctx)
	if err != nil {
		// Results stay intact; degrade to the fallback narrative.
		s.logger.Warn("bank load failed, using fallback narrative", zap.Error(err))
		s.settleAnalysis(session, generation, narrative.Fallback(results))
		return results, nil
	}

	// Detached from the request context: the user may disconnect while the
	// narrative is in flight, but an opted-in result email must still go out.
	go s.runAnalysis(context.Background(), session, generation, bank, results)
	return results, nil
}

// SkipLead enters the result step without lead capture. The deterministic
// fallback is computed synchronously; no network call, no email.
func (s *QuizService) SkipLead(_ context.Context, sessionID string) (domain.QuizResult, domain.NarrativeAnalysis, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuizResult{}, domain.NarrativeAnalysis{}, domain.ErrSessionNotFound
	}

	generation, results, err := session.SkipLead()
	if err != nil {
		return domain.QuizResult{}, domain.NarrativeAnalysis{}, err
	}

	fallback := narrative.Fallback(results)
	session.CompleteAnalysis(generation, fallback)
	return results, fallback, nil
}

// Restart clears the session for another run.
func (s *QuizService) Restart(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Restart()
	return nil
}

// Open ensures a session exists for a connecting client and subscribes to its
// event stream. The caller must invoke cancel to avoid leaks.
func (s *QuizService) Open(_ context.Context, sessionID string) (<-chan domain.SessionEvent, func()) {
	session := s.sessions.GetOrCreate(sessionID)
	return session.Subscribe()
}

// Subscribe returns a channel receiving async session events (narrative
// settled, email status). The caller must invoke cancel to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionEvent, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Leave drops the session when its owner disconnects.
func (s *QuizService) Leave(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	if !session.HasSubscribers() {
		s.sessions.Delete(sessionID)
	}
}

// runAnalysis performs the single narrative attempt and then the at-most-once
// email dispatch. Any provider failure degrades to the fallback; the session
// always ends up with a settled narrative.
func (s *QuizService) runAnalysis(ctx context.Context, session *Session, generation int, bank domain.Bank, results domain.QuizResult) {
	analysis := narrative.Fallback(results)
	if s.provider != nil {
		payload := narrative.BuildPayload(bank, results)
		got, err := s.provider.Analyze(ctx, payload)
		if err != nil {
			s.logger.Warn("narrative analysis failed, using fallback",
				zap.String("session", session.ID()), zap.Error(err))
		} else {
			analysis = got
		}
	}
	s.settleAnalysis(session, generation, analysis)
}

func (s *QuizService) settleAnalysis(session *Session, generation int, analysis domain.NarrativeAnalysis) {
	if !session.CompleteAnalysis(generation, analysis) {
		// Session restarted while the fetch was in flight; drop the result.
		s.logger.Debug("dropping stale analysis", zap.String("session", session.ID()))
		return
	}
	s.dispatchEmail(session, generation)
}

// dispatchEmail claims the one-shot latch and sends at most one result email
// per session, no matter how often the settled condition is observed.
func (s *QuizService) dispatchEmail(session *Session, generation int) {
	lead, results, analysis, ok := session.ClaimEmailDispatch(generation)
	if !ok {
		return
	}

	if !lead.WantsEmailResult {
		session.RecordEmailStatus(generation, domain.EmailStatus{Success: true, Skipped: true})
		return
	}
	if s.mailer == nil {
		session.RecordEmailStatus(generation, domain.EmailStatus{Success: false, Error: "mail transport not configured"})
		return
	}

	// Only a clean narrative goes into the email; the numeric result always does.
	var attach *domain.NarrativeAnalysis
	if analysis.Error == "" && analysis.Summary != "" {
		attach = &analysis
	}

	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	messageID, err := s.mailer.SendResult(ctx, lead, results, attach)
	if err != nil {
		// Reported, not retried.
		s.logger.Warn("result email failed", zap.String("session", session.ID()), zap.Error(err))
		session.RecordEmailStatus(generation, domain.EmailStatus{Success: false, Error: err.Error()})
		return
	}
	s.logger.Info("result email sent", zap.String("session", session.ID()))
	session.RecordEmailStatus(generation, domain.EmailStatus{Success: true, MessageID: messageID})
}
