package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"readiness-quiz-service/internal/app"
	"readiness-quiz-service/internal/domain"
	"readiness-quiz-service/internal/infra/memory"
	"readiness-quiz-service/internal/narrative"
	"readiness-quiz-service/internal/quiz"
)

type fakeProvider struct {
	analysis domain.NarrativeAnalysis
	err      error
	mu       sync.Mutex
	payloads []narrative.Payload
}

func (p *fakeProvider) Analyze(_ context.Context, payload narrative.Payload) (domain.NarrativeAnalysis, error) {
	p.mu.Lock()
	p.payloads = append(p.payloads, payload)
	p.mu.Unlock()
	if p.err != nil {
		return domain.NarrativeAnalysis{}, p.err
	}
	return p.analysis, nil
}

type fakeMailer struct {
	mu    sync.Mutex
	calls int
	leads []domain.LeadFormData
	err   error
}

func (m *fakeMailer) SendResult(_ context.Context, lead domain.LeadFormData, _ domain.QuizResult, _ *domain.NarrativeAnalysis) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.leads = append(m.leads, lead)
	if m.err != nil {
		return "", m.err
	}
	return "msg-1", nil
}

func (m *fakeMailer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestService(provider narrative.Provider, mailer app.ResultMailer) *app.QuizService {
	sessions := memory.NewSessionStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(quiz.DefaultBank()), 5*time.Minute)
	return app.NewQuizService(sessions, banks, provider, mailer, nil)
}

func runQuickCheck(t *testing.T, service *app.QuizService, sessionID string) {
	t.Helper()
	ctx := context.Background()

	question, total, err := service.StartQuiz(ctx, sessionID, domain.ModeQuickCheck)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if total != 7 {
		t.Fatalf("expected 7 questions, got %d", total)
	}

	current := question
	for i := 0; i < total; i++ {
		if !current.IsTextInput {
			err := service.SubmitAnswer(ctx, sessionID, domain.Answer{
				QuestionID:        current.ID,
				SelectedOptionIDs: []string{current.Options[0].ID},
			})
			if err != nil {
				t.Fatalf("answer %s: %v", current.ID, err)
			}
		}
		advance, err := service.Next(ctx, sessionID)
		if err != nil {
			t.Fatalf("next after %s: %v", current.ID, err)
		}
		if advance.Finished {
			if i != total-1 {
				t.Fatalf("finished early at question %d", i)
			}
			return
		}
		current = *advance.Question
	}
	t.Fatalf("question loop never finished")
}

func waitForEvent(t *testing.T, ch <-chan domain.SessionEvent, eventType string) domain.SessionEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-ch:
			if event.Type == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", eventType)
		}
	}
}

func TestQuickCheckFlowSendsEmailOnce(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{analysis: domain.NarrativeAnalysis{Summary: "Sieht gut aus", NextSteps: []string{"Call buchen"}}}
	mailer := &fakeMailer{}
	service := newTestService(provider, mailer)

	events, cancel := service.Open(ctx, "s1")
	defer cancel()

	runQuickCheck(t, service, "s1")

	results, err := service.SubmitLead(ctx, "s1", domain.LeadFormData{
		FirstName:        "Anna",
		Email:            "anna@example.com",
		WantsEmailResult: true,
		AcceptedPrivacy:  true,
	})
	if err != nil {
		t.Fatalf("submit lead: %v", err)
	}
	if results.TotalPercentage < 25 || results.TotalPercentage > 100 {
		t.Fatalf("total out of range: %d", results.TotalPercentage)
	}

	analysisEvent := waitForEvent(t, events, domain.EventAnalysis)
	if analysisEvent.Analysis.Summary != "Sieht gut aus" {
		t.Fatalf("expected provider analysis, got %+v", analysisEvent.Analysis)
	}

	emailEvent := waitForEvent(t, events, domain.EventEmail)
	if !emailEvent.Email.Success || emailEvent.Email.Skipped {
		t.Fatalf("expected successful delivery, got %+v", emailEvent.Email)
	}
	if emailEvent.Email.MessageID != "msg-1" {
		t.Fatalf("expected message id, got %+v", emailEvent.Email)
	}
	if mailer.callCount() != 1 {
		t.Fatalf("expected exactly one send, got %d", mailer.callCount())
	}
}

func TestOptOutReportsSkippedWithoutSending(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{analysis: domain.NarrativeAnalysis{Summary: "ok"}}
	mailer := &fakeMailer{}
	service := newTestService(provider, mailer)

	events, cancel := service.Open(ctx, "s1")
	defer cancel()

	runQuickCheck(t, service, "s1")

	_, err := service.SubmitLead(ctx, "s1", domain.LeadFormData{
		FirstName:        "Anna",
		Email:            "anna@example.com",
		WantsEmailResult: false,
		AcceptedPrivacy:  true,
	})
	if err != nil {
		t.Fatalf("submit lead: %v", err)
	}

	emailEvent := waitForEvent(t, events, domain.EventEmail)
	if !emailEvent.Email.Success || !emailEvent.Email.Skipped {
		t.Fatalf("expected skipped success, got %+v", emailEvent.Email)
	}
	if mailer.callCount() != 0 {
		t.Fatalf("opt-out must not reach the mailer, got %d calls", mailer.callCount())
	}
}

func TestSkipLeadUsesFallbackSynchronously(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{analysis: domain.NarrativeAnalysis{Summary: "model"}}
	mailer := &fakeMailer{}
	service := newTestService(provider, mailer)

	runQuickCheck(t, service, "s1")

	_, analysis, err := service.SkipLead(ctx, "s1")
	if err != nil {
		t.Fatalf("skip lead: %v", err)
	}
	if analysis.Loading {
		t.Fatalf("skip path must settle immediately")
	}
	if analysis.Summary == "" || len(analysis.NextSteps) == 0 {
		t.Fatalf("expected fallback content, got %+v", analysis)
	}

	provider.mu.Lock()
	providerCalls := len(provider.payloads)
	provider.mu.Unlock()
	if providerCalls != 0 {
		t.Fatalf("skip path must not call the provider, got %d calls", providerCalls)
	}
	if mailer.callCount() != 0 {
		t.Fatalf("skip path must not send mail, got %d calls", mailer.callCount())
	}
}

func TestProviderFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{err: errors.New("upstream down")}
	mailer := &fakeMailer{}
	service := newTestService(provider, mailer)

	events, cancel := service.Open(ctx, "s1")
	defer cancel()

	runQuickCheck(t, service, "s1")

	_, err := service.SubmitLead(ctx, "s1", domain.LeadFormData{
		FirstName:        "Anna",
		Email:            "anna@example.com",
		WantsEmailResult: true,
		AcceptedPrivacy:  true,
	})
	if err != nil {
		t.Fatalf("submit lead: %v", err)
	}

	analysisEvent := waitForEvent(t, events, domain.EventAnalysis)
	if analysisEvent.Analysis.Summary == "" {
		t.Fatalf("expected fallback summary, got %+v", analysisEvent.Analysis)
	}
	if analysisEvent.Analysis.Error != "" {
		t.Fatalf("fallback must present as success, got %+v", analysisEvent.Analysis)
	}

	emailEvent := waitForEvent(t, events, domain.EventEmail)
	if !emailEvent.Email.Success {
		t.Fatalf("email must still go out on fallback, got %+v", emailEvent.Email)
	}
}

func TestMailerFailureIsReportedNotRetried(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{analysis: domain.NarrativeAnalysis{Summary: "ok"}}
	mailer := &fakeMailer{err: errors.New("resend 500")}
	service := newTestService(provider, mailer)

	events, cancel := service.Open(ctx, "s1")
	defer cancel()

	runQuickCheck(t, service, "s1")

	_, err := service.SubmitLead(ctx, "s1", domain.LeadFormData{
		FirstName:        "Anna",
		Email:            "anna@example.com",
		WantsEmailResult: true,
		AcceptedPrivacy:  true,
	})
	if err != nil {
		t.Fatalf("submit lead: %v", err)
	}

	emailEvent := waitForEvent(t, events, domain.EventEmail)
	if emailEvent.Email.Success || emailEvent.Email.Error == "" {
		t.Fatalf("expected reported failure, got %+v", emailEvent.Email)
	}
	if mailer.callCount() != 1 {
		t.Fatalf("failures are not retried, got %d calls", mailer.callCount())
	}
}

func TestStartQuizRejectsUnknownMode(t *testing.T) {
	service := newTestService(nil, nil)
	if _, _, err := service.StartQuiz(context.Background(), "s1", "expressmodus"); err != domain.ErrInvalidMode {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestNextRequiresSession(t *testing.T) {
	service := newTestService(nil, nil)
	if _, err := service.Next(context.Background(), "ghost"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
