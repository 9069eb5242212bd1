// Package mail renders and dispatches the quiz result email via Resend.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"

	"readiness-quiz-service/internal/domain"
	"readiness-quiz-service/internal/quiz"
)

// Config holds the Resend credential and sender identity. The API key stays
// server-side only.
type Config struct {
	APIKey     string
	FromName   string
	FromEmail  string
	ReplyTo    string
	BookingURL string
}

// ResendMailer implements app.ResultMailer on top of the Resend API.
type ResendMailer struct {
	client *resend.Client
	cfg    Config
}

func NewResendMailer(cfg Config) (*ResendMailer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("resend API key is required")
	}
	if cfg.FromName == "" {
		cfg.FromName = "Skaile AI"
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = "support@skaile.de"
	}
	return &ResendMailer{client: resend.NewClient(cfg.APIKey), cfg: cfg}, nil
}

// SendResult dispatches exactly one email with the score, category breakdown
// and narrative (when present). Failures are reported to the caller and never
// retried here.
func (m *ResendMailer) SendResult(ctx context.Context, lead domain.LeadFormData, result domain.QuizResult, analysis *domain.NarrativeAnalysis) (string, error) {
	level := quiz.LevelInfo(result.ScoreLevel)
	subject := fmt.Sprintf("Dein AI-Readiness Ergebnis: %d%% - %s", result.TotalPercentage, level.Title)

	html, text := RenderResultEmail(ResultEmailParams{
		FirstName:      lead.FirstName,
		TotalPercent:   result.TotalPercentage,
		Level:          level,
		CategoryScores: presentCategories(result.CategoryScores),
		Analysis:       analysis,
		BookingURL:     m.cfg.BookingURL,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail),
		To:      []string{lead.Email},
		ReplyTo: m.cfg.ReplyTo,
		Subject: subject,
		Html:    html,
		Text:    text,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("send result email: %w", err)
	}
	return sent.Id, nil
}

// presentCategories drops categories the mode never asked about.
func presentCategories(scores []domain.CategoryScore) []domain.CategoryScore {
	out := make([]domain.CategoryScore, 0, len(scores))
	for _, cs := range scores {
		if cs.MaxScore > 0 {
			out = append(out, cs)
		}
	}
	return out
}
