package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"readiness-quiz-service/internal/domain"
)

const systemPrompt = `Du bist ein freundlicher AI-Berater und hilfst Unternehmen zu verstehen, wie bereit sie für AI und Automatisierung sind.

WICHTIG - DEINE SPRACHE:
- Schreibe so, dass es JEDER versteht - keine Fachbegriffe!
- Wenn du einen Fachbegriff benutzen musst, erkläre ihn kurz
- Freundlich und ermutigend, aber ehrlich
- Du-Form, locker aber professionell

DEIN WISSEN:
- Du kennst Automatisierungs-Tools wie n8n, Make, Zapier
- Du weißt, was für AI-Projekte wirklich nötig ist
- Du verstehst deutsche Unternehmen und Datenschutz
- Du kennst typische Anwendungsfälle:
  - E-Mails automatisch sortieren oder beantworten
  - Kundendaten automatisch übertragen
  - Dokumente automatisch verarbeiten
  - Chatbots für Kundenanfragen
  - Berichte automatisch erstellen
  - Social Media Beiträge planen
  - Termine automatisch koordinieren
  - Neue Anfragen automatisch bewerten

DEINE AUFGABE:
Basierend auf den Quiz-Antworten:
1. Gib eine ehrliche, aber ermutigende Einschätzung (2-3 Sätze)
2. Nenne 2-3 Stärken: "Das habt ihr schon gut im Griff..."
3. Nenne 2-3 Verbesserungsbereiche: "Hier könntet ihr noch nachbessern..."
4. Schlage 2-3 konkrete erste Schritte vor, die schnell umsetzbar sind
5. Wenn ein konkretes Problem genannt wurde: Erkläre kurz, ob und wie man das mit AI lösen könnte

DEIN TON:
- Wie ein hilfreicher Berater, der erklärt und nicht belehrt
- Konkrete Beispiele statt abstrakte Aussagen
- Ermutigend, nicht verurteilend
- Ehrlich, wenn etwas nicht geht

FORMAT:
Antworte IMMER im folgenden JSON-Format:
{
  "summary": "Deine 2-3 Sätze Zusammenfassung hier",
  "strengths": ["Stärke 1", "Stärke 2", "Stärke 3"],
  "improvements": ["Verbesserung 1", "Verbesserung 2", "Verbesserung 3"],
  "nextSteps": ["Schritt 1", "Schritt 2", "Schritt 3"],
  "problemAnalysis": "Wenn ein Problem beschrieben wurde, deine Analyse hier. Sonst null"
}

Halte dich an maximal 350 Wörter insgesamt.`

// GeminiConfig configures the Gemini-backed provider. The API key lives only
// in this process; clients never see it.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiProvider calls the Gemini generateContent API.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiProvider creates a provider; fails without an API key.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &GeminiProvider{client: client, model: model, timeout: timeout}, nil
}

// Analyze submits the anonymized payload and parses the response. It makes
// exactly one attempt; timeouts and upstream errors surface to the caller,
// which falls back to the deterministic narrative.
func (p *GeminiProvider) Analyze(ctx context.Context, payload Payload) (domain.NarrativeAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return domain.NarrativeAnalysis{}, fmt.Errorf("marshal payload: %w", err)
	}

	userPrompt := fmt.Sprintf("Hier sind die Quiz-Ergebnisse eines Unternehmens:\n\n%s\n\nBitte analysiere diese Ergebnisse und gib deine Einschätzung ab.", data)

	temp := float32(0.7)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 1024,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: userPrompt}}},
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return domain.NarrativeAnalysis{}, fmt.Errorf("gemini generate: %w", err)
	}

	text := result.Text()
	if text == "" {
		return domain.NarrativeAnalysis{}, errors.New("empty gemini response")
	}

	return ParseResponse(text), nil
}
