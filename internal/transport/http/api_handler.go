package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"readiness-quiz-service/internal/app"
	"readiness-quiz-service/internal/domain"
	"readiness-quiz-service/internal/narrative"
)

// APIHandler serves the stateless REST endpoints: narrative analysis for an
// externally held result, and direct result email dispatch. Both mirror the
// websocket flow for clients that keep quiz state on their side.
type APIHandler struct {
	provider narrative.Provider
	mailer   app.ResultMailer
	logger   *zap.Logger
}

func NewAPIHandler(provider narrative.Provider, mailer app.ResultMailer, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{provider: provider, mailer: mailer, logger: logger}
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/quiz/analyze", h.Analyze)
	mux.HandleFunc("/api/quiz/send-results", h.SendResults)
}

type analyzeRequest struct {
	QuizData narrative.Payload `json:"quizData"`
}

type analyzeResponse struct {
	Analysis domain.NarrativeAnalysis `json:"analysis"`
}

// Analyze relays anonymized quiz data to the narrative provider. No fallback
// here: callers that want the deterministic text render it themselves when
// this returns an upstream error.
func (h *APIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.provider == nil {
		writeJSONError(w, http.StatusInternalServerError, "narrative provider not configured")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	analysis, err := h.provider.Analyze(r.Context(), req.QuizData)
	if err != nil {
		h.logger.Warn("narrative analysis failed", zap.Error(err))
		writeJSONError(w, http.StatusBadGateway, "analysis unavailable")
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: analysis})
}

type sendResultsRequest struct {
	LeadData domain.LeadFormData       `json:"leadData"`
	Results  domain.QuizResult         `json:"results"`
	Analysis *domain.NarrativeAnalysis `json:"analysis,omitempty"`
}

type sendResultsResponse struct {
	Success   bool                `json:"success"`
	Skipped   bool                `json:"skipped,omitempty"`
	MessageID string              `json:"messageId,omitempty"`
	Error     string              `json:"error,omitempty"`
	Fields    []domain.FieldError `json:"fields,omitempty"`
}

// SendResults validates the lead and sends a single result email. When the
// lead opted out this is a no-op reported as skipped; nothing leaves the
// process.
func (h *APIHandler) SendResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sendResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.LeadData.Validate(); err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, sendResultsResponse{Error: "Bitte überprüfe deine Angaben", Fields: verrs})
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Results.TotalPercentage < 0 || req.Results.TotalPercentage > 100 {
		writeJSONError(w, http.StatusBadRequest, "totalPercentage out of range")
		return
	}

	if !req.LeadData.WantsEmailResult {
		writeJSON(w, http.StatusOK, sendResultsResponse{Success: true, Skipped: true})
		return
	}
	if h.mailer == nil {
		writeJSONError(w, http.StatusInternalServerError, "mail transport not configured")
		return
	}

	// Only a settled, clean narrative goes into the email.
	attach := req.Analysis
	if attach != nil && (attach.Loading || attach.Error != "" || attach.Summary == "") {
		attach = nil
	}

	messageID, err := h.mailer.SendResult(r.Context(), req.LeadData, req.Results, attach)
	if err != nil {
		h.logger.Warn("result email failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, sendResultsResponse{Success: false, Error: "email delivery failed"})
		return
	}
	writeJSON(w, http.StatusOK, sendResultsResponse{Success: true, MessageID: messageID})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
