package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"readiness-quiz-service/internal/app"
	"readiness-quiz-service/internal/domain"
	"readiness-quiz-service/internal/quiz"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode domain.QuizMode `json:"mode"`
}

type questionPayload struct {
	Question domain.Question `json:"question"`
	Index    int             `json:"index"`
	Total    int             `json:"total"`
}

type leadFormPayload struct {
	TotalPercentage int `json:"totalPercentage"`
}

type resultPayload struct {
	Results   domain.QuizResult         `json:"results"`
	LevelInfo domain.ScoreLevelInfo     `json:"levelInfo"`
	Analysis  *domain.NarrativeAnalysis `json:"analysis,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

func toErrorPayload(err error) errorPayload {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return errorPayload{Message: "Bitte überprüfe deine Angaben", Fields: verrs}
	}
	return errorPayload{Message: err.Error()}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz
// flow. One connection drives one session; async narrative and email events
// arrive on the same socket.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Open(r.Context(), sessionID)
	defer cancel()
	defer h.service.Leave(r.Context(), sessionID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; gorilla connections do not allow concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				var payload any
				switch {
				case update.Analysis != nil:
					payload = update.Analysis
				case update.Email != nil:
					payload = update.Email
				}
				select {
				case send <- outboundMessage[any]{Type: update.Type, Payload: payload}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid start payload"}}
				continue
			}
			question, total, err := h.service.StartQuiz(r.Context(), sessionID, payload.Mode)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: questionPayload{Question: question, Index: 0, Total: total}}
		case "answer":
			var answer domain.Answer
			if err := json.Unmarshal(inbound.Payload, &answer); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if err := h.service.SubmitAnswer(r.Context(), sessionID, answer); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
				continue
			}
		case "next", "skip":
			advance, err := h.service.Next(r.Context(), sessionID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
				continue
			}
			if advance.Finished {
				send <- outboundMessage[any]{Type: "leadForm", Payload: leadFormPayload{TotalPercentage: advance.TotalPercentage}}
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: questionPayload{
				Question: *advance.Question,
				Index:    advance.Index,
				Total:    advance.Total,
			}}
		case "submitLead":
			var lead domain.LeadFormData
			if err := json.Unmarshal(inbound.Payload, &lead); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid lead payload"}}
				continue
			}
			results, err := h.service.SubmitLead(r.Context(), sessionID, lead)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
				continue
			}
			loading := domain.NarrativeAnalysis{Loading: true}
			send <- outboundMessage[any]{Type: "result", Payload: resultPayload{
				Results:   results,
				LevelInfo: quiz.LevelInfo(results.ScoreLevel),
				Analysis:  &loading,
			}}
		case "skipLead":
			results, analysis, err := h.service.SkipLead(r.Context(), sessionID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
				continue
			}
			send <- outboundMessage[any]{Type: "result", Payload: resultPayload{
				Results:   results,
				LevelInfo: quiz.LevelInfo(results.ScoreLevel),
				Analysis:  &analysis,
			}}
		case "restart":
			if err := h.service.Restart(r.Context(), sessionID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
				continue
			}
			send <- outboundMessage[any]{Type: "intro", Payload: struct{}{}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
