// Package httpapi exposes the switchboard engine over HTTP. Turns are
// synchronous: a POST carries the user message, the response carries the
// final state after routing runs to completion.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/switchboard"
	mermaid "github.com/aretw0/switchboard/internal/presentation/graph"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/handlers"
	"github.com/aretw0/switchboard/pkg/sanitize"
	"github.com/aretw0/switchboard/pkg/session"
)

// Server wires the engine and the session manager into HTTP handlers.
type Server struct {
	engine   *switchboard.Engine
	sessions *session.Manager
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler builds the HTTP routing for an engine and session manager.
func NewHandler(engine *switchboard.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/turns", s.postTurn)
	r.Get("/conversations/{id}", s.getConversation)
	r.Delete("/conversations/{id}", s.deleteConversation)
	r.Get("/conversations", s.listConversations)
	r.Get("/graph", s.getGraph)
	r.Get("/healthz", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Handle("/metrics", promhttp.Handler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TurnRequest is the body of POST /turns. ConversationID is optional; an
// empty one starts a new conversation.
type TurnRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// TurnResponse carries the routing outcome of one turn.
type TurnResponse struct {
	ConversationID string                    `json:"conversation_id"`
	Outcome        domain.RunOutcome         `json:"outcome"`
	Reply          string                    `json:"reply,omitempty"`
	State          *domain.ConversationState `json:"state"`
}

// postTurn handles POST /turns: one user message, routed to completion.
func (s *Server) postTurn(w http.ResponseWriter, r *http.Request) {
	var body TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("postTurn: invalid request body", "err", err)
		return
	}
	if body.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	// Global input policy
	msg, err := sanitize.Input(body.Message)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid message: %v", err), http.StatusBadRequest)
		s.logger.Warn("postTurn: message rejected", "err", err, "size", len(body.Message))
		return
	}
	body.Message = msg

	conversationID := body.ConversationID
	if conversationID == "" {
		conversationID = s.engine.StartConversation().ConversationID
	}

	var result *domain.RunResult
	err = s.sessions.WithLock(r.Context(), conversationID, func(ctx context.Context) error {
		state, err := s.sessions.Store().Load(ctx, conversationID)
		if errors.Is(err, domain.ErrConversationNotFound) {
			state = s.engine.StartConversation()
			state.ConversationID = conversationID
		} else if err != nil {
			return err
		}
		if state.Status.Terminal() {
			return errConversationClosed
		}

		if state.Payload == nil {
			state.Payload = make(map[string]any)
		}
		state.Payload[handlers.KeyMessage] = body.Message
		state.NextStep = ""

		result, err = s.engine.Run(ctx, state)
		if err != nil {
			return err
		}
		return s.sessions.Store().Save(ctx, conversationID, result.State)
	})

	if errors.Is(err, errConversationClosed) {
		http.Error(w, "conversation is already closed", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Turn error: %v", err), http.StatusInternalServerError)
		s.logger.Error("postTurn: run failed", "conversation_id", conversationID, "err", err)
		return
	}

	reply, _ := result.State.Payload[handlers.KeyReply].(string)
	writeJSON(w, s.logger, TurnResponse{
		ConversationID: conversationID,
		Outcome:        result.Outcome,
		Reply:          reply,
		State:          result.State,
	})
}

var errConversationClosed = errors.New("conversation closed")

// getConversation handles GET /conversations/{id}.
func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := s.sessions.Load(r.Context(), id)
	if errors.Is(err, domain.ErrConversationNotFound) {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("getConversation failed", "conversation_id", id, "err", err)
		return
	}
	writeJSON(w, s.logger, state)
}

// deleteConversation handles DELETE /conversations/{id}.
func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("deleteConversation failed", "conversation_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listConversations handles GET /conversations.
func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("listConversations failed", "err", err)
		return
	}
	writeJSON(w, s.logger, map[string]any{"conversations": ids})
}

// getGraph handles GET /graph: compiled topology as JSON, plus a Mermaid
// rendering when ?format=mermaid.
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	g := s.engine.Graph()

	if r.URL.Query().Get("format") == "mermaid" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, mermaid.GenerateMermaid(g, nil))
		return
	}

	writeJSON(w, s.logger, map[string]any{
		"entry":        g.Entry(),
		"participants": g.Participants(),
		"edges":        g.Edges(),
	})
}

// getHealth handles GET /healthz.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// getInfo handles GET /info.
func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "switchboard-http",
		"version": switchboard.Version,
		"graph":   s.engine.Name,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
