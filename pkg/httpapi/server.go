package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	orchestratorx "github.com/patcharaw/multitool-agent/agent/agents/orchestrator"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

const maxRequestBodyBytes = 1 << 20

// TurnHandler is the inbound boundary exposed by the agent core.
type TurnHandler interface {
	HandleTurn(ctx context.Context, sessionID string, text string) (contractx.AgentResponse, error)
}

type Config struct {
	Addr            string        `envconfig:"ADDR" split_words:"true" default:":8000"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" split_words:"true" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

// Server is the thin HTTP transport in front of the orchestrator. One
// endpoint, no auth, no UI.
type Server struct {
	http            *http.Server
	agent           TurnHandler
	shutdownTimeout time.Duration
}

func New(cfg Config, agent TurnHandler) (*Server, error) {
	if agent == nil {
		return nil, errors.New("turn handler is required")
	}

	s := &Server{
		agent:           agent,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /orchestrate", s.handleOrchestrate)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: c.Handler(mux),
	}
	return s, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type turnRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query"`
}

type turnResponse struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	Result    string `json:"result"`
	State     string `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	requestID := uuid.NewString()

	var req turnRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	resp, err := s.agent.HandleTurn(r.Context(), sessionID, req.Query)
	if err != nil {
		if errors.Is(err, orchestratorx.ErrInvalidMessage) || errors.Is(err, orchestratorx.ErrInvalidSession) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		log.Error().Err(err).
			Str("request_id", requestID).
			Str("session_id", sessionID).
			Msg("turn failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	log.Info().
		Str("request_id", requestID).
		Str("session_id", sessionID).
		Str("state", string(resp.State)).
		Dur("duration", time.Since(started)).
		Msg("turn handled")

	writeJSON(w, http.StatusOK, turnResponse{
		SessionID: sessionID,
		Query:     strings.TrimSpace(req.Query),
		Result:    resp.Text,
		State:     string(resp.State),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("write response failed")
	}
}
