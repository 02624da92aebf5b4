package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	orchestratorx "github.com/patcharaw/multitool-agent/agent/agents/orchestrator"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

type fakeAgent struct {
	resp      contractx.AgentResponse
	err       error
	sessionID string
	text      string
}

func (f *fakeAgent) HandleTurn(_ context.Context, sessionID string, text string) (contractx.AgentResponse, error) {
	f.sessionID = sessionID
	f.text = text
	if f.err != nil {
		return contractx.AgentResponse{}, f.err
	}
	return f.resp, nil
}

func newTestServer(t *testing.T, agent TurnHandler) *Server {
	t.Helper()
	s, err := New(Config{Addr: ":0", AllowedOrigins: []string{"*"}}, agent)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestOrchestrateEndpoint(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{resp: contractx.AgentResponse{
		Text:  "Current weather in Paris: 18.5°C.",
		State: contractx.StateCompleted,
	}}
	s := newTestServer(t, agent)

	body := `{"session_id": "s1", "query": "weather in Paris"}`
	req := httptest.NewRequest(http.MethodPost, "/orchestrate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp turnResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID != "s1" || resp.State != string(contractx.StateCompleted) {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Result != agent.resp.Text {
		t.Fatalf("result = %q", resp.Result)
	}
	if agent.sessionID != "s1" || agent.text != "weather in Paris" {
		t.Fatalf("agent called with %q, %q", agent.sessionID, agent.text)
	}
}

func TestOrchestrateGeneratesSessionID(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{resp: contractx.AgentResponse{Text: "hi", State: contractx.StateCompleted}}
	s := newTestServer(t, agent)

	req := httptest.NewRequest(http.MethodPost, "/orchestrate", strings.NewReader(`{"query": "hello"}`))
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp turnResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if strings.TrimSpace(resp.SessionID) == "" {
		t.Fatal("no session id generated")
	}
	if resp.SessionID != agent.sessionID {
		t.Fatalf("response session %q differs from dispatched session %q", resp.SessionID, agent.sessionID)
	}
}

func TestOrchestrateRejectsBadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		agentErr error
		wantCode int
	}{
		{"malformed JSON", `{"query":`, nil, http.StatusBadRequest},
		{"empty message", `{"query": "  "}`, orchestratorx.ErrInvalidMessage, http.StatusBadRequest},
		{"internal failure", `{"query": "hello"}`, context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			agent := &fakeAgent{err: tt.agentErr}
			s := newTestServer(t, agent)

			req := httptest.NewRequest(http.MethodPost, "/orchestrate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.http.Handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Fatal("error response has no message")
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
