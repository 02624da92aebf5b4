package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Response contractx.AgentResponse
}

// GraphState carries one turn through the pipeline. The turn's state
// machine (AwaitingDecision, Validating, Dispatching, Completed, Errored)
// lives here as data; Degraded marks the absorbing Errored path taken
// when the reasoning service stays down.
type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	History  []contractx.ConversationTurn
	Decision contractx.Decision

	Degraded          bool
	RetryAfterSeconds int

	ToolResult *contractx.ToolResult
	Reply      string
	State      contractx.TurnState
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
		State:     contractx.StateAwaitingDecision,
	}, nil
}

func Finalize(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, errors.New("graph state is nil")
	}
	return GraphOutput{
		Response: contractx.AgentResponse{
			Text:       in.Reply,
			ToolResult: in.ToolResult,
			State:      in.State,
		},
	}, nil
}
