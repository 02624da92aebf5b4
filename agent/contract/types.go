package contract

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleTool  Role = "tool"
)

// ConversationTurn is immutable once appended to memory.
type ConversationTurn struct {
	Role       Role        `json:"role"`
	Text       string      `json:"text"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

type DecisionKind string

const (
	DecisionDirectAnswer DecisionKind = "direct_answer"
	DecisionToolCall     DecisionKind = "tool_call"
)

// Decision is the router's verdict for a single user turn: either answer
// directly or call exactly one tool. A DirectAnswer with empty text means
// the responder should produce the conversational reply.
type Decision struct {
	Kind   DecisionKind   `json:"kind"`
	Answer string         `json:"answer,omitempty"`
	Tool   string         `json:"tool,omitempty"`
	Args   map[string]any `json:"args,omitempty"`
}

func DirectAnswer(text string) Decision {
	return Decision{Kind: DecisionDirectAnswer, Answer: text}
}

func ToolCall(tool string, args map[string]any) Decision {
	if args == nil {
		args = map[string]any{}
	}
	return Decision{Kind: DecisionToolCall, Tool: tool, Args: args}
}

type FailureKind string

const (
	FailureRateLimited  FailureKind = "rate_limited"
	FailureTimeout      FailureKind = "timeout"
	FailureInvalidInput FailureKind = "invalid_input"
	FailureUpstream     FailureKind = "upstream_error"
	FailureNotFound     FailureKind = "not_found"
)

type ToolFailure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// ToolResult is the uniform outcome shape every adapter normalizes into.
// Exactly one of Data or Failure is set.
type ToolResult struct {
	Tool    string       `json:"tool"`
	Data    any          `json:"data,omitempty"`
	Failure *ToolFailure `json:"failure,omitempty"`
}

func (r ToolResult) OK() bool {
	return r.Failure == nil
}

func Succeed(tool string, data any) ToolResult {
	return ToolResult{Tool: tool, Data: data}
}

func Fail(tool string, kind FailureKind, format string, args ...any) ToolResult {
	return ToolResult{
		Tool: tool,
		Failure: &ToolFailure{
			Kind:    kind,
			Message: fmt.Sprintf(format, args...),
		},
	}
}

// TurnState names the orchestrator state a turn terminated in. Every turn
// ends in StateCompleted or StateErrored.
type TurnState string

const (
	StateAwaitingDecision TurnState = "awaiting_decision"
	StateValidating       TurnState = "validating"
	StateDispatching      TurnState = "dispatching"
	StateCompleted        TurnState = "completed"
	StateErrored          TurnState = "errored"
)

// ClarificationText is the total fallback reply used whenever a routing
// decision cannot be recovered from model output.
const ClarificationText = "I couldn't determine which tool to use, could you rephrase your question?"

// AgentResponse is what the caller gets back for one turn. ToolResult is
// carried for observability and is nil when no tool ran.
type AgentResponse struct {
	Text       string      `json:"text"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
	State      TurnState   `json:"state"`
}
