package contract

import "context"

// DecideRequest carries one user query plus the bounded conversation
// history shown to the reasoning model.
type DecideRequest struct {
	UserText string             `json:"user_text"`
	History  []ConversationTurn `json:"history,omitempty"`
}

// Router maps free-form user text to a structured decision. Decide is
// total over model output: malformed or out-of-catalog responses come
// back as a clarification DirectAnswer, never as an error. Only a failed
// reasoning call itself returns an error (wrapping ErrModelInvoke).
type Router interface {
	Decide(ctx context.Context, req DecideRequest) (Decision, error)
}

// Responder produces a plain conversational reply when no tool fits.
type Responder interface {
	Respond(ctx context.Context, userText string, history []ConversationTurn) (string, error)
}

// ToolGateway is the orchestrator's view of the tool registry: validate a
// call against the static catalog, then dispatch it by name. Execute
// never returns a Go error; every outcome is a ToolResult.
type ToolGateway interface {
	ValidateCall(name string, args map[string]any) error
	Execute(ctx context.Context, name string, args map[string]any) ToolResult
}
