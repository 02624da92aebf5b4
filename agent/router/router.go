package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
	promptx "github.com/patcharaw/multitool-agent/agent/prompt"
)

// fallbackToolName is the pseudo-tool the model is told to pick when no
// real tool fits the query.
const fallbackToolName = "fallback"

// Router sends one structured reasoning request per turn and parses the
// model's JSON verdict defensively. Any output it cannot recover turns
// into a clarification DirectAnswer; only a failed model call surfaces as
// an error.
type Router struct {
	runner  compose.Runnable[map[string]any, *schema.Message]
	gateway contractx.ToolGateway
}

var _ contractx.Router = (*Router)(nil)

// New compiles the decision graph. catalogText is baked into the system
// prompt once; the registry is static so the catalog never changes.
func New(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	catalogText string,
	gateway contractx.ToolGateway,
) (*Router, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if gateway == nil {
		return nil, fmt.Errorf("%w: tool gateway is required", contractx.ErrValidation)
	}

	systemPrompt = strings.ReplaceAll(systemPrompt, promptx.CatalogMarker, catalogText)

	runner, err := compileDecisionGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, err
	}

	return &Router{runner: runner, gateway: gateway}, nil
}

func compileDecisionGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add router prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add router model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add router edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add router edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add router edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("router.decision_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}

func (r *Router) Decide(ctx context.Context, req contractx.DecideRequest) (contractx.Decision, error) {
	if strings.TrimSpace(req.UserText) == "" {
		return contractx.Decision{}, fmt.Errorf("%w: user text is required", contractx.ErrValidation)
	}

	payload := map[string]any{
		"query":   req.UserText,
		"history": historyForPrompt(req.History),
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: marshal router payload: %v", contractx.ErrValidation, err)
	}

	msg, err := r.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: router invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.Decision{}, fmt.Errorf("%w: router returned no message", contractx.ErrModelInvoke)
	}

	return r.parseDecision(msg.Content), nil
}

type llmDecision struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Reply     string         `json:"reply"`
}

// parseDecision treats model output as untrusted input. It is total:
// every possible content string maps to a valid Decision.
func (r *Router) parseDecision(content string) contractx.Decision {
	raw, ok := extractJSONObject(content)
	if !ok {
		log.Warn().Str("content", content).Msg("router output has no JSON object, falling back")
		return contractx.DirectAnswer(contractx.ClarificationText)
	}

	var out llmDecision
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Warn().Err(err).Msg("router output is not valid JSON, falling back")
		return contractx.DirectAnswer(contractx.ClarificationText)
	}

	toolName := strings.TrimSpace(out.ToolName)
	if toolName == "" || toolName == fallbackToolName {
		return contractx.DirectAnswer(strings.TrimSpace(out.Reply))
	}

	if err := r.gateway.ValidateCall(toolName, out.Arguments); err != nil {
		log.Warn().Err(err).Str("tool", toolName).Msg("router decision failed validation, falling back")
		return contractx.DirectAnswer(contractx.ClarificationText)
	}

	return contractx.ToolCall(toolName, out.Arguments)
}

// extractJSONObject tolerates markdown fences and prose around the JSON
// body by slicing from the first '{' to the last '}'.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

type promptTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func historyForPrompt(history []contractx.ConversationTurn) []promptTurn {
	out := make([]promptTurn, 0, len(history))
	for _, t := range history {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		out = append(out, promptTurn{Role: string(t.Role), Text: t.Text})
	}
	return out
}
