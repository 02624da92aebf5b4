package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
	promptx "github.com/patcharaw/multitool-agent/agent/prompt"
	toolx "github.com/patcharaw/multitool-agent/agent/tool"
)

type fakeChatModel struct {
	content string
	err     error
	last    []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, msgs []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.last = msgs
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type stubGateway struct {
	validateErr error
}

func (s stubGateway) ValidateCall(string, map[string]any) error {
	return s.validateErr
}

func (s stubGateway) Execute(context.Context, string, map[string]any) contractx.ToolResult {
	return contractx.ToolResult{}
}

func newTestRouter(t *testing.T, chatModel einomodel.BaseChatModel, gateway contractx.ToolGateway) *Router {
	t.Helper()
	registry, err := toolx.NewRegistry(toolx.Config{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	prompts := promptx.LoadPromptSet()
	r, err := New(context.Background(), chatModel, prompts.Router, registry.CatalogText(), gateway)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestParseDecision(t *testing.T) {
	t.Parallel()

	r := &Router{gateway: stubGateway{}}

	tests := []struct {
		name    string
		content string
		want    contractx.Decision
	}{
		{
			name:    "plain tool call",
			content: `{"tool_name": "get_weather", "arguments": {"city": "Paris"}}`,
			want:    contractx.ToolCall("get_weather", map[string]any{"city": "Paris"}),
		},
		{
			name:    "fenced tool call",
			content: "```json\n{\"tool_name\": \"get_news\", \"arguments\": {\"topic\": \"golang\"}}\n```",
			want:    contractx.ToolCall("get_news", map[string]any{"topic": "golang"}),
		},
		{
			name:    "prose around the object",
			content: `Sure! Here is my decision: {"tool_name": "calculator", "arguments": {"expression": "2+2"}} Hope that helps.`,
			want:    contractx.ToolCall("calculator", map[string]any{"expression": "2+2"}),
		},
		{
			name:    "fallback with reply",
			content: `{"tool_name": "fallback", "arguments": {}, "reply": "Happy to chat!"}`,
			want:    contractx.DirectAnswer("Happy to chat!"),
		},
		{
			name:    "fallback without reply",
			content: `{"tool_name": "fallback", "arguments": {}}`,
			want:    contractx.DirectAnswer(""),
		},
		{
			name:    "empty tool name",
			content: `{"tool_name": "", "arguments": {}, "reply": "Just chatting."}`,
			want:    contractx.DirectAnswer("Just chatting."),
		},
		{
			name:    "no JSON at all",
			content: "I think you should use the weather tool.",
			want:    contractx.DirectAnswer(contractx.ClarificationText),
		},
		{
			name:    "broken JSON",
			content: `{"tool_name": get_weather}`,
			want:    contractx.DirectAnswer(contractx.ClarificationText),
		},
		{
			name:    "empty content",
			content: "",
			want:    contractx.DirectAnswer(contractx.ClarificationText),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := r.parseDecision(tt.content)
			if got.Kind != tt.want.Kind || got.Answer != tt.want.Answer || got.Tool != tt.want.Tool {
				t.Fatalf("parseDecision = %+v, want %+v", got, tt.want)
			}
			if tt.want.Kind == contractx.DecisionToolCall {
				for k, v := range tt.want.Args {
					if got.Args[k] != v {
						t.Errorf("Args[%q] = %v, want %v", k, got.Args[k], v)
					}
				}
			}
		})
	}
}

func TestParseDecisionRejectsInvalidCall(t *testing.T) {
	t.Parallel()

	r := &Router{gateway: stubGateway{validateErr: fmt.Errorf("%w: translate", contractx.ErrUnknownTool)}}

	got := r.parseDecision(`{"tool_name": "translate", "arguments": {"text": "hola"}}`)
	if got.Kind != contractx.DecisionDirectAnswer || got.Answer != contractx.ClarificationText {
		t.Fatalf("parseDecision = %+v, want clarification", got)
	}
}

func TestDecideRoutesToolCall(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{content: `{"tool_name": "get_weather", "arguments": {"city": "Paris"}}`}
	r := newTestRouter(t, chatModel, stubGateway{})

	decision, err := r.Decide(context.Background(), contractx.DecideRequest{
		UserText: "what's the weather in Paris?",
		History: []contractx.ConversationTurn{
			{Role: contractx.RoleUser, Text: "hi"},
			{Role: contractx.RoleAgent, Text: "hello!"},
		},
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision.Kind != contractx.DecisionToolCall || decision.Tool != "get_weather" {
		t.Fatalf("decision = %+v, want get_weather tool call", decision)
	}

	if len(chatModel.last) != 2 {
		t.Fatalf("model saw %d messages, want system and user", len(chatModel.last))
	}
	system := chatModel.last[0]
	if system.Role != schema.System {
		t.Fatalf("first message role = %q, want system", system.Role)
	}
	if !strings.Contains(system.Content, "get_weather") || strings.Contains(system.Content, promptx.CatalogMarker) {
		t.Fatal("system prompt catalog was not substituted")
	}
	user := chatModel.last[1]
	if !strings.Contains(user.Content, "what's the weather in Paris?") {
		t.Fatalf("user message %q missing query", user.Content)
	}
	if !strings.Contains(user.Content, `"history"`) {
		t.Fatalf("user message %q missing history", user.Content)
	}
}

func TestDecideWrapsModelFailure(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{err: errors.New("connection refused")}
	r := newTestRouter(t, chatModel, stubGateway{})

	_, err := r.Decide(context.Background(), contractx.DecideRequest{UserText: "hello"})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("err = %v, want ErrModelInvoke", err)
	}
}

func TestDecideRejectsEmptyText(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{content: "{}"}
	r := newTestRouter(t, chatModel, stubGateway{})

	_, err := r.Decide(context.Background(), contractx.DecideRequest{UserText: "   "})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestHistoryForPromptSkipsEmptyTurns(t *testing.T) {
	t.Parallel()

	got := historyForPrompt([]contractx.ConversationTurn{
		{Role: contractx.RoleUser, Text: "hello"},
		{Role: contractx.RoleTool, Text: ""},
		{Role: contractx.RoleAgent, Text: "hi there"},
	})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "agent" {
		t.Fatalf("roles = %q, %q", got[0].Role, got[1].Role)
	}
}
