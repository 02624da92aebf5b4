package router

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

// Responder produces the free-form reply for turns the router resolved
// to a direct answer without inline text. It talks to the same endpoint
// as the router but with a plain conversational system prompt.
type Responder struct {
	client       *openaisdk.Client
	model        string
	systemPrompt string
	maxTokens    int
	temperature  float32
}

var _ contractx.Responder = (*Responder)(nil)

type ResponderConfig struct {
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float32
}

func NewResponder(client *openaisdk.Client, cfg ResponderConfig) (*Responder, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: llm client is required", contractx.ErrValidation)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("%w: responder model is required", contractx.ErrValidation)
	}
	return &Responder{
		client:       client,
		model:        model,
		systemPrompt: strings.TrimSpace(cfg.SystemPrompt),
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
	}, nil
}

func (r *Responder) Respond(ctx context.Context, userText string, history []contractx.ConversationTurn) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if r.systemPrompt != "" {
		messages = append(messages, openaisdk.SystemMessage(r.systemPrompt))
	}
	for _, t := range history {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		switch t.Role {
		case contractx.RoleUser:
			messages = append(messages, openaisdk.UserMessage(t.Text))
		case contractx.RoleAgent:
			messages = append(messages, openaisdk.AssistantMessage(t.Text))
		}
	}
	messages = append(messages, openaisdk.UserMessage(userText))

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(r.model),
		Messages: messages,
	}
	if r.maxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(r.maxTokens))
	}
	if r.temperature >= 0 {
		params.Temperature = openaisdk.Float(float64(r.temperature))
	}

	completion, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: responder invoke: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: responder returned no choices", contractx.ErrModelInvoke)
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: responder returned empty content", contractx.ErrModelInvoke)
	}
	return text, nil
}
