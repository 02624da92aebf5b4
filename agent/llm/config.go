package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/patcharaw/multitool-agent/agent/contract"
	groqx "github.com/patcharaw/multitool-agent/pkg/groq"
)

// Role names the two reasoning call sites: the intent router (structured
// JSON decision, temperature 0) and the responder (free-form fallback
// conversation).
type Role string

const (
	RoleRouter    Role = "router"
	RoleResponder Role = "responder"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"llama-3.1-8b-instant"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1024"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	RouterModel          string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	ResponderModel       string  `envconfig:"RESPONDER_MODEL" split_words:"true"`
	RouterTemperature    float32 `envconfig:"ROUTER_TEMPERATURE" split_words:"true" default:"0"`
	ResponderTemperature float32 `envconfig:"RESPONDER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: groq api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) GroqFor(role Role) groqx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RoleRouter:
		if v := strings.TrimSpace(c.RouterModel); v != "" {
			modelName = v
		}
		if c.RouterTemperature >= 0 {
			temp = c.RouterTemperature
		}
	case RoleResponder:
		if v := strings.TrimSpace(c.ResponderModel); v != "" {
			modelName = v
		}
		if c.ResponderTemperature >= 0 {
			temp = c.ResponderTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return groqx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}
