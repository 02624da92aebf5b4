package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/patcharaw/multitool-agent/agent/agents/orchestrator"
	llmx "github.com/patcharaw/multitool-agent/agent/llm"
	memoryx "github.com/patcharaw/multitool-agent/agent/memory"
	promptx "github.com/patcharaw/multitool-agent/agent/prompt"
	routerx "github.com/patcharaw/multitool-agent/agent/router"
	toolx "github.com/patcharaw/multitool-agent/agent/tool"
	configx "github.com/patcharaw/multitool-agent/pkg/config"
	groqx "github.com/patcharaw/multitool-agent/pkg/groq"
	"github.com/patcharaw/multitool-agent/pkg/httpapi"
	_ "github.com/patcharaw/multitool-agent/pkg/logger/autoload"
)

type AppConfig struct {
	MemoryTurns   int           `envconfig:"MEMORY_TURNS" split_words:"true" default:"10"`
	RouterRetries int           `envconfig:"ROUTER_RETRIES" split_words:"true" default:"1"`
	RouterBackoff time.Duration `envconfig:"ROUTER_BACKOFF" split_words:"true" default:"500ms"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("AGENT")
	llmCfg := configx.MustNew[llmx.Config]("GROQ")
	toolCfg := configx.MustNew[toolx.Config]("TOOLS")
	httpCfg := configx.MustNew[httpapi.Config]("HTTP")

	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}

	registry, err := toolx.NewRegistry(*toolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build tool registry")
	}

	prompts := promptx.LoadPromptSet()

	routerCfg := llmCfg.GroqFor(llmx.RoleRouter)
	routerModel, err := routerCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create router model")
	}
	rt, err := routerx.New(ctx, routerModel, prompts.Router, registry.CatalogText(), registry)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	responderCfg := llmCfg.GroqFor(llmx.RoleResponder)
	client := groqx.NewClient(responderCfg)
	if client == nil {
		log.Fatal().Msg("failed to initialize groq client")
	}
	responder, err := routerx.NewResponder(client, routerx.ResponderConfig{
		Model:        responderCfg.Model,
		SystemPrompt: prompts.Responder,
		MaxTokens:    llmCfg.MaxCompletionToken,
		Temperature:  responderCfg.Temperature,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build responder")
	}

	sessions := memoryx.NewSessions(appCfg.MemoryTurns)

	orch, err := orchestratorx.New(rt, responder, registry, sessions, orchestratorx.Config{
		RouterRetries: appCfg.RouterRetries,
		RouterBackoff: appCfg.RouterBackoff,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	srv, err := httpapi.New(*httpCfg, orch)
	if err != nil {
		log.Fatal().Err(err).Msg("build http server")
	}

	log.Info().Str("addr", httpCfg.Addr).Msg("multi-tool agent listening")
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
