package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
	memoryx "github.com/patcharaw/multitool-agent/agent/memory"
	nodex "github.com/patcharaw/multitool-agent/agent/nodes/orchestrator"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

const (
	defaultRouterRetries = 1
	defaultRouterBackoff = 500 * time.Millisecond
)

// Config carries the retry policy for the reasoning call. Tools are
// never retried within a turn.
type Config struct {
	RouterRetries int
	RouterBackoff time.Duration
}

// Orchestrator runs one user turn through the compiled pipeline:
// decide, validate, dispatch at most one tool, fold the outcome into a
// reply, and append the turn to the session's memory. Every turn
// terminates in Completed or Errored.
type Orchestrator struct {
	router    contractx.Router
	responder contractx.Responder
	tools     contractx.ToolGateway
	sessions  *memoryx.Sessions

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	cfg Config
	now func() time.Time
}

func New(
	router contractx.Router,
	responder contractx.Responder,
	tools contractx.ToolGateway,
	sessions *memoryx.Sessions,
	cfg Config,
) (*Orchestrator, error) {
	if router == nil {
		return nil, errors.New("router is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if responder == nil {
		responder = noopResponder{}
	}

	if cfg.RouterRetries < 0 {
		cfg.RouterRetries = 0
	} else if cfg.RouterRetries == 0 {
		cfg.RouterRetries = defaultRouterRetries
	}
	if cfg.RouterBackoff <= 0 {
		cfg.RouterBackoff = defaultRouterBackoff
	}

	o := &Orchestrator{
		router:    router,
		responder: responder,
		tools:     tools,
		sessions:  sessions,
		cfg:       cfg,
		now:       time.Now,
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn processes one user turn for one session. Turns within a
// session are serialized by the session lock; independent sessions run
// concurrently without shared mutable state.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, text string) (contractx.AgentResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return contractx.AgentResponse{}, ErrInvalidSession
	}

	sess := o.sessions.Get(sessionID)
	sess.Lock()
	defer sess.Unlock()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return contractx.AgentResponse{}, err
	}
	return out.Response, nil
}

type noopResponder struct{}

func (noopResponder) Respond(context.Context, string, []contractx.ConversationTurn) (string, error) {
	return contractx.ClarificationText, nil
}
