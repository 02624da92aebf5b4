package orchestratornode

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

// Dispatch executes the decision: at most one adapter call for a
// ToolCall, or a conversational completion when a DirectAnswer carries
// no inline text. Adapter failures land in the ToolResult; they never
// abort the turn. A failed responder call degrades the turn the same way
// a dead router does.
func Dispatch(
	ctx context.Context,
	in *GraphState,
	gateway contractx.ToolGateway,
	responder contractx.Responder,
) (*GraphState, error) {
	if in == nil {
		return nil, errors.New("graph state is nil")
	}
	if in.Degraded {
		return in, nil
	}
	in.State = contractx.StateDispatching

	switch in.Decision.Kind {
	case contractx.DecisionToolCall:
		result := gateway.Execute(ctx, in.Decision.Tool, in.Decision.Args)
		in.ToolResult = &result
		if !result.OK() {
			log.Warn().
				Str("session_id", in.SessionID).
				Str("tool", result.Tool).
				Str("kind", string(result.Failure.Kind)).
				Msg("tool call failed")
		}

	case contractx.DecisionDirectAnswer:
		if strings.TrimSpace(in.Decision.Answer) != "" {
			return in, nil
		}
		text, err := responder.Respond(ctx, in.Text, in.History)
		if err != nil {
			if errors.Is(err, contractx.ErrModelInvoke) {
				log.Error().Err(err).Str("session_id", in.SessionID).Msg("responder unavailable")
				in.Degraded = true
				in.State = contractx.StateErrored
				in.RetryAfterSeconds = extractWaitSeconds(err)
				return in, nil
			}
			return nil, err
		}
		in.Decision.Answer = text
	}
	return in, nil
}
