package orchestratornode

import (
	"errors"

	"github.com/rs/zerolog/log"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

// ValidateDecision confirms a ToolCall names a registered tool with all
// required arguments before anything touches the network. A violation is
// downgraded to a clarification DirectAnswer, never a hard error.
func ValidateDecision(in *GraphState, gateway contractx.ToolGateway) (*GraphState, error) {
	if in == nil {
		return nil, errors.New("graph state is nil")
	}
	if in.Degraded {
		return in, nil
	}
	in.State = contractx.StateValidating

	if in.Decision.Kind == contractx.DecisionToolCall {
		if err := gateway.ValidateCall(in.Decision.Tool, in.Decision.Args); err != nil {
			log.Warn().Err(err).
				Str("session_id", in.SessionID).
				Str("tool", in.Decision.Tool).
				Msg("decision rejected before dispatch")
			in.Decision = contractx.DirectAnswer(contractx.ClarificationText)
		}
	}
	return in, nil
}
