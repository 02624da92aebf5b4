package orchestratornode

import (
	"errors"
	"fmt"
	"time"

	contractx "github.com/patcharaw/multitool-agent/agent/contract"
	memoryx "github.com/patcharaw/multitool-agent/agent/memory"
)

// RecordTurns appends the turn's outcome to the session memory. It runs
// only after the turn has reached Completed or Errored; a cancelled or
// failed graph never gets here, so memory is never half-applied. The
// degraded path records the user turn without any tool result.
func RecordTurns(in *GraphState, sessions *memoryx.Sessions, nowFn func() time.Time) (*GraphState, error) {
	if in == nil {
		return nil, errors.New("graph state is nil")
	}
	sess := sessions.Get(in.SessionID)
	ts := nowFn().UTC()

	sess.Memory.Append(contractx.ConversationTurn{
		Role:      contractx.RoleUser,
		Text:      in.Text,
		Timestamp: in.Now,
	})

	if in.ToolResult != nil {
		sess.Memory.Append(contractx.ConversationTurn{
			Role:       contractx.RoleTool,
			Text:       toolTurnText(*in.ToolResult),
			ToolResult: in.ToolResult,
			Timestamp:  ts,
		})
	}

	sess.Memory.Append(contractx.ConversationTurn{
		Role:      contractx.RoleAgent,
		Text:      in.Reply,
		Timestamp: ts,
	})
	return in, nil
}

func toolTurnText(res contractx.ToolResult) string {
	if res.OK() {
		return fmt.Sprintf("%s succeeded", res.Tool)
	}
	return fmt.Sprintf("%s failed: %s", res.Tool, res.Failure.Message)
}
