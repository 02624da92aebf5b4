package orchestratornode

import (
	"errors"

	memoryx "github.com/patcharaw/multitool-agent/agent/memory"
)

// ReadHistory snapshots the session's memory into the turn state. The
// orchestrator holds the session lock for the whole turn, so the
// snapshot is consistent with the final append.
func ReadHistory(in *GraphState, sessions *memoryx.Sessions) (*GraphState, error) {
	if in == nil {
		return nil, errors.New("graph state is nil")
	}
	sess := sessions.Get(in.SessionID)
	in.History = sess.Memory.Recent()
	return in, nil
}
