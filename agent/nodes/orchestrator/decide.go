package orchestratornode

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
	toolx "github.com/patcharaw/multitool-agent/agent/tool"
)

// waitHintPattern matches the wait advice Groq embeds in rate-limit
// error bodies, e.g. "Please try again in 7.66s".
var waitHintPattern = regexp.MustCompile(`try again in (\d+\.?\d*)s`)

// Decide obtains the turn's decision. Purely arithmetic queries skip the
// reasoning call and go straight to the calculator. A failed reasoning
// call is retried with exponential backoff; when all attempts fail the
// turn degrades to the Errored path instead of surfacing an error.
func Decide(
	ctx context.Context,
	in *GraphState,
	router contractx.Router,
	retries int,
	backoff time.Duration,
) (*GraphState, error) {
	if in == nil {
		return nil, errors.New("graph state is nil")
	}
	in.State = contractx.StateAwaitingDecision

	if toolx.IsArithmetic(in.Text) {
		log.Debug().Str("session_id", in.SessionID).Msg("math intent detected, bypassing router")
		in.Decision = contractx.ToolCall(toolx.ToolCalculator, map[string]any{"expression": in.Text})
		return in, nil
	}

	req := contractx.DecideRequest{UserText: in.Text, History: in.History}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, backoff<<(attempt-1)); err != nil {
				return nil, err
			}
			log.Warn().Int("attempt", attempt).Str("session_id", in.SessionID).Msg("retrying reasoning call")
		}

		decision, err := router.Decide(ctx, req)
		if err == nil {
			in.Decision = decision
			return in, nil
		}
		if !errors.Is(err, contractx.ErrModelInvoke) {
			return nil, err
		}
		lastErr = err
	}

	log.Error().Err(lastErr).Str("session_id", in.SessionID).Msg("reasoning service unavailable")
	in.Degraded = true
	in.State = contractx.StateErrored
	in.RetryAfterSeconds = extractWaitSeconds(lastErr)
	return in, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func extractWaitSeconds(err error) int {
	if err == nil {
		return 0
	}
	m := waitHintPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	secs, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil {
		return 0
	}
	return int(math.Ceil(secs))
}
