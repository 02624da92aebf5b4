package orchestratornode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/patcharaw/multitool-agent/agent/contract"
	toolx "github.com/patcharaw/multitool-agent/agent/tool"
)

// ComposeReply folds the turn's outcome into the user-facing text. The
// fold is pure: the reply is a function of the decision and tool result
// only, so replaying the same result always yields the same text.
func ComposeReply(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, errors.New("graph state is nil")
	}

	switch {
	case in.Degraded:
		in.Reply = degradedMessage(in.RetryAfterSeconds)
	case in.ToolResult != nil:
		in.Reply = RenderToolResult(*in.ToolResult)
	case in.Decision.Kind == contractx.DecisionDirectAnswer && strings.TrimSpace(in.Decision.Answer) != "":
		in.Reply = strings.TrimSpace(in.Decision.Answer)
	default:
		in.Reply = contractx.ClarificationText
	}

	if !in.Degraded {
		in.State = contractx.StateCompleted
	}
	return in, nil
}

func degradedMessage(waitSeconds int) string {
	if waitSeconds > 0 {
		return fmt.Sprintf("It looks like I'm a bit popular right now! Please wait about %d seconds and try again.", waitSeconds)
	}
	return "The assistant is temporarily unavailable, please try again in a moment."
}

// RenderToolResult maps a ToolResult to reply text. Success payloads get
// a per-tool format; failures get the per-kind message templates.
func RenderToolResult(res contractx.ToolResult) string {
	if !res.OK() {
		return renderFailure(res.Failure)
	}

	switch data := res.Data.(type) {
	case toolx.WeatherReport:
		place := data.City
		if data.Country != "" {
			place += ", " + data.Country
		}
		return fmt.Sprintf("Current weather in %s: %.1f°C (feels like %.1f°C), precipitation %.1fmm, wind %.1fkm/h.",
			place, data.TemperatureC, data.FeelsLikeC, data.PrecipitationMM, data.WindSpeedKPH)
	case toolx.StockQuote:
		if data.AsOf != "" {
			return fmt.Sprintf("The latest stock price for %s is $%.2f (as of %s).", data.Symbol, data.Price, data.AsOf)
		}
		return fmt.Sprintf("The latest stock price for %s is $%.2f.", data.Symbol, data.Price)
	case toolx.NewsDigest:
		var b strings.Builder
		fmt.Fprintf(&b, "Here are the top headlines for %q:", data.Topic)
		for _, h := range data.Headlines {
			b.WriteString("\n- ")
			b.WriteString(h.Title)
			if h.Description != "" {
				b.WriteString(": ")
				b.WriteString(h.Description)
			}
		}
		return b.String()
	case toolx.KnowledgeSummary:
		return data.Summary
	case toolx.CalcOutput:
		return fmt.Sprintf("%s = %s", data.Expression, strconv.FormatFloat(data.Result, 'g', -1, 64))
	default:
		return fmt.Sprintf("%v", res.Data)
	}
}

func renderFailure(f *contractx.ToolFailure) string {
	switch f.Kind {
	case contractx.FailureRateLimited:
		return "The data source is busy right now, please try again shortly."
	case contractx.FailureTimeout:
		return "The data source took too long to respond, please try again."
	case contractx.FailureNotFound:
		return fmt.Sprintf("Sorry, %s.", f.Message)
	case contractx.FailureInvalidInput:
		return fmt.Sprintf("That input didn't work: %s. Please send a valid expression or rephrase your request.", f.Message)
	default:
		return "Sorry, something went wrong while fetching that data. Please try again later."
	}
}
