package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

// KnowledgeSummary is the normalized shape of one encyclopedia lookup.
type KnowledgeSummary struct {
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// knowledgeClient fetches the Wikipedia REST page summary endpoint.
type knowledgeClient struct {
	http *http.Client
	base string
}

type wikiSummaryResponse struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func (c *knowledgeClient) execute(ctx context.Context, args map[string]any) contractx.ToolResult {
	term, ok := stringArg(args, "search_term")
	if !ok {
		return contractx.Fail(ToolKnowledge, contractx.FailureInvalidInput, "search_term is required")
	}

	summaryURL := fmt.Sprintf("%s/api/rest_v1/page/summary/%s?redirect=true",
		c.base, url.PathEscape(term))

	var resp wikiSummaryResponse
	if err := doJSON(ctx, c.http, summaryURL, nil, &resp); err != nil {
		log.Warn().Err(err).Str("term", term).Msg("knowledge lookup failed")
		return mapTransportFailure(ToolKnowledge, term, err)
	}

	if resp.Type == "disambiguation" {
		return contractx.Fail(ToolKnowledge, contractx.FailureInvalidInput,
			"%q is ambiguous, please be more specific", term)
	}
	if resp.Extract == "" {
		return contractx.Fail(ToolKnowledge, contractx.FailureNotFound, "no matching page for %q", term)
	}

	title := resp.Title
	if title == "" {
		title = term
	}
	return contractx.Succeed(ToolKnowledge, KnowledgeSummary{
		Topic:   term,
		Title:   title,
		Summary: resp.Extract,
	})
}
