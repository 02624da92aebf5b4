package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

const newsPageSize = 3

// Headline is one news article in a normalized NewsDigest.
type Headline struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// NewsDigest is the normalized shape of one news lookup.
type NewsDigest struct {
	Topic     string     `json:"topic"`
	Headlines []Headline `json:"headlines"`
}

// newsClient fetches the NewsAPI /v2/everything endpoint.
type newsClient struct {
	http   *http.Client
	base   string
	apiKey string
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"articles"`
}

func (c *newsClient) execute(ctx context.Context, args map[string]any) contractx.ToolResult {
	topic, ok := stringArg(args, "topic")
	if !ok {
		return contractx.Fail(ToolNews, contractx.FailureInvalidInput, "topic is required")
	}

	if c.apiKey == "" {
		return contractx.Fail(ToolNews, contractx.FailureUpstream, "news data source is not configured")
	}

	newsURL := fmt.Sprintf("%s/v2/everything?q=%s&language=en&sortBy=relevancy&pageSize=%d",
		c.base, url.QueryEscape(topic), newsPageSize)

	header := http.Header{}
	header.Set("X-Api-Key", c.apiKey)

	var resp newsAPIResponse
	if err := doJSON(ctx, c.http, newsURL, header, &resp); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("news lookup failed")
		return mapTransportFailure(ToolNews, topic, err)
	}

	if resp.Status == "error" {
		if resp.Code == "rateLimited" {
			return contractx.Fail(ToolNews, contractx.FailureRateLimited, "the news data source is rate limiting requests")
		}
		return contractx.Fail(ToolNews, contractx.FailureUpstream, "the news data source reported an error")
	}
	if len(resp.Articles) == 0 {
		return contractx.Fail(ToolNews, contractx.FailureNotFound, "no recent news found for %q", topic)
	}

	headlines := make([]Headline, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		headlines = append(headlines, Headline{Title: a.Title, Description: a.Description})
	}
	if len(headlines) == 0 {
		return contractx.Fail(ToolNews, contractx.FailureNotFound, "no recent news found for %q", topic)
	}

	return contractx.Succeed(ToolNews, NewsDigest{Topic: topic, Headlines: headlines})
}
