package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

// StockQuote is the normalized shape of one quote lookup.
type StockQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	AsOf   string  `json:"as_of"`
}

// stockClient fetches the Alpha Vantage GLOBAL_QUOTE endpoint.
type stockClient struct {
	http   *http.Client
	base   string
	apiKey string
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Price            string `json:"05. price"`
		LatestTradingDay string `json:"07. latest trading day"`
	} `json:"Global Quote"`
	// Alpha Vantage signals rate limiting inside a 200 body.
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

func (c *stockClient) execute(ctx context.Context, args map[string]any) contractx.ToolResult {
	symbol, ok := stringArg(args, "ticker_symbol")
	if !ok {
		return contractx.Fail(ToolStock, contractx.FailureInvalidInput, "ticker_symbol is required")
	}
	symbol = strings.ToUpper(symbol)

	if c.apiKey == "" {
		return contractx.Fail(ToolStock, contractx.FailureUpstream, "stock data source is not configured")
	}

	quoteURL := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.base, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	var resp globalQuoteResponse
	if err := doJSON(ctx, c.http, quoteURL, nil, &resp); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("stock quote failed")
		return mapTransportFailure(ToolStock, symbol, err)
	}

	if resp.Note != "" || resp.Information != "" {
		return contractx.Fail(ToolStock, contractx.FailureRateLimited, "the stock data source is rate limiting requests")
	}
	if resp.GlobalQuote.Price == "" {
		return contractx.Fail(ToolStock, contractx.FailureNotFound, "no quote found for %q", symbol)
	}

	price, err := strconv.ParseFloat(resp.GlobalQuote.Price, 64)
	if err != nil {
		return contractx.Fail(ToolStock, contractx.FailureUpstream, "the stock data source returned an unreadable price")
	}

	quoted := resp.GlobalQuote.Symbol
	if quoted == "" {
		quoted = symbol
	}
	return contractx.Succeed(ToolStock, StockQuote{
		Symbol: quoted,
		Price:  price,
		AsOf:   resp.GlobalQuote.LatestTradingDay,
	})
}
