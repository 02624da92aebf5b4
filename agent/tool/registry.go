package tool

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

const (
	ToolWeather    = "get_weather"
	ToolStock      = "get_stock_price"
	ToolNews       = "get_news"
	ToolKnowledge  = "get_wikipedia_summary"
	ToolCalculator = "calculator"
)

type Config struct {
	HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT" split_words:"true" default:"10s"`
	NewsAPIKey         string        `envconfig:"NEWS_API_KEY" split_words:"true"`
	AlphaVantageAPIKey string        `envconfig:"ALPHA_VANTAGE_API_KEY" split_words:"true"`

	GeocodingBaseURL string `envconfig:"GEOCODING_BASE_URL" split_words:"true" default:"https://geocoding-api.open-meteo.com"`
	ForecastBaseURL  string `envconfig:"FORECAST_BASE_URL" split_words:"true" default:"https://api.open-meteo.com"`
	NewsBaseURL      string `envconfig:"NEWS_BASE_URL" split_words:"true" default:"https://newsapi.org"`
	StockBaseURL     string `envconfig:"STOCK_BASE_URL" split_words:"true" default:"https://www.alphavantage.co"`
	WikipediaBaseURL string `envconfig:"WIKIPEDIA_BASE_URL" split_words:"true" default:"https://en.wikipedia.org"`
}

type param struct {
	name     string
	desc     string
	required bool
}

type runFunc func(ctx context.Context, args map[string]any) contractx.ToolResult

type entry struct {
	info   *schema.ToolInfo
	params []param
	run    runFunc
}

// Registry is the static tool catalog. Registration happens once at
// construction; afterwards the registry is read-only and safe to share
// across concurrent sessions without locking.
type Registry struct {
	entries []*entry
	byName  map[string]*entry
}

var _ contractx.ToolGateway = (*Registry)(nil)

func NewRegistry(cfg Config) (*Registry, error) {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	weather := &weatherClient{
		http:         client,
		geocodeBase:  strings.TrimRight(cfg.GeocodingBaseURL, "/"),
		forecastBase: strings.TrimRight(cfg.ForecastBaseURL, "/"),
	}
	stock := &stockClient{
		http:   client,
		base:   strings.TrimRight(cfg.StockBaseURL, "/"),
		apiKey: strings.TrimSpace(cfg.AlphaVantageAPIKey),
	}
	news := &newsClient{
		http:   client,
		base:   strings.TrimRight(cfg.NewsBaseURL, "/"),
		apiKey: strings.TrimSpace(cfg.NewsAPIKey),
	}
	knowledge := &knowledgeClient{
		http: client,
		base: strings.TrimRight(cfg.WikipediaBaseURL, "/"),
	}

	r := &Registry{byName: make(map[string]*entry)}

	r.register(ToolNews,
		"Fetches recent news headlines about a specific topic, person, or company.",
		[]param{{name: "topic", desc: "Topic keyword to search news for", required: true}},
		news.execute,
	)
	r.register(ToolWeather,
		"Provides the current weather, climate, or forecast for a given city.",
		[]param{{name: "city", desc: "City name", required: true}},
		weather.execute,
	)
	r.register(ToolStock,
		"Gets the latest stock price for a company using its ticker symbol (e.g. AAPL for Apple).",
		[]param{{name: "ticker_symbol", desc: "Stock ticker symbol", required: true}},
		stock.execute,
	)
	r.register(ToolKnowledge,
		"Retrieves a concise summary of a topic from Wikipedia.",
		[]param{{name: "search_term", desc: "Topic to look up", required: true}},
		knowledge.execute,
	)
	r.register(ToolCalculator,
		"Evaluates a simple arithmetic expression like '4 * (3 + 2)'. Numbers, + - * / ^ and parentheses only.",
		[]param{{name: "expression", desc: "Arithmetic expression to evaluate", required: true}},
		executeCalculator,
	)

	return r, nil
}

func (r *Registry) register(name, desc string, params []param, run runFunc) {
	infoParams := make(map[string]*schema.ParameterInfo, len(params))
	for _, p := range params {
		infoParams[p.name] = &schema.ParameterInfo{
			Type:     schema.String,
			Desc:     p.desc,
			Required: p.required,
		}
	}
	e := &entry{
		info: &schema.ToolInfo{
			Name:        name,
			Desc:        desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(infoParams),
		},
		params: params,
		run:    run,
	}
	r.entries = append(r.entries, e)
	r.byName[name] = e
}

func (r *Registry) Lookup(name string) (*schema.ToolInfo, bool) {
	e, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return e.info, true
}

// List returns the catalog in registration order. The order is stable so
// the router prompt is deterministic.
func (r *Registry) List() []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.info)
	}
	return out
}

// CatalogText renders the catalog as plain prompt-safe lines (no braces,
// the router template is brace-formatted).
func (r *Registry) CatalogText() string {
	var b strings.Builder
	for _, e := range r.entries {
		b.WriteString("- ")
		b.WriteString(e.info.Name)
		b.WriteString(": ")
		b.WriteString(e.info.Desc)
		b.WriteString(" Arguments: ")
		for i, p := range e.params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.name)
			b.WriteString(" (string")
			if p.required {
				b.WriteString(", required")
			}
			b.WriteString(")")
		}
		b.WriteString(".\n")
	}
	return strings.TrimSpace(b.String())
}

// ValidateCall rejects unknown tools and missing or ill-typed required
// arguments before any network call is attempted.
func (r *Registry) ValidateCall(name string, args map[string]any) error {
	e, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", contractx.ErrUnknownTool, name)
	}
	for _, p := range e.params {
		if !p.required {
			continue
		}
		raw, ok := args[p.name]
		if !ok {
			return fmt.Errorf("%w: tool=%s missing required argument %q", contractx.ErrValidation, name, p.name)
		}
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%w: tool=%s argument %q must be a string", contractx.ErrValidation, name, p.name)
		}
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: tool=%s argument %q is empty", contractx.ErrValidation, name, p.name)
		}
	}
	return nil
}

// Execute dispatches one call to the named adapter. Unknown names are a
// defensive guard only; the orchestrator validates before dispatching.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) contractx.ToolResult {
	e, ok := r.byName[name]
	if !ok {
		return contractx.Fail(name, contractx.FailureInvalidInput, "unknown tool %q", name)
	}
	return e.run(ctx, args)
}

// stringArg pulls a trimmed string argument; adapters call this before
// touching the network and fail with InvalidInput when it is absent.
func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
