package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/responder.txt
	responderRaw string
)

// CatalogMarker is the placeholder in the router template that gets
// replaced with the rendered tool catalog before the prompt is compiled.
const CatalogMarker = "<<TOOL_CATALOG>>"

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Router    string
	Responder string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router:    strings.TrimSpace(routerRaw),
		Responder: strings.TrimSpace(responderRaw),
	}
}
