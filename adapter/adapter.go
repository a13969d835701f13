// Package adapter assembles the two documents that describe a generated
// adapter, the metadata document and the manifest, and persists them.
package adapter

import (
	"fmt"
	"time"

	"github.com/yougroupteam/adaptergen/generator/action"
	"github.com/yougroupteam/adaptergen/generator/tool"
	"github.com/yougroupteam/adaptergen/generator/trigger"
	"github.com/yougroupteam/adaptergen/provider"
	"github.com/yougroupteam/adaptergen/spec"
)

// GeneratedFrom marks documents produced by this generator.
const GeneratedFrom = "openapi"

// Document is the adapter metadata document.
type Document struct {
	Slug           string                  `json:"slug"`
	Name           string                  `json:"name"`
	Version        string                  `json:"version"`
	Description    string                  `json:"description"`
	Type           string                  `json:"type"`
	Provider       Provider                `json:"provider"`
	Authentication provider.Authentication `json:"authentication"`
	RateLimit      provider.RateLimit      `json:"rateLimit"`
	GeneratedFrom  string                  `json:"generatedFrom"`
	GeneratedAt    string                  `json:"generatedAt"`
}

type Provider struct {
	Name          string `json:"name"`
	Website       string `json:"website,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// Manifest lists what an adapter can do.
type Manifest struct {
	Actions  []*action.Action   `json:"actions"`
	Triggers []*trigger.Trigger `json:"triggers"`
	Webhooks provider.Webhooks  `json:"webhooks"`
	MCP      MCP                `json:"mcp"`
}

type MCP struct {
	Tools []*tool.Tool `json:"tools"`
}

// Input is everything a run produced for one provider.
type Input struct {
	Slug     string
	Name     string
	Doc      *spec.Document
	Actions  *action.Result
	Triggers []*trigger.Trigger
	Tools    []*tool.Tool
	Provider provider.Metadata

	// Unresolved is the list of references the resolver gave up on.
	Unresolved []*spec.ReferenceError
}

// Bundle is the assembled document pair plus statistics about it.
type Bundle struct {
	Adapter  *Document
	Manifest *Manifest
	Stats    Stats
}

// Stats summarizes a run for reporting.
type Stats struct {
	Paths             int
	Actions           int
	Triggers          int
	Tools             int
	Categories        []string
	SkippedOperations int
	UnresolvedRefs    []string
}

// Assembler combines synthesized parts into documents. Its clock is the only
// source of variation between two runs over the same input.
type Assembler struct {
	now func() time.Time
}

// NewAssembler creates an Assembler that stamps documents with now(). A nil
// now uses time.Now.
func NewAssembler(now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{now: now}
}

// Assemble builds the document pair for in.
func (a *Assembler) Assemble(in Input) *Bundle {
	info := in.Doc.Info
	description := info.Description
	if description == "" {
		description = fmt.Sprintf("%s integration generated from %s", in.Name, info.Title)
	}

	actions := make([]*action.Action, 0)
	var categories []string
	var skipped int
	if in.Actions != nil {
		actions = append(actions, in.Actions.Actions...)
		categories = in.Actions.Categories
		skipped = len(in.Actions.Skipped)
	}

	triggers := make([]*trigger.Trigger, 0, len(in.Triggers))
	triggers = append(triggers, in.Triggers...)

	tools := make([]*tool.Tool, 0, len(in.Tools))
	tools = append(tools, in.Tools...)

	fields := in.Provider.Authentication.Fields
	if fields == nil {
		fields = []provider.Field{}
	}

	adapter := &Document{
		Slug:        in.Slug,
		Name:        in.Name,
		Version:     string(info.Version),
		Description: description,
		Type:        in.Provider.Type,
		Provider: Provider{
			Name:          in.Name,
			Website:       in.Provider.Website,
			Documentation: in.Provider.Documentation,
		},
		Authentication: provider.Authentication{
			Type:   in.Provider.Authentication.Type,
			Fields: fields,
		},
		RateLimit:     in.Provider.RateLimit,
		GeneratedFrom: GeneratedFrom,
		GeneratedAt:   a.now().UTC().Format(time.RFC3339),
	}

	manifest := &Manifest{
		Actions:  actions,
		Triggers: triggers,
		Webhooks: in.Provider.Webhooks,
		MCP:      MCP{Tools: tools},
	}

	var unresolved []string
	for _, err := range in.Unresolved {
		unresolved = append(unresolved, err.Ref)
	}

	paths := 0
	if in.Doc.Paths != nil {
		paths = in.Doc.Paths.Len()
	}

	return &Bundle{
		Adapter:  adapter,
		Manifest: manifest,
		Stats: Stats{
			Paths:             paths,
			Actions:           len(actions),
			Triggers:          len(triggers),
			Tools:             len(tools),
			Categories:        categories,
			SkippedOperations: skipped,
			UnresolvedRefs:    unresolved,
		},
	}
}
