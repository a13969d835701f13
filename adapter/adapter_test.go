package adapter

import (
	"strings"
	"testing"
	"time"

	assert "github.com/stretchr/testify/require"

	"github.com/yougroupteam/adaptergen/generator/action"
	"github.com/yougroupteam/adaptergen/generator/tool"
	"github.com/yougroupteam/adaptergen/generator/trigger"
	"github.com/yougroupteam/adaptergen/provider"
	"github.com/yougroupteam/adaptergen/spec"
)

var fixedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

func fixedClock() time.Time {
	return fixedTime
}

func testInput(t *testing.T, metadata provider.Metadata) Input {
	t.Helper()

	doc := spec.Test()
	resolver := spec.NewResolver(doc, nil)
	actions := action.NewSynthesizer(resolver, nil).Synthesize(doc)
	triggers := trigger.NewSynthesizer(resolver, nil).Synthesize(doc, []string{"widget.deleted"})

	return Input{
		Slug:       "widgets",
		Name:       "Widgets",
		Doc:        doc,
		Actions:    actions,
		Triggers:   triggers,
		Tools:      tool.Synthesize(actions.Actions, actions.Categories, "widgets", "Widgets"),
		Provider:   metadata,
		Unresolved: resolver.Unresolved(),
	}
}

func TestAssemble(t *testing.T) {
	bundle := NewAssembler(fixedClock).Assemble(testInput(t, provider.Defaults()))

	doc := bundle.Adapter
	assert.Equal(t, "widgets", doc.Slug)
	assert.Equal(t, "Widgets", doc.Name)
	assert.Equal(t, spec.TestDocumentVersion, doc.Version)
	assert.Equal(t, "Manage widgets and their orders.", doc.Description)
	assert.Equal(t, provider.DefaultAdapterType, doc.Type)
	assert.Equal(t, "Widgets", doc.Provider.Name)
	assert.Equal(t, provider.DefaultAuthType, doc.Authentication.Type)
	assert.NotNil(t, doc.Authentication.Fields)
	assert.Equal(t, GeneratedFrom, doc.GeneratedFrom)
	assert.Equal(t, "2024-06-01T10:00:00Z", doc.GeneratedAt)

	assert.Len(t, bundle.Manifest.Actions, 4)
	assert.Len(t, bundle.Manifest.Triggers, 2)
	assert.Len(t, bundle.Manifest.MCP.Tools, 3)

	assert.Equal(t, Stats{
		Paths:      3,
		Actions:    4,
		Triggers:   2,
		Tools:      3,
		Categories: []string{"widgets", "orders"},
	}, bundle.Stats)
}

func TestAssemble_ProviderMetadata(t *testing.T) {
	table, err := provider.Builtin()
	assert.NoError(t, err)
	stripe, ok := table.Lookup("stripe")
	assert.True(t, ok)

	bundle := NewAssembler(fixedClock).Assemble(testInput(t, stripe))
	assert.Equal(t, stripe.Website, bundle.Adapter.Provider.Website)
	assert.Equal(t, stripe.Authentication, bundle.Adapter.Authentication)
	assert.Equal(t, stripe.RateLimit, bundle.Adapter.RateLimit)
	assert.Equal(t, stripe.Webhooks, bundle.Manifest.Webhooks)
}

func TestAssemble_FallbackDescription(t *testing.T) {
	in := testInput(t, provider.Defaults())
	in.Doc.Info.Description = ""

	bundle := NewAssembler(fixedClock).Assemble(in)
	assert.Equal(t, "Widgets integration generated from Widgets API", bundle.Adapter.Description)
}

func TestAssemble_EmptyListsStayLists(t *testing.T) {
	doc := &spec.Document{Info: spec.Info{Title: "Empty", Version: "0"}}
	bundle := NewAssembler(fixedClock).Assemble(Input{Slug: "e", Name: "E", Doc: doc, Provider: provider.Defaults()})

	manifest, err := Marshal(bundle.Manifest)
	assert.NoError(t, err)
	assert.Contains(t, string(manifest), `"actions": []`)
	assert.Contains(t, string(manifest), `"triggers": []`)
	assert.Contains(t, string(manifest), `"tools": []`)

	adapter, err := Marshal(bundle.Adapter)
	assert.NoError(t, err)
	assert.Contains(t, string(adapter), `"fields": []`)
}

func TestAssemble_Deterministic(t *testing.T) {
	render := func() string {
		bundle := NewAssembler(fixedClock).Assemble(testInput(t, provider.Defaults()))
		adapter, err := Marshal(bundle.Adapter)
		assert.NoError(t, err)
		manifest, err := Marshal(bundle.Manifest)
		assert.NoError(t, err)
		return string(adapter) + string(manifest)
	}
	assert.Equal(t, render(), render())
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(map[string]string{"url": "https://x.test/?a=1&b=<2>"})
	assert.NoError(t, err)
	assert.Equal(t, "{\n  \"url\": \"https://x.test/?a=1&b=<2>\"\n}\n", string(data))
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}
