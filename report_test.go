package main

import (
	"bytes"
	"errors"
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/yougroupteam/adaptergen/adapter"
)

func TestReporterGenerated(t *testing.T) {
	var out bytes.Buffer
	r := newReporter(&out, true)

	r.generated(Job{Slug: "acme"}, &adapter.Stats{
		Paths:             3,
		Actions:           4,
		Triggers:          1,
		Tools:             2,
		Categories:        []string{"contacts", "deals"},
		SkippedOperations: 1,
		UnresolvedRefs:    []string{"#/components/schemas/Missing", "#/components/schemas/Gone"},
	}, "out/acme")

	assert.Equal(t,
		"✓ acme out/acme\n"+
			"  paths 3  actions 4  triggers 1  tools 2  categories 2\n"+
			"  skipped operations 1  unresolved refs 2\n",
		out.String())
}

func TestReporterGenerated_Clean(t *testing.T) {
	var out bytes.Buffer
	newReporter(&out, true).generated(Job{Slug: "acme"}, &adapter.Stats{Paths: 1, Actions: 1}, "d")

	assert.Equal(t,
		"✓ acme d\n  paths 1  actions 1  triggers 0  tools 0  categories 0\n",
		out.String())
}

func TestReporterBatch(t *testing.T) {
	var out bytes.Buffer
	failed := newReporter(&out, true).batch([]BatchResult{
		{Job: Job{Slug: "one"}, Stats: &adapter.Stats{}, Dir: "d/one"},
		{Job: Job{Slug: "two"}, Err: errors.New("boom")},
	})

	assert.Equal(t, 1, failed)
	assert.Contains(t, out.String(), "✗ two boom\n")
	assert.Contains(t, out.String(), "1 generated, 1 failed\n")
}
