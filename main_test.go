package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/yougroupteam/adaptergen/adapter"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	specPath := writeFile(t, "acme.yaml", testSpec)
	eventsPath := writeFile(t, "events.yaml", "- contact.created\n- contact.deleted\n")
	output := t.TempDir()

	out, err := execute(t, "generate",
		"--output", output,
		"--slug", "acme",
		"--name", "Acme",
		"--spec", specPath,
		"--events", "deal.won",
		"--events-file", eventsPath,
	)
	assert.NoError(t, err)
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "actions 4")
	assert.Contains(t, out, "triggers 3")
	assert.Contains(t, out, "unresolved refs 1")

	_, err = os.Stat(filepath.Join(output, "acme", adapter.AdapterFile))
	assert.NoError(t, err)
}

func TestGenerateCommand_MissingFlags(t *testing.T) {
	_, err := execute(t, "generate", "--slug", "acme")
	assert.Error(t, err)
}

func TestGenerateCommand_FetchError(t *testing.T) {
	output := t.TempDir()
	out, err := execute(t, "generate",
		"--output", output,
		"--slug", "acme",
		"--name", "Acme",
		"--spec", filepath.Join(t.TempDir(), "missing.json"),
	)
	assert.Error(t, err)
	assert.Contains(t, out, "✗ acme")

	entries, err := os.ReadDir(output)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBatchCommand(t *testing.T) {
	specPath := writeFile(t, "acme.yaml", testSpec)
	batchPath := writeFile(t, "batch.yaml", `
providers:
  - {slug: acme, name: Acme, spec: `+specPath+`}
  - {slug: gone, name: Gone, spec: /nonexistent/openapi.json}
`)
	output := t.TempDir()

	out, err := execute(t, "batch", batchPath, "--output", output)
	assert.Error(t, err)
	assert.Contains(t, out, "1 generated, 1 failed")

	_, err = os.Stat(filepath.Join(output, "acme", adapter.ManifestFile))
	assert.NoError(t, err)
}

func TestProvidersCommand(t *testing.T) {
	out, err := execute(t, "providers")
	assert.NoError(t, err)
	assert.Contains(t, out, "stripe")
	assert.Contains(t, out, "https://github.com")
}

func TestConfigFlag(t *testing.T) {
	configPath := writeFile(t, "adaptergen.yaml", "concurrency: 0\n")
	_, err := execute(t, "--config", configPath, "providers")
	assert.Error(t, err)
}
