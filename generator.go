package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yougroupteam/adaptergen/adapter"
	"github.com/yougroupteam/adaptergen/config"
	"github.com/yougroupteam/adaptergen/generator/action"
	"github.com/yougroupteam/adaptergen/generator/tool"
	"github.com/yougroupteam/adaptergen/generator/trigger"
	"github.com/yougroupteam/adaptergen/provider"
	"github.com/yougroupteam/adaptergen/spec"
)

// ErrNoPaths is returned for a document that declares no paths at all.
var ErrNoPaths = errors.New("no paths discovered in spec")

// Job describes one adapter to generate.
type Job struct {
	Slug   string   `yaml:"slug"`
	Name   string   `yaml:"name"`
	Spec   string   `yaml:"spec"`
	Events []string `yaml:"events"`
}

func (j Job) validate() error {
	switch {
	case j.Slug == "":
		return errors.New("job: slug is required")
	case j.Name == "":
		return fmt.Errorf("job %s: name is required", j.Slug)
	case j.Spec == "":
		return fmt.Errorf("job %s: spec location is required", j.Slug)
	}
	return nil
}

// Generator turns OpenAPI documents into adapter document pairs. Runs share
// nothing mutable, so one Generator may execute several jobs at once.
type Generator struct {
	fetcher   *spec.Fetcher
	providers *provider.Table
	assembler *adapter.Assembler
	writer    *adapter.Writer
	logger    *zap.Logger
}

// NewGenerator wires a Generator from cfg. now stamps generated documents;
// nil means time.Now.
func NewGenerator(cfg *config.Config, providers *provider.Table, now func() time.Time, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		fetcher: spec.NewFetcher(spec.FetcherConfig{
			Timeout:   cfg.FetchTimeout,
			Retries:   cfg.FetchRetries,
			UserAgent: cfg.UserAgent,
		}, logger),
		providers: providers,
		assembler: adapter.NewAssembler(now),
		writer:    adapter.NewWriter(cfg.OutputDir, logger),
		logger:    logger,
	}
}

// Run fetches the job's document, builds the adapter and writes it. Nothing
// is written unless every earlier step succeeded.
func (g *Generator) Run(ctx context.Context, job Job) (*adapter.Stats, string, error) {
	if err := job.validate(); err != nil {
		return nil, "", err
	}
	logger := g.logger.With(zap.String("slug", job.Slug))

	logger.Info("fetching spec", zap.String("spec", job.Spec))
	data, err := g.fetcher.Fetch(ctx, job.Spec)
	if err != nil {
		return nil, "", err
	}

	bundle, err := g.Build(job, data)
	if err != nil {
		return nil, "", err
	}

	dir, err := g.writer.Write(job.Slug, bundle)
	if err != nil {
		return nil, "", err
	}

	logger.Info("generated adapter",
		zap.String("dir", dir),
		zap.Int("actions", bundle.Stats.Actions),
		zap.Int("triggers", bundle.Stats.Triggers),
		zap.Int("tools", bundle.Stats.Tools),
		zap.Int("skipped", bundle.Stats.SkippedOperations),
	)
	return &bundle.Stats, dir, nil
}

// Build is the in-memory part of a run: raw document in, document pair out.
func (g *Generator) Build(job Job, data []byte) (*adapter.Bundle, error) {
	logger := g.logger.With(zap.String("slug", job.Slug))

	doc, err := spec.Decode(data)
	if err != nil {
		return nil, err
	}
	if doc.Paths.Len() == 0 {
		return nil, ErrNoPaths
	}

	resolver := spec.NewResolver(doc, logger)
	actions := action.NewSynthesizer(resolver, logger).Synthesize(doc)
	triggers := trigger.NewSynthesizer(resolver, logger).Synthesize(doc, job.Events)
	tools := tool.Synthesize(actions.Actions, actions.Categories, job.Slug, job.Name)

	metadata, known := g.providers.Lookup(job.Slug)
	if !known {
		logger.Info("provider not in metadata table, using defaults")
	}

	return g.assembler.Assemble(adapter.Input{
		Slug:       job.Slug,
		Name:       job.Name,
		Doc:        doc,
		Actions:    actions,
		Triggers:   triggers,
		Tools:      tools,
		Provider:   metadata,
		Unresolved: resolver.Unresolved(),
	}), nil
}
