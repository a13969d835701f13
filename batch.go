package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yougroupteam/adaptergen/adapter"
)

// BatchFile lists the providers of a batch run.
type BatchFile struct {
	Providers []Job `yaml:"providers"`
}

// BatchResult is the outcome of one job in a batch.
type BatchResult struct {
	Job   Job
	Stats *adapter.Stats
	Dir   string
	Err   error
}

// LoadBatch reads a batch file. Slugs must be unique, since each one owns its
// output directory.
func LoadBatch(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	var file BatchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}

	seen := make(map[string]bool)
	for _, job := range file.Providers {
		if err := job.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if seen[job.Slug] {
			return nil, fmt.Errorf("%s: duplicate slug %q", path, job.Slug)
		}
		seen[job.Slug] = true
	}
	return file.Providers, nil
}

// RunBatch runs jobs with at most concurrency in flight. A failing job
// doesn't stop the others; results come back in job order.
func (g *Generator) RunBatch(ctx context.Context, jobs []Job, concurrency int) []BatchResult {
	results := make([]BatchResult, len(jobs))

	var group errgroup.Group
	group.SetLimit(concurrency)
	for i, job := range jobs {
		i, job := i, job
		group.Go(func() error {
			stats, dir, err := g.Run(ctx, job)
			results[i] = BatchResult{Job: job, Stats: stats, Dir: dir, Err: err}
			return nil
		})
	}
	_ = group.Wait()

	return results
}
