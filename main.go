package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yougroupteam/adaptergen/config"
	"github.com/yougroupteam/adaptergen/provider"
	"github.com/yougroupteam/adaptergen/util"
)

// app holds what every subcommand needs once flags have been parsed.
type app struct {
	configPath string
	outputDir  string
	logLevel   string
	noColor    bool

	config    *config.Config
	logger    *zap.Logger
	providers *provider.Table
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "adaptergen",
		Short: "Generate integration adapters from OpenAPI documents",
		Long: `Generate integration adapter definitions from OpenAPI 3.x documents.

Each run writes <output>/<slug>/adapter.json and <output>/<slug>/manifest.json.

Examples:
  adaptergen generate --slug stripe --name Stripe --spec https://example.com/openapi.json
  adaptergen generate --slug acme --name Acme --spec ./acme.yaml --events order.created
  adaptergen batch providers.yaml
  adaptergen providers`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.StringVarP(&a.outputDir, "output", "o", "", "Output root directory (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		generateCmd(a),
		batchCmd(a),
		providersCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	// A missing .env is normal; anything else is worth hearing about.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = a.outputDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := util.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	providers, err := provider.Load(cfg.ProvidersFile)
	if err != nil {
		return err
	}

	a.config = cfg
	a.logger = logger
	a.providers = providers
	return nil
}

func (a *app) generator() *Generator {
	return NewGenerator(a.config, a.providers, nil, a.logger)
}

func generateCmd(a *app) *cobra.Command {
	var (
		job        Job
		eventsFile string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one adapter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventsFile != "" {
				events, err := loadEvents(eventsFile)
				if err != nil {
					return err
				}
				job.Events = append(job.Events, events...)
			}

			report := newReporter(cmd.OutOrStdout(), a.noColor)
			stats, dir, err := a.generator().Run(cmd.Context(), job)
			if err != nil {
				report.failed(job, err)
				return err
			}
			report.generated(job, stats, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&job.Slug, "slug", "", "Adapter slug, also the output directory name")
	cmd.Flags().StringVar(&job.Name, "name", "", "Human-readable adapter name")
	cmd.Flags().StringVar(&job.Spec, "spec", "", "OpenAPI document URL or path")
	cmd.Flags().StringSliceVar(&job.Events, "events", nil, "Known webhook event names")
	cmd.Flags().StringVar(&eventsFile, "events-file", "", "YAML or JSON file holding a list of event names")
	_ = cmd.MarkFlagRequired("slug")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

func batchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>",
		Short: "Generate every adapter listed in a batch file",
		Long: `Generate every adapter listed in a batch file:

  providers:
    - slug: stripe
      name: Stripe
      spec: https://example.com/stripe.json
      events: [charge.succeeded]

Jobs run concurrently and independently; the command fails if any job fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := LoadBatch(args[0])
			if err != nil {
				return err
			}

			results := a.generator().RunBatch(cmd.Context(), jobs, a.config.Concurrency)
			if failed := newReporter(cmd.OutOrStdout(), a.noColor).batch(results); failed > 0 {
				return fmt.Errorf("%d of %d adapters failed", failed, len(results))
			}
			return nil
		},
	}
}

func providersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List providers with built-in metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, slug := range a.providers.Slugs() {
				metadata, _ := a.providers.Lookup(slug)
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-8s %s\n", slug, metadata.Authentication.Type, metadata.Website)
			}
			return nil
		},
	}
}

func loadEvents(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events file: %w", err)
	}
	var events []string
	if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing events file %s: %w", path, err)
	}
	return events, nil
}
