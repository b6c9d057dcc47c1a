// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/itempipe"
	"github.com/poiesic/itempipe/config"
	"github.com/poiesic/itempipe/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "itempipe",
		Usage: "Store, index and enrich scraped movie records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "Path to a TOML settings file",
				EnvVars: []string{"ITEMPIPE_SETTINGS"},
			},
			&cli.StringFlag{
				Name:    "mongodb-connection-string",
				Usage:   "Document store connection string (mongodb://, mongodb+srv:// or badger://)",
				EnvVars: []string{"MONGODB_CONNECTION_STRING"},
			},
			&cli.StringFlag{
				Name:    "mongodb-database",
				Usage:   "Document store database name",
				EnvVars: []string{"MONGODB_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "mongodb-collection",
				Usage:   "Document store collection name",
				EnvVars: []string{"MONGODB_COLLECTION"},
			},
			&cli.StringFlag{
				Name:    "elasticsearch-connection-string",
				Usage:   "Elasticsearch URL(s), comma separated",
				EnvVars: []string{"ELASTICSEARCH_CONNECTION_STRING"},
			},
			&cli.StringFlag{
				Name:    "elasticsearch-index",
				Usage:   "Elasticsearch index name",
				EnvVars: []string{"ELASTICSEARCH_INDEX"},
			},
			&cli.StringFlag{
				Name:    "images-store",
				Usage:   "Directory receiving downloaded images",
				EnvVars: []string{"IMAGES_STORE"},
			},
			&cli.StringSliceFlag{
				Name:    "pipelines",
				Usage:   "Enabled stages in order (images, mongodb, elasticsearch)",
				EnvVars: []string{"ITEM_PIPELINES"},
			},
			&cli.IntFlag{
				Name:    "concurrent-items",
				Usage:   "Records processed in parallel",
				EnvVars: []string{"CONCURRENT_ITEMS"},
			},
			&cli.IntFlag{
				Name:    "media-concurrency",
				Usage:   "Images of one record downloaded in parallel",
				EnvVars: []string{"MEDIA_CONCURRENCY"},
			},
			&cli.StringFlag{
				Name:    "media-proxy",
				Usage:   "Proxy URL for image downloads",
				EnvVars: []string{"MEDIA_PROXY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Stream JSON-lines records through the configured stages",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "File with one JSON record per line, - for stdin",
						Value:   "-",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress on stderr",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
				},
			},
			{
				Name:   "check",
				Usage:  "Open and close every configured stage without processing records",
				Action: checkCommand,
			},
			{
				Name:   "settings",
				Usage:  "Print the effective settings as TOML",
				Action: settingsCommand,
			},
		},
	}
}

// loadSettings reads the settings file, if any, and applies flag and
// environment overrides on top.
func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings := config.Default()
	if path := c.String("settings"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = loaded
	}

	var opts []config.Option
	if c.IsSet("mongodb-connection-string") || c.IsSet("mongodb-database") || c.IsSet("mongodb-collection") {
		opts = append(opts, config.WithMongo(
			override(c, "mongodb-connection-string", settings.MongoConnectionString),
			override(c, "mongodb-database", settings.MongoDatabase),
			override(c, "mongodb-collection", settings.MongoCollection)))
	}
	if c.IsSet("elasticsearch-connection-string") || c.IsSet("elasticsearch-index") {
		opts = append(opts, config.WithElasticsearch(
			override(c, "elasticsearch-connection-string", settings.ElasticsearchConnectionString),
			override(c, "elasticsearch-index", settings.ElasticsearchIndex)))
	}
	if c.IsSet("images-store") {
		opts = append(opts, config.WithImagesStore(c.String("images-store")))
	}
	if c.IsSet("pipelines") {
		opts = append(opts, config.WithPipelines(splitStages(c.StringSlice("pipelines"))...))
	}
	if c.IsSet("concurrent-items") {
		opts = append(opts, config.WithConcurrentItems(c.Int("concurrent-items")))
	}
	if c.IsSet("media-concurrency") {
		opts = append(opts, config.WithMediaConcurrency(c.Int("media-concurrency")))
	}
	if c.IsSet("media-proxy") {
		opts = append(opts, config.WithMediaProxy(c.String("media-proxy")))
	}

	if err := settings.Apply(opts...); err != nil {
		return nil, err
	}
	return settings, nil
}

func override(c *cli.Context, flag, current string) string {
	if c.IsSet(flag) {
		return c.String(flag)
	}
	return current
}

// splitStages accepts both repeated flags and a comma separated list.
func splitStages(values []string) []string {
	var stages []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				stages = append(stages, s)
			}
		}
	}
	return stages
}

func runCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	var input io.Reader = os.Stdin
	if path := c.String("input"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		input = f
	}

	var extra []itempipe.Option
	if c.Bool("progress") {
		if c.Int("report-interval") <= 0 {
			return fmt.Errorf("report-interval must be greater than 0")
		}
		tracker := ingestion.NewProgressTracker(c.App.ErrWriter, c.Int("report-interval"))
		extra = append(extra, itempipe.WithPipelineOptions(ingestion.WithProgress(tracker)))
	}

	pipeline, err := itempipe.NewPipeline(settings, extra...)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := pipeline.Open(ctx); err != nil {
		pipeline.Close(ctx)
		return err
	}

	stats, runErr := pipeline.Run(ctx, ingestion.DecodeRecords(input))
	if err := pipeline.Close(context.Background()); err != nil {
		slog.Error("error closing pipeline", "err", err)
	}

	fmt.Fprintf(c.App.Writer, "processed: %d, dropped: %d, failed: %d\n",
		stats.Processed, stats.Dropped, stats.Failed)

	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	if stats.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d record(s) failed", stats.Failed), 1)
	}
	return nil
}

// documentCounter is implemented by stages backed by a document store.
type documentCounter interface {
	Count(ctx context.Context) (int, error)
}

func checkCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	stages, err := itempipe.NewStages(settings)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	pipeline, err := ingestion.NewPipeline(stages)
	if err != nil {
		return err
	}
	if err := pipeline.Open(ctx); err != nil {
		pipeline.Close(ctx)
		return fmt.Errorf("check failed: %w", err)
	}

	lines := make([]string, 0, len(stages))
	for _, stage := range stages {
		line := stage.Name() + ": ok"
		if counter, ok := stage.(documentCounter); ok {
			n, err := counter.Count(ctx)
			if err != nil {
				pipeline.Close(ctx)
				return fmt.Errorf("check failed: %s: %w", stage.Name(), err)
			}
			line = fmt.Sprintf("%s (%d documents)", line, n)
		}
		lines = append(lines, line)
	}
	if err := pipeline.Close(ctx); err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	for _, line := range lines {
		fmt.Fprintln(c.App.Writer, line)
	}
	return nil
}

func settingsCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	data, err := settings.Encode()
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
