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
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/ragline"
	"github.com/poiesic/ragline/config"
	"github.com/poiesic/ragline/ingest"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ragline",
		Usage: "Document ingestion and retrieval tuning for RAGFlow knowledge stores",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Upload a folder of documents and parse them one at a time",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "folder",
						Aliases: []string{"f"},
						Usage:   "Folder to ingest (overrides the configured folder_path)",
					},
				},
			},
			{
				Name:   "ask",
				Usage:  "Retrieve chunks and generate a grounded answer",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "question",
						Aliases: []string{"q"},
						Usage:   "Question to answer (overrides the configured queries)",
					},
					&cli.StringFlag{
						Name:     "dataset",
						Aliases:  []string{"d"},
						Usage:    "Dataset name to query",
						Required: true,
					},
				},
			},
			{
				Name:   "gridsearch",
				Usage:  "Sweep vector weights against a test query and rank them",
				Action: gridSearchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dataset",
						Aliases:  []string{"d"},
						Usage:    "Dataset name to query",
						Required: true,
					},
				},
			},
			{
				Name:   "run",
				Usage:  "Run every enabled stage: ingest, grid search, generation",
				Action: runCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadClient(c *cli.Context) (*ragline.Client, *config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if folder := c.String("folder"); folder != "" {
		cfg.Upload.FolderPath = folder
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := ragline.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	client, cfg, err := loadClient(c)
	if err != nil {
		return err
	}

	report, err := runIngest(ctx, client, cfg)
	if err != nil {
		return err
	}
	if report.Stats.Uploaded > 0 && !report.Succeeded() {
		return fmt.Errorf("no uploaded document reached a parsed state")
	}
	return nil
}

func runIngest(ctx context.Context, client *ragline.Client, cfg *config.Config) (*ingest.Report, error) {
	folder := cfg.Upload.FolderPath

	dataset, err := client.Dataset(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("resolving dataset: %w", err)
	}

	pipeline, err := client.NewPipeline()
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Dataset: %s\n", dataset.Name)
	fmt.Fprintf(os.Stderr, "Folder: %s\n", folder)
	fmt.Fprintln(os.Stderr)

	report, err := pipeline.Run(ctx, dataset, folder)
	if err != nil {
		return report, fmt.Errorf("pipeline run failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processed: %d  Uploaded: %d  Skipped: %d  Replaced: %d  Upload failures: %d\n",
		report.Stats.Processed, report.Stats.Uploaded, report.Stats.Skipped,
		report.Stats.Replaced, report.Stats.Failed)
	fmt.Fprintf(os.Stderr, "Parsed: %d  Parse failed: %d  Indeterminate: %d\n",
		report.ParsedOK, report.ParsedFailed, report.Indeterminate)

	if cfg.Report.Enabled {
		writer, err := client.NewReportWriter()
		if err != nil {
			return report, err
		}
		if err := writer.AppendRun(report); err != nil {
			slog.Warn("failed to append run to workbook", "err", err)
		}
	}
	return report, nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	client, cfg, err := loadClient(c)
	if err != nil {
		return err
	}

	questions := cfg.Generation.Queries
	if q := c.String("question"); q != "" {
		questions = []string{q}
	}
	if len(questions) == 0 {
		return fmt.Errorf("no question given and no generation queries configured")
	}

	dataset, err := client.Store().FindOrCreateDataset(ctx, c.String("dataset"), cfg.Upload.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("resolving dataset: %w", err)
	}

	retriever, err := client.NewRetriever()
	if err != nil {
		return err
	}
	generator, err := client.NewGenerator(nil)
	if err != nil {
		return err
	}

	for _, question := range questions {
		chunks, err := retriever.Retrieve(ctx, []string{dataset.ID}, question)
		if err != nil {
			return fmt.Errorf("retrieval failed: %w", err)
		}

		answer, err := generator.Generate(ctx, question, chunks)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		fmt.Printf("Q: %s\nA: %s\n\n", question, answer.Text)

		if cfg.Report.Enabled {
			writer, err := client.NewReportWriter()
			if err != nil {
				return err
			}
			if err := writer.AppendAnswer(dataset.ID, question, answer); err != nil {
				slog.Warn("failed to append answer to workbook", "err", err)
			}
		}
	}
	return nil
}

func gridSearchCommand(c *cli.Context) error {
	ctx := context.Background()

	client, cfg, err := loadClient(c)
	if err != nil {
		return err
	}
	if !cfg.GridSearch.Enabled {
		return fmt.Errorf("grid_search is disabled in the configuration")
	}

	dataset, err := client.Store().FindOrCreateDataset(ctx, c.String("dataset"), cfg.Upload.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("resolving dataset: %w", err)
	}

	search, err := client.NewGridSearch(nil)
	if err != nil {
		return err
	}

	results, best, err := search.Run(ctx, []string{dataset.ID},
		cfg.GridSearch.TestQuery, cfg.GridSearch.VectorWeightsToTest)
	if err != nil {
		return fmt.Errorf("grid search failed: %w", err)
	}

	for _, result := range results {
		marker := " "
		if result.Weight == best.Weight {
			marker = "*"
		}
		fmt.Printf("%s weight=%.2f score=%.3f chunks=%d\n",
			marker, result.Weight, result.Score, result.Chunks)
	}

	if cfg.Report.Enabled {
		writer, err := client.NewReportWriter()
		if err != nil {
			return err
		}
		if err := writer.AppendWeights(dataset.ID, results, best); err != nil {
			slog.Warn("failed to append weights to workbook", "err", err)
		}
	}
	return nil
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	client, cfg, err := loadClient(c)
	if err != nil {
		return err
	}

	var datasetID string
	if cfg.Upload.Enabled {
		report, err := runIngest(ctx, client, cfg)
		if err != nil {
			return err
		}
		if report.Stats.Uploaded > 0 && !report.Succeeded() {
			return fmt.Errorf("no uploaded document reached a parsed state")
		}
	}

	dataset, err := client.Dataset(ctx, cfg.Upload.FolderPath)
	if err != nil {
		return fmt.Errorf("resolving dataset: %w", err)
	}
	datasetID = dataset.ID

	if cfg.GridSearch.Enabled {
		search, err := client.NewGridSearch(nil)
		if err != nil {
			return err
		}
		results, best, err := search.Run(ctx, []string{datasetID},
			cfg.GridSearch.TestQuery, cfg.GridSearch.VectorWeightsToTest)
		if err != nil {
			return fmt.Errorf("grid search failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Best vector weight: %.2f (score %.3f)\n", best.Weight, best.Score)

		if cfg.Report.Enabled {
			writer, err := client.NewReportWriter()
			if err != nil {
				return err
			}
			if err := writer.AppendWeights(dataset.ID, results, best); err != nil {
				slog.Warn("failed to append weights to workbook", "err", err)
			}
		}
	}

	if cfg.Generation.Enabled {
		retriever, err := client.NewRetriever()
		if err != nil {
			return err
		}
		generator, err := client.NewGenerator(nil)
		if err != nil {
			return err
		}

		for _, question := range cfg.Generation.Queries {
			chunks, err := retriever.Retrieve(ctx, []string{datasetID}, question)
			if err != nil {
				return fmt.Errorf("retrieval failed: %w", err)
			}
			answer, err := generator.Generate(ctx, question, chunks)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			fmt.Printf("Q: %s\nA: %s\n\n", question, answer.Text)

			if cfg.Report.Enabled {
				writer, err := client.NewReportWriter()
				if err != nil {
					return err
				}
				if err := writer.AppendAnswer(dataset.ID, question, answer); err != nil {
					slog.Warn("failed to append answer to workbook", "err", err)
				}
			}
		}
	}
	return nil
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
