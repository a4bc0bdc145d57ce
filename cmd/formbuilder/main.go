// Command formbuilder works with form schema documents from the terminal:
// validate and watch schema files, evaluate answers against them, convert
// between formats and from OpenAPI documents, and fill a form interactively.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/model"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/persistence"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/schemaio"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

func main() {
	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "formbuilder",
		Usage: "validate, evaluate, convert, and preview form schemas",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			newValidateCommand(),
			newEvaluateCommand(),
			newExportCommand(),
			newConvertCommand(),
			newPreviewCommand(),
			newListCommand(),
		},
	}
}

func newLogger(cmd *cli.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if cmd.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func newValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check that a schema document imports cleanly",
		ArgsUsage: "<schema file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "re-validate whenever the file changes",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("validate: schema file argument is required")
			}
			logger := newLogger(cmd)

			runOnce := func() {
				schema, err := readSchema(path)
				if err != nil {
					logger.Error().Err(err).Str("file", path).Msg("schema rejected")
					return
				}
				logger.Info().
					Str("file", path).
					Str("title", schema.Title).
					Int("fields", len(schema.Fields)).
					Msg("schema ok")
			}
			runOnce()

			if !cmd.Bool("watch") {
				return nil
			}
			return watchFile(ctx, path, logger, runOnce)
		},
	}
}

func newEvaluateCommand() *cli.Command {
	return &cli.Command{
		Name:      "evaluate",
		Usage:     "compute visible fields and validation errors for a set of answers",
		ArgsUsage: "<schema file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "answers",
				Aliases: []string{"a"},
				Usage:   "JSON file mapping field ids to answer values",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("evaluate: schema file argument is required")
			}
			schema, err := readSchema(path)
			if err != nil {
				return err
			}

			answers := model.AnswerMap{}
			if answersPath := cmd.String("answers"); answersPath != "" {
				data, err := os.ReadFile(answersPath)
				if err != nil {
					return fmt.Errorf("evaluate: read answers: %w", err)
				}
				if err := json.Unmarshal(data, &answers); err != nil {
					return fmt.Errorf("evaluate: parse answers: %w", err)
				}
			}

			evaluator := form.New(form.WithLogger(newLogger(cmd)))
			result := evaluator.Evaluate(schema.Fields, answers)
			return printJSON(evaluationReport(schema, result))
		},
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "re-export a schema document as JSON or YAML",
		ArgsUsage: "<schema file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "json",
				Usage:   "output format: json or yaml",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (stdout if empty)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("export: schema file argument is required")
			}
			schema, err := readSchema(path)
			if err != nil {
				return err
			}

			var out []byte
			switch strings.ToLower(cmd.String("format")) {
			case "json":
				out, err = schemaio.Export(schema)
			case "yaml", "yml":
				out, err = schemaio.ExportYAML(schema)
			default:
				return fmt.Errorf("export: unsupported format %q", cmd.String("format"))
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.String("output"), out)
		},
	}
}

func newConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "build a form schema from an OpenAPI operation",
		ArgsUsage: "<openapi document>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "operation",
				Usage:    "operation id to convert",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "title",
				Value: "Untitled Form",
				Usage: "title for the generated form",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (stdout if empty)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "also save the generated form into this directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("convert: openapi document argument is required")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("convert: read document: %w", err)
			}

			fields, err := pkgopenapi.ImportOperation(ctx, data, cmd.String("operation"))
			if err != nil {
				return err
			}

			builder := store.New(store.WithLogger(newLogger(cmd)))
			builder.CreateNewForm(cmd.String("title"))
			for _, field := range fields {
				builder.AddField(field)
			}
			schema, err := builder.SaveForm()
			if err != nil {
				return err
			}

			if dir := cmd.String("store"); dir != "" {
				sink := persistence.NewFileSink(dir)
				if err := sink.Save(schema); err != nil {
					return err
				}
			}

			out, err := schemaio.Export(schema)
			if err != nil {
				return err
			}
			return writeOutput(cmd.String("output"), out)
		},
	}
}

func newPreviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "fill a form interactively and print the collected answers",
		ArgsUsage: "<schema file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New("preview: schema file argument is required")
			}
			schema, err := readSchema(path)
			if err != nil {
				return err
			}

			runner := preview.NewRunner(preview.NewSurveyDriver())
			answers, err := runner.Run(ctx, schema.Fields)
			if err != nil {
				return err
			}
			return printJSON(answers)
		},
	}
}

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list forms saved in a store directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "store",
				Usage:    "directory holding saved forms",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sink := persistence.NewFileSink(cmd.String("store"))
			forms, err := sink.List()
			if err != nil {
				return err
			}
			for _, schema := range forms {
				fmt.Printf("%s\t%s\t%d fields\n", schema.ID, schema.Title, len(schema.Fields))
			}
			return nil
		},
	}
}

type report struct {
	Valid         bool              `json:"valid"`
	VisibleFields []string          `json:"visibleFields"`
	Errors        map[string]string `json:"errors,omitempty"`
}

func evaluationReport(schema model.FormSchema, result form.Evaluation) report {
	visible := make([]string, 0, len(result.VisibleFieldIDs))
	for _, field := range schema.Fields {
		if result.Visible(field.ID) {
			visible = append(visible, field.ID)
		}
	}
	return report{
		Valid:         result.Valid(),
		VisibleFields: visible,
		Errors:        result.Errors,
	}
}

func readSchema(path string) (model.FormSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("read schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return schemaio.ImportYAML(data)
	default:
		return schemaio.Import(data)
	}
}

func watchFile(ctx context.Context, path string, logger zerolog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save, which
	// would drop a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	target := filepath.Clean(path)
	logger.Info().Str("file", path).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}

func printJSON(value any) error {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
