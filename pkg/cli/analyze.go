package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/agent/medical"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/emitter"
	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/m-mizutani/tamarin/pkg/tool"
	eventstool "github.com/m-mizutani/tamarin/pkg/tool/events"
	memorytool "github.com/m-mizutani/tamarin/pkg/tool/memory"
	"github.com/m-mizutani/tamarin/pkg/usecase/analysis"
	"github.com/urfave/cli/v3"
)

func analyzeCommand() *cli.Command {
	var (
		cfg   config
		input string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to JSON file containing the lab result event ('-' for stdin)",
			Value:       "-",
			Destination: &input,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, busFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "analyze",
		Usage: "Run a lab result event through the triage pipeline",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.newContext(ctx)

			event, err := readEvent(input)
			if err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			bus, err := cfg.newBus(ctx)
			if err != nil {
				return err
			}
			defer bus.Close()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			evaluator, err := cfg.newEvaluator()
			if err != nil {
				return err
			}

			mem := memory.New(repo)
			emit := emitter.New(bus)
			registry := tool.New(
				memorytool.New(mem),
				eventstool.New(emit),
			)
			reasoner := medical.New(gemini, registry)

			uc := analysis.New(mem, emit, storage, reasoner, analysis.WithEvaluator(evaluator))
			result := uc.Analyze(ctx, event)

			return printJSON(c.Root().Writer, result)
		},
	}
}

func readEvent(path string) (*model.AnalysisEvent, error) {
	var raw []byte
	var err error

	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read input", goerr.V("path", path))
	}

	var event model.AnalysisEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input event", goerr.V("path", path))
	}

	return &event, nil
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode result")
	}
	return nil
}
