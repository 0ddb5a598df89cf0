package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/adapter"
	"github.com/m-mizutani/tamarin/pkg/repository"
	"github.com/m-mizutani/tamarin/pkg/usecase/analysis"
	"github.com/m-mizutani/tamarin/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Event bus
	redisAddr string
	stream    string

	// Reasoner
	geminiProject  string
	geminiLocation string
	geminiModel    string

	// Evaluator
	rulesPath string

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("TAMARIN_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// busFlags returns flags for the event bus with destination config
func busFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address of the event bus",
			Value:       "localhost:6379",
			Sources:     cli.EnvVars("TAMARIN_REDIS_ADDR"),
			Destination: &cfg.redisAddr,
		},
		&cli.StringFlag{
			Name:        "stream",
			Usage:       "Event bus stream name",
			Value:       "medical-events",
			Sources:     cli.EnvVars("TAMARIN_EVENT_STREAM"),
			Destination: &cfg.stream,
		},
	}
}

// llmFlags returns flags for reasoner configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Generative model for the reasoner",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "rules",
			Usage:       "Path to YAML file overriding critical-value threshold rules",
			Sources:     cli.EnvVars("TAMARIN_RULES"),
			Destination: &cfg.rulesPath,
		},
	}
}

// newContext attaches a configured logger to the context
func (cfg *config) newContext(ctx context.Context) context.Context {
	return logging.With(ctx, logging.New(cfg.logLevel, os.Stderr))
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	storage, err := adapter.NewStorage(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// newBus creates a new event bus instance
func (cfg *config) newBus(ctx context.Context) (adapter.Bus, error) {
	if cfg.redisAddr == "" {
		return nil, goerr.New("redis-addr is required")
	}
	if cfg.stream == "" {
		return nil, goerr.New("stream is required")
	}

	bus, err := adapter.NewBus(ctx, cfg.redisAddr, cfg.stream)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create event bus")
	}
	return bus, nil
}

// newEvaluator creates the critical-value evaluator, loading rule overrides
// when a rules file is configured
func (cfg *config) newEvaluator() (*analysis.Evaluator, error) {
	if cfg.rulesPath == "" {
		return analysis.NewEvaluator(), nil
	}

	rules, err := analysis.LoadRules(cfg.rulesPath)
	if err != nil {
		return nil, err
	}
	return analysis.NewEvaluator(rules...), nil
}
