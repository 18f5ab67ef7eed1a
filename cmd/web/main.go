package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/miljoverk/samsvar/internal/ai"
	"github.com/miljoverk/samsvar/internal/envstruct"
	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/logging"
	"github.com/miljoverk/samsvar/internal/models"
	"github.com/miljoverk/samsvar/internal/ocr"
	"github.com/miljoverk/samsvar/internal/pipeline"
	"github.com/miljoverk/samsvar/internal/pprofserver"
	"github.com/miljoverk/samsvar/internal/repositories"
	"github.com/miljoverk/samsvar/internal/sqlite"
	"github.com/miljoverk/samsvar/internal/tasks"
)

type application struct {
	logger    *slog.Logger
	criteria  *repositories.CriteriaRepository
	runner    reportRunner
	tasks     *tasks.Registry
	mediaRoot string
}

// reportRunner is the pipeline seam: handlers depend on this instead of the concrete
// pipeline so they can be tested against a scripted fake.
type reportRunner interface {
	Run(ctx context.Context, paths []string, metadata models.ProjectMetadata) (*pipeline.Result, error)
}

type config struct {
	Addr            string `env:"SAMSVAR_ADDR" envDefault:"localhost:4000"`
	PprofPort       string `env:"SAMSVAR_PPROF_PORT" envDefault:":6060"`
	SQLiteURL       string `env:"SAMSVAR_SQLITE_URL" envDefault:"./samsvar.sqlite"`
	MediaRoot       string `env:"SAMSVAR_MEDIA_ROOT" envDefault:"./media"`
	BaseURL         string `env:"SAMSVAR_BASE_URL" envDefault:"http://localhost:4000"`
	PromptChunkSize int    `env:"SAMSVAR_PROMPT_CHUNK_SIZE" envDefault:"3000"`
	TaskTTLHours    int    `env:"SAMSVAR_TASK_TTL_HOURS" envDefault:"24"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY" envDefault:""`
	// OCR is "enabled" or "disabled". Enabling requires Google application credentials
	// in the environment; when disabled, image files are reported as unreadable.
	OCR string `env:"SAMSVAR_OCR" envDefault:"disabled"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	})))

	// Missing .env is fine in production where the environment is set by the platform.
	_ = godotenv.Load()

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse environment")
	}

	pprofserver.Launch(ctx, cfg.PprofPort, logger)

	dbs, err := sqlite.NewDatabase(ctx, cfg.SQLiteURL, logger)
	if err != nil {
		return errors.Wrap(err, "connect database", slog.String("url", cfg.SQLiteURL))
	}
	defer func() {
		if closeErr := dbs.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to database")

	if err = os.MkdirAll(filepath.Join(cfg.MediaRoot, "uploads"), 0o755); err != nil {
		return errors.Wrap(err, "create media directory", slog.String("path", cfg.MediaRoot))
	}

	var ocrReader ocr.Reader
	if cfg.OCR == "enabled" {
		visionReader, visionErr := ocr.NewVisionReader(ctx)
		if visionErr != nil {
			return errors.Wrap(visionErr, "create OCR reader")
		}
		defer func() {
			_ = visionReader.Close()
		}()
		ocrReader = visionReader
	}

	transcript, err := os.OpenFile(filepath.Join(cfg.MediaRoot, "response.txt"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open transcript file")
	}
	defer func() {
		_ = transcript.Close()
	}()

	criteria := repositories.NewCriteriaRepository(dbs, logger)
	registry := tasks.NewRegistry(time.Duration(cfg.TaskTTLHours)*time.Hour, logger)
	go registry.Start(ctx)

	runner := pipeline.New(
		criteria,
		ai.NewClient(cfg.OpenAIAPIKey),
		ocrReader,
		pipeline.MergedArtifactRenderer{BaseURL: cfg.BaseURL},
		transcript,
		logger,
		pipeline.Config{MediaRoot: cfg.MediaRoot, PromptChunkSize: cfg.PromptChunkSize},
	)

	app := application{
		logger:    logger,
		criteria:  criteria,
		runner:    runner,
		tasks:     registry,
		mediaRoot: cfg.MediaRoot,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}
