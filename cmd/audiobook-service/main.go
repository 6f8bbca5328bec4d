// main package for the audiobook-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/logger"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/audiobook-service/internal/config"
	"github.com/book-expert/audiobook-service/internal/objectstore"
	"github.com/book-expert/audiobook-service/internal/pipeline"
	"github.com/book-expert/audiobook-service/internal/synth"
	"github.com/book-expert/audiobook-service/internal/voice"
	"github.com/book-expert/audiobook-service/internal/worker"
)

const (
	envCloudAPIKey = "AUDIOBOOK_CLOUD_API_KEY"

	logFileName = "audiobook-service.log"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, logFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, finalLog)
}

// serve wires the NATS transport, object stores and synthesis stack,
// then runs the worker until the context is cancelled.
func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}

	textStore, err := objectstore.New(jetstreamContext, cfg.NATS.TextObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to open text object store: %w", err)
	}

	audioStore, err := objectstore.New(jetstreamContext, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to open audio object store: %w", err)
	}

	renderer, closeBackends, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}

	defer closeBackends()

	natsWorker, err := worker.NewNatsWorker(
		natsConnection,
		jetstreamContext,
		cfg.NATS.TextProcessedSubject,
		textStore,
		audioStore,
		renderer,
		worker.Defaults{
			Voice:        cfg.Synthesis.Voice,
			Method:       cfg.Synthesis.Method,
			MaxChunkSize: cfg.Synthesis.MaxChunkSize,
		},
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	log.System(
		"Audiobook service initialized. Listening for jobs on subject: %s",
		cfg.NATS.TextProcessedSubject,
	)

	err = natsWorker.Run(ctx)
	if err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}

	return nil
}

func buildPipeline(cfg *config.Config, log *logger.Logger) (*pipeline.Pipeline, func(), error) {
	// A missing .env is fine: credentials may come from the real environment.
	_ = godotenv.Load()

	backends := map[synth.Method]synth.Backend{
		synth.MethodSystem:    synth.NewSystemBackend(cfg.Synthesis.SystemBinary, log),
		synth.MethodTone:      synth.NewToneBackend(),
		synth.MethodBasicTone: synth.NewBasicToneBackend(),
	}

	closeBackends := func() {}

	if apiKey := os.Getenv(envCloudAPIKey); apiKey != "" {
		cloud, err := synth.NewCloudBackend(synth.CloudConfig{
			Endpoint: cfg.Cloud.Endpoint,
			APIKey:   apiKey,
			FolderID: cfg.Cloud.FolderID,
			Timeout:  cfg.Synthesis.Timeout(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build cloud backend: %w", err)
		}

		backends[synth.MethodCloud] = cloud
		closeBackends = func() { _ = cloud.Close() }
	}

	coordinator := synth.NewCoordinator(backends, log)
	registry := voice.NewRegistry()

	return pipeline.New(registry, coordinator, cfg.Synthesis.Workers, log), closeBackends, nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
