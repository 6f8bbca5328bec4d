// main package for the audiobook command line client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/book-expert/logger"
	"github.com/joho/godotenv"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/core"
	"github.com/book-expert/audiobook-service/internal/extract"
	"github.com/book-expert/audiobook-service/internal/pipeline"
	"github.com/book-expert/audiobook-service/internal/sound"
	"github.com/book-expert/audiobook-service/internal/synth"
	"github.com/book-expert/audiobook-service/internal/voice"
)

// Flag descriptions.
const (
	flagInputDesc     = "Input document to narrate (.pdf, .txt, .md)"
	flagTextDesc      = "Text to narrate directly"
	flagVoiceDesc     = "Voice profile name (see -voices)"
	flagMethodDesc    = "Synthesis method: auto, system, cloud, tone, basictone"
	flagFormatDesc    = "Output format: wav or mp3"
	flagChunkSizeDesc = "Maximum characters per synthesis chunk"
	flagOutputDesc    = "Output file path"
	flagPlayDesc      = "Play the result through the default audio device"
	flagVoicesDesc    = "List available voice profiles and exit"
	flagVerboseDesc   = "Enable verbose logging"
)

// Error and log messages.
const (
	errEitherTextOrInput = "either -text or -input must be provided"
	errCannotSpecifyBoth = "cannot specify both -text and -input"

	logRendering   = "Rendering %d characters with voice %q (method %q)"
	logWrote       = "Wrote %s (%.2fs, %d chunks)"
	msgGenerated   = "Generated: %s\n"
	msgVoiceEntry  = "%-16s %s  %3.0f Hz\n"
	envCloudAPIKey = "AUDIOBOOK_CLOUD_API_KEY"
	envCloudFolder = "AUDIOBOOK_CLOUD_FOLDER_ID"
)

// File names.
const (
	logFileNameDefault = "audiobook.log"
	logFileNameVerbose = "audiobook-verbose.log"
	defaultOutputFile  = "audiobook.wav"
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	input     string
	text      string
	voice     string
	method    string
	format    string
	chunkSize int
	output    string
	play      bool
	voices    bool
	verbose   bool
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	flags := parseFlags()

	if flags.voices {
		listVoices()

		return nil
	}

	err := validateFlags(flags)
	if err != nil {
		return err
	}

	logFileName := logFileNameDefault
	if flags.verbose {
		logFileName = logFileNameVerbose
	}

	appLog, err := logger.New(os.TempDir(), logFileName)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() { _ = appLog.Close() }()

	ctx := context.Background()

	input, err := resolveInput(ctx, flags, appLog)
	if err != nil {
		return err
	}

	renderer, closeBackends, err := buildPipeline(appLog)
	if err != nil {
		return err
	}

	defer closeBackends()

	appLog.Info(logRendering, len(input), flags.voice, flags.method)

	clip, stats, err := renderer.RenderClip(ctx, input, core.RenderOptions{
		Voice:        flags.voice,
		Method:       flags.method,
		MaxChunkSize: flags.chunkSize,
	})
	if err != nil {
		return fmt.Errorf("failed to render narration: %w", err)
	}

	err = writeOutput(ctx, clip, stats, flags, appLog)
	if err != nil {
		return err
	}

	if flags.play {
		return playClip(ctx, clip)
	}

	return nil
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags() appFlags {
	var flags appFlags

	flag.StringVar(&flags.input, "input", "", flagInputDesc)
	flag.StringVar(&flags.text, "text", "", flagTextDesc)
	flag.StringVar(&flags.voice, "voice", voice.BritishMale, flagVoiceDesc)
	flag.StringVar(&flags.method, "method", "", flagMethodDesc)
	flag.StringVar(&flags.format, "format", "", flagFormatDesc)
	flag.IntVar(&flags.chunkSize, "chunk-size", 0, flagChunkSizeDesc)
	flag.StringVar(&flags.output, "output", "", flagOutputDesc)
	flag.BoolVar(&flags.play, "play", false, flagPlayDesc)
	flag.BoolVar(&flags.voices, "voices", false, flagVoicesDesc)
	flag.BoolVar(&flags.verbose, "verbose", false, flagVerboseDesc)
	flag.Parse()

	return flags
}

func validateFlags(flags appFlags) error {
	if flags.text == "" && flags.input == "" {
		flag.Usage()

		return errors.New(errEitherTextOrInput)
	}

	if flags.text != "" && flags.input != "" {
		return errors.New(errCannotSpecifyBoth)
	}

	return nil
}

func listVoices() {
	registry := voice.NewRegistry()

	for _, name := range registry.Names() {
		profile, err := registry.Lookup(name)
		if err != nil {
			continue
		}

		fmt.Printf(msgVoiceEntry, profile.Name, profile.Language, profile.BaseFrequency)
	}
}

// resolveInput returns the narration text from either the -text flag or
// the extracted -input document.
func resolveInput(ctx context.Context, flags appFlags, appLog *logger.Logger) (string, error) {
	if flags.text != "" {
		return flags.text, nil
	}

	extractor, err := extract.ForPath(flags.input, appLog)
	if err != nil {
		return "", err
	}

	extracted, err := extractor.Extract(ctx, flags.input)
	if err != nil {
		return "", err
	}

	return extracted, nil
}

// buildPipeline assembles the synthesis stack. The cloud backend is
// included only when credentials are present.
func buildPipeline(appLog *logger.Logger) (*pipeline.Pipeline, func(), error) {
	// A missing .env is fine: credentials may come from the real environment.
	_ = godotenv.Load()

	backends := map[synth.Method]synth.Backend{
		synth.MethodSystem:    synth.NewSystemBackend("", appLog),
		synth.MethodTone:      synth.NewToneBackend(),
		synth.MethodBasicTone: synth.NewBasicToneBackend(),
	}

	closeBackends := func() {}

	if apiKey := os.Getenv(envCloudAPIKey); apiKey != "" {
		cloud, err := synth.NewCloudBackend(synth.CloudConfig{
			Endpoint: "",
			APIKey:   apiKey,
			FolderID: os.Getenv(envCloudFolder),
			Timeout:  synth.DefaultCloudTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build cloud backend: %w", err)
		}

		backends[synth.MethodCloud] = cloud
		closeBackends = func() { _ = cloud.Close() }
	}

	coordinator := synth.NewCoordinator(backends, appLog)
	registry := voice.NewRegistry()

	return pipeline.New(registry, coordinator, 0, appLog), closeBackends, nil
}

func writeOutput(
	ctx context.Context,
	clip audio.Clip,
	stats pipeline.Stats,
	flags appFlags,
	appLog *logger.Logger,
) error {
	format, err := pipeline.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultOutputFile

		if format == pipeline.FormatMP3 {
			outputPath = strings.TrimSuffix(outputPath, ".wav") + ".mp3"
		}
	}

	err = pipeline.WriteArtifact(ctx, clip, outputPath, format)
	if err != nil {
		return err
	}

	appLog.Info(logWrote, outputPath, stats.Duration.Seconds(), stats.Chunks)
	fmt.Printf(msgGenerated, outputPath)

	return nil
}

func playClip(ctx context.Context, clip audio.Clip) error {
	player := sound.NewPlayer()

	err := player.Play(ctx, clip)
	if err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	return nil
}
