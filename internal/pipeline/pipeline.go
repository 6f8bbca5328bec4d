// Package pipeline turns cleaned text into a single finished audio
// artifact: segmentation, per-chunk synthesis with fallback, assembly
// with inter-chunk silence, and atomic export.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/core"
	"github.com/book-expert/audiobook-service/internal/synth"
	"github.com/book-expert/audiobook-service/internal/text"
	"github.com/book-expert/audiobook-service/internal/voice"
)

// DefaultWorkers bounds concurrent chunk synthesis when the
// configuration does not say otherwise.
const DefaultWorkers = 4

// Log message formats.
const (
	msgSegmented      = "Segmented text into %d chunks (max %d characters)"
	msgChunkRendered  = "Rendered chunk %d of %d via %s"
	msgChunkFailed    = "Chunk %d failed: %v"
	msgAssembled      = "Assembled %d chunks into %.2fs of audio"
	errFmtChunkFailed = "chunk %d: %w"
)

// Stats summarizes a completed render.
type Stats struct {
	Chunks   int
	Duration time.Duration
	Backends []string
}

// Pipeline orchestrates the text-to-audio flow. Voice and method are
// validated before any synthesis starts, so configuration mistakes
// surface immediately instead of after minutes of rendering.
type Pipeline struct {
	cleaner     *text.Cleaner
	registry    *voice.Registry
	coordinator *synth.Coordinator
	log         *logger.Logger
	workers     int
	gap         time.Duration
}

// New builds a pipeline over the given voice registry and coordinator.
func New(
	registry *voice.Registry,
	coordinator *synth.Coordinator,
	workers int,
	log *logger.Logger,
) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Pipeline{
		cleaner:     text.NewCleaner(),
		registry:    registry,
		coordinator: coordinator,
		log:         log,
		workers:     workers,
		gap:         audio.DefaultGap,
	}
}

// RenderClip produces the assembled canonical-format clip for the given
// text along with render statistics.
func (p *Pipeline) RenderClip(
	ctx context.Context,
	input string,
	opts core.RenderOptions,
) (audio.Clip, Stats, error) {
	profile, method, err := p.validate(opts)
	if err != nil {
		return audio.Clip{}, Stats{}, err
	}

	cleaned := p.cleaner.Clean(input)
	if strings.TrimSpace(cleaned) == "" {
		return audio.Clip{}, Stats{}, core.ErrEmptyInput
	}

	maxChunkSize := opts.MaxChunkSize
	if maxChunkSize <= 0 {
		maxChunkSize = text.DefaultMaxChunkSize
	}

	chunks := text.Segment(cleaned, maxChunkSize)
	p.log.Info(msgSegmented, len(chunks), maxChunkSize)

	results, err := p.renderChunks(ctx, chunks, profile, method)
	if err != nil {
		return audio.Clip{}, Stats{}, err
	}

	clips := make([]audio.Clip, len(results))
	backends := make([]string, len(results))

	for i, result := range results {
		clips[i] = result.Clip
		backends[i] = result.Backend
	}

	assembled, err := audio.Assemble(clips, p.gap)
	if err != nil {
		return audio.Clip{}, Stats{}, fmt.Errorf("%w: %w", core.ErrAssembly, err)
	}

	p.log.Info(msgAssembled, len(chunks), assembled.Duration().Seconds())

	stats := Stats{
		Chunks:   len(chunks),
		Duration: assembled.Duration(),
		Backends: backends,
	}

	return assembled, stats, nil
}

// Render implements core.Renderer, returning the assembled audio as a
// WAV payload.
func (p *Pipeline) Render(
	ctx context.Context,
	input string,
	opts core.RenderOptions,
) ([]byte, error) {
	clip, _, err := p.RenderClip(ctx, input, opts)
	if err != nil {
		return nil, err
	}

	return audio.EncodeWAV(clip), nil
}

// validate resolves the requested voice and method up front. Any error
// here is a configuration problem, not a synthesis failure.
func (p *Pipeline) validate(opts core.RenderOptions) (voice.Profile, synth.Method, error) {
	profile, err := p.registry.Lookup(opts.Voice)
	if err != nil {
		return voice.Profile{}, "", err
	}

	method, err := synth.ParseMethod(opts.Method)
	if err != nil {
		return voice.Profile{}, "", err
	}

	return profile, method, nil
}

// renderChunks synthesizes chunks concurrently under a bounded worker
// pool, preserving chunk order in the returned slice. A failed chunk
// fails the whole render: a gap in the narration is worse than no
// artifact at all.
func (p *Pipeline) renderChunks(
	ctx context.Context,
	chunks []text.Chunk,
	profile voice.Profile,
	method synth.Method,
) ([]synth.Result, error) {
	var (
		waitGroup sync.WaitGroup
		mutex     sync.Mutex
		lastError error
	)

	results := make([]synth.Result, len(chunks))
	workerPool := make(chan struct{}, p.workers)

	for _, chunk := range chunks {
		waitGroup.Add(1)

		go func(chunk text.Chunk) {
			defer waitGroup.Done()

			workerPool <- struct{}{}

			defer func() { <-workerPool }()

			result, err := p.coordinator.Synthesize(ctx, chunk.Index, chunk.Text, profile, method)
			if err != nil {
				mutex.Lock()

				lastError = fmt.Errorf(errFmtChunkFailed, chunk.Index, err)

				mutex.Unlock()
				p.log.Error(msgChunkFailed, chunk.Index, err)

				return
			}

			results[chunk.Index] = result
			p.log.Info(msgChunkRendered, chunk.Index+1, len(chunks), result.Backend)
		}(chunk)
	}

	waitGroup.Wait()
	close(workerPool)

	if lastError != nil {
		return nil, lastError
	}

	return results, nil
}
