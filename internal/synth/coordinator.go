package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/book-expert/logger"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/core"
	"github.com/book-expert/audiobook-service/internal/voice"
)

// Log message formats.
const (
	msgBackendAttempt   = "Synthesizing chunk %d with backend %s (attempt %d of %d)"
	msgBackendFailed    = "Backend %s failed on chunk %d: %v"
	msgBackendFellBack  = "Falling back from %s to %s for chunk %d"
	msgBackendSucceeded = "Backend %s produced %.2fs of audio for chunk %d"
)

// ErrAllBackendsFailed indicates that every backend in the fallback
// chain failed for a chunk. With the tone generator terminating every
// chain this should not happen in practice.
var ErrAllBackendsFailed = errors.New("all synthesis backends failed")

// Attempt records one backend invocation for a chunk.
type Attempt struct {
	Backend string
	Err     error
}

// Result holds the outcome of synthesizing one chunk, including the
// trail of attempts that led to it.
type Result struct {
	Clip     audio.Clip
	Backend  string
	Attempts []Attempt
}

// Coordinator drives a chunk through an ordered chain of backends,
// falling back on recoverable failures until one succeeds.
type Coordinator struct {
	backends map[Method]Backend
	log      *logger.Logger
}

// NewCoordinator builds a coordinator over the given backends. The tone
// backend must be present: it terminates every fallback chain.
func NewCoordinator(backends map[Method]Backend, log *logger.Logger) *Coordinator {
	return &Coordinator{
		backends: backends,
		log:      log,
	}
}

// Chain resolves a requested method into the ordered backend sequence to
// attempt. MethodAuto yields the full preference order. A named method
// is tried first, then the remaining automatic order, so a single
// backend outage never sinks a job. The chain always ends with the tone
// generator.
func (c *Coordinator) Chain(method Method) []Backend {
	order := []Method{MethodSystem, MethodCloud, MethodTone}

	if method != MethodAuto {
		reordered := []Method{method}

		for _, m := range order {
			if m != method {
				reordered = append(reordered, m)
			}
		}

		order = reordered
	}

	chain := make([]Backend, 0, len(order))

	for _, m := range order {
		backend, ok := c.backends[m]
		if !ok {
			continue
		}

		chain = append(chain, backend)
	}

	return chain
}

// Synthesize renders one chunk, trying each backend in the chain for the
// requested method until one succeeds. Context cancellation aborts
// immediately instead of falling through to the next backend.
func (c *Coordinator) Synthesize(
	ctx context.Context,
	chunkIndex int,
	chunkText string,
	profile voice.Profile,
	method Method,
) (Result, error) {
	chain := c.Chain(method)
	result := Result{Attempts: make([]Attempt, 0, len(chain))}

	for attempt, backend := range chain {
		err := ctx.Err()
		if err != nil {
			return result, fmt.Errorf("synthesis aborted on chunk %d: %w", chunkIndex, err)
		}

		c.log.Info(msgBackendAttempt, chunkIndex, backend.Name(), attempt+1, len(chain))

		clip, err := backend.Synthesize(ctx, chunkText, profile)
		if err == nil {
			c.log.Info(msgBackendSucceeded, backend.Name(), clip.Duration().Seconds(), chunkIndex)

			result.Clip = clip
			result.Backend = backend.Name()

			return result, nil
		}

		result.Attempts = append(result.Attempts, Attempt{Backend: backend.Name(), Err: err})
		c.log.Warn(msgBackendFailed, backend.Name(), chunkIndex, err)

		if attempt+1 < len(chain) {
			c.log.Warn(msgBackendFellBack, backend.Name(), chain[attempt+1].Name(), chunkIndex)
		}
	}

	return result, fmt.Errorf("%w: %w: chunk %d", core.ErrBackendFailure, ErrAllBackendsFailed, chunkIndex)
}
