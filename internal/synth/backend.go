// Package synth provides the text-to-speech synthesis backends and the
// fallback coordinator that drives them. There are exactly four backends:
// an offline system-voice engine, an online cloud engine, a reliable tone
// generator that cannot fail, and a simpler basic tone generator. The set
// is closed: backend selection is by method identifier, not by open-ended
// plugin discovery.
package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/core"
	"github.com/book-expert/audiobook-service/internal/voice"
)

// Method identifies a synthesis backend, or the automatic fallback chain.
type Method string

// Supported method identifiers.
const (
	// MethodAuto selects the automatic priority order:
	// system voice, then cloud, then the reliable tone generator.
	MethodAuto Method = "auto"
	// MethodSystem is the offline system-voice engine.
	MethodSystem Method = "system"
	// MethodCloud is the online cloud synthesis service.
	MethodCloud Method = "cloud"
	// MethodTone is the reliable tone generator, the backend of last
	// resort. It never fails.
	MethodTone Method = "tone"
	// MethodBasicTone is the simpler tone generator.
	MethodBasicTone Method = "basictone"
)

// ParseMethod validates a method identifier from configuration or a job.
// Matching is case-insensitive; an empty identifier selects MethodAuto.
func ParseMethod(raw string) (Method, error) {
	normalized := Method(strings.ToLower(strings.TrimSpace(raw)))

	switch normalized {
	case MethodAuto, MethodSystem, MethodCloud, MethodTone, MethodBasicTone:
		return normalized, nil
	case "":
		return MethodAuto, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownMethod, raw)
	}
}

// Backend is one concrete text-to-audio synthesis strategy. Implementations
// must not panic: every failure mode is reported as an error wrapping
// core.ErrBackendFailure so the coordinator can fall back.
type Backend interface {
	// Name returns the backend's method identifier.
	Name() string

	// Synthesize produces an audio clip for one chunk of text using the
	// given voice profile. The clip may be in the backend's native format;
	// the assembler normalizes it later.
	Synthesize(ctx context.Context, text string, profile voice.Profile) (audio.Clip, error)
}

// backendFailure wraps an underlying error as a recoverable backend failure.
func backendFailure(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", core.ErrBackendFailure, name, err)
}
