package synth

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/voice"
)

// Basic tone generation constants.
const (
	basicToneAmplitude = 0.30
	basicToneEdgeFade  = 20 * time.Millisecond
)

// BasicToneBackend is the simpler of the two tone generators: a single
// unmodulated sine at the profile's base frequency for the paced duration
// of the text. Like ToneBackend it always succeeds, but without harmonics
// or word envelopes the output is audibly flatter.
type BasicToneBackend struct{}

// NewBasicToneBackend creates the basic tone backend.
func NewBasicToneBackend() *BasicToneBackend {
	return &BasicToneBackend{}
}

// Name returns the backend's method identifier.
func (b *BasicToneBackend) Name() string {
	return string(MethodBasicTone)
}

// Synthesize renders a continuous sine tone in the canonical format.
func (b *BasicToneBackend) Synthesize(
	_ context.Context,
	chunkText string,
	profile voice.Profile,
) (audio.Clip, error) {
	duration := time.Duration(utf8.RuneCountInString(chunkText)) * profile.Pacing
	if duration < toneMinimumDuration {
		duration = toneMinimumDuration
	}

	frames := toneFrames(duration)
	fade := toneFrames(basicToneEdgeFade)

	if fade*2 > frames {
		fade = frames / 2
	}

	samples := make([]int16, frames)

	for i := range frames {
		t := float64(i) / float64(audio.SampleRate)
		signal := basicToneAmplitude * math.Sin(2*math.Pi*profile.BaseFrequency*t)

		envelope := 1.0
		if i < fade {
			envelope = float64(i) / float64(fade)
		} else if frames-i <= fade {
			envelope = float64(frames-i) / float64(fade)
		}

		samples[i] = clampSample(signal * envelope * toneAmplitudeScale)
	}

	return audio.NewClip(samples), nil
}
