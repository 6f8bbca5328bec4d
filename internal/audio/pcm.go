// Package audio provides the PCM data structures and processing used by the
// audiobook synthesis pipeline: the canonical output format, resampling,
// channel downmixing, and ordered assembly of per-chunk clips.
package audio

import (
	"errors"
	"fmt"
	"time"
)

// Canonical output format. Every backend's output is normalized to this
// format before assembly.
const (
	// SampleRate is the canonical sample rate in Hz.
	SampleRate = 22050
	// BitDepth is the canonical bit depth per sample.
	BitDepth = 16
	// Channels is the canonical channel count (mono).
	Channels = 1
	// BytesPerSample is the number of bytes per canonical sample.
	BytesPerSample = BitDepth / 8
)

// DefaultGap is the silence inserted between consecutive chunks.
const DefaultGap = 500 * time.Millisecond

// Static errors.
var (
	ErrNoClips            = errors.New("no clips to assemble")
	ErrInvalidSampleRate  = errors.New("invalid sample rate")
	ErrInvalidChannelData = errors.New("sample count not divisible by channel count")
)

// Clip is a buffer of decoded PCM samples. Samples are interleaved when
// Channels > 1. A Clip produced by a backend is owned by the assembler
// until it is consumed into the final artifact.
type Clip struct {
	Samples  []int16
	Rate     int
	Channels int
}

// NewClip returns an empty clip in the canonical format.
func NewClip(samples []int16) Clip {
	return Clip{Samples: samples, Rate: SampleRate, Channels: Channels}
}

// Frames returns the number of sample frames (samples per channel).
func (c Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}

	return len(c.Samples) / c.Channels
}

// Duration returns the play time of the clip.
func (c Clip) Duration() time.Duration {
	if c.Rate <= 0 {
		return 0
	}

	return time.Duration(c.Frames()) * time.Second / time.Duration(c.Rate)
}

// Canonical converts the clip to the canonical sample rate and channel
// count. Clips already in canonical format are returned unchanged.
func (c Clip) Canonical() (Clip, error) {
	if c.Rate <= 0 {
		return Clip{}, fmt.Errorf("%w: %d Hz", ErrInvalidSampleRate, c.Rate)
	}

	if c.Channels <= 0 || len(c.Samples)%c.Channels != 0 {
		return Clip{}, fmt.Errorf(
			"%w: %d samples across %d channels",
			ErrInvalidChannelData, len(c.Samples), c.Channels,
		)
	}

	mono := c.downmix()

	if mono.Rate == SampleRate {
		return mono, nil
	}

	return mono.resample(SampleRate), nil
}

// downmix averages interleaved channels into a single mono channel.
func (c Clip) downmix() Clip {
	if c.Channels == 1 {
		return c
	}

	frames := c.Frames()
	mono := make([]int16, frames)

	for frame := range frames {
		sum := 0
		for ch := range c.Channels {
			sum += int(c.Samples[frame*c.Channels+ch])
		}

		mono[frame] = int16(sum / c.Channels)
	}

	return Clip{Samples: mono, Rate: c.Rate, Channels: 1}
}

// resample converts a mono clip to the target rate by linear interpolation.
// Linear interpolation is sufficient here: every voice backend produces
// band-limited speech-range material well below the Nyquist frequency.
func (c Clip) resample(rate int) Clip {
	if c.Rate == rate || len(c.Samples) == 0 {
		return Clip{Samples: c.Samples, Rate: rate, Channels: 1}
	}

	ratio := float64(c.Rate) / float64(rate)
	outFrames := int(float64(len(c.Samples)) / ratio)
	out := make([]int16, outFrames)

	for i := range outFrames {
		pos := float64(i) * ratio
		idx := int(pos)

		if idx >= len(c.Samples)-1 {
			out[i] = c.Samples[len(c.Samples)-1]

			continue
		}

		frac := pos - float64(idx)
		a := float64(c.Samples[idx])
		b := float64(c.Samples[idx+1])
		out[i] = int16(a + (b-a)*frac)
	}

	return Clip{Samples: out, Rate: rate, Channels: 1}
}

// Silence returns a canonical-format clip of the given duration.
func Silence(d time.Duration) Clip {
	frames := int(d.Seconds() * float64(SampleRate))
	if frames < 0 {
		frames = 0
	}

	return NewClip(make([]int16, frames))
}

// Assemble concatenates per-chunk clips, in the order given, with a fixed
// silence gap inserted between consecutive clips. Every clip is normalized
// to the canonical format first; clips from different backends may arrive
// in different native formats. Callers must pass clips in original
// chunk-index order: completion order is not an ordering guarantee.
func Assemble(clips []Clip, gap time.Duration) (Clip, error) {
	if len(clips) == 0 {
		return Clip{}, ErrNoClips
	}

	normalized := make([]Clip, 0, len(clips))
	total := 0

	for i, clip := range clips {
		canonical, err := clip.Canonical()
		if err != nil {
			return Clip{}, fmt.Errorf("clip %d: %w", i, err)
		}

		normalized = append(normalized, canonical)
		total += len(canonical.Samples)
	}

	gapClip := Silence(gap)
	total += len(gapClip.Samples) * (len(normalized) - 1)

	combined := make([]int16, 0, total)

	for i, clip := range normalized {
		if i > 0 {
			combined = append(combined, gapClip.Samples...)
		}

		combined = append(combined, clip.Samples...)
	}

	return NewClip(combined), nil
}
