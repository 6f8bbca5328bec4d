// Package audio_test tests PCM assembly and format normalization.
package audio_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/audiobook-service/internal/audio"
)

func TestAssemble_PreservesOrderAndInsertsGaps(t *testing.T) {
	t.Parallel()

	first := audio.NewClip([]int16{100, 100, 100})
	second := audio.NewClip([]int16{-200, -200})

	combined, err := audio.Assemble([]audio.Clip{first, second}, 500*time.Millisecond)
	require.NoError(t, err)

	gapFrames := audio.SampleRate / 2

	require.Len(t, combined.Samples, 3+gapFrames+2)
	assert.Equal(t, int16(100), combined.Samples[0])
	assert.Equal(t, int16(100), combined.Samples[2])

	for _, sample := range combined.Samples[3 : 3+gapFrames] {
		assert.Equal(t, int16(0), sample)
	}

	assert.Equal(t, int16(-200), combined.Samples[3+gapFrames])
}

func TestAssemble_SingleClipHasNoGap(t *testing.T) {
	t.Parallel()

	clip := audio.NewClip([]int16{1, 2, 3})

	combined, err := audio.Assemble([]audio.Clip{clip}, 500*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, clip.Samples, combined.Samples)
}

func TestAssemble_NoClips(t *testing.T) {
	t.Parallel()

	_, err := audio.Assemble(nil, 500*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, audio.ErrNoClips)
}

func TestCanonical_DownmixesStereo(t *testing.T) {
	t.Parallel()

	stereo := audio.Clip{
		Samples:  []int16{100, 200, -100, -200},
		Rate:     audio.SampleRate,
		Channels: 2,
	}

	mono, err := stereo.Canonical()
	require.NoError(t, err)

	assert.Equal(t, 1, mono.Channels)
	assert.Equal(t, []int16{150, -150}, mono.Samples)
}

func TestCanonical_ResamplesToCanonicalRate(t *testing.T) {
	t.Parallel()

	source := audio.Clip{
		Samples:  make([]int16, 44100),
		Rate:     44100,
		Channels: 1,
	}

	canonical, err := source.Canonical()
	require.NoError(t, err)

	assert.Equal(t, audio.SampleRate, canonical.Rate)
	assert.InDelta(t, time.Second, canonical.Duration(), float64(5*time.Millisecond))
}

func TestCanonical_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := audio.Clip{Samples: []int16{1}, Rate: 0, Channels: 1}.Canonical()
	assert.ErrorIs(t, err, audio.ErrInvalidSampleRate)

	_, err = audio.Clip{Samples: []int16{1, 2, 3}, Rate: audio.SampleRate, Channels: 2}.Canonical()
	assert.ErrorIs(t, err, audio.ErrInvalidChannelData)
}

func TestSilence_Duration(t *testing.T) {
	t.Parallel()

	silence := audio.Silence(500 * time.Millisecond)

	assert.Equal(t, audio.SampleRate/2, len(silence.Samples))
	assert.Equal(t, 500*time.Millisecond, silence.Duration())

	for _, sample := range silence.Samples {
		require.Equal(t, int16(0), sample)
	}
}

func TestClip_Duration(t *testing.T) {
	t.Parallel()

	clip := audio.NewClip(make([]int16, audio.SampleRate))

	assert.Equal(t, time.Second, clip.Duration())
}
