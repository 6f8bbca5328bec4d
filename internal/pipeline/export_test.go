// Package pipeline_test tests artifact export.
package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/core"
	"github.com/book-expert/audiobook-service/internal/pipeline"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  pipeline.Format
	}{
		{"", pipeline.FormatWAV},
		{"wav", pipeline.FormatWAV},
		{"WAV", pipeline.FormatWAV},
		{".wav", pipeline.FormatWAV},
		{"mp3", pipeline.FormatMP3},
		{".MP3", pipeline.FormatMP3},
	}

	for _, testCase := range tests {
		format, err := pipeline.ParseFormat(testCase.input)
		require.NoError(t, err)
		assert.Equal(t, testCase.want, format)
	}
}

func TestParseFormat_Unknown(t *testing.T) {
	t.Parallel()

	_, err := pipeline.ParseFormat("ogg")
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrUnknownFormat)
}

func TestWriteArtifact_WAV(t *testing.T) {
	t.Parallel()

	clip := audio.NewClip(make([]int16, audio.SampleRate))
	outputPath := filepath.Join(t.TempDir(), "out", "artifact.wav")

	err := pipeline.WriteArtifact(context.Background(), clip, outputPath, pipeline.FormatWAV)
	require.NoError(t, err)

	payload, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	decoded, err := audio.DecodeWAV(payload)
	require.NoError(t, err)
	assert.Equal(t, clip.Samples, decoded.Samples)

	// No temporary files left behind.
	entries, err := os.ReadDir(filepath.Dir(outputPath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "artifact.wav", entries[0].Name())
}

func TestWriteArtifact_EmptyClip(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "artifact.wav")

	err := pipeline.WriteArtifact(context.Background(), audio.Clip{}, outputPath, pipeline.FormatWAV)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAssembly)

	_, statErr := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statErr))
}
