package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/core"
)

// Format identifies a supported output container.
type Format string

// Supported output formats.
const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
)

// MP3 encoding settings.
const (
	mp3Bitrate = "128k"
	mp3Encoder = "ffmpeg"
)

// Static errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrEmptyArtifact = errors.New("no audio data to write")
)

// ParseFormat resolves a format name, defaulting to WAV when empty. The
// name may carry a leading dot so file extensions parse directly.
func ParseFormat(name string) (Format, error) {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))

	switch normalized {
	case "", string(FormatWAV):
		return FormatWAV, nil
	case string(FormatMP3):
		return FormatMP3, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// WriteArtifact encodes the clip and writes it to outputPath atomically:
// the payload lands in a temporary file in the destination directory and
// is renamed into place, so readers never observe a partial artifact.
func WriteArtifact(ctx context.Context, clip audio.Clip, outputPath string, format Format) error {
	if clip.Frames() == 0 {
		return fmt.Errorf("%w: %w", core.ErrAssembly, ErrEmptyArtifact)
	}

	payload := audio.EncodeWAV(clip)

	if format == FormatMP3 {
		encoded, err := encodeMP3(ctx, payload)
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrAssembly, err)
		}

		payload = encoded
	}

	err := writeAtomic(outputPath, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrAssembly, err)
	}

	return nil
}

func writeAtomic(outputPath string, payload []byte) error {
	dir := filepath.Dir(outputPath)

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tmpPath := tmp.Name()

	_, err = tmp.Write(payload)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	err = os.Rename(tmpPath, outputPath)
	if err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	return nil
}

// encodeMP3 shells out to ffmpeg, feeding the WAV payload on stdin and
// reading the MP3 stream from stdout.
func encodeMP3(ctx context.Context, wavPayload []byte) ([]byte, error) {
	args := []string{
		"-f", "wav",
		"-i", "pipe:0",
		"-codec:a", "libmp3lame",
		"-b:a", mp3Bitrate,
		"-ar", strconv.Itoa(audio.SampleRate),
		"-ac", strconv.Itoa(audio.Channels),
		"-f", "mp3",
		"pipe:1",
	}

	// #nosec G204 - encoder binary and arguments are fixed constants.
	cmd := exec.CommandContext(ctx, mp3Encoder, args...)
	cmd.Stdin = bytes.NewReader(wavPayload)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return nil, fmt.Errorf("mp3 encoding failed: %w: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
