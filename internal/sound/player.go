// Package sound plays assembled audio through the default output
// device via portaudio.
package sound

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/book-expert/audiobook-service/internal/audio"
)

// framesPerBuffer is the portaudio block size.
const framesPerBuffer = 1024

// ErrNoAudio indicates an attempt to play an empty clip.
var ErrNoAudio = errors.New("no audio to play")

// Player writes PCM clips to the default output stream. It owns the
// portaudio lifecycle for the duration of one Play call, so callers do
// not have to manage Initialize and Terminate themselves.
type Player struct{}

// NewPlayer builds a player.
func NewPlayer() *Player {
	return &Player{}
}

// Play renders the clip through the default output device, blocking
// until playback finishes or the context is cancelled.
func (p *Player) Play(ctx context.Context, clip audio.Clip) error {
	if clip.Frames() == 0 {
		return ErrNoAudio
	}

	err := portaudio.Initialize()
	if err != nil {
		return fmt.Errorf("failed to initialize audio output: %w", err)
	}

	defer func() { _ = portaudio.Terminate() }()

	buffer := make([]int16, framesPerBuffer*clip.Channels)

	stream, err := portaudio.OpenDefaultStream(
		0,
		clip.Channels,
		float64(clip.Rate),
		framesPerBuffer,
		buffer,
	)
	if err != nil {
		return fmt.Errorf("failed to open audio output stream: %w", err)
	}

	defer func() { _ = stream.Close() }()

	err = stream.Start()
	if err != nil {
		return fmt.Errorf("failed to start audio output stream: %w", err)
	}

	defer func() { _ = stream.Stop() }()

	samples := clip.Samples

	for offset := 0; offset < len(samples); offset += len(buffer) {
		err = ctx.Err()
		if err != nil {
			return fmt.Errorf("playback cancelled: %w", err)
		}

		block := samples[offset:min(offset+len(buffer), len(samples))]
		copy(buffer, block)

		// Zero-fill the tail of the final block.
		for i := len(block); i < len(buffer); i++ {
			buffer[i] = 0
		}

		err = stream.Write()
		if err != nil {
			return fmt.Errorf("failed to write audio output: %w", err)
		}
	}

	return nil
}
