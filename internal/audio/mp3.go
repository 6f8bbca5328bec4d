package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// mp3Channels is the channel count go-mp3 always decodes to.
const mp3Channels = 2

// DecodeMP3 decodes an MPEG audio stream into a clip at the stream's native
// sample rate. The cloud backend receives compressed payloads on some
// service configurations; the assembler normalizes the result afterwards.
func DecodeMP3(data []byte) (Clip, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Clip{}, fmt.Errorf("failed to decode mp3 stream: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to read decoded mp3 samples: %w", err)
	}

	samples := make([]int16, len(raw)/BytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}

	return Clip{
		Samples:  samples,
		Rate:     decoder.SampleRate(),
		Channels: mp3Channels,
	}, nil
}
