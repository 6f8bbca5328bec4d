package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// WAV container constants.
const (
	riffHeaderSize = 44
	fmtChunkSize   = 16
	pcmAudioFormat = 1
)

// Static errors.
var (
	ErrNotWAV            = errors.New("data is not a RIFF/WAVE stream")
	ErrUnsupportedFormat = errors.New("unsupported WAV encoding")
	ErrTruncatedWAV      = errors.New("truncated WAV data")
)

// EncodeWAV serializes a clip into a PCM WAV container.
func EncodeWAV(clip Clip) []byte {
	dataSize := len(clip.Samples) * BytesPerSample
	byteRate := clip.Rate * clip.Channels * BytesPerSample
	blockAlign := clip.Channels * BytesPerSample

	buf := bytes.NewBuffer(make([]byte, 0, riffHeaderSize+dataSize))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(riffHeaderSize-8+dataSize)) //nolint:errcheck
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))      //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(pcmAudioFormat))    //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(clip.Channels))     //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint32(clip.Rate))         //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))          //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))        //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(BitDepth))          //nolint:errcheck

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize)) //nolint:errcheck

	for _, sample := range clip.Samples {
		binary.Write(buf, binary.LittleEndian, sample) //nolint:errcheck
	}

	return buf.Bytes()
}

// DecodeWAV parses a PCM WAV container into a clip. Only 16-bit PCM is
// supported; that is the only encoding the backends in this repository
// produce or request.
func DecodeWAV(data []byte) (Clip, error) {
	const minHeader = 12

	if len(data) < minHeader || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, ErrNotWAV
	}

	var (
		clip     Clip
		haveFmt  bool
		haveData bool
	)

	offset := minHeader

	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if body+chunkSize > len(data) {
			return Clip{}, ErrTruncatedWAV
		}

		switch chunkID {
		case "fmt ":
			parsed, err := parseFmtChunk(data[body : body+chunkSize])
			if err != nil {
				return Clip{}, err
			}

			clip.Rate = parsed.Rate
			clip.Channels = parsed.Channels
			haveFmt = true
		case "data":
			clip.Samples = parseSamples(data[body : body+chunkSize])
			haveData = true
		}

		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}

	if !haveFmt || !haveData {
		return Clip{}, ErrTruncatedWAV
	}

	return clip, nil
}

type wavFormat struct {
	Rate     int
	Channels int
}

func parseFmtChunk(body []byte) (wavFormat, error) {
	if len(body) < fmtChunkSize {
		return wavFormat{}, ErrTruncatedWAV
	}

	audioFormat := binary.LittleEndian.Uint16(body[0:2])
	channels := binary.LittleEndian.Uint16(body[2:4])
	rate := binary.LittleEndian.Uint32(body[4:8])
	bits := binary.LittleEndian.Uint16(body[14:16])

	if audioFormat != pcmAudioFormat || bits != BitDepth {
		return wavFormat{}, fmt.Errorf(
			"%w: format %d, %d bits",
			ErrUnsupportedFormat, audioFormat, bits,
		)
	}

	return wavFormat{Rate: int(rate), Channels: int(channels)}, nil
}

func parseSamples(body []byte) []int16 {
	samples := make([]int16, len(body)/BytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(body[i*2 : i*2+2]))
	}

	return samples
}
