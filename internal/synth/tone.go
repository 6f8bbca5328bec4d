package synth

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/voice"
)

// Tone generation constants.
const (
	toneBaseAmplitude   = 0.30
	toneAmplitudeScale  = 16384
	toneSampleLimit     = 32767
	toneWordFade        = 10 * time.Millisecond
	toneMinimumDuration = 200 * time.Millisecond

	// Accent-dependent character: formal British voices modulate less
	// than the more expressive American ones.
	britishModulationDepth  = 0.15
	britishModulationRate   = 1.5
	britishSecondHarmonic   = 0.08
	americanModulationDepth = 0.25
	americanModulationRate  = 2.0
	americanSecondHarmonic  = 0.12
	americanThirdHarmonic   = 0.06
)

// ToneBackend is the reliable tone synthesis backend and the backend of
// last resort. It is fully deterministic and never fails: the waveform's
// fundamental frequency and pacing are derived directly from the voice
// profile, so every registered voice is audibly distinct.
type ToneBackend struct{}

// NewToneBackend creates the reliable tone backend.
func NewToneBackend() *ToneBackend {
	return &ToneBackend{}
}

// Name returns the backend's method identifier.
func (b *ToneBackend) Name() string {
	return string(MethodTone)
}

// Synthesize renders the text as a word-paced waveform in the canonical
// format. Each character contributes the profile's pacing duration; each
// word is shaped by a fade envelope so word boundaries are audible.
func (b *ToneBackend) Synthesize(
	_ context.Context,
	chunkText string,
	profile voice.Profile,
) (audio.Clip, error) {
	words := strings.Fields(chunkText)
	if len(words) == 0 {
		return audio.Silence(toneMinimumDuration), nil
	}

	shape := shapeForProfile(profile)
	samples := make([]int16, 0, totalToneFrames(words, profile.Pacing))
	cursor := 0

	for i, word := range words {
		if i > 0 {
			gap := toneFrames(profile.Pacing)
			samples = append(samples, make([]int16, gap)...)
			cursor += gap
		}

		samples = appendWordTone(samples, word, profile, shape, cursor)
		cursor = len(samples)
	}

	return audio.NewClip(samples), nil
}

// toneShape captures the accent-dependent waveform character.
type toneShape struct {
	modulationDepth float64
	modulationRate  float64
	secondHarmonic  float64
	thirdHarmonic   float64
}

func shapeForProfile(profile voice.Profile) toneShape {
	if strings.HasPrefix(profile.Language, "en-GB") {
		return toneShape{
			modulationDepth: britishModulationDepth,
			modulationRate:  britishModulationRate,
			secondHarmonic:  britishSecondHarmonic,
		}
	}

	return toneShape{
		modulationDepth: americanModulationDepth,
		modulationRate:  americanModulationRate,
		secondHarmonic:  americanSecondHarmonic,
		thirdHarmonic:   americanThirdHarmonic,
	}
}

// appendWordTone renders one word. The fundamental stays exactly at the
// profile's base frequency; harmonics and amplitude modulation add timbre
// without moving the spectral peak.
func appendWordTone(
	samples []int16,
	word string,
	profile voice.Profile,
	shape toneShape,
	startFrame int,
) []int16 {
	// Pacing is per character, not per byte: accented words must not
	// stretch longer than their character count.
	frames := toneFrames(time.Duration(utf8.RuneCountInString(word)) * profile.Pacing)
	fade := toneFrames(toneWordFade)

	if fade*2 > frames {
		fade = frames / 2
	}

	for i := range frames {
		t := float64(startFrame+i) / float64(audio.SampleRate)
		phase := 2 * math.Pi * profile.BaseFrequency * t

		amplitude := toneBaseAmplitude +
			shape.modulationDepth*math.Sin(2*math.Pi*shape.modulationRate*t)

		signal := math.Sin(phase)
		signal += shape.secondHarmonic * math.Sin(2*phase)
		signal += shape.thirdHarmonic * math.Sin(3*phase)

		envelope := 1.0
		if i < fade {
			envelope = float64(i) / float64(fade)
		} else if frames-i <= fade {
			envelope = float64(frames-i) / float64(fade)
		}

		samples = append(samples, clampSample(amplitude*signal*envelope*toneAmplitudeScale))
	}

	return samples
}

func toneFrames(d time.Duration) int {
	return int(d.Seconds() * float64(audio.SampleRate))
}

func totalToneFrames(words []string, pacing time.Duration) int {
	chars := len(words) - 1
	for _, word := range words {
		chars += utf8.RuneCountInString(word)
	}

	return toneFrames(time.Duration(chars) * pacing)
}

func clampSample(v float64) int16 {
	if v > toneSampleLimit {
		return toneSampleLimit
	}

	if v < -toneSampleLimit {
		return -toneSampleLimit
	}

	return int16(v)
}
