package synth

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/book-expert/logger"

	"github.com/book-expert/audiobook-service/internal/audio"
	"github.com/book-expert/audiobook-service/internal/voice"
)

// System voice engine parameter bounds.
const (
	defaultSystemBinary = "espeak-ng"

	// espeak pitch is a 0-99 scale; base frequency maps onto it.
	systemPitchDivisor = 4
	systemPitchMax     = 99

	// espeak speed is words per minute.
	systemSpeedMin       = 80
	systemSpeedMax       = 450
	charsPerWordEstimate = 5
	secondsPerMinute     = 60
)

// SystemBackend delegates synthesis to a locally installed speech engine
// via a subprocess call. It fails when the engine binary is missing, when
// no voice matches the profile's language tag, or when the engine exits
// non-zero; all of these are recoverable backend failures.
type SystemBackend struct {
	binary string
	log    *logger.Logger
}

// NewSystemBackend creates the offline system-voice backend. An empty
// binary selects espeak-ng.
func NewSystemBackend(binary string, log *logger.Logger) *SystemBackend {
	if binary == "" {
		binary = defaultSystemBinary
	}

	return &SystemBackend{binary: binary, log: log}
}

// Name returns the backend's method identifier.
func (b *SystemBackend) Name() string {
	return string(MethodSystem)
}

// Synthesize shells out to the speech engine, directing its WAV output to
// a temp file that is decoded and removed afterwards.
func (b *SystemBackend) Synthesize(
	ctx context.Context,
	chunkText string,
	profile voice.Profile,
) (audio.Clip, error) {
	tempFile, err := os.CreateTemp("", "system-voice-*.wav")
	if err != nil {
		return audio.Clip{}, backendFailure(b.Name(),
			fmt.Errorf("failed to create temp file for engine output: %w", err))
	}

	tempPath := tempFile.Name()
	_ = tempFile.Close()

	defer func() {
		removeErr := os.Remove(tempPath)
		if removeErr != nil && b.log != nil {
			b.log.Warn("Failed to remove temp file '%s': %v", tempPath, removeErr)
		}
	}()

	args := []string{
		"-v", engineVoice(profile),
		"-p", strconv.Itoa(enginePitch(profile)),
		"-s", strconv.Itoa(engineSpeed(profile)),
		"-w", tempPath,
		chunkText,
	}

	// #nosec G204 -- the binary comes from validated configuration and the
	// arguments are derived from registered voice profiles.
	cmd := exec.CommandContext(ctx, b.binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return audio.Clip{}, backendFailure(b.Name(),
			fmt.Errorf("engine execution failed: %w - output: %s", err, string(output)))
	}

	wavData, err := os.ReadFile(tempPath)
	if err != nil {
		return audio.Clip{}, backendFailure(b.Name(),
			fmt.Errorf("failed to read engine output: %w", err))
	}

	clip, err := audio.DecodeWAV(wavData)
	if err != nil {
		return audio.Clip{}, backendFailure(b.Name(),
			fmt.Errorf("failed to decode engine output: %w", err))
	}

	return clip, nil
}

// engineVoice maps a profile onto an espeak voice identifier, e.g.
// "en-gb+m3" for a British male profile.
func engineVoice(profile voice.Profile) string {
	variant := "+m3"
	if profile.Gender == voice.GenderFemale {
		variant = "+f3"
	}

	return strings.ToLower(profile.Language) + variant
}

func enginePitch(profile voice.Profile) int {
	pitch := int(profile.BaseFrequency) / systemPitchDivisor
	if pitch > systemPitchMax {
		pitch = systemPitchMax
	}

	return pitch
}

func engineSpeed(profile voice.Profile) int {
	if profile.Pacing <= 0 {
		return systemSpeedMin
	}

	charsPerMinute := secondsPerMinute / profile.Pacing.Seconds()
	speed := int(charsPerMinute / charsPerWordEstimate)

	if speed < systemSpeedMin {
		speed = systemSpeedMin
	}

	if speed > systemSpeedMax {
		speed = systemSpeedMax
	}

	return speed
}
