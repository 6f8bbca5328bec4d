// Package voice defines the named voice profiles available for synthesis
// and the read-only registry they are looked up through.
package voice

import (
	"fmt"
	"sort"
	"time"

	"github.com/book-expert/audiobook-service/internal/core"
)

// Gender tags carried by a profile. These are logical style tags consumed
// by the synthesis backends, not claims about the underlying engine voice.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Built-in voice names.
const (
	BritishMale    = "British Male"
	BritishFemale  = "British Female"
	AmericanMale   = "American Male"
	AmericanFemale = "American Female"
)

// Profile is a named bundle of acoustic and pacing parameters identifying
// a synthetic voice. Profiles are immutable once registered.
type Profile struct {
	// Name is the registry key, e.g. "British Male".
	Name string
	// Language is the BCP 47 language/accent tag, e.g. "en-GB".
	Language string
	// Gender is the logical gender/style tag.
	Gender string
	// BaseFrequency is the fundamental pitch in Hz used by the tone
	// backends and mapped onto pitch parameters for engine backends.
	BaseFrequency float64
	// Pacing is the per-character speech duration.
	Pacing time.Duration
}

// Registry is a static, read-only lookup from voice name to profile.
// It is populated once at construction; extensibility is by adding new
// named entries here, never by mutation during a run.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry returns the registry of built-in voice profiles.
func NewRegistry() *Registry {
	profiles := []Profile{
		{
			Name:          BritishMale,
			Language:      "en-GB",
			Gender:        GenderMale,
			BaseFrequency: 120,
			Pacing:        200 * time.Millisecond,
		},
		{
			Name:          BritishFemale,
			Language:      "en-GB",
			Gender:        GenderFemale,
			BaseFrequency: 280,
			Pacing:        180 * time.Millisecond,
		},
		{
			Name:          AmericanMale,
			Language:      "en-US",
			Gender:        GenderMale,
			BaseFrequency: 140,
			Pacing:        160 * time.Millisecond,
		},
		{
			Name:          AmericanFemale,
			Language:      "en-US",
			Gender:        GenderFemale,
			BaseFrequency: 320,
			Pacing:        140 * time.Millisecond,
		},
	}

	byName := make(map[string]Profile, len(profiles))
	for _, profile := range profiles {
		byName[profile.Name] = profile
	}

	return &Registry{profiles: byName}
}

// Lookup resolves a voice name to its profile. An unknown name is a
// configuration error, surfaced before any synthesis work begins.
func (r *Registry) Lookup(name string) (Profile, error) {
	profile, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", core.ErrUnknownVoice, name)
	}

	return profile, nil
}

// Names returns the registered voice names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
