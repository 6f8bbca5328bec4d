// Package persona loads listener personas and matches narration
// requests against them with keyword scoring, preference boosts and
// exclusion filtering.
package persona

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultTopK is the number of matches returned when the caller does
// not ask for a specific count.
const DefaultTopK = 5

// Scoring weights. Interest overlap moves the score more than value
// overlap; location and age agreement give small boosts.
const (
	interestBase   = 0.7
	interestWeight = 0.3
	valueBase      = 0.8
	valueWeight    = 0.2
	locationBoost  = 1.1
	ageBoost       = 1.05
	maxScore       = 1.0
)

// Static errors.
var (
	ErrNoPersonas = errors.New("persona file contains no personas")
	ErrEmptyQuery = errors.New("search query is empty")
)

// Preferences narrows a persona's tastes.
type Preferences struct {
	CommunicationStyle string   `json:"communication_style"`
	MeetingPreference  string   `json:"meeting_preference"`
	InterestsInOthers  []string `json:"interests_in_others"`
}

// Persona describes one listener profile.
type Persona struct {
	Name        string      `json:"name"`
	Age         int         `json:"age"`
	Location    string      `json:"location"`
	Occupation  string      `json:"occupation"`
	Interests   []string    `json:"interests"`
	Values      []string    `json:"values"`
	Personality []string    `json:"personality"`
	Hobbies     []string    `json:"hobbies"`
	Goals       []string    `json:"goals"`
	Preferences Preferences `json:"preferences"`
}

// Query carries the search text plus optional narrowing criteria.
type Query struct {
	Text       string
	Interests  []string
	Values     []string
	Location   string
	MinAge     int
	MaxAge     int
	Exclusions []string
	TopK       int
}

// Match is one ranked search result.
type Match struct {
	Persona      Persona
	Score        float64
	Insights     []string
	ActionPoints []string
}

// Load reads personas from a JSON file.
func Load(path string) ([]Persona, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the operator.
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	var personas []Persona

	err = json.Unmarshal(data, &personas)
	if err != nil {
		return nil, fmt.Errorf("failed to parse persona file: %w", err)
	}

	if len(personas) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPersonas)
	}

	return personas, nil
}

// Searcher ranks personas against natural language queries.
type Searcher struct {
	personas []Persona
}

// NewSearcher builds a searcher over a loaded persona set.
func NewSearcher(personas []Persona) *Searcher {
	return &Searcher{personas: personas}
}

// Search ranks personas by keyword overlap with the query, applies
// preference boosts and exclusion filtering, and returns the top
// matches in descending score order.
func (s *Searcher) Search(query Query) ([]Match, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, ErrEmptyQuery
	}

	topK := query.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	enhanced := strings.ToLower(enhanceQuery(query))
	words := strings.Fields(enhanced)

	matches := make([]Match, 0, len(s.personas))

	for _, candidate := range s.personas {
		representation := strings.ToLower(representation(candidate))

		if excluded(representation, query.Exclusions) {
			continue
		}

		hits := 0

		for _, word := range words {
			if strings.Contains(representation, word) {
				hits++
			}
		}

		similarity := float64(hits) / float64(max(len(words), 1))
		score := compatibility(candidate, query, similarity)

		matches = append(matches, Match{
			Persona:      candidate,
			Score:        score,
			Insights:     insights(candidate, query),
			ActionPoints: actionPoints(candidate),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// representation flattens a persona into one searchable string.
func representation(p Persona) string {
	parts := []string{
		"Name: " + p.Name,
		fmt.Sprintf("Age: %d", p.Age),
		"Location: " + p.Location,
		"Occupation: " + p.Occupation,
		"Interests: " + strings.Join(p.Interests, ", "),
		"Values: " + strings.Join(p.Values, ", "),
		"Personality: " + strings.Join(p.Personality, ", "),
		"Hobbies: " + strings.Join(p.Hobbies, ", "),
		"Goals: " + strings.Join(p.Goals, ", "),
		"Communication style: " + p.Preferences.CommunicationStyle,
		"Meeting preference: " + p.Preferences.MeetingPreference,
		"Interests in others: " + strings.Join(p.Preferences.InterestsInOthers, ", "),
	}

	return strings.Join(parts, " | ")
}

func enhanceQuery(query Query) string {
	parts := []string{query.Text}

	if len(query.Interests) > 0 {
		parts = append(parts, "Interests: "+strings.Join(query.Interests, ", "))
	}

	if len(query.Values) > 0 {
		parts = append(parts, "Values: "+strings.Join(query.Values, ", "))
	}

	if query.Location != "" {
		parts = append(parts, "Location preference: "+query.Location)
	}

	return strings.Join(parts, " | ")
}

func excluded(representation string, exclusions []string) bool {
	for _, exclusion := range exclusions {
		trimmed := strings.TrimSpace(strings.ToLower(exclusion))
		if trimmed != "" && strings.Contains(representation, trimmed) {
			return true
		}
	}

	return false
}

func compatibility(candidate Persona, query Query, similarity float64) float64 {
	score := similarity

	if len(query.Interests) > 0 {
		overlap := overlapRatio(query.Interests, candidate.Interests)
		score *= interestBase + interestWeight*overlap
	}

	if len(query.Values) > 0 {
		overlap := overlapRatio(query.Values, candidate.Values)
		score *= valueBase + valueWeight*overlap
	}

	if query.Location != "" && candidate.Location != "" {
		if strings.Contains(strings.ToLower(candidate.Location), strings.ToLower(query.Location)) {
			score *= locationBoost
		}
	}

	if query.MaxAge > 0 && candidate.Age >= query.MinAge && candidate.Age <= query.MaxAge {
		score *= ageBoost
	}

	return min(score, maxScore)
}

// overlapRatio counts how many wanted entries appear as substrings of
// any candidate entry.
func overlapRatio(wanted, have []string) float64 {
	if len(wanted) == 0 {
		return 0
	}

	hits := 0

	for _, w := range wanted {
		lower := strings.ToLower(w)

		for _, h := range have {
			if strings.Contains(strings.ToLower(h), lower) {
				hits++

				break
			}
		}
	}

	return float64(hits) / float64(len(wanted))
}

func insights(candidate Persona, query Query) []string {
	out := make([]string, 0, 4)

	common := make([]string, 0, len(query.Interests))

	for _, w := range query.Interests {
		lower := strings.ToLower(w)

		for _, h := range candidate.Interests {
			if strings.Contains(strings.ToLower(h), lower) {
				common = append(common, w)

				break
			}
		}
	}

	if len(common) > 0 {
		out = append(out, "Shared interests: "+strings.Join(common, ", "))
	}

	out = append(out, "Communication style: "+candidate.Preferences.CommunicationStyle)
	out = append(out, "Prefers to meet: "+candidate.Preferences.MeetingPreference)

	traits := candidate.Personality
	if len(traits) > 3 {
		traits = traits[:3]
	}

	if len(traits) > 0 {
		out = append(out, "Key traits: "+strings.Join(traits, ", "))
	}

	return out
}

func actionPoints(candidate Persona) []string {
	out := make([]string, 0, 4)
	out = append(out, "Meet at: "+candidate.Preferences.MeetingPreference)

	if len(candidate.Hobbies) > 0 {
		out = append(out, "Ask about: "+candidate.Hobbies[0])
	}

	if len(candidate.Goals) > 0 {
		out = append(out, "Discuss goals: "+candidate.Goals[0])
	}

	out = append(out, "Use "+candidate.Preferences.CommunicationStyle+" communication")

	return out
}
