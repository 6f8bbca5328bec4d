// main package for the persona-search command line tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/book-expert/audiobook-service/internal/persona"
)

// Flag descriptions.
const (
	flagPersonasDesc   = "Path to the personas JSON file"
	flagQueryDesc      = "Natural language search query"
	flagInterestsDesc  = "Comma-separated interests to match"
	flagValuesDesc     = "Comma-separated values to match"
	flagLocationDesc   = "Preferred location"
	flagMinAgeDesc     = "Minimum age"
	flagMaxAgeDesc     = "Maximum age"
	flagExclusionsDesc = "Comma-separated terms to exclude"
	flagTopDesc        = "Number of matches to show"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	var (
		personasPath = flag.String("personas", "data/sample_personas.json", flagPersonasDesc)
		queryText    = flag.String("query", "", flagQueryDesc)
		interests    = flag.String("interests", "", flagInterestsDesc)
		values       = flag.String("values", "", flagValuesDesc)
		location     = flag.String("location", "", flagLocationDesc)
		minAge       = flag.Int("min-age", 0, flagMinAgeDesc)
		maxAge       = flag.Int("max-age", 0, flagMaxAgeDesc)
		exclusions   = flag.String("exclude", "", flagExclusionsDesc)
		topK         = flag.Int("top", persona.DefaultTopK, flagTopDesc)
	)

	flag.Parse()

	personas, err := persona.Load(*personasPath)
	if err != nil {
		return err
	}

	searcher := persona.NewSearcher(personas)

	matches, err := searcher.Search(persona.Query{
		Text:       *queryText,
		Interests:  splitList(*interests),
		Values:     splitList(*values),
		Location:   *location,
		MinAge:     *minAge,
		MaxAge:     *maxAge,
		Exclusions: splitList(*exclusions),
		TopK:       *topK,
	})
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Println("No matches found.")

		return nil
	}

	for rank, match := range matches {
		fmt.Printf("#%d %s (%d) - %.0f%% match\n",
			rank+1, match.Persona.Name, match.Persona.Age, match.Score*100)
		fmt.Printf("   %s, %s\n", match.Persona.Occupation, match.Persona.Location)

		for _, insight := range match.Insights {
			fmt.Printf("   * %s\n", insight)
		}

		for _, action := range match.ActionPoints {
			fmt.Printf("   > %s\n", action)
		}

		fmt.Println()
	}

	return nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
