// Package storybook paginates narration text into short pages suited
// for illustrated reading alongside the audio.
package storybook

import (
	"strings"

	"github.com/book-expert/audiobook-service/internal/text"
)

// Pagination limits.
const (
	// maxSentencesPerPage closes a page unconditionally.
	maxSentencesPerPage = 4

	// hardLengthLimit closes a page once two or more sentences exceed it.
	hardLengthLimit = 300

	// softLengthLimit closes a page of three or more sentences when the
	// last sentence reads like a natural break.
	softLengthLimit = 200

	// DefaultLineWidth is the character width used by WrapLines when
	// the caller passes a non-positive width.
	DefaultLineWidth = 80
)

// breakWords mark sentences that read like natural paragraph breaks.
var breakWords = []string{
	"but", "however", "then", "so", "and", "or", "finally", "suddenly",
}

// Page is one storybook page.
type Page struct {
	Number int
	Text   string
}

// SplitPages groups sentences into pages of three to four sentences,
// closing a page early when it grows long or ends on a natural break.
func SplitPages(input string) []Page {
	cleaned := text.NewCleaner().Clean(input)
	sentences := text.SplitSentences(cleaned)

	pages := make([]Page, 0, len(sentences)/2+1)

	var (
		current []string
		length  int
	)

	flush := func() {
		if len(current) == 0 {
			return
		}

		pages = append(pages, Page{
			Number: len(pages) + 1,
			Text:   strings.Join(current, " "),
		})
		current = nil
		length = 0
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		current = append(current, sentence)
		length += len(sentence)

		switch {
		case len(current) >= maxSentencesPerPage:
			flush()
		case length > hardLengthLimit && len(current) >= 2:
			flush()
		case length > softLengthLimit && len(current) >= 3 && naturalBreak(sentence):
			flush()
		}
	}

	flush()

	return pages
}

func naturalBreak(sentence string) bool {
	lower := strings.ToLower(sentence)

	for _, word := range breakWords {
		if strings.Contains(lower, word) {
			return true
		}
	}

	return false
}

// WrapLines greedily wraps words into lines no wider than width.
func WrapLines(input string, width int) string {
	if width <= 0 {
		width = DefaultLineWidth
	}

	words := strings.Fields(input)
	lines := make([]string, 0, len(words)/8+1)

	var current string

	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}

	if current != "" {
		lines = append(lines, current)
	}

	return strings.Join(lines, "\n")
}
