package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChunkSize is the default maximum chunk length in characters.
const DefaultMaxChunkSize = 500

// Chunk is an ordered, contiguous segment of the cleaned document text,
// processed as one synthesis unit.
type Chunk struct {
	Index int
	Text  string
}

// Segment splits cleaned text into bounded-size chunks on sentence
// boundaries. Sentences accumulate into the current chunk until adding the
// next one would exceed maxSize, at which point the chunk is closed and a
// new one started. A single sentence longer than maxSize is emitted whole
// as its own oversized chunk: truncation would lose content. Empty input
// yields no chunks, and no chunk is ever empty.
func Segment(text string, maxSize int) []Chunk {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var (
		chunks       []Chunk
		current      strings.Builder
		currentRunes int
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}

		chunks = append(chunks, Chunk{Index: len(chunks), Text: current.String()})
		current.Reset()

		currentRunes = 0
	}

	// The size bound is in characters, not bytes, so multi-byte text
	// fills chunks to the same configured length as ASCII.
	for _, sentence := range sentences {
		sentenceRunes := utf8.RuneCountInString(sentence)

		// +1 accounts for the joining space.
		if currentRunes > 0 && currentRunes+1+sentenceRunes > maxSize {
			flush()
		}

		if currentRunes > 0 {
			current.WriteByte(' ')

			currentRunes++
		}

		current.WriteString(sentence)

		currentRunes += sentenceRunes
	}

	flush()

	return chunks
}

// SplitSentences splits text on sentence-terminating punctuation followed
// by whitespace or end of input. The terminator stays attached to its
// sentence. Whitespace-only input yields nil.
func SplitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)

	runes := []rune(text)

	emit := func(end int) {
		sentence := strings.TrimSpace(string(runes[start:end]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}

		start = end
	}

	for i, r := range runes {
		if !isSentenceTerminator(r) {
			continue
		}

		// Consecutive terminators ("..." or "?!") belong to one sentence.
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}

		emit(i + 1)
	}

	emit(len(runes))

	return sentences
}

func isSentenceTerminator(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	default:
		return false
	}
}
