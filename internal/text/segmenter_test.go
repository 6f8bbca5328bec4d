// Package text_test tests sentence segmentation.
package text_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/audiobook-service/internal/text"
)

func TestSegment_SplitsAtSentenceBoundaries(t *testing.T) {
	t.Parallel()

	chunks := text.Segment("Hello world. This is a test.", 15)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Hello world.", chunks[0].Text)
	assert.Equal(t, "This is a test.", chunks[1].Text)
}

func TestSegment_ReconstructionPreservesContent(t *testing.T) {
	t.Parallel()

	input := "The fox ran. The dog slept. The bird sang a long song about the morning. The end."
	chunks := text.Segment(input, 30)

	require.NotEmpty(t, chunks)

	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		parts[i] = chunk.Text
	}

	assert.Equal(t, input, strings.Join(parts, " "))
}

func TestSegment_RespectsMaxSize(t *testing.T) {
	t.Parallel()

	input := "One two three. Four five six. Seven eight nine. Ten eleven twelve."

	for _, chunk := range text.Segment(input, 20) {
		assert.LessOrEqual(t, len(chunk.Text), 20)
	}
}

func TestSegment_CountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// 12 + 1 + 9 characters joined, but 27 bytes of UTF-8: byte
	// counting would split this into two chunks.
	input := "Café à côté. Très bon."
	chunks := text.Segment(input, 22)

	require.Len(t, chunks, 1)
	assert.Equal(t, input, chunks[0].Text)
	assert.LessOrEqual(t, utf8.RuneCountInString(chunks[0].Text), 22)
}

func TestSegment_OversizedSentencePassesWhole(t *testing.T) {
	t.Parallel()

	input := "This single sentence is much longer than the configured chunk size limit."
	chunks := text.Segment(input, 10)

	require.Len(t, chunks, 1)
	assert.Equal(t, input, chunks[0].Text)
}

func TestSegment_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, text.Segment("", 100))
	assert.Empty(t, text.Segment("   ", 100))
}

func TestSegment_ZeroMaxSizeUsesDefault(t *testing.T) {
	t.Parallel()

	chunks := text.Segment("Short sentence.", 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Short sentence.", chunks[0].Text)
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "two plain sentences",
			input: "Hello world. This is a test.",
			want:  []string{"Hello world.", "This is a test."},
		},
		{
			name:  "question and exclamation",
			input: "Ready? Go! Now.",
			want:  []string{"Ready?", "Go!", "Now."},
		},
		{
			name:  "consecutive terminators stay together",
			input: "What?! Really.",
			want:  []string{"What?!", "Really."},
		},
		{
			name:  "no terminator",
			input: "no ending punctuation here",
			want:  []string{"no ending punctuation here"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, text.SplitSentences(testCase.input))
		})
	}
}
