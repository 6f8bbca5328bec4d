// Package storybook_test tests story pagination and line wrapping.
package storybook_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/audiobook-service/internal/storybook"
	"github.com/book-expert/audiobook-service/internal/text"
)

func TestSplitPages_GroupsSentences(t *testing.T) {
	t.Parallel()

	story := "The rabbit woke up. It was hungry. It hopped to the garden. " +
		"Carrots grew there. The rabbit ate one. It was delicious. " +
		"Then it went home. The sun set."

	pages := storybook.SplitPages(story)

	require.Len(t, pages, 2)

	for i, page := range pages {
		assert.Equal(t, i+1, page.Number)
		assert.LessOrEqual(t, len(text.SplitSentences(page.Text)), 4)
		assert.NotEmpty(t, page.Text)
	}
}

func TestSplitPages_PreservesAllSentences(t *testing.T) {
	t.Parallel()

	story := "One. Two. Three. Four. Five. Six. Seven."

	pages := storybook.SplitPages(story)
	require.NotEmpty(t, pages)

	var joined []string
	for _, page := range pages {
		joined = append(joined, page.Text)
	}

	assert.Equal(t, story, strings.Join(joined, " "))
}

func TestSplitPages_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, storybook.SplitPages(""))
}

func TestWrapLines_RespectsWidth(t *testing.T) {
	t.Parallel()

	input := "the quick brown fox jumps over the lazy dog again and again"

	wrapped := storybook.WrapLines(input, 20)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}

	assert.Equal(t, strings.Fields(input), strings.Fields(wrapped))
}

func TestWrapLines_LongWordGetsOwnLine(t *testing.T) {
	t.Parallel()

	wrapped := storybook.WrapLines("short supercalifragilisticexpialidocious short", 10)
	lines := strings.Split(wrapped, "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "supercalifragilisticexpialidocious", lines[1])
}
