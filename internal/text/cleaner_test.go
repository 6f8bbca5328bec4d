// Package text_test tests text cleaning.
package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/book-expert/audiobook-service/internal/text"
)

func TestCleaner_Clean(t *testing.T) {
	t.Parallel()

	cleaner := text.NewCleaner()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses whitespace",
			input: "hello   world\n\tagain",
			want:  "hello world again.",
		},
		{
			name:  "expands abbreviations",
			input: "Dr. Smith met Mr. Jones.",
			want:  "Doctor Smith met Mister Jones.",
		},
		{
			name:  "normalizes smart quotes and dashes",
			input: "“Wait” — she said… now",
			want:  `"Wait" - she said... now.`,
		},
		{
			name:  "removes space before punctuation",
			input: "hello , world .",
			want:  "hello, world.",
		},
		{
			name:  "appends missing sentence terminator",
			input: "an unfinished thought",
			want:  "an unfinished thought.",
		},
		{
			name:  "keeps existing terminator",
			input: "all done!",
			want:  "all done!",
		},
		{
			name:  "strips disallowed characters",
			input: "price is 100$ #today",
			want:  "price is 100 today.",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, cleaner.Clean(testCase.input))
		})
	}
}
