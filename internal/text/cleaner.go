// Package text provides the text preparation stages of the audiobook
// pipeline: cleaning extracted document text and segmenting it into
// bounded-size chunks on sentence boundaries.
package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Regex patterns for cleaning extracted text.
const (
	whitespaceRegexPattern    = `\s+`
	spaceBeforePunctPattern   = `\s+([.,!?;:])`
	spaceAfterPunctPattern    = `([.,!?;:])\s*(\p{Lu})`
	disallowedRunesPattern    = `[^\p{L}\p{N}\s.,!?;:()'"-]`
)

// Punctuation normalization constants.
const (
	emDash       = "—"
	enDash       = "–"
	figureDash   = "‒"
	ellipsis     = "..."
	ellipsisChar = "…"
)

// Cleaner normalizes extracted document text for speech synthesis.
// Regexes and replacers are compiled once up front and reused.
type Cleaner struct {
	whitespacePattern       *regexp.Regexp
	spaceBeforePunctPattern *regexp.Regexp
	spaceAfterPunctPattern  *regexp.Regexp
	disallowedRunesPattern  *regexp.Regexp
	abbreviationReplacer    *strings.Replacer
	punctuationReplacer     *strings.Replacer
}

// NewCleaner creates a cleaner with compiled patterns and replacers.
func NewCleaner() *Cleaner {
	abbreviations := []string{
		"Mr.", "Mister",
		"Mrs.", "Misses",
		"Ms.", "Miss",
		"Dr.", "Doctor",
		"St.", "Saint",
		"Co.", "Company",
		"Ltd.", "Limited",
		"Corp.", "Corporation",
		"Inc.", "Incorporated",
	}

	punctuation := []string{
		emDash, "-",
		enDash, "-",
		figureDash, "-",
		ellipsisChar, ellipsis,
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	}

	return &Cleaner{
		whitespacePattern:       regexp.MustCompile(whitespaceRegexPattern),
		spaceBeforePunctPattern: regexp.MustCompile(spaceBeforePunctPattern),
		spaceAfterPunctPattern:  regexp.MustCompile(spaceAfterPunctPattern),
		disallowedRunesPattern:  regexp.MustCompile(disallowedRunesPattern),
		abbreviationReplacer:    strings.NewReplacer(abbreviations...),
		punctuationReplacer:     strings.NewReplacer(punctuation...),
	}
}

// Clean normalizes text extracted from a document so that it reads well
// when synthesized: abbreviations are expanded, whitespace is collapsed,
// punctuation spacing is fixed, and characters that disturb synthesis are
// removed. Empty input is returned unchanged.
func (c *Cleaner) Clean(text string) string {
	if text == "" {
		return text
	}

	cleaned := c.abbreviationReplacer.Replace(text)
	cleaned = c.punctuationReplacer.Replace(cleaned)
	cleaned = c.disallowedRunesPattern.ReplaceAllString(cleaned, "")
	cleaned = c.whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = c.spaceBeforePunctPattern.ReplaceAllString(cleaned, "$1")
	cleaned = c.spaceAfterPunctPattern.ReplaceAllString(cleaned, "$1 $2")

	return ensureSentenceEnding(strings.TrimSpace(cleaned))
}

// ensureSentenceEnding appends a period when the text does not already end
// with terminal punctuation. Synthesis backends pace their output on
// sentence boundaries, so a trailing fragment still needs one.
func ensureSentenceEnding(text string) string {
	if text == "" {
		return ""
	}

	lastRune, _ := utf8.DecodeLastRuneInString(text)
	if !unicode.IsPunct(lastRune) {
		return text + "."
	}

	switch lastRune {
	case '.', '!', '?':
		return text
	default:
		return text + "."
	}
}
