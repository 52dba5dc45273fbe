package domain

import (
	"regexp"
	"strings"
)

// EmptyBlank is rendered for a blank with no word in it.
const EmptyBlank = "__________"

// blankMarker matches a blank in a prompt: ten or more underscores.
var blankMarker = regexp.MustCompile(`_{10,}`)

// CountBlanks returns the number of blank markers in prompt.
func CountBlanks(prompt string) int {
	return len(blankMarker.FindAllStringIndex(prompt, -1))
}

// SplitPrompt returns the text around the blanks; len(result) == CountBlanks(prompt)+1.
func SplitPrompt(prompt string) []string {
	return blankMarker.Split(prompt, -1)
}

// FillPrompt substitutes words into the blanks in order. Blanks without a
// word (missing or empty string) render as EmptyBlank.
func FillPrompt(prompt string, words []string) string {
	parts := SplitPrompt(prompt)
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i == len(parts)-1 {
			break
		}
		if i < len(words) && words[i] != "" {
			b.WriteString(words[i])
		} else {
			b.WriteString(EmptyBlank)
		}
	}
	return b.String()
}
