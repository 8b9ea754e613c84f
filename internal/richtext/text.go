package richtext

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const lastGoodBreakRatio = 0.8

// AsText joins the text of every block with separator.
func AsText(blocks RichText, separator string) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Text == "" {
			continue
		}
		parts = append(parts, block.Text)
	}
	return strings.Join(parts, separator)
}

// Excerpt returns at most maxChars runes of plain text, cut at a word boundary.
func Excerpt(blocks RichText, maxChars int) string {
	if maxChars < 1 {
		return ""
	}

	clean := strings.Join(strings.Fields(AsText(blocks, " ")), " ")
	if clean == "" {
		return ""
	}

	if utf8.RuneCountInString(clean) <= maxChars {
		return clean
	}

	return truncateRunes(clean, maxChars)
}

func truncateRunes(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	truncateAt := maxChars
	minBreak := int(float64(maxChars) * lastGoodBreakRatio)
	for idx := maxChars - 1; idx >= minBreak; idx-- {
		if unicode.IsSpace(runes[idx]) {
			truncateAt = idx
			break
		}
	}

	truncated := strings.TrimSpace(string(runes[:truncateAt]))
	if truncated == "" {
		truncated = strings.TrimSpace(string(runes[:maxChars]))
	}

	return truncated + "..."
}
