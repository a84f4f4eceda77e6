package summarize

import "strings"

// TruncateWords limits text to at most limit whitespace-separated words.
// A limit of zero or less disables truncation. The cut is silent; callers
// that need the original length must measure before truncating.
func TruncateWords(text string, limit int) string {
	if limit <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.TrimSpace(text)
	}

	return strings.Join(words[:limit], " ")
}

// WordCount returns the number of whitespace-separated words in text
func WordCount(text string) int {
	return len(strings.Fields(text))
}
