package summarize

import (
	"strings"
	"testing"
)

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"under limit", "one two three", 5, "one two three"},
		{"at limit", "one two three", 3, "one two three"},
		{"over limit", "one two three four", 3, "one two three"},
		{"zero disables", "one two three", 0, "one two three"},
		{"negative disables", "one two three", -1, "one two three"},
		{"collapses whitespace when cutting", "one\t two\n  three four", 3, "one two three"},
		{"empty input", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWords(tt.text, tt.limit); got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncateWordsLongTranscript(t *testing.T) {
	transcript := strings.Repeat("word ", 1000)
	got := TruncateWords(transcript, 400)
	if WordCount(got) != 400 {
		t.Errorf("truncated transcript has %d words, want 400", WordCount(got))
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("  a  b\tc\n"); n != 3 {
		t.Errorf("WordCount = %d, want 3", n)
	}
	if n := WordCount(""); n != 0 {
		t.Errorf("WordCount of empty string = %d, want 0", n)
	}
}
