package mindmap

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const validOutput = `{
  "central": {"label": "🧠 Habits", "narration": "How small habits compound over time."},
  "branches": [
    {
      "label": "📘 Cues",
      "narration": "Triggers that start a habit loop.",
      "points": [
        {"label": "💡 Environment", "narration": "Surroundings prompt behavior."}
      ]
    },
    {
      "label": "🔁 Repetition",
      "narration": "Consistency beats intensity.",
      "points": [
        {"label": "💡 Small steps", "narration": "Tiny actions are easy to repeat."}
      ]
    }
  ]
}`

type stubCompleter struct {
	output string
	err    error
	prompt string
	model  string
}

func (s *stubCompleter) Complete(_ context.Context, prompt, modelName string) (string, error) {
	s.prompt = prompt
	s.model = modelName
	return s.output, s.err
}

func TestParseCleanOutput(t *testing.T) {
	mindMap, err := Parse(validOutput)
	if err != nil {
		t.Fatal(err)
	}
	if mindMap.Central.Label != "🧠 Habits" {
		t.Errorf("central label = %q", mindMap.Central.Label)
	}
	if len(mindMap.Branches) != 2 {
		t.Fatalf("branch count = %d, want 2", len(mindMap.Branches))
	}
	if len(mindMap.Branches[0].Points) != 1 {
		t.Errorf("first branch points = %d, want 1", len(mindMap.Branches[0].Points))
	}
}

func TestParseChattyOutput(t *testing.T) {
	raw := "Sure! Here is your mind map:\n```json\n" + validOutput + "\n```\nLet me know if you need changes."
	mindMap, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if mindMap.Central.Narration == "" {
		t.Error("central narration lost while stripping the surrounding prose")
	}
}

func TestParseRejectsMissingCentral(t *testing.T) {
	raw := `{"central": {}, "branches": [{"label": "A", "narration": "x"}]}`
	if _, err := Parse(raw); err == nil || !strings.Contains(err.Error(), "$.central.label") {
		t.Errorf("error = %v, want a missing central label error", err)
	}
}

func TestParseRejectsEmptyBranches(t *testing.T) {
	raw := `{"central": {"label": "🧠 T", "narration": "n"}, "branches": []}`
	if _, err := Parse(raw); err == nil {
		t.Error("expected an error for a mind map without branches")
	}
}

func TestParseRejectsNonJSON(t *testing.T) {
	if _, err := Parse("I could not produce a mind map, sorry."); err == nil {
		t.Error("expected an error when no JSON object is present")
	}
}

func TestGenerateEmbedsSummaryInPrompt(t *testing.T) {
	backend := &stubCompleter{output: validOutput}
	gen := NewGenerator(backend, "gpt-4o-mini")

	mindMap, err := gen.Generate(context.Background(), "atomic habits in a nutshell")
	if err != nil {
		t.Fatal(err)
	}
	if mindMap == nil || len(mindMap.Branches) == 0 {
		t.Fatal("generator returned an empty mind map")
	}
	if !strings.Contains(backend.prompt, "atomic habits in a nutshell") {
		t.Error("summary text missing from the prompt")
	}
	if backend.model != "gpt-4o-mini" {
		t.Errorf("backend model = %q", backend.model)
	}
}

func TestGenerateBackendError(t *testing.T) {
	backend := &stubCompleter{err: errors.New("backend down")}
	gen := NewGenerator(backend, "gpt-4o-mini")

	if _, err := gen.Generate(context.Background(), "anything"); err == nil {
		t.Error("expected the backend error to propagate")
	}
}
