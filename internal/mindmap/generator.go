package mindmap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"

	"github.com/briefd/briefd/internal/model"
)

const promptTemplate = `You are a helpful assistant. Convert the summary below into a mind map JSON with:
- A central topic
- 3 to 5 key branches
- 2 to 4 subpoints per branch
- Each topic (central, branches, and points) must include:
  - "label": the title with a relevant emoji
  - "narration": a simple sentence that explains the concept of this label with respect to the parent node and the whole summary

Format your response as:
{
  "central": {"label": "🧠 Main Topic", "narration": "This is the central idea explained simply."},
  "branches": [
    {
      "label": "📘 Branch Title",
      "narration": "In this sub-topic we cover...",
      "points": [
        {"label": "💡 Subpoint A", "narration": "This talks about..."}
      ]
    }
  ]
}

Output ONLY the JSON. Do not include any explanations, prefixes, or formatting.

Summary:
"""
%s
"""`

// jsonBlock matches the outermost JSON object carrying both required keys.
// Models wrap their output in prose or code fences often enough that the
// response cannot be unmarshalled as-is.
var jsonBlock = regexp.MustCompile(`(?s)\{.*"central".*"branches".*\}`)

// Completer is the narrow LLM contract the generator needs: a raw prompt in,
// the model's text out.
type Completer interface {
	Complete(ctx context.Context, prompt, modelName string) (string, error)
}

// Generator turns a summary into a structured mind map via an LLM backend
type Generator struct {
	backend Completer
	model   string
}

// NewGenerator creates a generator using the given backend model name
func NewGenerator(backend Completer, modelName string) *Generator {
	return &Generator{
		backend: backend,
		model:   modelName,
	}
}

// Generate produces a mind map for the summary text
func (g *Generator) Generate(ctx context.Context, summary string) (*model.MindMap, error) {
	prompt := fmt.Sprintf(promptTemplate, summary)

	raw, err := g.backend.Complete(ctx, prompt, g.model)
	if err != nil {
		return nil, fmt.Errorf("mind map generation failed: %w", err)
	}

	mindMap, err := Parse(raw)
	if err != nil {
		slog.Error("Failed to parse mind map output",
			"model", g.model,
			"output_length", len(raw),
			"error", err.Error(),
		)
		return nil, err
	}

	return mindMap, nil
}

// Parse extracts and validates the mind map JSON from raw model output
func Parse(raw string) (*model.MindMap, error) {
	match := jsonBlock.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("mind map JSON not found in model output")
	}

	if err := validate(match); err != nil {
		return nil, err
	}

	var mindMap model.MindMap
	if err := json.Unmarshal([]byte(match), &mindMap); err != nil {
		return nil, fmt.Errorf("failed to parse mind map JSON: %w", err)
	}

	if len(mindMap.Branches) == 0 {
		return nil, fmt.Errorf("mind map has no branches")
	}
	for _, branch := range mindMap.Branches {
		if strings.TrimSpace(branch.Label) == "" {
			return nil, fmt.Errorf("mind map branch is missing a label")
		}
	}

	return &mindMap, nil
}

// validate checks the required node fields are present before decoding into
// the typed structure, so a shape mismatch yields a clear error instead of a
// silently empty map.
func validate(jsonStr string) error {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return fmt.Errorf("mind map output is not valid JSON: %w", err)
	}

	for _, expr := range []string{"$.central.label", "$.central.narration"} {
		value, err := jsonpath.JsonPathLookup(data, expr)
		if err != nil {
			return fmt.Errorf("mind map output is missing %s", expr)
		}
		text, ok := value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			return fmt.Errorf("mind map output has an empty %s", expr)
		}
	}

	if _, err := jsonpath.JsonPathLookup(data, "$.branches"); err != nil {
		return fmt.Errorf("mind map output is missing $.branches")
	}

	return nil
}
