package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heartmarshall/termbridge/internal/domain"
)

type termPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ExtractTerms asks the model for proper-noun term pairs that appear in
// parallel descriptions. Pairs with an empty side are dropped.
func (c *Client) ExtractTerms(ctx context.Context, pairs []domain.TextPair) ([]domain.GlossaryEntry, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	prompt, err := buildExtractPrompt(pairs)
	if err != nil {
		return nil, err
	}

	text, err := c.complete(ctx, "extract", prompt)
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSONArray(stripCodeFence(text))
	if err != nil {
		return nil, fmt.Errorf("llm extract: %w", err)
	}

	var found []termPair
	if err := json.Unmarshal([]byte(jsonStr), &found); err != nil {
		return nil, fmt.Errorf("llm extract: decode json: %w", err)
	}

	entries := make([]domain.GlossaryEntry, 0, len(found))
	for _, p := range found {
		e := domain.NewGlossaryEntry(p.Source, p.Target)
		if e.Complete() {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func buildExtractPrompt(pairs []domain.TextPair) (string, error) {
	input, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal pairs: %w", err)
	}

	return fmt.Sprintf(`You are building an English-Japanese glossary for a game.

Below are %d pairs of parallel texts: the same description in English ("source")
and in Japanese ("target").

Find the game-specific terms that appear in both texts: character names, skill names,
status effects, attributes, factions, item names. Match each English term to the
Japanese term used for it in the parallel text.

Input:
%s

Output ONLY a valid JSON array matching this exact schema:
[
  {"source": "<English term>", "target": "<Japanese term>"}
]

Rules:
- Only include terms that appear verbatim in the texts
- Do not include generic words (damage, attack, seconds) unless they are game terms
- Output an empty array [] if there are no such terms
- Output ONLY the JSON, no markdown, no explanations`, len(pairs), input), nil
}

// extractJSONArray finds the outermost JSON array in a string.
func extractJSONArray(s string) (string, error) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON array found in response")
	}
	out := s[start : end+1]
	if !json.Valid([]byte(out)) {
		return "", fmt.Errorf("response does not contain a valid JSON array")
	}
	return out, nil
}
