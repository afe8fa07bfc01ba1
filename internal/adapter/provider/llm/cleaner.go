package llm

import (
	"context"
	"fmt"
	"strings"
)

// CleanBatch asks the model to remove source-language fragments from each
// line. The answer is split on newlines; it is up to the caller to check
// that the number of lines matches.
func (c *Client) CleanBatch(ctx context.Context, lines []string) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	text, err := c.complete(ctx, "clean", buildCleanPrompt(lines))
	if err != nil {
		return nil, err
	}

	return strings.Split(stripCodeFence(text), "\n"), nil
}

func buildCleanPrompt(lines []string) string {
	flat := make([]string, len(lines))
	for i, l := range lines {
		flat[i] = strings.ReplaceAll(strings.ReplaceAll(l, "\r", " "), "\n", " ")
	}

	return fmt.Sprintf(`You are cleaning a Japanese game glossary.

Each of the %d lines below is a Japanese term that may contain leftover English text
(untranslated fragments, duplicated English names, notes in parentheses).

For every line, output the Japanese term with the English fragments removed.
Keep Japanese text, digits and punctuation that belong to the term. If a line has
no Japanese text left, output it unchanged.

Rules:
- Output exactly %d lines, one per input line, in the same order
- No numbering, no bullet points, no blank lines, no explanations
- Do not wrap the answer in a code block

Lines:
%s`, len(flat), len(flat), strings.Join(flat, "\n"))
}
