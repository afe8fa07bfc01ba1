package glossary

import "github.com/heartmarshall/termbridge/internal/domain"

// Dedup returns entries with exact duplicate pairs removed, keeping the first
// occurrence of each pair in input order, and the number of removed entries.
func Dedup(entries []domain.GlossaryEntry) ([]domain.GlossaryEntry, int) {
	if entries == nil {
		return nil, 0
	}

	seen := make(map[domain.GlossaryEntry]struct{}, len(entries))
	result := make([]domain.GlossaryEntry, 0, len(entries))

	for _, e := range entries {
		if _, exists := seen[e]; exists {
			continue
		}
		seen[e] = struct{}{}
		result = append(result, e)
	}

	return result, len(entries) - len(result)
}
