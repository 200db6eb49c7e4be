package aggregate

import "github.com/rajeshuchil/contesthub/internal/domain"

// Dedupe collapses contests sharing an ID, keeping the first occurrence.
// Matching is exact on ID only; the same logical contest surfaced by two
// sources with different ID schemes is not merged here.
func Dedupe(contests []domain.Contest) []domain.Contest {
	seen := make(map[string]struct{}, len(contests))
	out := make([]domain.Contest, 0, len(contests))
	for _, c := range contests {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
