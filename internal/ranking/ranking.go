// Package ranking orders postings by match score against a profile.
package ranking

import (
	"slices"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
)

// Rank scores every posting against the profile and orders them by score,
// highest first. Postings with equal scores keep their input order.
// Without a profile the input order is kept and no score is attached.
func Rank(v *jobs.Postings, profile *jobs.Profile) ([]jobs.ScoredPosting, error) {
	if err := jobs.CheckItems(v); err != nil {
		return nil, err
	}

	ranked := make([]jobs.ScoredPosting, 0, v.Len())
	for _, posting := range v.Items {
		scored := jobs.ScoredPosting{Posting: posting}
		if profile != nil {
			score := matching.Score(posting, profile)
			scored.MatchScore = &score
		}
		ranked = append(ranked, scored)
	}

	if profile == nil {
		return ranked, nil
	}

	slices.SortStableFunc(ranked, func(a, b jobs.ScoredPosting) int {
		return *b.MatchScore - *a.MatchScore
	})

	return ranked, nil
}
