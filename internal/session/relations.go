package session

import (
	"github.com/spigell/jobmatch/internal/jobs"
)

// Relations holds one user's saved and applied postings by id.
type Relations struct {
	saved   map[string]struct{}
	applied map[string]struct{}
}

// View is a search result joined with the user's relation flags.
type View struct {
	jobs.ScoredPosting
	Saved   bool `json:"saved"`
	Applied bool `json:"applied"`
}

func NewRelations(saved, applied []string) *Relations {
	r := &Relations{
		saved:   make(map[string]struct{}, len(saved)),
		applied: make(map[string]struct{}, len(applied)),
	}
	for _, id := range saved {
		r.saved[id] = struct{}{}
	}
	for _, id := range applied {
		r.applied[id] = struct{}{}
	}
	return r
}

func (r *Relations) IsSaved(postingID string) bool {
	_, ok := r.saved[postingID]
	return ok
}

func (r *Relations) IsApplied(postingID string) bool {
	_, ok := r.applied[postingID]
	return ok
}

func (r *Relations) Clone() *Relations {
	clone := NewRelations(nil, nil)
	for id := range r.saved {
		clone.saved[id] = struct{}{}
	}
	for id := range r.applied {
		clone.applied[id] = struct{}{}
	}
	return clone
}

// Join builds presentation views without touching the postings.
func (r *Relations) Join(results []jobs.ScoredPosting) []View {
	views := make([]View, 0, len(results))
	for _, result := range results {
		views = append(views, View{
			ScoredPosting: result,
			Saved:         r.IsSaved(result.ID),
			Applied:       r.IsApplied(result.ID),
		})
	}
	return views
}
