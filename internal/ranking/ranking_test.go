package ranking

import (
	"errors"
	"slices"
	"testing"

	"github.com/spigell/jobmatch/internal/jobs"
)

func postings() *jobs.Postings {
	return &jobs.Postings{Items: []*jobs.Posting{
		{ID: "designer", Requirements: []string{"Figma", "Sketch"}},
		{ID: "backend", Requirements: []string{"Go", "PostgreSQL"}},
		{ID: "frontend", Requirements: []string{"React", "CSS"}},
		{ID: "fullstack", Requirements: []string{"React", "Go", "Docker"}},
		{ID: "writer", Requirements: []string{"Markdown"}},
	}}
}

func ids(ranked []jobs.ScoredPosting) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.ID)
	}
	return out
}

func TestRankWithProfile(t *testing.T) {
	profile := &jobs.Profile{Skills: []string{"go", "react"}}

	ranked, err := Rank(postings(), profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"fullstack", "backend", "frontend", "designer", "writer"}
	if got := ids(ranked); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	scores := []int{100, 50, 50, 0, 0}
	for i, r := range ranked {
		score, ok := r.Score()
		if !ok {
			t.Fatalf("expected score for %s", r.ID)
		}
		if score != scores[i] {
			t.Fatalf("expected score %d for %s, got %d", scores[i], r.ID, score)
		}
	}
}

func TestRankWithoutProfileKeepsOrder(t *testing.T) {
	ranked, err := Rank(postings(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ids(ranked); !slices.Equal(got, postings().IDs()) {
		t.Fatalf("expected input order, got %v", got)
	}
	for _, r := range ranked {
		if _, ok := r.Score(); ok {
			t.Fatalf("score must be absent without a profile, %s has one", r.ID)
		}
	}
}

func TestRankEmptyProfileIsStable(t *testing.T) {
	ranked, err := Rank(postings(), &jobs.Profile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ids(ranked); !slices.Equal(got, postings().IDs()) {
		t.Fatalf("equal scores must keep input order, got %v", got)
	}
	for _, r := range ranked {
		if score, ok := r.Score(); !ok || score != 0 {
			t.Fatalf("expected defined zero score for %s", r.ID)
		}
	}
}

func TestRankStableForEqualScores(t *testing.T) {
	v := &jobs.Postings{Items: []*jobs.Posting{
		{ID: "a", Requirements: []string{"Go"}},
		{ID: "b", Requirements: []string{"Rust"}},
		{ID: "c", Requirements: []string{"Go", "Rust"}},
		{ID: "d", Requirements: []string{"Go"}},
		{ID: "e", Requirements: []string{"Rust"}},
	}}

	ranked, err := Rank(v, &jobs.Profile{Skills: []string{"go"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "c", "d", "b", "e"}
	if got := ids(ranked); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRankEdgeCases(t *testing.T) {
	if _, err := Rank(nil, nil); !errors.Is(err, jobs.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	ranked, err := Rank(&jobs.Postings{}, &jobs.Profile{Skills: []string{"go"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected empty result, got %d", len(ranked))
	}
}
