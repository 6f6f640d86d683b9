package matching

import (
	"testing"

	"github.com/spigell/jobmatch/internal/jobs"
)

func seniorEngineer() *jobs.Posting {
	return &jobs.Posting{
		ID:           "job-1",
		Title:        "Senior Software Engineer",
		Requirements: []string{"React", "TypeScript", "Node.js", "Python", "AWS"},
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		posting *jobs.Posting
		profile *jobs.Profile
		want    int
	}{
		{
			name:    "all skills match",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{"react", "python"}},
			want:    100,
		},
		{
			name:    "unrelated skills dilute the score",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{"react", "python", "rust", "go"}},
			want:    50,
		},
		{
			name:    "nil profile",
			posting: seniorEngineer(),
			profile: nil,
			want:    0,
		},
		{
			name:    "empty skills",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{}},
			want:    0,
		},
		{
			name:    "empty requirements",
			posting: &jobs.Posting{ID: "x"},
			profile: &jobs.Profile{Skills: []string{"react"}},
			want:    0,
		},
		{
			name:    "nil posting",
			posting: nil,
			profile: &jobs.Profile{Skills: []string{"react"}},
			want:    0,
		},
		{
			name:    "case insensitive",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{"REACT", "TypeScript"}},
			want:    100,
		},
		{
			name:    "substring of a requirement counts",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{"node"}},
			want:    100,
		},
		{
			name:    "skill spanning two requirements counts",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{"python aws"}},
			want:    100,
		},
		{
			name:    "blank skill counted but never matches",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{"react", "  "}},
			want:    50,
		},
		{
			name:    "empty skill counted but never matches",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{"", "", "aws"}},
			want:    33,
		},
		{
			name:    "rounds half up",
			posting: &jobs.Posting{Requirements: []string{"Go"}},
			profile: &jobs.Profile{Skills: []string{"go", "a1", "a2", "a3", "a4", "a5", "a6", "a7"}},
			want:    13,
		},
		{
			name:    "duplicates are not deduplicated",
			posting: seniorEngineer(),
			profile: &jobs.Profile{Skills: []string{"react", "react", "rust"}},
			want:    67,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.posting, tt.profile); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	posting := seniorEngineer()
	profiles := [][]string{
		nil,
		{"react"},
		{"react", "react", "react"},
		{"x", "y", "z"},
		{"react", "typescript", "node.js", "python", "aws", "terraform"},
	}

	for _, skills := range profiles {
		score := Score(posting, &jobs.Profile{Skills: skills})
		if score < 0 || score > MaxScore {
			t.Fatalf("score %d out of bounds for %v", score, skills)
		}
	}
}

func TestScoreUnmatchedSkillNeverIncreases(t *testing.T) {
	posting := seniorEngineer()
	skills := []string{"react"}
	previous := Score(posting, &jobs.Profile{Skills: skills})

	for _, extra := range []string{"rust", "go", "haskell", "cobol"} {
		skills = append(skills, extra)
		current := Score(posting, &jobs.Profile{Skills: skills})
		if current > previous {
			t.Fatalf("adding %q raised score from %d to %d", extra, previous, current)
		}
		previous = current
	}
}

func TestMatches(t *testing.T) {
	got := Matches(seniorEngineer(), &jobs.Profile{Skills: []string{"Go", "AWS", " ", "react"}})

	if len(got) != 2 || got[0] != "AWS" || got[1] != "react" {
		t.Fatalf("unexpected matches: %v", got)
	}

	if Matches(seniorEngineer(), nil) != nil {
		t.Fatalf("expected nil matches for nil profile")
	}
}
