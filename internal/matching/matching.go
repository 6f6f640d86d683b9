// Package matching scores how well a profile's skills cover a posting's requirements.
package matching

import (
	"math"
	"strings"

	"github.com/spigell/jobmatch/internal/jobs"
)

// MaxScore is the upper bound of Score.
const MaxScore = 100

// Score returns the share of profile skills found in the posting requirements, in [0, 100].
//
// Requirements are joined into one lowercase text and every lowercase skill is
// looked up as a substring of it, so a skill counts at most once. The
// denominator is the number of profile skills, not requirements: unrelated
// skills lower the score. Blank skills never match but still count.
func Score(posting *jobs.Posting, profile *jobs.Profile) int {
	if !profile.HasSkills() {
		return 0
	}

	matched := countMatches(requirementsText(posting), profile.Skills)
	ratio := float64(matched) / float64(len(profile.Skills)) * MaxScore

	return int(math.Round(math.Min(ratio, MaxScore)))
}

// Matches returns the profile skills found in the posting requirements, in profile order.
func Matches(posting *jobs.Posting, profile *jobs.Profile) []string {
	if !profile.HasSkills() {
		return nil
	}

	text := requirementsText(posting)
	matched := make([]string, 0, len(profile.Skills))
	for _, skill := range profile.Skills {
		if containsSkill(text, skill) {
			matched = append(matched, skill)
		}
	}
	return matched
}

func countMatches(text string, skills []string) int {
	matched := 0
	for _, skill := range skills {
		if containsSkill(text, skill) {
			matched++
		}
	}
	return matched
}

func containsSkill(text, skill string) bool {
	if isBlank(skill) || text == "" {
		return false
	}
	return strings.Contains(text, normalize(skill))
}

func requirementsText(posting *jobs.Posting) string {
	if posting == nil {
		return ""
	}
	return normalize(strings.Join(posting.Requirements, " "))
}

func normalize(s string) string {
	return strings.ToLower(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
