package jobs

import (
	"fmt"
	"strings"
)

type JobType string

const (
	FullTime   JobType = "Full-time"
	PartTime   JobType = "Part-time"
	Contract   JobType = "Contract"
	Remote     JobType = "Remote"
	Internship JobType = "Internship"
)

// JobTypes lists every known job type in presentation order.
var JobTypes = []JobType{FullTime, PartTime, Contract, Remote, Internship}

func (t JobType) Valid() bool {
	for _, known := range JobTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t JobType) String() string { return string(t) }

// ParseJobType accepts the exact enumeration value. Matching is case-sensitive.
func ParseJobType(s string) (JobType, error) {
	t := JobType(s)
	if !t.Valid() {
		names := make([]string, 0, len(JobTypes))
		for _, known := range JobTypes {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("unknown job type %q (expected one of %s): %w", s, strings.Join(names, ", "), ErrInvalidArgument)
	}
	return t, nil
}

// Profile is the part of a CV used for matching.
type Profile struct {
	CVID   string   `json:"cv_id,omitempty" mapstructure:"cv-id"`
	Skills []string `json:"skills" mapstructure:"skills"`
}

// HasSkills reports whether the profile can produce a non-zero score.
func (p *Profile) HasSkills() bool {
	return p != nil && len(p.Skills) > 0
}
