// Package ai drafts application messages with a language model.
package ai

import (
	"context"

	"github.com/spigell/jobmatch/internal/jobs"
)

// Letter is a drafted application message.
type Letter struct {
	Message string
	Matched []string
	Raw     string
}

type LetterWriter interface {
	Draft(ctx context.Context, posting *jobs.Posting, profile *jobs.Profile) (*Letter, error)
}
