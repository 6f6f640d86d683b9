package filtering

import (
	"fmt"
	"strings"

	"github.com/spigell/jobmatch/internal/jobs"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(v *jobs.Postings) (*jobs.Postings, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// New builds the filtering steps for the criteria in their fixed order:
// query, location, job type, remote. Steps whose criterion is unset are disabled.
func New(c Criteria) []Filter {
	return []Filter{
		NewQuery(c.Query),
		NewLocation(c.Location),
		NewJobType(c.JobType),
		NewRemote(c.Remote),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially. The input collection is
// never modified; the result keeps the relative order of surviving postings.
func Run(logger *zap.Logger, steps []Filter, v *jobs.Postings) (*jobs.Postings, []Step, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := jobs.CheckItems(v); err != nil {
		return nil, nil, err
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	result := &jobs.Postings{Items: v.Items}
	stats := make([]Step, 0, len(steps))
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(result)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Debug("filter step",
			zap.String("name", info.Name),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		result = next
		stats = append(stats, info)
	}

	// A fresh slice even when every step was skipped, so callers never alias the input.
	if len(stats) == 0 {
		result = v.Keep(func(*jobs.Posting) bool { return true })
	}

	return result, stats, nil
}

// ByCriteria filters postings with the steps built from the criteria.
func ByCriteria(logger *zap.Logger, v *jobs.Postings, c Criteria) (*jobs.Postings, error) {
	filtered, _, err := Run(logger, New(c), v)
	return filtered, err
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// apply runs keep over the collection and reports the step result.
func apply(name string, v *jobs.Postings, keep func(*jobs.Posting) bool) (*jobs.Postings, Step, error) {
	initial := v.Len()
	next := v.Keep(keep)
	return next, Step{Name: name, Initial: initial, Dropped: initial - next.Len(), Left: next.Len()}, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
