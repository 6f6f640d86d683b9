package filtering

import (
	"github.com/spigell/jobmatch/internal/jobs"
)

type jobTypeFilter struct {
	jobType  string
	disabled bool
	reason   string
}

// NewJobType creates a filter that keeps postings of exactly the given type.
// An empty value or "all" disables it.
func NewJobType(jobType string) Filter {
	f := &jobTypeFilter{jobType: jobType}
	if !jobTypeSet(jobType) {
		f.Disable("all job types requested")
	}
	return f
}

func (f *jobTypeFilter) Name() string { return "job_type" }

func (f *jobTypeFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *jobTypeFilter) IsEnabled() bool { return !f.disabled }

func (f *jobTypeFilter) Validate() error {
	_, err := jobs.ParseJobType(f.jobType)
	return err
}

func (f *jobTypeFilter) Apply(v *jobs.Postings) (*jobs.Postings, Step, error) {
	want := jobs.JobType(f.jobType)
	return apply(f.Name(), v, func(p *jobs.Posting) bool {
		return p.Type == want
	})
}

func (f *jobTypeFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"job_type": f.jobType},
	}
}
