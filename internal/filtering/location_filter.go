package filtering

import (
	"github.com/spigell/jobmatch/internal/jobs"
)

type locationFilter struct {
	location string
	disabled bool
	reason   string
}

// NewLocation creates a filter that keeps postings whose location contains the given text.
func NewLocation(location string) Filter {
	f := &locationFilter{location: location}
	if location == "" {
		f.Disable("location is empty")
	}
	return f
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *locationFilter) IsEnabled() bool { return !f.disabled }

func (f *locationFilter) Validate() error { return nil }

func (f *locationFilter) Apply(v *jobs.Postings) (*jobs.Postings, Step, error) {
	return apply(f.Name(), v, func(p *jobs.Posting) bool {
		return containsFold(p.Location, f.location)
	})
}

func (f *locationFilter) Status() Status {
	details := map[string]string{}
	if f.location != "" {
		details["location"] = f.location
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
