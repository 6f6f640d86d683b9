package filtering

import (
	"github.com/spigell/jobmatch/internal/jobs"
)

type queryFilter struct {
	query    string
	disabled bool
	reason   string
}

// NewQuery creates a filter that keeps postings whose title, company or any
// single requirement contains the query, ignoring case.
func NewQuery(query string) Filter {
	f := &queryFilter{query: query}
	if query == "" {
		f.Disable("query is empty")
	}
	return f
}

func (f *queryFilter) Name() string { return "query" }

func (f *queryFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *queryFilter) IsEnabled() bool { return !f.disabled }

func (f *queryFilter) Validate() error { return nil }

func (f *queryFilter) Apply(v *jobs.Postings) (*jobs.Postings, Step, error) {
	return apply(f.Name(), v, f.matches)
}

func (f *queryFilter) matches(p *jobs.Posting) bool {
	if containsFold(p.Title, f.query) || containsFold(p.Company, f.query) {
		return true
	}
	for _, requirement := range p.Requirements {
		if containsFold(requirement, f.query) {
			return true
		}
	}
	return false
}

func (f *queryFilter) Status() Status {
	details := map[string]string{}
	if f.query != "" {
		details["query"] = f.query
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
