package filtering

import (
	"github.com/spigell/jobmatch/internal/jobs"
)

const remoteKeyword = "remote"

type remoteFilter struct {
	disabled bool
	reason   string
}

// NewRemote creates a filter that keeps remote postings: either typed as
// Remote or located somewhere mentioning "remote".
func NewRemote(remoteOnly bool) Filter {
	f := &remoteFilter{}
	if !remoteOnly {
		f.Disable("remote only is not requested")
	}
	return f
}

func (f *remoteFilter) Name() string { return "remote" }

func (f *remoteFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *remoteFilter) IsEnabled() bool { return !f.disabled }

func (f *remoteFilter) Validate() error { return nil }

func (f *remoteFilter) Apply(v *jobs.Postings) (*jobs.Postings, Step, error) {
	return apply(f.Name(), v, func(p *jobs.Posting) bool {
		return p.Type == jobs.Remote || containsFold(p.Location, remoteKeyword)
	})
}

func (f *remoteFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
