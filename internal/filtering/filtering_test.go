package filtering

import (
	"errors"
	"slices"
	"testing"

	"github.com/spigell/jobmatch/internal/jobs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func samplePostings() *jobs.Postings {
	return &jobs.Postings{Items: []*jobs.Posting{
		{ID: "1", Title: "Senior Software Engineer", Company: "TechCorp Global", Location: "San Francisco, CA, USA", Type: jobs.FullTime, Requirements: []string{"React", "TypeScript", "Node.js"}},
		{ID: "2", Title: "Frontend Developer", Company: "Digital Solutions Ltd", Location: "London, UK", Type: jobs.FullTime, Requirements: []string{"React", "Vue.js", "CSS"}},
		{ID: "3", Title: "Cloud Architect", Company: "CloudFirst Inc", Location: "Remote", Type: jobs.Remote, Requirements: []string{"AWS", "Terraform"}},
		{ID: "4", Title: "DevOps Engineer", Company: "CloudTech Solutions", Location: "Sydney, NSW, Australia", Type: jobs.FullTime, Requirements: []string{"Docker", "Kubernetes"}},
		{ID: "5", Title: "Technical Writer", Company: "DocsHouse", Location: "Dublin, Ireland (REMOTE friendly)", Type: jobs.PartTime, Requirements: []string{"Markdown"}},
		{ID: "6", Title: "Product Designer", Company: "Reactive Studio", Location: "Los Angeles, CA, USA", Type: jobs.Contract, Requirements: []string{"Figma"}},
	}}
}

func TestByCriteria(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "default criteria keep everything",
			criteria: DefaultCriteria(),
			want:     []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			name:     "zero criteria keep everything",
			criteria: Criteria{},
			want:     []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			name:     "query matches requirement, title or company",
			criteria: Criteria{Query: "react"},
			want:     []string{"1", "2", "6"},
		},
		{
			name:     "query matches title ignoring case",
			criteria: Criteria{Query: "ENGINEER"},
			want:     []string{"1", "4"},
		},
		{
			name:     "query checks each requirement independently",
			criteria: Criteria{Query: "react typescript"},
			want:     []string{},
		},
		{
			name:     "location substring",
			criteria: Criteria{Location: "ca, usa"},
			want:     []string{"1", "6"},
		},
		{
			name:     "job type exact",
			criteria: Criteria{JobType: "Contract"},
			want:     []string{"6"},
		},
		{
			name:     "remote only uses type or location",
			criteria: Criteria{Remote: true, JobType: AllJobTypes},
			want:     []string{"3", "5"},
		},
		{
			name:     "job type remote",
			criteria: Criteria{JobType: "Remote"},
			want:     []string{"3"},
		},
		{
			name:     "criteria combine with and",
			criteria: Criteria{Query: "engineer", Location: "usa"},
			want:     []string{"1"},
		},
		{
			name:     "salary and experience do not filter",
			criteria: Criteria{SalaryMin: 1_000_000, ExperienceLevel: "senior"},
			want:     []string{"1", "2", "3", "4", "5", "6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ByCriteria(zap.NewNop(), samplePostings(), tt.criteria)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ids := got.IDs(); !slices.Equal(ids, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, ids)
			}
		})
	}
}

func TestByCriteriaQueryMatchesRequirementOnly(t *testing.T) {
	v := &jobs.Postings{Items: []*jobs.Posting{
		{ID: "fe", Title: "Frontend Developer", Company: "Digital Solutions Ltd", Type: jobs.FullTime, Requirements: []string{"React"}},
	}}

	got, err := ByCriteria(nil, v, Criteria{Query: "react"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("expected requirement match to keep the posting")
	}
}

func TestByCriteriaRemoteJobType(t *testing.T) {
	v := &jobs.Postings{Items: []*jobs.Posting{
		{ID: "remote", Location: "Remote", Type: jobs.Remote},
		{ID: "sydney", Location: "Sydney, NSW, Australia", Type: jobs.FullTime},
	}}

	got, err := ByCriteria(nil, v, Criteria{JobType: "Remote", Location: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := got.IDs(); !slices.Equal(ids, []string{"remote"}) {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestRunDoesNotModifyInput(t *testing.T) {
	v := samplePostings()
	before := v.IDs()

	got, _, err := Run(nil, New(Criteria{Query: "react"}), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(v.IDs(), before) {
		t.Fatalf("input changed: %v", v.IDs())
	}
	if got == v {
		t.Fatalf("expected a new collection")
	}

	all, _, err := Run(nil, New(DefaultCriteria()), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all.Items[0] = nil
	if v.Items[0] == nil {
		t.Fatalf("result aliases the input slice")
	}
}

func TestRunInvalidArguments(t *testing.T) {
	if _, _, err := Run(nil, New(DefaultCriteria()), nil); !errors.Is(err, jobs.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for nil postings, got %v", err)
	}

	_, _, err := Run(nil, New(Criteria{JobType: "full-time"}), samplePostings())
	if !errors.Is(err, jobs.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for unknown job type, got %v", err)
	}
}

func TestRunEmptyInput(t *testing.T) {
	got, stats, err := Run(nil, New(Criteria{Query: "go"}), &jobs.Postings{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("expected empty result, got %d", got.Len())
	}
	if len(stats) != 1 || stats[0].Name != "query" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRunLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	_, stats, err := Run(logger, New(Criteria{Query: "react", Remote: true}), samplePostings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 executed steps, got %d", len(stats))
	}
	if stats[0].Initial != 6 || stats[0].Left != 3 || stats[0].Dropped != 3 {
		t.Fatalf("unexpected query stats: %+v", stats[0])
	}
	if stats[1].Initial != 3 || stats[1].Left != 0 {
		t.Fatalf("unexpected remote stats: %+v", stats[1])
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 2 {
		t.Fatalf("expected 2 step entries, got %d", len(steps))
	}
	if steps[0].ContextMap()["name"] != "query" {
		t.Fatalf("unexpected first step: %v", steps[0].ContextMap())
	}
	if disabled := observed.FilterMessage("filter disabled").Len(); disabled != 2 {
		t.Fatalf("expected 2 disabled entries, got %d", disabled)
	}
}

func TestDescribe(t *testing.T) {
	steps := New(Criteria{Location: "Berlin", JobType: AllJobTypes})
	DisableByName(steps, "location", "skip requested")

	statuses := Describe(steps)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}

	byName := map[string]Status{}
	for _, s := range statuses {
		byName[s.Name] = s
	}

	if byName["location"].Enabled || byName["location"].Reason != "skip requested" {
		t.Fatalf("unexpected location status: %+v", byName["location"])
	}
	if byName["location"].Details["location"] != "Berlin" {
		t.Fatalf("expected location detail, got %+v", byName["location"].Details)
	}
	if byName["query"].Enabled {
		t.Fatalf("query must be disabled without a query")
	}
	if byName["job_type"].Enabled {
		t.Fatalf("job type must be disabled for all")
	}
}

func TestCriteriaActive(t *testing.T) {
	if DefaultCriteria().Active() {
		t.Fatalf("default criteria must be inactive")
	}
	if !(Criteria{Remote: true}).Active() {
		t.Fatalf("remote criteria must be active")
	}
	if (Criteria{SalaryMin: 10}).Active() {
		t.Fatalf("salary must not activate filtering")
	}
}
