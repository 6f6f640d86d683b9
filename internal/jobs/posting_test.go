package jobs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseJobType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    JobType
		wantErr bool
	}{
		{input: "Full-time", want: FullTime},
		{input: "Remote", want: Remote},
		{input: "Internship", want: Internship},
		{input: "remote", wantErr: true},
		{input: "", wantErr: true},
		{input: "all", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseJobType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected invalid argument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPostingsKeepPreservesOrderAndInput(t *testing.T) {
	v := &Postings{Items: []*Posting{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}

	kept := v.Keep(func(p *Posting) bool { return p.ID != "b" })

	if got := kept.IDs(); len(got) != 3 || got[0] != "a" || got[1] != "c" || got[2] != "d" {
		t.Fatalf("unexpected kept ids: %v", got)
	}
	if v.Len() != 4 {
		t.Fatalf("input collection was modified, len %d", v.Len())
	}
}

func TestCheckItems(t *testing.T) {
	if err := CheckItems(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for nil collection, got %v", err)
	}
	if err := CheckItems(&Postings{Items: []*Posting{{ID: "a"}, nil}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for nil item, got %v", err)
	}
	if err := CheckItems(&Postings{}); err != nil {
		t.Fatalf("empty collection must be valid, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	postings, err := Seed(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if postings.Len() == 0 {
		t.Fatalf("expected built-in postings")
	}

	first := postings.FindByID("job-1")
	if first == nil {
		t.Fatalf("expected job-1 in seed")
	}
	if first.Type != FullTime {
		t.Fatalf("expected Full-time, got %q", first.Type)
	}
	if len(first.Requirements) != 5 || first.Requirements[0] != "React" {
		t.Fatalf("unexpected requirements: %v", first.Requirements)
	}
	if !first.PostedAt.Equal(now) {
		t.Fatalf("expected missing timestamp to be stamped with now, got %v", first.PostedAt)
	}
	for _, p := range postings.Items {
		if err := p.Validate(); err != nil {
			t.Fatalf("seed posting is invalid: %v", err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	content := `jobs:
  - title: Old
    company: Acme
    location: Remote
    type: Remote
    requirements: [Go]
    posted_at: "2026-10-01T10:00:00Z"
  - id: fresh
    title: Fresh
    company: Acme
    location: Berlin
    type: Contract
    posted_at: "2026-10-18T10:00:00Z"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	postings, err := LoadFile(path, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if postings.Len() != 2 {
		t.Fatalf("expected 2 postings, got %d", postings.Len())
	}
	if postings.Items[0].ID != "fresh" {
		t.Fatalf("expected newest posting first, got %q", postings.Items[0].ID)
	}
	if postings.Items[1].ID == "" {
		t.Fatalf("expected generated id for posting without id")
	}
	if postings.Items[0].Requirements == nil {
		t.Fatalf("expected empty requirements instead of nil")
	}
}

func TestLoadFileRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	content := "jobs:\n  - id: x\n    title: X\n    type: Freelance\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFile(path, time.Now()); err == nil {
		t.Fatalf("expected error for unknown job type")
	}
}

func TestReportByCompany(t *testing.T) {
	v := &Postings{Items: []*Posting{
		{ID: "1", Title: "Go Developer", Company: "Acme", Type: FullTime},
		{ID: "2", Title: "SRE", Company: "Acme", Type: Remote},
		{ID: "3", Title: "Analyst", Company: "Globex", Type: Internship},
	}}

	report := v.ReportByCompany()
	if len(report["Acme"]) != 2 {
		t.Fatalf("expected 2 Acme entries, got %d", len(report["Acme"]))
	}
	if report["Globex"][0]["type"] != "Internship" {
		t.Fatalf("unexpected type: %q", report["Globex"][0]["type"])
	}
}
