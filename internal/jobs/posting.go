package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrInvalidArgument is wrapped by every error caused by malformed input to the search core.
var ErrInvalidArgument = errors.New("invalid argument")

// DisplayDateLayout is the layout used when presenting posting dates.
const DisplayDateLayout = "Jan 2, 2006"

type Postings struct {
	Items []*Posting
}

// Posting is a single job listing. Per-user state such as saved or applied
// flags is kept outside of it.
type Posting struct {
	ID           string    `json:"id" mapstructure:"id"`
	Title        string    `json:"title" mapstructure:"title"`
	Company      string    `json:"company" mapstructure:"company"`
	Location     string    `json:"location" mapstructure:"location"`
	Type         JobType   `json:"type" mapstructure:"type"`
	Salary       string    `json:"salary,omitempty" mapstructure:"salary"`
	Description  string    `json:"description,omitempty" mapstructure:"description"`
	Requirements []string  `json:"requirements" mapstructure:"requirements"`
	PostedAt     time.Time `json:"posted_at" mapstructure:"posted_at"`
	ApplyURL     string    `json:"apply_url,omitempty" mapstructure:"apply_url"`
}

// ScoredPosting is a posting together with its match score. MatchScore is nil
// when no profile took part in ranking.
type ScoredPosting struct {
	*Posting
	MatchScore *int `json:"match_score,omitempty"`
}

// Score returns the match score and whether it is defined.
func (s ScoredPosting) Score() (int, bool) {
	if s.MatchScore == nil {
		return 0, false
	}
	return *s.MatchScore, true
}

// PostedOn formats the posting date for presentation.
func (p *Posting) PostedOn() string {
	if p.PostedAt.IsZero() {
		return ""
	}
	return p.PostedAt.Format(DisplayDateLayout)
}

// Validate reports malformed postings. It is used when postings enter the system.
func (p *Posting) Validate() error {
	if p == nil {
		return fmt.Errorf("posting is nil: %w", ErrInvalidArgument)
	}
	if p.ID == "" {
		return fmt.Errorf("posting %q has no id: %w", p.Title, ErrInvalidArgument)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("posting %s has unknown type %q: %w", p.ID, p.Type, ErrInvalidArgument)
	}
	return nil
}

// CheckItems verifies the collection itself and every element of it.
func CheckItems(v *Postings) error {
	if v == nil {
		return fmt.Errorf("postings collection is nil: %w", ErrInvalidArgument)
	}
	for idx, p := range v.Items {
		if p == nil {
			return fmt.Errorf("posting at index %d is nil: %w", idx, ErrInvalidArgument)
		}
	}
	return nil
}

func (v *Postings) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Items)
}

func (v *Postings) FindByID(id string) *Posting {
	for _, posting := range v.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}

func (v *Postings) IDs() []string {
	ids := make([]string, 0, v.Len())
	for _, posting := range v.Items {
		ids = append(ids, posting.ID)
	}
	return ids
}

// Keep returns a new collection holding the postings accepted by keep, in their original order.
func (v *Postings) Keep(keep func(*Posting) bool) *Postings {
	kept := make([]*Posting, 0, len(v.Items))
	for _, posting := range v.Items {
		if keep(posting) {
			kept = append(kept, posting)
		}
	}
	return &Postings{Items: kept}
}

func (v *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups postings by company name.
func (v *Postings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range v.Items {
		report[posting.Company] = append(report[posting.Company], map[string]string{
			"title":    posting.Title,
			"location": posting.Location,
			"type":     string(posting.Type),
			"salary":   posting.Salary,
			"posted":   posting.PostedOn(),
			"url":      posting.ApplyURL,
		})
	}
	return report
}
