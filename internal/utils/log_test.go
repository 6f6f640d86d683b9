package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "Go Developer", limit: 0, expect: ""},
		{name: "fits", input: "Go Developer", limit: 20, expect: "Go Developer"},
		{name: "cut with ellipsis", input: "Senior Software Engineer", limit: 6, expect: "Senior..."},
		{name: "prompt folded to one line", input: "Candidate profile:\n{\n  \"skills\": [\"go\"]\n}", limit: 100, expect: `Candidate profile: { "skills": ["go"] }`},
		{name: "counts runes not bytes", input: "Zürich, Schweiz", limit: 6, expect: "Zürich..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
