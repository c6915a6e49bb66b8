package question

import "testing"

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"mcq", TypeMCQ},
		{"MCQ", TypeMCQ},
		{" Mcq ", TypeMCQ},
		{"coding", TypeCoding},
		{"CODING", TypeCoding},
		{"run-code", TypeRunCode},
		{"RUN-CODE", TypeRunCode},
		{"run_code", TypeRunCode},
		{"unknown", TypeUnknown},
		{"essay", TypeUnknown},
		{"", TypeUnknown},
	}

	for _, tt := range tests {
		if got := ParseType(tt.in); got != tt.want {
			t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHeading(t *testing.T) {
	n := 3
	r := Record{Number: &n}
	if got := r.Heading(); got != "Q3" {
		t.Errorf("Heading = %q, want Q3", got)
	}

	r = Record{}
	if got := r.Heading(); got != "" {
		t.Errorf("Heading = %q, want empty", got)
	}
}
