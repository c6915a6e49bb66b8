package telegram

import (
	"strings"
	"testing"

	"question-analyzer/internal/analyzer"
	"question-analyzer/internal/question"
)

func TestFormatSummary(t *testing.T) {
	n := 2
	res := analyzer.Result{
		Filename: "img.png",
		Engine:   "gemini",
		Model:    "gemini-2.0-flash",
		Records: []question.Record{
			{
				Type:    question.TypeMCQ,
				Number:  &n,
				Text:    "Which SQL keyword removes a table?",
				Options: []string{"DELETE", "DROP", "TRUNCATE"},
				Subject: "DBMS",
			},
			{
				Type:     question.TypeCoding,
				Text:     "Write a binary search.",
				Language: "C++",
			},
		},
	}

	got := formatSummary(res)

	for _, want := range []string{
		"Found 2 question(s)",
		"gemini (gemini-2.0-flash)",
		"Q2 · mcq · DBMS",
		"Which SQL keyword removes a table?",
		"A) DELETE",
		"B) DROP",
		"C) TRUNCATE",
		"coding",
		"C++",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("short"); got != "short" {
		t.Errorf("clip = %q", got)
	}

	long := strings.Repeat("x", 5000)
	got := clip(long)
	if len(got) > 4096 {
		t.Errorf("clip left %d chars, telegram rejects over 4096", len(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Error("clip must mark truncation")
	}
}
