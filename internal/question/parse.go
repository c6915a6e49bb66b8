package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrFormat is returned when model output cannot be parsed into question
// records, either directly or from a markdown code fence.
var ErrFormat = errors.New("response does not match the question record format")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// wireRecord tolerates the field spellings and value shapes models
// actually produce: "number" may arrive as a number or a string label
// ("3a"), and the question text may sit under text, question_text or
// raw_text.
type wireRecord struct {
	Type         Type            `json:"type"`
	Number       json.RawMessage `json:"number"`
	Text         string          `json:"text"`
	QuestionText string          `json:"question_text"`
	RawText      string          `json:"raw_text"`
	Options      []string        `json:"options"`
	Subject      string          `json:"subject"`
	Language     string          `json:"language"`
}

func (w wireRecord) record() Record {
	r := Record{
		Type:     w.Type,
		Number:   coerceNumber(w.Number),
		Text:     strings.TrimSpace(w.Text),
		Subject:  strings.TrimSpace(w.Subject),
		Language: strings.TrimSpace(w.Language),
	}
	if r.Type == "" {
		r.Type = TypeUnknown
	}
	if r.Text == "" {
		r.Text = strings.TrimSpace(w.QuestionText)
	}
	if r.Text == "" {
		r.Text = strings.TrimSpace(w.RawText)
	}
	for _, opt := range w.Options {
		if opt = strings.TrimSpace(opt); opt != "" {
			r.Options = append(r.Options, opt)
		}
	}
	return r
}

func coerceNumber(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		n = int(f)
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return numberFromLabel(s)
	}
	return nil
}

// ParseRecords parses model output into question records. The payload may
// be a JSON array or a single object, bare or inside a markdown code
// fence. A JSON null or empty array means no questions were found.
// Returns ErrFormat when nothing decodes.
func ParseRecords(content string) ([]Record, error) {
	content = strings.TrimSpace(content)

	if recs, ok := decodeRecords(content); ok {
		return recs, nil
	}

	if m := jsonBlockRegex.FindStringSubmatch(content); len(m) >= 2 {
		if recs, ok := decodeRecords(strings.TrimSpace(m[1])); ok {
			return recs, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrFormat, snippet(content))
}

func decodeRecords(content string) ([]Record, bool) {
	if content == "" {
		return nil, false
	}

	var wires []wireRecord
	if err := json.Unmarshal([]byte(content), &wires); err == nil {
		recs := make([]Record, 0, len(wires))
		for _, w := range wires {
			recs = append(recs, w.record())
		}
		return recs, true
	}

	var one wireRecord
	if err := json.Unmarshal([]byte(content), &one); err == nil {
		return []Record{one.record()}, true
	}

	return nil, false
}

func snippet(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
