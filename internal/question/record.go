package question

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Type classifies a question found on an uploaded image.
type Type string

// Valid question types.
const (
	TypeMCQ     Type = "mcq"
	TypeCoding  Type = "coding"
	TypeRunCode Type = "run-code"
	TypeUnknown Type = "unknown"
)

var types = []Type{TypeMCQ, TypeCoding, TypeRunCode, TypeUnknown}

// Types returns the list of valid question types.
func Types() []Type {
	return types
}

// ParseType maps a model-produced label onto a known Type. Matching is
// case-insensitive; anything unrecognized becomes TypeUnknown.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mcq":
		return TypeMCQ
	case "coding":
		return TypeCoding
	case "run-code", "run_code":
		return TypeRunCode
	default:
		return TypeUnknown
	}
}

// UnmarshalJSON accepts any casing the model emits and never rejects an
// unrecognized label; such records decode as TypeUnknown.
func (t *Type) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = ParseType(raw)
	return nil
}

// Record is one question extracted from an image.
type Record struct {
	Type     Type     `json:"type"`
	Number   *int     `json:"number,omitempty"`
	Text     string   `json:"text"`
	Options  []string `json:"options,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Language string   `json:"language,omitempty"`
}

// Heading renders the short label shown above a question ("Q3").
// Unnumbered records have no heading.
func (r Record) Heading() string {
	if r.Number == nil {
		return ""
	}
	return "Q" + strconv.Itoa(*r.Number)
}
