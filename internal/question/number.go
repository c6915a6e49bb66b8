package question

import (
	"regexp"
	"strconv"
	"strings"
)

// Question markers recognized in free text, tried in order:
// "Q1" / "Question 1" / "Q.1" / "Q1a", then a list marker "1." / "1)" / "1a.".
// Letter-only markers ("a)", "b.") carry no integer and are not matched.
var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Q(?:uestion)?\s*\.?\s*(\d+[a-z]?)`),
	regexp.MustCompile(`(?i)(?:^|\s)(\d+[a-z]?)[.)]`),
}

// ExtractNumber pulls a question number out of the question text itself,
// for records the model returned without one.
func ExtractNumber(text string) *int {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for _, re := range numberPatterns {
		if m := re.FindStringSubmatch(text); len(m) >= 2 {
			if n := numberFromLabel(m[1]); n != nil {
				return n
			}
		}
	}
	return nil
}

// numberFromLabel parses the integer prefix of a marker label: "3" and
// "3a" both yield 3, "a" yields nothing.
func numberFromLabel(s string) *int {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return nil
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return nil
	}
	return &n
}
