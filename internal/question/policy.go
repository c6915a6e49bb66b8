package question

// Normalize fills the fields a model response may leave blank: an empty
// type becomes TypeUnknown and a missing number is recovered from the
// question text when a marker like "Q3" or "3)" is present.
func Normalize(r *Record) {
	if r.Type == "" {
		r.Type = TypeUnknown
	}
	if r.Number == nil {
		r.Number = ExtractNumber(r.Text)
	}
}
