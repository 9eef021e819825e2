package shef

// MessageRecord is one complete SHEF message (header + continuations), the
// unit the Tokenizer (C2) hands to the Decoder (C3).
type MessageRecord struct {
	// Type is 'A', 'B', or 'E'. Zero for an "unrecognized" record.
	Type byte
	// Revised is true when the header carried the "R" suffix (.AR/.BR/.ER).
	Revised bool
	// HeaderLine is the opening line, comment-stripped and whitespace-normalized.
	HeaderLine string
	// BodyLines are the continuation lines (for .A/.E) or the column/row
	// lines (for .B), in document order, comment-stripped and
	// whitespace-normalized. Retained-comment quotes are preserved verbatim.
	BodyLines []string
	// StartLine is the 1-based source line number of HeaderLine, for diagnostics.
	StartLine int
	// Unrecognized carries the raw line(s) for a record the tokenizer could
	// not classify; the Decoder drops these with a warning (§4.2 failure mode).
	Unrecognized string
}

// IsUnrecognized reports whether the tokenizer could not classify this record.
func (m MessageRecord) IsUnrecognized() bool {
	return m.Type == 0
}
