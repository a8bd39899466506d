package anomalies

// Separators used by the anomaly report text format.
const (
	RecordSeparator = "•"
	FieldSeparator  = "|"
)

// Entry is one discrepancy between a daily report and the final document.
type Entry struct {
	Category string   `json:"category"`
	Expected string   `json:"expected"`
	Actual   string   `json:"actual"`
	Severity Severity `json:"severity"`

	fields int
}

// Partial reports whether the record carried fewer than four fields.
// Partial entries are kept; their missing trailing fields are empty.
func (e Entry) Partial() bool {
	return e.fields < 4
}
