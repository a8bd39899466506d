package anomalies

// Severity is the impact classification of an entry, stored exactly as it
// appears in the report text.
type Severity string

const (
	SeverityHigh   Severity = "Impact: High"
	SeverityMedium Severity = "Impact: Medium"
	SeverityLow    Severity = "Impact: Low"
)

// Known reports whether s is one of the three recognized literals.
func (s Severity) Known() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Label returns the bare level name ("High", "Medium", "Low") or the raw text
// for unrecognized values.
func (s Severity) Label() string {
	switch s {
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	case SeverityLow:
		return "Low"
	default:
		return string(s)
	}
}

// Counts holds the number of entries per severity bucket.
type Counts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Total returns the number of counted entries. Entries with an unrecognized
// severity are not part of any bucket and so are not part of the total.
func (c Counts) Total() int {
	return c.High + c.Medium + c.Low
}

// Aggregate counts entries by exact severity match.
func Aggregate(entries []Entry) Counts {
	var c Counts
	for _, e := range entries {
		switch e.Severity {
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		}
	}
	return c
}
