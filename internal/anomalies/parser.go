// Package anomalies parses the flat anomaly report returned by the
// anomaly-detection endpoint and summarizes it by severity.
//
// A report is a sequence of records separated by "•". Each record holds up to
// four "|"-separated fields: category, expected (final document), actual
// (daily report) and severity, e.g. "• Flooring | 120 sqm | 95 sqm | Impact: High".
//
// Parsing is lenient: records with fewer than four fields are returned with
// empty trailing fields and nothing is ever rejected.
package anomalies

import "strings"

// Parse splits raw into entries, preserving source order.
func Parse(raw string) []Entry {
	fragments := strings.Split(raw, RecordSeparator)
	entries := make([]Entry, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		entries = append(entries, parseRecord(fragment))
	}
	return entries
}

func parseRecord(record string) Entry {
	parts := strings.Split(record, FieldSeparator)
	field := func(i int) string {
		if i >= len(parts) {
			return ""
		}
		return strings.TrimSpace(parts[i])
	}
	return Entry{
		Category: field(0),
		Expected: field(1),
		Actual:   field(2),
		Severity: Severity(field(3)),
		fields:   len(parts),
	}
}

// Summary bundles parsed entries with their severity counts.
type Summary struct {
	Entries []Entry `json:"entries"`
	Counts  Counts  `json:"counts"`
}

// Summarize parses raw and aggregates the result.
func Summarize(raw string) Summary {
	entries := Parse(raw)
	return Summary{Entries: entries, Counts: Aggregate(entries)}
}
