package anomalies

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateExcludesUnknownSeverity(t *testing.T) {
	entries := []Entry{
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityMedium},
		{Severity: SeverityLow},
		{Severity: "Impact: Unknown"},
	}

	got := Aggregate(entries)

	require.Equal(t, Counts{High: 2, Medium: 1, Low: 1}, got)
	require.Equal(t, 4, got.Total())
	require.Len(t, entries, 5)
}

func TestAggregateIsCaseSensitive(t *testing.T) {
	got := Aggregate([]Entry{{Severity: "impact: high"}, {Severity: "High"}, {Severity: " Impact: High"}})
	require.Equal(t, Counts{}, got)
}

func TestSeverityLabel(t *testing.T) {
	tests := []struct {
		in    Severity
		want  string
		known bool
	}{
		{in: SeverityHigh, want: "High", known: true},
		{in: SeverityMedium, want: "Medium", known: true},
		{in: SeverityLow, want: "Low", known: true},
		{in: "Impact: Critical", want: "Impact: Critical", known: false},
		{in: "", want: "", known: false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.in.Label())
		require.Equal(t, tt.known, tt.in.Known())
	}
}
