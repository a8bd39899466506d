// Package progress stores per-project completion percentages by date and
// serves them as a chart series.
package progress

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in storage keys.
const DateLayout = "2006-01-02"

// ChartPoint is one point of a project's progress series.
type ChartPoint struct {
	Date     string  `json:"date"`
	Progress float64 `json:"progress"`
}

// ParseDate validates a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ValidProgress reports whether v is a finite percentage in [0, 100].
func ValidProgress(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
