package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"

	"docreview-backend/internal/anomalies"
	"docreview-backend/internal/progress"
	"docreview-backend/internal/projects"
)

const wordWrap = 80

func renderFiles(w io.Writer, metas []projects.FileMeta, daily []string, final string, selected []string) {
	fmt.Fprintln(w, "Project files:")
	if len(metas) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range metas {
		mark := " "
		switch {
		case m.Name == final:
			mark = "*"
		case slices.Contains(selected, m.Name):
			mark = "+"
		}
		fmt.Fprintf(tw, "  %s %s\t%s\t%d bytes\n", mark, m.Name, m.LastModified.Format("2006-01-02"), m.Size)
	}
	_ = tw.Flush()

	fmt.Fprintln(w, "Daily reports:")
	if len(daily) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, d := range daily {
		fmt.Fprintf(w, "    %s\n", d)
	}
}

func renderSelection(w io.Writer, files []string) {
	if len(files) == 0 {
		fmt.Fprintln(w, "Selection is empty")
		return
	}
	fmt.Fprintf(w, "Selected: %s\n", strings.Join(files, ", "))
}

// renderSummary prints severity counts followed by one block per entry.
func renderSummary(w io.Writer, s anomalies.Summary) {
	c := s.Counts
	fmt.Fprintf(w, "High: %d  Medium: %d  Low: %d  (total %d)\n", c.High, c.Medium, c.Low, c.Total())
	if len(s.Entries) == 0 {
		fmt.Fprintln(w, "No anomalies found.")
		return
	}
	for i, e := range s.Entries {
		fmt.Fprintf(w, "\n%d. %s [%s]\n", i+1, orDash(e.Category), orDash(e.Severity.Label()))
		fmt.Fprintf(w, "   expected: %s\n", orDash(e.Expected))
		fmt.Fprintf(w, "   actual:   %s\n", orDash(e.Actual))
	}
}

func renderChart(w io.Writer, points []progress.ChartPoint) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No progress recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPROGRESS\t")
	for _, p := range points {
		bar := strings.Repeat("#", int(p.Progress/5))
		fmt.Fprintf(tw, "%s\t%5.1f%%\t%s\n", p.Date, p.Progress, bar)
	}
	_ = tw.Flush()
}

// printMarkdown renders md for the terminal unless plain is set.
func printMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := fmt.Fprintln(w, md)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
