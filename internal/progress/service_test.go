package progress

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestServiceChartFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	svc := &Service{Repo: NewMemoryRepo()}

	for _, p := range []ChartPoint{
		{Date: "2026-03-03", Progress: 30},
		{Date: "2026-03-01", Progress: 10},
		{Date: "2026-03-02", Progress: 20},
	} {
		if _, err := svc.Record(ctx, "tower", p.Date, p.Progress); err != nil {
			t.Fatalf("Record(%s): %v", p.Date, err)
		}
	}
	// Upsert replaces a date.
	if _, err := svc.Record(ctx, "tower", "2026-03-02", 25); err != nil {
		t.Fatalf("Record: %v", err)
	}

	all, err := svc.Chart(ctx, "tower", "")
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	want := []ChartPoint{
		{Date: "2026-03-01", Progress: 10},
		{Date: "2026-03-02", Progress: 25},
		{Date: "2026-03-03", Progress: 30},
	}
	if len(all) != len(want) {
		t.Fatalf("expected %d points, got %v", len(want), all)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, all[i], want[i])
		}
	}

	since, err := svc.Chart(ctx, "tower", "2026-03-02")
	if err != nil {
		t.Fatalf("Chart since: %v", err)
	}
	if len(since) != 2 || since[0].Date != "2026-03-02" {
		t.Fatalf("unexpected filtered series %v", since)
	}
}

func TestServiceChartEmptyProjectSeries(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	points, err := svc.Chart(context.Background(), "empty", "")
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if points == nil || len(points) != 0 {
		t.Fatalf("expected empty non-nil series, got %#v", points)
	}
}

func TestServiceValidation(t *testing.T) {
	ctx := context.Background()
	svc := &Service{Repo: NewMemoryRepo()}

	tests := []struct {
		name string
		run  func() error
	}{
		{name: "bad date", run: func() error { _, err := svc.Record(ctx, "p", "03/01/2026", 5); return err }},
		{name: "negative", run: func() error { _, err := svc.Record(ctx, "p", "2026-03-01", -1); return err }},
		{name: "over 100", run: func() error { _, err := svc.Record(ctx, "p", "2026-03-01", 100.5); return err }},
		{name: "not a number", run: func() error { _, err := svc.Record(ctx, "p", "2026-03-01", math.NaN()); return err }},
		{name: "infinite", run: func() error { _, err := svc.Record(ctx, "p", "2026-03-01", math.Inf(1)); return err }},
		{name: "empty project", run: func() error { _, err := svc.Record(ctx, "", "2026-03-01", 5); return err }},
		{name: "bad start date", run: func() error { _, err := svc.Chart(ctx, "p", "yesterday"); return err }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
