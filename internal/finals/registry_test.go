package finals

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(NewMemoryRepo())

	name, ok, err := reg.Toggle(ctx, "tower", "sow.pdf")
	if err != nil || !ok || name != "sow.pdf" {
		t.Fatalf("first toggle = %q, %v, %v; want sow.pdf set", name, ok, err)
	}

	name, ok, err = reg.Toggle(ctx, "tower", "sow.pdf")
	if err != nil || ok || name != "" {
		t.Fatalf("second toggle = %q, %v, %v; want unset", name, ok, err)
	}
	if _, ok, _ := reg.Get(ctx, "tower"); ok {
		t.Fatalf("expected no final after second toggle")
	}

	name, ok, err = reg.Toggle(ctx, "tower", "sow.pdf")
	if err != nil || !ok || name != "sow.pdf" {
		t.Fatalf("third toggle = %q, %v, %v; want sow.pdf set", name, ok, err)
	}
}

func TestRegistryToggleOtherFileReplaces(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(NewMemoryRepo())

	if err := reg.Assign(ctx, "tower", "a.pdf"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	name, ok, err := reg.Toggle(ctx, "tower", "b.pdf")
	if err != nil || !ok || name != "b.pdf" {
		t.Fatalf("toggle = %q, %v, %v; want b.pdf", name, ok, err)
	}
	got, _, _ := reg.Get(ctx, "tower")
	if got != "b.pdf" {
		t.Fatalf("expected b.pdf to replace a.pdf, got %q", got)
	}
}

func TestRegistryProjectsAreIndependent(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(NewMemoryRepo())

	_ = reg.Assign(ctx, "north", "n.pdf")
	_ = reg.Assign(ctx, "south", "s.pdf")
	if err := reg.Clear(ctx, "north"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, ok, _ := reg.Get(ctx, "north"); ok {
		t.Fatalf("expected north cleared")
	}
	if got, ok, _ := reg.Get(ctx, "south"); !ok || got != "s.pdf" {
		t.Fatalf("expected south final kept, got %q", got)
	}
}

func TestRegistryRejectsEmptyInput(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(NewMemoryRepo())

	tests := []struct {
		name string
		run  func() error
	}{
		{name: "assign empty project", run: func() error { return reg.Assign(ctx, " ", "a.pdf") }},
		{name: "assign empty file", run: func() error { return reg.Assign(ctx, "p", "") }},
		{name: "clear empty project", run: func() error { return reg.Clear(ctx, "") }},
		{name: "get empty project", run: func() error { _, _, err := reg.Get(ctx, ""); return err }},
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

func TestRegistryClearIf(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(NewMemoryRepo())
	_ = reg.Assign(ctx, "tower", "sow.pdf")

	cleared, err := reg.ClearIf(ctx, "tower", "other.pdf")
	if err != nil || cleared {
		t.Fatalf("ClearIf other = %v, %v; want false", cleared, err)
	}
	cleared, err = reg.ClearIf(ctx, "tower", "sow.pdf")
	if err != nil || !cleared {
		t.Fatalf("ClearIf final = %v, %v; want true", cleared, err)
	}
	if _, ok, _ := reg.Get(ctx, "tower"); ok {
		t.Fatalf("expected final cleared")
	}
}

type failingRepo struct{ err error }

func (f failingRepo) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingRepo) Set(context.Context, string, string) error   { return f.err }
func (f failingRepo) Delete(context.Context, string) error        { return f.err }

func TestRegistryPropagatesRepoErrors(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry(failingRepo{err: boom})

	if _, _, err := reg.Get(context.Background(), "p"); !errors.Is(err, boom) {
		t.Fatalf("expected repo error from Get, got %v", err)
	}
	if _, _, err := reg.Toggle(context.Background(), "p", "f"); !errors.Is(err, boom) {
		t.Fatalf("expected repo error from Toggle, got %v", err)
	}
}
