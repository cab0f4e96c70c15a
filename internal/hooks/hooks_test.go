package hooks

import (
	"context"
	"errors"
	"testing"
)

func TestFireRunsHandlersInPriorityOrder(t *testing.T) {
	r := NewRegistry()
	var order []string

	r.Register("test.hook", 20, func(ctx context.Context, payload any) error {
		order = append(order, "late")
		return nil
	})
	r.Register("test.hook", 5, func(ctx context.Context, payload any) error {
		order = append(order, "early")
		return nil
	})
	r.Register("test.hook", 5, func(ctx context.Context, payload any) error {
		order = append(order, "early-second")
		return nil
	})

	if err := r.Fire(context.Background(), "test.hook", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"early", "early-second", "late"}
	if len(order) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, order[i], want[i])
		}
	}
}

func TestFirePassesPayload(t *testing.T) {
	r := NewRegistry()
	var got any
	r.Register("test.hook", 10, func(ctx context.Context, payload any) error {
		got = payload
		return nil
	})

	if err := r.Fire(context.Background(), "test.hook", "payload"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "payload" {
		t.Errorf("expected payload passed through, got %v", got)
	}
}

func TestFireContinuesPastFailuresAndJoinsErrors(t *testing.T) {
	r := NewRegistry()
	sentinel := errors.New("handler failed")
	ran := false

	r.Register("test.hook", 1, func(ctx context.Context, payload any) error {
		return sentinel
	})
	r.Register("test.hook", 2, func(ctx context.Context, payload any) error {
		ran = true
		return nil
	})

	err := r.Fire(context.Background(), "test.hook", nil)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if !ran {
		t.Error("expected later handler to run after earlier failure")
	}
}

func TestFireUnknownHookIsNoOp(t *testing.T) {
	r := NewRegistry()
	if err := r.Fire(context.Background(), "nobody.home", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
