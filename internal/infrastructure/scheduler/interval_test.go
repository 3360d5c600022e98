package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestIntervalSchedulerFiresImmediately(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	fired := make(chan time.Time, 1)

	if err := s.Start(context.Background(), func(at time.Time) { fired <- at }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("expected an immediate first fire")
	}
}

func TestIntervalSchedulerStopIsIdempotentAndRestartable(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	fired := make(chan time.Time, 2)
	job := func(at time.Time) { fired <- at }

	if err := s.Start(context.Background(), job); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("first start did not fire")
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}

	if err := s.Start(context.Background(), job); err != nil {
		t.Fatalf("restart error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("restart did not fire")
	}
}
