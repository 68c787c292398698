package session

import (
	"testing"
	"time"
)

func TestSchedulerIsDue(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(5*time.Second, true, clock.Now())

	if s.IsDue(clock.Advance(4999 * time.Millisecond)) {
		t.Fatal("refresh should not be due before the interval elapses")
	}
	if !s.IsDue(clock.Advance(time.Millisecond)) {
		t.Fatal("refresh should be due once the interval elapses")
	}
	s.Mark(clock.Now())
	if s.IsDue(clock.Now()) {
		t.Fatal("refresh should not be due right after marking")
	}
}

func TestSchedulerDisabledNeverDue(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(time.Second, false, clock.Now())
	if s.IsDue(clock.Advance(time.Hour)) {
		t.Fatal("disabled scheduler reported due")
	}
}

func TestSchedulerToggleRestartsInterval(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(5*time.Second, true, clock.Now())
	if s.Toggle(clock.Now()) {
		t.Fatal("first toggle should disable")
	}
	clock.Advance(time.Minute)
	if !s.Toggle(clock.Now()) {
		t.Fatal("second toggle should enable")
	}
	if s.IsDue(clock.Advance(time.Second)) {
		t.Fatal("enabling should restart the interval")
	}
}

func TestSchedulerDefaultInterval(t *testing.T) {
	s := NewScheduler(0, true, time.Now())
	if s.Interval() != DefaultRefreshInterval {
		t.Fatalf("interval %v, want %v", s.Interval(), DefaultRefreshInterval)
	}
}
