package session

import "time"

// DefaultRefreshInterval is how often list views reload while auto-refresh is on.
const DefaultRefreshInterval = 5 * time.Second

// Scheduler decides when an auto-refresh is due. Times should carry a
// monotonic reading (time.Now does) so wall-clock jumps do not matter.
type Scheduler struct {
	enabled  bool
	last     time.Time
	interval time.Duration
}

func NewScheduler(interval time.Duration, enabled bool, now time.Time) *Scheduler {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Scheduler{enabled: enabled, last: now, interval: interval}
}

func (s *Scheduler) Enabled() bool           { return s.enabled }
func (s *Scheduler) Interval() time.Duration { return s.interval }
func (s *Scheduler) LastRefresh() time.Time  { return s.last }

// IsDue reports whether auto-refresh is on and a full interval has passed
// since the last refresh.
func (s *Scheduler) IsDue(now time.Time) bool {
	return s.enabled && now.Sub(s.last) >= s.interval
}

// Mark records a refresh at now.
func (s *Scheduler) Mark(now time.Time) {
	s.last = now
}

// Toggle flips auto-refresh and returns the new state. Turning it on restarts
// the interval.
func (s *Scheduler) Toggle(now time.Time) bool {
	s.enabled = !s.enabled
	if s.enabled {
		s.last = now
	}
	return s.enabled
}
