package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// MemoryRateLimitStore keeps windows in a process-local map. Separate
// processes do not share counts, so N instances admit up to N times the
// configured quota.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]Window
	sweeper *cron.Cron
	now     func() time.Time
}

// NewMemoryRateLimitStore creates the store and, when sweepSpec is set,
// schedules removal of elapsed windows (e.g. "@every 30m").
func NewMemoryRateLimitStore(sweepSpec string) (*MemoryRateLimitStore, error) {
	s := &MemoryRateLimitStore{
		windows: make(map[string]Window),
		now:     time.Now,
	}
	if sweepSpec == "" {
		return s, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(sweepSpec, s.Sweep); err != nil {
		return nil, fmt.Errorf("schedule rate limit sweep %q: %w", sweepSpec, err)
	}
	c.Start()
	s.sweeper = c
	return s, nil
}

// Stop halts the sweep schedule and waits for a running sweep to finish.
func (s *MemoryRateLimitStore) Stop() {
	if s.sweeper == nil {
		return
	}
	<-s.sweeper.Stop().Done()
}

func (s *MemoryRateLimitStore) Get(_ context.Context, key string) (Window, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	return w, ok, nil
}

func (s *MemoryRateLimitStore) Increment(_ context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || w.Expired(now) {
		w = Window{Count: 1, ResetAt: now.Add(window)}
	} else {
		w.Count++
	}
	s.windows[key] = w
	return w, nil
}

func (s *MemoryRateLimitStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Sweep drops every window that has elapsed.
func (s *MemoryRateLimitStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.windows {
		if w.Expired(now) {
			delete(s.windows, key)
		}
	}
}

// Len returns the number of tracked clients.
func (s *MemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
