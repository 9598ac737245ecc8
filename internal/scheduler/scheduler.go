package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	pkgLog "kurisu-bot/pkg/log"
)

// Callback runs one proactive turn for a user.
type Callback func(ctx context.Context) error

// Config bounds the proactive message loop. WindowStart and WindowEnd are
// local wall-clock times in "HH:MM" form; the window is half-open, so a tick
// exactly at WindowEnd is already outside it.
type Config struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	WindowStart string
	WindowEnd   string
	Location    *time.Location
}

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler runs at most one randomized notification loop per user.
type Scheduler struct {
	l   pkgLog.Logger
	cfg Config
	loc *time.Location

	windowStart int // minutes since midnight
	windowEnd   int

	now func() time.Time // stubbed in tests

	mu   sync.Mutex
	jobs map[int64]*job
}

// New creates a Scheduler, parsing the window bounds up front.
func New(l pkgLog.Logger, cfg Config) (*Scheduler, error) {
	if cfg.MinInterval <= 0 || cfg.MaxInterval < cfg.MinInterval {
		return nil, fmt.Errorf("invalid interval range [%s, %s]", cfg.MinInterval, cfg.MaxInterval)
	}

	start, err := parseClock(cfg.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("invalid window_start: %w", err)
	}
	end, err := parseClock(cfg.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid window_end: %w", err)
	}
	if start >= end {
		return nil, fmt.Errorf("window_start %q must be before window_end %q", cfg.WindowStart, cfg.WindowEnd)
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		l:           l,
		cfg:         cfg,
		loc:         loc,
		windowStart: start,
		windowEnd:   end,
		now:         time.Now,
		jobs:        make(map[int64]*job),
	}, nil
}

// Start launches the notification loop for a user. If a loop is already
// running for that user it is cancelled first, so each user has at most one.
func (s *Scheduler) Start(userID int64, fn Callback) {
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if prev, ok := s.jobs[userID]; ok {
		prev.cancel()
		<-prev.done
	}
	s.jobs[userID] = j
	s.mu.Unlock()

	go s.run(ctx, j, userID, fn)
}

// Stop cancels the user's loop, interrupting any in-progress sleep. It is a
// no-op when no loop is running.
func (s *Scheduler) Stop(userID int64) {
	s.mu.Lock()
	j, ok := s.jobs[userID]
	if ok {
		delete(s.jobs, userID)
	}
	s.mu.Unlock()

	if ok {
		j.cancel()
		<-j.done
	}
}

// StopAll cancels every running loop and waits for them to exit.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	jobs := s.jobs
	s.jobs = make(map[int64]*job)
	s.mu.Unlock()

	for _, j := range jobs {
		j.cancel()
	}
	for _, j := range jobs {
		<-j.done
	}
}

func (s *Scheduler) run(ctx context.Context, j *job, userID int64, fn Callback) {
	defer close(j.done)

	s.l.Infof(ctx, "scheduler: started loop for user %d", userID)
	for {
		// Outside the active window: wait for it to open, then re-check, so
		// the first ping of the day still gets a random offset instead of
		// firing at the opening minute sharp.
		if wait := s.untilWindowOpen(s.now().In(s.loc)); wait > 0 {
			if !s.sleep(ctx, wait) {
				s.l.Infof(ctx, "scheduler: stopped loop for user %d", userID)
				return
			}
			continue
		}

		if !s.sleep(ctx, s.randomInterval()) {
			s.l.Infof(ctx, "scheduler: stopped loop for user %d", userID)
			return
		}

		if err := s.invoke(ctx, fn); err != nil {
			s.l.Warnf(ctx, "scheduler: callback failed for user %d: %v", userID, err)
		}
	}
}

// invoke shields the loop from callback panics.
func (s *Scheduler) invoke(ctx context.Context, fn Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v", r)
		}
	}()
	return fn(ctx)
}

// sleep waits for d or until ctx is cancelled, reporting whether the full
// duration elapsed.
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// randomInterval picks a uniform duration in [MinInterval, MaxInterval].
func (s *Scheduler) randomInterval() time.Duration {
	spread := s.cfg.MaxInterval - s.cfg.MinInterval
	return s.cfg.MinInterval + time.Duration(rand.Int63n(int64(spread+1)))
}

// untilWindowOpen returns how long to wait from now until the active window
// next opens, or 0 when now is already inside the window.
func (s *Scheduler) untilWindowOpen(now time.Time) time.Duration {
	minutes := now.Hour()*60 + now.Minute()
	if minutes >= s.windowStart && minutes < s.windowEnd {
		return 0
	}

	open := time.Date(now.Year(), now.Month(), now.Day(), s.windowStart/60, s.windowStart%60, 0, 0, now.Location())
	if minutes >= s.windowEnd {
		open = open.AddDate(0, 0, 1)
	}
	return open.Sub(now)
}

func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("%q is not HH:MM: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
