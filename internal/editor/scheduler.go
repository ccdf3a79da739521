package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
)

// Persister is the save target of the Scheduler. The controller implements
// it on top of the record store for the currently open session.
type Persister interface {
	// Snapshot returns the live editor state to be persisted.
	Snapshot() (title, content, categoryID string)

	// Persist writes the state durably.
	Persist(ctx context.Context, title, content, categoryID string) error

	// SaveFailed is invoked when a save was abandoned after a storage
	// failure. The state stays only in the live editor until a later save
	// succeeds, so the failure must be surfaced to the user.
	SaveFailed(err error)
}

// Scheduler decides when the current editor state reaches disk, balancing
// responsiveness against write amplification.
//
// Policy: a change-triggered save runs immediately when no save is in flight
// and at least the minimum interval has elapsed since the last completed
// save; otherwise it is deferred into a single pending slot that fires once
// the remaining wait elapses, coalescing intermediate changes. Requests that
// arrive while a save is in flight are ignored, not queued; the dirty flag
// they set is picked up by the next trigger. A periodic timer independently
// forces a save as a durability backstop, and Flush forces one synchronously
// on close.
type Scheduler struct {
	target      Persister
	minInterval time.Duration
	periodic    time.Duration
	logger      *logger.Logger

	mu       sync.Mutex
	dirty    bool
	saving   bool
	lastSave time.Time
	delay    *time.Timer
	delayed  bool

	now func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(target Persister, minInterval, periodic time.Duration, log *logger.Logger) *Scheduler {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	if periodic <= 0 {
		periodic = time.Minute
	}

	return &Scheduler{
		target:      target,
		minInterval: minInterval,
		periodic:    periodic,
		logger:      log,
		now:         time.Now,
	}
}

// NoteChanged marks the session dirty and requests a save per the debounce
// policy.
func (s *Scheduler) NoteChanged(ctx context.Context) {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()

	s.Request(ctx)
}

// Request asks for a save of the current state. It runs the save inline when
// allowed, defers it into the pending slot when the minimum interval has not
// yet elapsed, and is a no-op while a save is in flight or nothing is dirty.
func (s *Scheduler) Request(ctx context.Context) {
	s.mu.Lock()

	if s.saving || !s.dirty {
		s.mu.Unlock()
		return
	}

	elapsed := s.now().Sub(s.lastSave)
	if elapsed >= s.minInterval {
		s.saving = true
		s.mu.Unlock()
		s.save(ctx)
		return
	}

	// single pending slot: later requests coalesce into the scheduled one
	if !s.delayed {
		s.delayed = true
		s.delay = time.AfterFunc(s.minInterval-elapsed, func() {
			s.mu.Lock()
			s.delayed = false
			if s.saving || !s.dirty {
				s.mu.Unlock()
				return
			}
			s.saving = true
			s.mu.Unlock()
			s.save(ctx)
		})
	}

	s.mu.Unlock()
}

// Flush forces a synchronous save if the session is dirty, regardless of the
// minimum interval. Called on editor close and page teardown.
func (s *Scheduler) Flush(ctx context.Context) {
	s.mu.Lock()

	if s.delay != nil {
		s.delay.Stop()
		s.delayed = false
	}

	if !s.dirty || s.saving {
		s.mu.Unlock()
		return
	}

	s.saving = true
	s.mu.Unlock()

	s.save(ctx)
}

// Start launches the periodic forced-save backstop. It stops any previously
// running backstop first. The goroutine exits when ctx is cancelled or Stop
// is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.periodic)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				s.Flush(jobCtx)
			}
		}
	}()
}

// Stop cancels the periodic backstop and any pending deferred save, then
// blocks until the background goroutine has exited. Safe to call when the
// scheduler is not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	if s.delay != nil {
		s.delay.Stop()
		s.delayed = false
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// save performs one persist cycle. Caller must have set s.saving.
func (s *Scheduler) save(ctx context.Context) {
	title, content, categoryID := s.target.Snapshot()

	// derive a title from content when the user left the default one
	if title == "" || title == DefaultTitle {
		title = DeriveTitle(content)
	}

	// empty-note suppression: nothing worth writing
	if title == DefaultTitle && strings.TrimSpace(StripTags(content)) == "" {
		s.mu.Lock()
		s.dirty = false
		s.saving = false
		s.mu.Unlock()
		return
	}

	// clear dirty up front so changes made during the write re-mark it
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()

	err := s.target.Persist(ctx, title, content, categoryID)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.dirty = true
		s.mu.Unlock()
		s.logger.Err(err).Str("func", "Scheduler.save").Msg("save failed, keeping state dirty")
		s.target.SaveFailed(err)
		return
	}
	s.lastSave = s.now()
	s.mu.Unlock()
}
