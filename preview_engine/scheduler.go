package preview_engine

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/sketchrun/livepreview/preview_engine/models"
	"github.com/sketchrun/livepreview/utils"
)

// SnapshotHash computes an order-preserving composite hash over
// (normalizedPath, contentLength, contentHash) for every file. Two
// snapshots hash equal exactly when a rerun would be redundant.
func SnapshotHash(files []models.ProjectFile) uint64 {
	h := xxh3.New()
	var lenBuf [8]byte
	for _, f := range files {
		_, _ = h.WriteString(utils.NormalizePath(f.Path))
		_, _ = h.Write([]byte{0})
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(f.Content)))
		_, _ = h.Write(lenBuf[:])
		binary.LittleEndian.PutUint64(lenBuf[:], xxh3.HashString(f.Content))
		_, _ = h.Write(lenBuf[:])
	}
	return h.Sum64()
}

// Scheduler debounces snapshot changes and drives one full pipeline run per
// committed change. Incremental AI-stream writes land as many Notify calls;
// only the last state inside the quiet window triggers a run, and an
// unchanged composite hash triggers nothing.
type Scheduler struct {
	window time.Duration
	run    func([]models.ProjectFile)

	mu            sync.Mutex
	timer         *time.Timer
	pending       []models.ProjectFile
	pendingHash   uint64
	hasPending    bool
	committedHash uint64
	committed     bool
}

// NewScheduler wires a debounce window to a run callback. A window of 0
// falls back to the 240ms default.
func NewScheduler(window time.Duration, run func([]models.ProjectFile)) *Scheduler {
	if window <= 0 {
		window = 240 * time.Millisecond
	}
	return &Scheduler{window: window, run: run}
}

// Notify offers a new snapshot. Last write wins: a change arriving before
// the window expires cancels and restarts the timer.
func (s *Scheduler) Notify(files []models.ProjectFile) {
	hash := SnapshotHash(files)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.committed && hash == s.committedHash && s.timer == nil {
		return
	}

	s.pending = files
	s.pendingHash = hash
	s.hasPending = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, s.fire)
}

// Flush runs any pending snapshot immediately, for shutdown and tests.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.fire()
}

// Stop cancels any pending run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.hasPending = false
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	files := s.pending
	hash := s.pendingHash
	fire := s.hasPending
	s.pending = nil
	s.hasPending = false
	s.timer = nil
	// The hash only commits here, so a change reverted within the window
	// compares equal to the last committed snapshot and runs nothing.
	if fire && s.committed && hash == s.committedHash {
		fire = false
	}
	if fire {
		s.committed = true
		s.committedHash = hash
	}
	s.mu.Unlock()

	if fire {
		s.run(files)
	}
}
