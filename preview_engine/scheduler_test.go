package preview_engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchrun/livepreview/preview_engine/models"
)

func TestSnapshotHash(t *testing.T) {
	files := []models.ProjectFile{
		{Path: "index.html", Content: "<html></html>"},
		{Path: "app.js", Content: "void 0;"},
	}

	assert.Equal(t, SnapshotHash(files), SnapshotHash(files))

	edited := []models.ProjectFile{
		{Path: "index.html", Content: "<html><body></body></html>"},
		{Path: "app.js", Content: "void 0;"},
	}
	assert.NotEqual(t, SnapshotHash(files), SnapshotHash(edited))

	renamed := []models.ProjectFile{
		{Path: "home.html", Content: "<html></html>"},
		{Path: "app.js", Content: "void 0;"},
	}
	assert.NotEqual(t, SnapshotHash(files), SnapshotHash(renamed))

	// Hashing normalizes paths the same way resolution does.
	slashed := []models.ProjectFile{
		{Path: "./index.html", Content: "<html></html>"},
		{Path: "app.js", Content: "void 0;"},
	}
	assert.Equal(t, SnapshotHash(files), SnapshotHash(slashed))
}

type runRecorder struct {
	mu   sync.Mutex
	runs int
	last []models.ProjectFile
}

func (r *runRecorder) run(files []models.ProjectFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	r.last = files
}

func (r *runRecorder) snapshot() (int, []models.ProjectFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs, r.last
}

func TestScheduler_DebouncesToLastWrite(t *testing.T) {
	rec := &runRecorder{}
	s := NewScheduler(30*time.Millisecond, rec.run)
	defer s.Stop()

	s.Notify([]models.ProjectFile{{Path: "index.html", Content: "v1"}})
	s.Notify([]models.ProjectFile{{Path: "index.html", Content: "v2"}})
	s.Notify([]models.ProjectFile{{Path: "index.html", Content: "v3"}})

	time.Sleep(150 * time.Millisecond)

	runs, last := rec.snapshot()
	assert.Equal(t, 1, runs)
	require.Len(t, last, 1)
	assert.Equal(t, "v3", last[0].Content)
}

func TestScheduler_UnchangedSnapshotSkipsRerun(t *testing.T) {
	rec := &runRecorder{}
	s := NewScheduler(20*time.Millisecond, rec.run)
	defer s.Stop()

	files := []models.ProjectFile{{Path: "index.html", Content: "v1"}}
	s.Notify(files)
	time.Sleep(100 * time.Millisecond)

	s.Notify(files)
	time.Sleep(100 * time.Millisecond)

	runs, _ := rec.snapshot()
	assert.Equal(t, 1, runs)
}

func TestScheduler_RevertWithinWindowSkipsRerun(t *testing.T) {
	rec := &runRecorder{}
	s := NewScheduler(30*time.Millisecond, rec.run)
	defer s.Stop()

	v1 := []models.ProjectFile{{Path: "index.html", Content: "v1"}}
	s.Notify(v1)
	time.Sleep(100 * time.Millisecond)

	// A change that is reverted before the window expires leaves the
	// snapshot identical to the last committed one.
	s.Notify([]models.ProjectFile{{Path: "index.html", Content: "v2"}})
	s.Notify(v1)
	s.Flush()

	runs, _ := rec.snapshot()
	assert.Equal(t, 1, runs)
}

func TestScheduler_ChangedSnapshotRunsAgain(t *testing.T) {
	rec := &runRecorder{}
	s := NewScheduler(20*time.Millisecond, rec.run)
	defer s.Stop()

	s.Notify([]models.ProjectFile{{Path: "index.html", Content: "v1"}})
	time.Sleep(100 * time.Millisecond)

	s.Notify([]models.ProjectFile{{Path: "index.html", Content: "v2"}})
	time.Sleep(100 * time.Millisecond)

	runs, last := rec.snapshot()
	assert.Equal(t, 2, runs)
	assert.Equal(t, "v2", last[0].Content)
}

func TestScheduler_FlushRunsImmediately(t *testing.T) {
	rec := &runRecorder{}
	s := NewScheduler(10*time.Second, rec.run)
	defer s.Stop()

	s.Notify([]models.ProjectFile{{Path: "index.html", Content: "v1"}})
	s.Flush()

	runs, _ := rec.snapshot()
	assert.Equal(t, 1, runs)
}

func TestScheduler_EmptySnapshotStillRuns(t *testing.T) {
	rec := &runRecorder{}
	s := NewScheduler(10*time.Second, rec.run)
	defer s.Stop()

	s.Notify(nil)
	s.Flush()

	runs, last := rec.snapshot()
	assert.Equal(t, 1, runs)
	assert.Nil(t, last)
}

func TestScheduler_StopCancelsPendingRun(t *testing.T) {
	rec := &runRecorder{}
	s := NewScheduler(30*time.Millisecond, rec.run)

	s.Notify([]models.ProjectFile{{Path: "index.html", Content: "v1"}})
	s.Stop()

	time.Sleep(100 * time.Millisecond)
	runs, _ := rec.snapshot()
	assert.Equal(t, 0, runs)
}
