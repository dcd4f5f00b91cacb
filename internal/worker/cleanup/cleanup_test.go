package cleanup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jobtrackr/backend/internal/model"
	"github.com/jobtrackr/backend/internal/repository"
	"go.uber.org/zap"
)

type sweepRecorder struct {
	mu     sync.Mutex
	sweeps int
}

func (s *sweepRecorder) Create(context.Context, *model.Session) error { return nil }

func (s *sweepRecorder) ListWithUsers(context.Context) ([]repository.SessionRecord, error) {
	return nil, nil
}

func (s *sweepRecorder) Delete(context.Context, uint) error { return nil }

func (s *sweepRecorder) DeleteExpired(context.Context, time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	return 1, nil
}

func (s *sweepRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

func TestWorkerSweepsImmediatelyAndOnTicks(t *testing.T) {
	repo := &sweepRecorder{}
	worker := New(repo, 20*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	time.Sleep(70 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	// One immediate sweep plus at least two ticks
	if got := repo.count(); got < 3 {
		t.Errorf("sweeps = %d, want >= 3", got)
	}
}

func TestWorkerStopsOnCancel(t *testing.T) {
	repo := &sweepRecorder{}
	worker := New(repo, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit with a cancelled context")
	}
}
