package services

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"poshts/internal/logger"
	"poshts/internal/metrics"

	"go.uber.org/zap"
)

// Scheduler runs one-shot delayed tasks in process. Nothing is persisted:
// pending tasks are lost on restart and a scheduled task cannot be cancelled.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[uint64]*time.Timer
	nextID  uint64
	closed  bool
	all     sync.WaitGroup // pending + running
	running sync.WaitGroup
	metrics *metrics.Metrics
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timers:  make(map[uint64]*time.Timer),
		metrics: metrics.Get(),
	}
}

// Schedule runs task after delay on its own goroutine with a background context.
// It returns false once the scheduler has been shut down.
func (s *Scheduler) Schedule(delay time.Duration, name string, task func(ctx context.Context)) bool {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		logger.Log.Warn("Scheduler closed, task dropped", zap.String("task", name))
		return false
	}

	id := s.nextID
	s.nextID++
	s.all.Add(1)
	s.metrics.SchedulerPending.Inc()
	s.timers[id] = time.AfterFunc(delay, func() { s.fire(id, name, task) })
	return true
}

func (s *Scheduler) fire(id uint64, name string, task func(ctx context.Context)) {
	s.mu.Lock()
	delete(s.timers, id)
	s.metrics.SchedulerPending.Dec()
	if s.closed {
		// fired while Shutdown was stopping timers
		s.mu.Unlock()
		s.all.Done()
		logger.Log.Info("Scheduler closed, pending task dropped", zap.String("task", name))
		return
	}
	s.running.Add(1)
	s.mu.Unlock()

	s.metrics.SchedulerRunning.Inc()
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Scheduled task panicked",
				zap.String("task", name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
		s.metrics.SchedulerRunning.Dec()
		s.running.Done()
		s.all.Done()
	}()

	task(context.Background())
}

// Pending 等待中的任务数
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Wait blocks until every scheduled task, including ones scheduled by running tasks, has finished.
func (s *Scheduler) Wait() {
	s.all.Wait()
}

// Shutdown drops pending timers and waits for running tasks until ctx is done.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	dropped := 0
	for id, t := range s.timers {
		if t.Stop() {
			delete(s.timers, id)
			dropped++
			s.metrics.SchedulerPending.Dec()
			s.all.Done()
		}
	}
	s.mu.Unlock()

	logger.Log.Info("Scheduler shutting down", zap.Int("dropped_pending", dropped))

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
