package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	repository "courier-sync.com/courier-sync/internal/repositories"
	"courier-sync.com/courier-sync/pkg/constants"
)

// OverdueSweeper periodically marks deadline-expired tasks overdue so that
// list responses and derived client views agree with the clock.
type OverdueSweeper struct {
	repo     *repository.TaskRepository
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewOverdueSweeper(repo *repository.TaskRepository, interval time.Duration) *OverdueSweeper {
	s := &OverdueSweeper{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.loop()

	return s
}

func (s *OverdueSweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *OverdueSweeper) SweepOnce(ctx context.Context) {
	tasks, err := s.repo.ListDeadlineExpired(ctx, time.Now().UTC(), 50)
	if err != nil {
		log.Printf("overdue sweep: failed to list expired tasks: %v", err)
		return
	}

	for i := range tasks {
		task := tasks[i]
		if !constants.CanTransition(task.Status, constants.StatusOverdue) {
			continue
		}
		task.Status = constants.StatusOverdue
		if err := s.repo.Update(ctx, &task); err != nil {
			if errors.Is(err, repository.ErrOptimisticLock) {
				// Someone moved the task first; next sweep re-evaluates it.
				continue
			}
			log.Printf("overdue sweep: failed to update task %s: %v", task.ID, err)
		}
	}
}

func (s *OverdueSweeper) Shutdown() {
	close(s.stop)
	s.wg.Wait()
}
