package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/postloom/postloom/internal/repository"
)

const sweepBatchSize = 50

// EnqueueFunc hands one due post to the publish queue.
type EnqueueFunc func(postID int64) error

// Scheduler periodically sweeps for scheduled posts whose time has passed
// and hands them to the queue. Posts normally arrive through a delayed task
// enqueued at creation; the sweep catches anything that slipped through
// (missed task, post created in the past, queue loss). The worker-side claim
// makes double delivery harmless.
type Scheduler struct {
	pr       repository.PostRepository
	enqueue  EnqueueFunc
	interval time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func New(pr repository.PostRepository, enqueue EnqueueFunc, interval time.Duration) *Scheduler {
	return &Scheduler{
		pr:       pr,
		enqueue:  enqueue,
		interval: interval,
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop()
	slog.Info("scheduler started", "interval", s.interval.String())
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	slog.Info("scheduler stopped")
}

// loop runs sweeps on a single goroutine, so a slow sweep never overlaps
// the next one.
func (s *Scheduler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep(context.Background())
		}
	}
}

// Sweep enqueues every due post, oldest scheduled_time first. Failures are
// logged and the tick ends; the next sweep picks the post up again because
// only the dispatch claim changes its status.
func (s *Scheduler) Sweep(ctx context.Context) {
	posts, err := s.pr.ListDue(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, post := range posts {
		if err := s.enqueue(post.ID); err != nil {
			slog.Info("failed to enqueue due post", "post_id", post.ID, "error", err.Error())
		}
	}
}
