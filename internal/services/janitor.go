package services

import (
	"context"
	"log"
	"sync"
	"time"

	"alfredoptarigan/resume-screener/internal/repositories"
)

// Janitor expires dashboard sessions that have been idle longer than ttl.
type Janitor interface {
	Start(ctx context.Context)
	Stop()
	Sweep() int
}

type janitor struct {
	sessionRepo repositories.SessionRepository
	ttl         time.Duration
	interval    time.Duration
	now         func() time.Time
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewJanitor(sessionRepo repositories.SessionRepository, ttl, interval time.Duration) Janitor {
	return &janitor{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		interval:    interval,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Janitor.
func (j *janitor) Start(ctx context.Context) {
	log.Printf("🧹 Starting session janitor (ttl %s, every %s)\n", j.ttl, j.interval)

	j.wg.Add(1)
	go j.run(ctx)
}

// Stop implements Janitor.
func (j *janitor) Stop() {
	log.Println("🛑 Stopping session janitor...")
	j.stopOnce.Do(func() { close(j.stopChan) })
	j.wg.Wait()
	log.Println("✅ Session janitor stopped")
}

// Sweep removes idle sessions once and returns how many were dropped.
func (j *janitor) Sweep() int {
	return j.sessionRepo.DeleteIdle(j.now().Add(-j.ttl))
}

func (j *janitor) run(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.Sweep(); n > 0 {
				log.Printf("🧹 Expired %d idle sessions\n", n)
			}
		}
	}
}
