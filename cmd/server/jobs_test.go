package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakePurger struct {
	calls int
	ttl   time.Duration
	err   error
}

func (f *fakePurger) PurgeExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	f.calls++
	f.ttl = ttl
	return 3, f.err
}

func TestCacheCleanupRunsPurge(t *testing.T) {
	purger := &fakePurger{}
	job := &cacheCleanup{cache: purger, ttl: 6 * time.Hour}

	job.run()
	job.run()

	if purger.calls != 2 || purger.ttl != 6*time.Hour {
		t.Fatalf("unexpected purge calls: %+v", purger)
	}
	if atomic.LoadInt32(&job.running) != 0 {
		t.Fatalf("guard was not released")
	}
}

func TestCacheCleanupSkipsOverlappingRun(t *testing.T) {
	purger := &fakePurger{}
	job := &cacheCleanup{cache: purger, ttl: time.Hour}
	atomic.StoreInt32(&job.running, 1)

	job.run()

	if purger.calls != 0 {
		t.Fatalf("expected overlapping run to be skipped, got %d calls", purger.calls)
	}
}

func TestCacheCleanupReleasesGuardOnError(t *testing.T) {
	purger := &fakePurger{err: errors.New("database is locked")}
	job := &cacheCleanup{cache: purger, ttl: time.Hour}

	job.run()
	job.run()

	if purger.calls != 2 {
		t.Fatalf("expected guard release after failure, got %d calls", purger.calls)
	}
}

func TestStartSchedulerRejectsBadSpec(t *testing.T) {
	if _, err := startScheduler("every tuesday-ish", func() {}); err == nil {
		t.Fatalf("expected invalid cron spec error")
	}

	c, err := startScheduler("@every 1h", func() {})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c.Stop()
}
