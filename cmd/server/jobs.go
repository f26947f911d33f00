package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

const cleanupTimeout = 5 * time.Minute

type cachePurger interface {
	PurgeExpired(ctx context.Context, ttl time.Duration) (int64, error)
}

// cacheCleanup purges expired market cache rows. Overlapping runs are skipped.
type cacheCleanup struct {
	cache   cachePurger
	ttl     time.Duration
	running int32
}

func (c *cacheCleanup) run() {
	if !atomic.CompareAndSwapInt32(&c.running, 0, 1) {
		log.Println("cache cleanup still running, skipping this run")
		return
	}
	defer atomic.StoreInt32(&c.running, 0)

	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	n, err := c.cache.PurgeExpired(ctx, c.ttl)
	if err != nil {
		log.Printf("cache cleanup: %v", err)
		return
	}
	if n > 0 {
		log.Printf("cache cleanup: purged %d expired entries", n)
	}
}

func startScheduler(spec string, job func()) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("schedule cache cleanup %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
