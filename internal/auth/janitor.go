package auth

import (
	"context"
	"log"
	"time"
)

// Janitor deletes sessions that are expired or inactive.  It is pure
// storage hygiene: a dead session already fails authentication, so a
// missed sweep never lets anyone in.  Sweep runs once when the worker
// starts and then on every tick until Stop is called.
type Janitor struct {
	Sessions SessionStore
	Interval time.Duration

	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewJanitor builds a Janitor.  A non-positive interval defaults to one
// hour.
func NewJanitor(sessions SessionStore, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{
		Sessions: sessions,
		Interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Sweep deletes every dead session and returns how many rows went away.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	return j.Sessions.DeleteDead(ctx, j.now().UTC())
}

// Start launches the background sweep loop.  Non-blocking; call Stop to
// shut it down.
func (j *Janitor) Start() {
	go j.run()
	log.Printf("session janitor started (interval=%s)", j.Interval)
}

// Stop shuts the loop down and waits for an in-progress sweep to end.
func (j *Janitor) Stop() {
	close(j.stopCh)
	<-j.doneCh
	log.Printf("session janitor stopped")
}

func (j *Janitor) run() {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	j.sweepOnce()
	for {
		select {
		case <-ticker.C:
			j.sweepOnce()
		case <-j.stopCh:
			return
		}
	}
}

func (j *Janitor) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := j.Sweep(ctx)
	if err != nil {
		log.Printf("session janitor: sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("session janitor: removed %d dead sessions", n)
	}
}
