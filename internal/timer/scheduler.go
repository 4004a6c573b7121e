package timer

import (
	"sync"
	"time"
)

// Task is a handle to a repeating callback. Stop is safe to call more than once.
type Task interface {
	Stop()
}

// Scheduler runs fn every d until the returned Task is stopped.
type Scheduler interface {
	Every(d time.Duration, fn func()) Task
}

// TickerScheduler drives callbacks from a time.Ticker on its own goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) Task {
	task := &tickerTask{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go task.run(fn)
	return task
}

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			fn()
		}
	}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
