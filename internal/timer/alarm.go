package timer

import (
	"sync"
	"time"
)

// RepeatingAlarm calls ring immediately and then every interval until silenced.
type RepeatingAlarm struct {
	scheduler Scheduler
	interval  time.Duration
	ring      func()

	mu   sync.Mutex
	task Task
}

func NewRepeatingAlarm(s Scheduler, interval time.Duration, ring func()) *RepeatingAlarm {
	if ring == nil {
		ring = func() {}
	}
	return &RepeatingAlarm{scheduler: s, interval: interval, ring: ring}
}

// Ring starts the alarm. Ringing an alarm that is already ringing does nothing.
func (a *RepeatingAlarm) Ring() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.task != nil {
		return
	}
	a.ring()
	a.task = a.scheduler.Every(a.interval, a.ring)
}

func (a *RepeatingAlarm) Silence() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.task != nil {
		a.task.Stop()
		a.task = nil
	}
}

func (a *RepeatingAlarm) Ringing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.task != nil
}
