// Package timer implements the count-up and countdown session for a single
// habit, and turns a finished session into a synthetic completion.
package timer

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

// Recorder receives the completion produced by a saved session.
type Recorder interface {
	AddCompletionAt(h models.Habit, at time.Time)
}

// Config wires a Timer to its collaborators. Clock and Recorder are required.
type Config struct {
	Clock     clock.Clock
	Recorder  Recorder
	Scheduler Scheduler
	// Alarm rings when a countdown reaches its target. Defaults to a silent alarm.
	Alarm *RepeatingAlarm
	// NewID generates ids for synthetic habits. Defaults to random UUIDs.
	NewID func() string
	// OnFinished is called once, outside the timer's lock, when a countdown completes.
	OnFinished func(models.Habit)
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	Running   bool
	Countdown bool
	Alarming  bool
	Elapsed   time.Duration
	Target    time.Duration
	Habit     *models.Habit
	Day       *time.Time
}

// Remaining is the time left on a countdown, zero otherwise.
func (s Snapshot) Remaining() time.Duration {
	if !s.Countdown || s.Elapsed >= s.Target {
		return 0
	}
	return s.Target - s.Elapsed
}

// Fraction is the completed share of a countdown in [0, 1].
func (s Snapshot) Fraction() float64 {
	if !s.Countdown || s.Target <= 0 {
		return 0
	}
	return math.Min(float64(s.Elapsed)/float64(s.Target), 1.0)
}

// Timer is the session state machine. All methods are safe for concurrent use;
// ticks arrive on the scheduler's goroutine.
type Timer struct {
	mu sync.Mutex

	clock      clock.Clock
	recorder   Recorder
	scheduler  Scheduler
	alarm      *RepeatingAlarm
	newID      func() string
	onFinished func(models.Habit)

	running   bool
	countdown bool
	elapsed   time.Duration
	target    time.Duration
	startedAt time.Time
	habit     *models.Habit
	day       *time.Time

	tick       Task
	generation uint64
}

func New(cfg Config) *Timer {
	if cfg.Scheduler == nil {
		cfg.Scheduler = TickerScheduler{}
	}
	if cfg.Alarm == nil {
		cfg.Alarm = NewRepeatingAlarm(cfg.Scheduler, constants.AlarmRingInterval, nil)
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.New().String() }
	}
	return &Timer{
		clock:      cfg.Clock,
		recorder:   cfg.Recorder,
		scheduler:  cfg.Scheduler,
		alarm:      cfg.Alarm,
		newID:      cfg.NewID,
		onFinished: cfg.OnFinished,
	}
}

// Start begins a count-up session. A nil habit or day keeps the one already set.
func (t *Timer) Start(habit *models.Habit, day *time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setContext(habit, day)
	t.begin(false, 0)
}

// StartCountdown begins a countdown toward the habit's quantity. A habit
// without a quantity gets a plain count-up session instead.
func (t *Timer) StartCountdown(habit *models.Habit, day *time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setContext(habit, day)

	var target time.Duration
	if t.habit != nil {
		target = time.Duration(t.habit.Quantity.Seconds()) * time.Second
	}
	if target <= 0 {
		logger.Debug("Habit has no quantity, starting count-up timer instead")
		t.begin(false, 0)
		return
	}
	t.begin(true, target)
}

func (t *Timer) setContext(habit *models.Habit, day *time.Time) {
	if habit != nil {
		h := *habit
		t.habit = &h
	}
	if day != nil {
		d := *day
		t.day = &d
	}
}

func (t *Timer) begin(countdown bool, target time.Duration) {
	t.alarm.Silence()
	t.countdown = countdown
	t.target = target
	t.elapsed = 0
	t.startedAt = t.clock.Now()
	t.running = true
	t.schedule()
}

// Resume continues a stopped session from its current elapsed time.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.alarm.Silence()
	t.startedAt = t.clock.Now().Add(-t.elapsed)
	t.running = true
	t.schedule()
}

// Stop pauses the session, keeping elapsed.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.halt()
}

func (t *Timer) halt() {
	t.running = false
	t.cancelTick()
}

// Reset cancels ticking and the alarm and clears the session.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelTick()
	t.alarm.Silence()
	t.running = false
	t.countdown = false
	t.elapsed = 0
	t.target = 0
	t.startedAt = time.Time{}
	t.habit = nil
	t.day = nil
}

// schedule replaces any running tick with a new one. Callbacks from older
// generations are ignored.
func (t *Timer) schedule() {
	t.cancelTick()
	t.generation++
	gen := t.generation
	t.tick = t.scheduler.Every(constants.TimerTickInterval, func() { t.onTick(gen) })
}

func (t *Timer) cancelTick() {
	if t.tick != nil {
		t.tick.Stop()
		t.tick = nil
	}
}

func (t *Timer) onTick(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || !t.running {
		t.mu.Unlock()
		return
	}
	t.elapsed = t.clock.Now().Sub(t.startedAt)
	finished := t.countdown && t.elapsed >= t.target
	var habit models.Habit
	if finished {
		t.elapsed = t.target
		t.halt()
		t.alarm.Ring()
		if t.habit != nil {
			habit = *t.habit
		}
		logger.Debug("Countdown finished", "habit", habit.Name, "target", t.target)
	}
	onFinished := t.onFinished
	t.mu.Unlock()

	if finished && onFinished != nil {
		onFinished(habit)
	}
}

// Snapshot returns a copy of the current session state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		Running:   t.running,
		Countdown: t.countdown,
		Alarming:  t.alarm.Ringing(),
		Elapsed:   t.elapsed,
		Target:    t.target,
	}
	if t.habit != nil {
		h := *t.habit
		s.Habit = &h
	}
	if t.day != nil {
		d := *t.day
		s.Day = &d
	}
	return s
}

// Save stops the session and records a synthetic completion scaled by the
// elapsed time. It reports false, recording nothing, when no time has
// elapsed or no habit is set. The session is not reset.
func (t *Timer) Save() (models.Completion, bool) {
	t.mu.Lock()
	t.halt()
	if t.elapsed <= 0 || t.habit == nil {
		t.mu.Unlock()
		return models.Completion{}, false
	}
	now := t.clock.Now()
	synthetic := SyntheticHabit(*t.habit, t.elapsed, t.newID())
	at := now
	if t.day != nil {
		at = clock.OnDay(t.clock, *t.day, now)
	}
	t.mu.Unlock()

	t.recorder.AddCompletionAt(synthetic, at)
	logger.Info("Timer session saved", "habit", synthetic.Name, "points", synthetic.Points, "minutes", synthetic.Quantity.Value)
	return models.Completion{Habit: synthetic, At: at}, true
}

// SaveAndRestart saves the session and immediately starts a new one of the
// same kind with the same habit and day.
func (t *Timer) SaveAndRestart() (models.Completion, bool) {
	t.mu.Lock()
	countdown := t.countdown
	t.mu.Unlock()

	c, ok := t.Save()
	if countdown {
		t.StartCountdown(nil, nil)
	} else {
		t.Start(nil, nil)
	}
	return c, ok
}

// Multiplier scales a template's points by elapsed time. The template's
// quantity value is read as minutes, or as hours multiplied by 60 when the
// unit mentions hours, and is then multiplied by 60 again against elapsed
// seconds. Templates without a positive quantity use 1.
func Multiplier(template models.Habit, elapsed time.Duration) float64 {
	base := float64(template.Quantity.Value)
	if base <= 0 {
		return 1
	}
	if strings.Contains(strings.ToLower(template.Quantity.Unit), "hour") {
		base *= 60
	}
	return elapsed.Seconds() / (base * 60)
}

// SyntheticHabit derives the habit recorded for a timed session: a new id,
// the template's name, kind and category, scaled points, and the whole
// elapsed minutes as its quantity.
func SyntheticHabit(template models.Habit, elapsed time.Duration, id string) models.Habit {
	return models.Habit{
		ID:       id,
		Name:     template.Name,
		Points:   int(math.Round(float64(template.Points) * Multiplier(template, elapsed))),
		Kind:     template.Kind,
		Category: template.Category,
		Quantity: models.Quantity{
			Value: int(elapsed / time.Minute),
			Unit:  constants.SyntheticUnitLabel,
		},
	}
}
