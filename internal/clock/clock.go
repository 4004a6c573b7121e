// Package clock supplies the current time and calendar-day boundaries.
package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies the current time and the start-of-day boundary for an instant.
type Clock interface {
	Now() time.Time
	StartOfDay(t time.Time) time.Time
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// System is the wall clock in a fixed location.
type System struct {
	loc *time.Location
}

// New returns a system clock for the named timezone.
func New(timezone string) (*System, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &System{loc: loc}, nil
}

// Local returns a system clock in the host's local timezone.
func Local() *System {
	return &System{loc: time.Local}
}

func (s *System) Now() time.Time {
	return time.Now().In(s.loc)
}

func (s *System) StartOfDay(t time.Time) time.Time {
	return startOfDay(t, s.loc)
}

// Manual is a clock whose time only moves when told to.
type Manual struct {
	mu      sync.Mutex
	current time.Time
}

func NewManual(now time.Time) *Manual {
	return &Manual{current: now}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manual) StartOfDay(t time.Time) time.Time {
	return startOfDay(t, m.Now().Location())
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Today returns the start of the current day.
func Today(c Clock) time.Time {
	return c.StartOfDay(c.Now())
}

// AddDays returns the start of the day n calendar days away from day.
// Calendar arithmetic keeps results on midnight across DST changes.
func AddDays(c Clock, day time.Time, n int) time.Time {
	d := c.StartOfDay(day)
	return c.StartOfDay(time.Date(d.Year(), d.Month(), d.Day()+n, 12, 0, 0, 0, d.Location()))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(c Clock, a, b time.Time) bool {
	return c.StartOfDay(a).Equal(c.StartOfDay(b))
}

// OnDay returns day's calendar date combined with the time of day of at.
func OnDay(c Clock, day, at time.Time) time.Time {
	d := c.StartOfDay(day)
	at = at.In(d.Location())
	return time.Date(d.Year(), d.Month(), d.Day(), at.Hour(), at.Minute(), at.Second(), at.Nanosecond(), d.Location())
}
