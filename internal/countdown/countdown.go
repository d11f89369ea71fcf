package countdown

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/blossom/internal/constants"
)

// Target is the fixed annual instant the countdown runs toward.
// The year is resolved against the current time by ComputeTarget.
type Target struct {
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// Remaining is the floor-divided time left until a target
type Remaining struct {
	Days       int
	Hours      int
	Minutes    int
	Seconds    int
	IsComplete bool
}

// DefaultTarget returns April 24 at midnight
func DefaultTarget() Target {
	return Target{
		Month:  constants.DefaultTargetMonth,
		Day:    constants.DefaultTargetDay,
		Hour:   constants.DefaultTargetHour,
		Minute: constants.DefaultTargetMinute,
	}
}

// Validate checks that the target names a real calendar position.
// February 29 is accepted; in non-leap years time.Date normalizes it to March 1.
func (t Target) Validate() error {
	if t.Month < time.January || t.Month > time.December {
		return fmt.Errorf("invalid month: %d", t.Month)
	}
	// 2024 is a leap year, so this yields the longest possible month length
	maxDay := time.Date(2024, t.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if t.Day < 1 || t.Day > maxDay {
		return fmt.Errorf("invalid day %d for %s", t.Day, t.Month)
	}
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("invalid hour: %d", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("invalid minute: %d", t.Minute)
	}
	return nil
}

// Label renders the target as MM.DD, e.g. "04.24"
func (t Target) Label() string {
	return fmt.Sprintf("%02d.%02d", int(t.Month), t.Day)
}

// In returns the occurrence of the target in the given year and location
func (t Target) In(year int, loc *time.Location) time.Time {
	return time.Date(year, t.Month, t.Day, t.Hour, t.Minute, 0, 0, loc)
}

// ComputeTarget returns the occurrence of t in now's year, or next year's
// occurrence when now is already past it. Uses now's location.
func ComputeTarget(t Target, now time.Time) time.Time {
	target := t.In(now.Year(), now.Location())
	if now.After(target) {
		target = t.In(now.Year()+1, now.Location())
	}
	return target
}

// ComputeRemaining breaks the time between now and target into days, hours,
// minutes and seconds. A target at or before now is complete.
func ComputeRemaining(target, now time.Time) Remaining {
	diff := target.UnixMilli() - now.UnixMilli()
	if diff <= 0 {
		return Remaining{IsComplete: true}
	}

	const (
		second = int64(1000)
		minute = 60 * second
		hour   = 60 * minute
		day    = 24 * hour
	)

	return Remaining{
		Days:    int(diff / day),
		Hours:   int((diff / hour) % 24),
		Minutes: int((diff / minute) % 60),
		Seconds: int((diff / second) % 60),
	}
}

// Progress returns how much of a year-long run-up has elapsed, as a percentage
func Progress(r Remaining) float64 {
	return math.Max(0, 100-(float64(r.Days)/constants.DaysPerYear)*100)
}

// Format renders r as "DD days HH:MM:SS"
func Format(r Remaining) string {
	return fmt.Sprintf("%02d days %02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// Pad renders a single countdown unit with two-digit padding
func Pad(v int) string {
	return fmt.Sprintf("%02d", v)
}
