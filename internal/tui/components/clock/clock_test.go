package clock

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/blossom/internal/countdown"
)

func TestNewComputesRemaining(t *testing.T) {
	now := time.Date(2025, time.April, 22, 23, 0, 0, 0, time.Local)
	m := New(countdown.DefaultTarget(), now)

	got := m.Remaining()
	want := countdown.Remaining{Days: 1, Hours: 1}
	if got != want {
		t.Errorf("Remaining() = %+v, want %+v", got, want)
	}
	if !m.TargetTime().Equal(time.Date(2025, time.April, 24, 0, 0, 0, 0, time.Local)) {
		t.Errorf("unexpected target %v", m.TargetTime())
	}
}

func TestTickAdvances(t *testing.T) {
	start := time.Date(2025, time.April, 23, 23, 59, 58, 0, time.Local)
	m := New(countdown.DefaultTarget(), start)

	m, cmd := m.Update(TickMsg(start.Add(time.Second)))
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if m.Remaining().Seconds != 1 {
		t.Errorf("expected 1 second left, got %+v", m.Remaining())
	}
}

func TestTargetStaysFixedPastArrival(t *testing.T) {
	start := time.Date(2026, time.April, 23, 23, 59, 58, 0, time.Local)
	m := New(countdown.DefaultTarget(), start)
	arrival := time.Date(2026, time.April, 24, 0, 0, 0, 0, time.Local)

	for i := 1; i <= 5; i++ {
		m, _ = m.Update(TickMsg(start.Add(time.Duration(i) * time.Second)))
	}

	if !m.Remaining().IsComplete {
		t.Errorf("expected the countdown to stay complete after arrival, got %+v", m.Remaining())
	}
	if !m.TargetTime().Equal(arrival) {
		t.Errorf("target moved to %v, want %v", m.TargetTime(), arrival)
	}
	if strings.Contains(m.View(), "Completed") {
		t.Error("progress should be hidden after arrival")
	}
}

func TestViewShowsCardsAndProgress(t *testing.T) {
	now := time.Date(2025, time.February, 10, 12, 0, 0, 0, time.Local)
	m := New(countdown.DefaultTarget(), now)
	m.SetWidth(80)

	view := m.View()
	for _, want := range []string{"Days", "Hours", "Mins", "Secs", "Origin", "Arrival", "% Completed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewHidesProgressWhenComplete(t *testing.T) {
	m := New(countdown.DefaultTarget(), time.Now())
	m.remaining = countdown.Remaining{IsComplete: true}

	view := m.View()
	if strings.Contains(view, "Completed") {
		t.Error("progress should be hidden once the countdown completes")
	}
	if !strings.Contains(view, "00") {
		t.Error("cards should show zeroes")
	}
}

func TestSetWidthClampsBar(t *testing.T) {
	m := New(countdown.DefaultTarget(), time.Now())

	m.SetWidth(200)
	if m.bar.Width != maxBarWidth {
		t.Errorf("bar width = %d, want %d", m.bar.Width, maxBarWidth)
	}
	m.SetWidth(5)
	if m.bar.Width != 10 {
		t.Errorf("bar width = %d, want 10", m.bar.Width)
	}
}
