package countdown

import (
	"testing"
	"time"
)

func TestComputeTarget(t *testing.T) {
	loc := time.FixedZone("HKT", 8*60*60)
	target := DefaultTarget()

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "early in the year targets this year",
			now:  time.Date(2026, time.January, 2, 10, 0, 0, 0, loc),
			want: time.Date(2026, time.April, 24, 0, 0, 0, 0, loc),
		},
		{
			name: "day before targets this year",
			now:  time.Date(2026, time.April, 23, 23, 59, 59, 0, loc),
			want: time.Date(2026, time.April, 24, 0, 0, 0, 0, loc),
		},
		{
			name: "exactly at target keeps this year",
			now:  time.Date(2026, time.April, 24, 0, 0, 0, 0, loc),
			want: time.Date(2026, time.April, 24, 0, 0, 0, 0, loc),
		},
		{
			name: "one second after target rolls over",
			now:  time.Date(2026, time.April, 24, 0, 0, 1, 0, loc),
			want: time.Date(2027, time.April, 24, 0, 0, 0, 0, loc),
		},
		{
			name: "late in the year targets next year",
			now:  time.Date(2026, time.October, 19, 12, 0, 0, 0, loc),
			want: time.Date(2027, time.April, 24, 0, 0, 0, 0, loc),
		},
		{
			name: "new year's eve targets next year",
			now:  time.Date(2026, time.December, 31, 23, 59, 59, 0, loc),
			want: time.Date(2027, time.April, 24, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTarget(target, tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("ComputeTarget() = %v, want %v", got, tt.want)
			}
			if got.Location() != loc {
				t.Errorf("ComputeTarget() location = %v, want %v", got.Location(), loc)
			}
		})
	}
}

func TestComputeTargetCustomTime(t *testing.T) {
	target := Target{Month: time.September, Day: 1, Hour: 9, Minute: 30}
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

	got := ComputeTarget(target, now)
	want := time.Date(2026, time.September, 1, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ComputeTarget() = %v, want %v", got, want)
	}
}

func TestComputeRemaining(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target time.Time
		now    time.Time
		want   Remaining
	}{
		{
			name:   "target in the past is complete",
			target: base.Add(-time.Hour),
			now:    base,
			want:   Remaining{IsComplete: true},
		},
		{
			name:   "target equal to now is complete",
			target: base,
			now:    base,
			want:   Remaining{IsComplete: true},
		},
		{
			name:   "one day one hour",
			target: base.Add(90000000 * time.Millisecond),
			now:    base,
			want:   Remaining{Days: 1, Hours: 1},
		},
		{
			name:   "mixed units",
			target: base.Add(3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second),
			now:    base,
			want:   Remaining{Days: 3, Hours: 4, Minutes: 5, Seconds: 6},
		},
		{
			name:   "sub-second remainder is floored",
			target: base.Add(59*time.Second + 999*time.Millisecond),
			now:    base,
			want:   Remaining{Seconds: 59},
		},
		{
			name:   "one millisecond left is not complete",
			target: base.Add(time.Millisecond),
			now:    base,
			want:   Remaining{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRemaining(tt.target, tt.now)
			if got != tt.want {
				t.Errorf("ComputeRemaining() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeRemainingNeverNegative(t *testing.T) {
	target := time.Date(2026, time.April, 24, 0, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{0, time.Millisecond, time.Hour, 400 * 24 * time.Hour} {
		got := ComputeRemaining(target, target.Add(offset))
		if got != (Remaining{IsComplete: true}) {
			t.Errorf("ComputeRemaining(now=target+%v) = %+v, want complete", offset, got)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr bool
	}{
		{name: "default", target: DefaultTarget(), wantErr: false},
		{name: "leap day", target: Target{Month: time.February, Day: 29}, wantErr: false},
		{name: "february 30", target: Target{Month: time.February, Day: 30}, wantErr: true},
		{name: "april 31", target: Target{Month: time.April, Day: 31}, wantErr: true},
		{name: "month zero", target: Target{Month: 0, Day: 1}, wantErr: true},
		{name: "month thirteen", target: Target{Month: 13, Day: 1}, wantErr: true},
		{name: "day zero", target: Target{Month: time.May, Day: 0}, wantErr: true},
		{name: "hour 24", target: Target{Month: time.May, Day: 1, Hour: 24}, wantErr: true},
		{name: "minute 60", target: Target{Month: time.May, Day: 1, Minute: 60}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name string
		r    Remaining
		want float64
	}{
		{name: "complete", r: Remaining{IsComplete: true}, want: 100},
		{name: "a full year left", r: Remaining{Days: 365}, want: 0},
		{name: "more than a year left clamps to zero", r: Remaining{Days: 400}, want: 0},
		{name: "73 days left", r: Remaining{Days: 73}, want: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(tt.r)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatAndLabel(t *testing.T) {
	if got := Format(Remaining{Days: 5, Hours: 3, Minutes: 2, Seconds: 1}); got != "05 days 03:02:01" {
		t.Errorf("Format() = %q", got)
	}
	if got := DefaultTarget().Label(); got != "04.24" {
		t.Errorf("Label() = %q, want %q", got, "04.24")
	}
	if got := Pad(7); got != "07" {
		t.Errorf("Pad(7) = %q", got)
	}
}
