package attendance

import (
	"testing"
	"time"

	"sitetrack/backend/internal/entity"
)

func ts(hour, min int) time.Time {
	return time.Date(2026, 8, 29, hour, min, 0, 0, time.UTC)
}

func closedSession(checkIn, checkOut time.Time) entity.AttendanceSession {
	return entity.AttendanceSession{
		CheckInTime:   checkIn,
		CheckOutTime:  &checkOut,
		WorkedMinutes: sessionMinutes(checkIn, checkOut),
	}
}

func TestSessionMinutes(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"full shift", ts(8, 0), ts(16, 0), 480},
		{"short hop", ts(8, 0), ts(8, 45), 45},
		{"sub-minute rounds down", ts(8, 0), ts(8, 0).Add(59 * time.Second), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessionMinutes(tt.checkIn, tt.checkOut); got != tt.want {
				t.Errorf("sessionMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSumClosedMinutes(t *testing.T) {
	sessions := []entity.AttendanceSession{
		closedSession(ts(8, 0), ts(10, 0)),
		closedSession(ts(10, 30), ts(12, 0)),
		{CheckInTime: ts(13, 0)}, // open, must not count
	}

	if got := sumClosedMinutes(sessions); got != 210 {
		t.Errorf("sumClosedMinutes() = %d, want 210", got)
	}

	if got := sumClosedMinutes(nil); got != 0 {
		t.Errorf("sumClosedMinutes(nil) = %d, want 0", got)
	}
}

func TestOpenSession(t *testing.T) {
	closed := closedSession(ts(8, 0), ts(10, 0))
	open := entity.AttendanceSession{CheckInTime: ts(10, 30)}

	if got := openSession([]entity.AttendanceSession{closed}); got != nil {
		t.Errorf("openSession() = %v, want nil", got)
	}

	got := openSession([]entity.AttendanceSession{closed, open})
	if got == nil {
		t.Fatal("openSession() = nil, want the open session")
	}
	if !got.CheckInTime.Equal(ts(10, 30)) {
		t.Errorf("openSession().CheckInTime = %v, want %v", got.CheckInTime, ts(10, 30))
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{45, "00:45"},
		{60, "01:00"},
		{493, "08:13"},
	}

	for _, tt := range tests {
		if got := formatHours(tt.minutes); got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestExitsRemaining(t *testing.T) {
	tests := []struct {
		name       string
		maxAllowed int
		used       int
		want       int
	}{
		{"untouched", 3, 0, 3},
		{"partially used", 3, 2, 1},
		{"exhausted", 3, 3, 0},
		{"over the limit floors at zero", 3, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitsRemaining(tt.maxAllowed, tt.used); got != tt.want {
				t.Errorf("exitsRemaining(%d, %d) = %d, want %d", tt.maxAllowed, tt.used, got, tt.want)
			}
		})
	}
}

func TestActiveBreak(t *testing.T) {
	str := func(s string) *string { return &s }

	breaks := []entity.ProjectBreak{
		{StartTime: str("12:00"), EndTime: str("13:00"), Reason: str("lunch")},
		{StartTime: str("16:00"), EndTime: str("16:15")},
	}

	t.Run("inside window", func(t *testing.T) {
		state := activeBreak(breaks, ts(12, 30))
		if state == nil {
			t.Fatal("activeBreak() = nil, want lunch window")
		}
		if state.EndsAt != "13:00" {
			t.Errorf("EndsAt = %q, want 13:00", state.EndsAt)
		}
		if state.RemainingMinutes != 30 {
			t.Errorf("RemainingMinutes = %d, want 30", state.RemainingMinutes)
		}
		if state.Reason != "lunch" {
			t.Errorf("Reason = %q, want lunch", state.Reason)
		}
	})

	t.Run("window start is inclusive", func(t *testing.T) {
		if state := activeBreak(breaks, ts(12, 0)); state == nil {
			t.Error("activeBreak() = nil at window start, want active")
		}
	})

	t.Run("window end is exclusive", func(t *testing.T) {
		if state := activeBreak(breaks, ts(13, 0)); state != nil {
			t.Errorf("activeBreak() = %v at window end, want nil", state)
		}
	})

	t.Run("outside all windows", func(t *testing.T) {
		if state := activeBreak(breaks, ts(9, 0)); state != nil {
			t.Errorf("activeBreak() = %v, want nil", state)
		}
	})

	t.Run("unparseable window skipped", func(t *testing.T) {
		bad := []entity.ProjectBreak{{StartTime: str("noon"), EndTime: str("13:00")}}
		if state := activeBreak(bad, ts(12, 30)); state != nil {
			t.Errorf("activeBreak() = %v, want nil", state)
		}
	})
}

func TestPastDayStart(t *testing.T) {
	tests := []struct {
		name      string
		threshold string
		now       time.Time
		want      bool
	}{
		{"before threshold", "06:00", ts(5, 59), false},
		{"at threshold", "06:00", ts(6, 0), true},
		{"after threshold", "06:00", ts(9, 30), true},
		{"unparseable never blocks", "dawn", ts(0, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pastDayStart(tt.threshold, tt.now); got != tt.want {
				t.Errorf("pastDayStart(%q, %v) = %v, want %v", tt.threshold, tt.now, got, tt.want)
			}
		})
	}
}

func TestStaleEventTime(t *testing.T) {
	open := entity.AttendanceSession{CheckInTime: ts(9, 0)}

	tests := []struct {
		name     string
		now      time.Time
		sessions []entity.AttendanceSession
		want     *time.Time
	}{
		{
			// A check-out before its own check-in would make the session's
			// worked minutes negative.
			name:     "before open check-in",
			now:      ts(8, 0),
			sessions: []entity.AttendanceSession{open},
			want:     timePtr(ts(9, 0)),
		},
		{
			name:     "equal to open check-in",
			now:      ts(9, 0),
			sessions: []entity.AttendanceSession{open},
			want:     timePtr(ts(9, 0)),
		},
		{
			name:     "strictly after open check-in",
			now:      ts(9, 1),
			sessions: []entity.AttendanceSession{open},
			want:     nil,
		},
		{
			name:     "resume before previous close",
			now:      ts(9, 30),
			sessions: []entity.AttendanceSession{closedSession(ts(8, 0), ts(10, 0))},
			want:     timePtr(ts(10, 0)),
		},
		{
			name:     "resume after previous close",
			now:      ts(10, 30),
			sessions: []entity.AttendanceSession{closedSession(ts(8, 0), ts(10, 0))},
			want:     nil,
		},
		{
			name:     "no sessions yet",
			now:      ts(8, 0),
			sessions: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := staleEventTime(tt.now, tt.sessions)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("staleEventTime() = %v, want nil", got)
			case tt.want != nil && got == nil:
				t.Errorf("staleEventTime() = nil, want %v", *tt.want)
			case tt.want != nil && !got.Equal(*tt.want):
				t.Errorf("staleEventTime() = %v, want %v", got, *tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestEffectiveTime(t *testing.T) {
	now := ts(14, 0)

	t.Run("nil falls back to server time", func(t *testing.T) {
		if got := effectiveTime(nil, now); !got.Equal(now) {
			t.Errorf("effectiveTime(nil) = %v, want %v", got, now)
		}
	})

	t.Run("sane client time honored", func(t *testing.T) {
		at := ts(11, 45)
		if got := effectiveTime(&at, now); !got.Equal(at) {
			t.Errorf("effectiveTime() = %v, want %v", got, at)
		}
	})

	t.Run("future client time clamped", func(t *testing.T) {
		at := ts(15, 0)
		if got := effectiveTime(&at, now); !got.Equal(now) {
			t.Errorf("effectiveTime() = %v, want %v", got, now)
		}
	})

	t.Run("other work day ignored", func(t *testing.T) {
		at := ts(14, 0).AddDate(0, 0, -1)
		if got := effectiveTime(&at, now); !got.Equal(now) {
			t.Errorf("effectiveTime() = %v, want %v", got, now)
		}
	})
}
