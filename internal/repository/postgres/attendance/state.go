package attendance

import (
	"fmt"
	"time"

	"sitetrack/backend/internal/entity"
)

// Rejection reason codes. Every guarded transition that refuses reports one
// of these with its context, HTTP 422 (conflicts 409).
const (
	ReasonGeofenceOut      = "GEOFENCE_OUT"
	ReasonBreakActive      = "BREAK_ACTIVE"
	ReasonBlacklisted      = "BLACKLISTED"
	ReasonCapacityFull     = "CAPACITY_FULL"
	ReasonAlreadyCheckedIn = "ALREADY_CHECKED_IN"
	ReasonNoActiveSession  = "NO_ACTIVE_SESSION"
	ReasonNotMember        = "NOT_MEMBER"
	ReasonTooEarly         = "TOO_EARLY"
	ReasonExitLimit        = "EXIT_LIMIT"
	ReasonDayClosed        = "DAY_CLOSED"
	ReasonOutOfOrder       = "OUT_OF_ORDER"
)

// breakState describes a currently active break window.
type breakState struct {
	EndsAt           string
	RemainingMinutes int
	Reason           string
}

// sessionMinutes is the worked duration of a closed session. Fixed at close
// time, never recomputed.
func sessionMinutes(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Minutes())
}

// sumClosedMinutes totals the worked minutes of all closed sessions.
func sumClosedMinutes(sessions []entity.AttendanceSession) int {
	total := 0
	for _, s := range sessions {
		if !s.Open() {
			total += s.WorkedMinutes
		}
	}
	return total
}

// openSession returns the single open session, if any.
func openSession(sessions []entity.AttendanceSession) *entity.AttendanceSession {
	for i := range sessions {
		if sessions[i].Open() {
			return &sessions[i]
		}
	}
	return nil
}

// formatHours renders minutes as HH:MM.
func formatHours(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// exitsRemaining never goes negative in responses.
func exitsRemaining(maxAllowed, used int) int {
	if remaining := maxAllowed - used; remaining > 0 {
		return remaining
	}
	return 0
}

// minuteOfDay parses an HH:MM clock value.
func minuteOfDay(clock string) (int, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// activeBreak returns the break window covering now, if any. Windows are
// HH:MM clock pairs on the project; crossing midnight is not supported.
func activeBreak(breaks []entity.ProjectBreak, now time.Time) *breakState {
	nowMin := now.Hour()*60 + now.Minute()

	for _, b := range breaks {
		if b.StartTime == nil || b.EndTime == nil {
			continue
		}
		start, ok := minuteOfDay(*b.StartTime)
		if !ok {
			continue
		}
		end, ok := minuteOfDay(*b.EndTime)
		if !ok {
			continue
		}
		if nowMin >= start && nowMin < end {
			state := breakState{
				EndsAt:           *b.EndTime,
				RemainingMinutes: end - nowMin,
			}
			if b.Reason != nil {
				state.Reason = *b.Reason
			}
			return &state
		}
	}

	return nil
}

// latestSessionEvent returns the newest session boundary: an open session's
// check-in, else the latest check-out.
func latestSessionEvent(sessions []entity.AttendanceSession) *time.Time {
	var latest *time.Time
	for i := range sessions {
		t := sessions[i].CheckInTime
		if sessions[i].CheckOutTime != nil {
			t = *sessions[i].CheckOutTime
		}
		if latest == nil || t.After(*latest) {
			boundary := t
			latest = &boundary
		}
	}
	return latest
}

// staleEventTime returns the session boundary an effective time fails to
// advance past, if any. Session times must advance strictly: a check-out at
// or before its check-in would fix negative worked minutes, and a resume at
// or before the previous close would overlap it.
func staleEventTime(now time.Time, sessions []entity.AttendanceSession) *time.Time {
	latest := latestSessionEvent(sessions)
	if latest != nil && !now.After(*latest) {
		return latest
	}
	return nil
}

// pastDayStart reports whether now is at or past the daily check-in
// threshold. An unparseable threshold never blocks check-in.
func pastDayStart(threshold string, now time.Time) bool {
	start, ok := minuteOfDay(threshold)
	if !ok {
		return true
	}
	return now.Hour()*60+now.Minute() >= start
}

// effectiveTime honors a sane client timestamp from an offline action, else
// falls back to server time. Sane: not in the future and on today's work day.
func effectiveTime(at *time.Time, now time.Time) time.Time {
	if at == nil {
		return now
	}
	if at.After(now) {
		return now
	}
	if at.Format("2006-01-02") != now.Format("2006-01-02") {
		return now
	}
	return *at
}
