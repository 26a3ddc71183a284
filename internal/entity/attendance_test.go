package entity_test

import (
	"testing"
	"time"

	"sitetrack/backend/internal/entity"
)

func TestDeriveAttendanceStatus(t *testing.T) {
	checkIn := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(2 * time.Hour)
	closedAt := checkOut.Add(6 * time.Hour)

	open := entity.AttendanceSession{CheckInTime: checkIn}
	closed := entity.AttendanceSession{CheckInTime: checkIn, CheckOutTime: &checkOut}

	tests := []struct {
		name     string
		sessions []entity.AttendanceSession
		closedAt *time.Time
		want     string
	}{
		{"open session is active", []entity.AttendanceSession{closed, open}, nil, entity.AttendanceActive},
		{"all sessions closed is paused", []entity.AttendanceSession{closed}, nil, entity.AttendancePaused},
		{"no sessions is paused", nil, nil, entity.AttendancePaused},
		{"closed day wins over sessions", []entity.AttendanceSession{closed}, &closedAt, entity.AttendanceClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entity.DeriveAttendanceStatus(tt.sessions, tt.closedAt); got != tt.want {
				t.Errorf("DeriveAttendanceStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
