package wage

import "testing"

func TestComputeWage(t *testing.T) {
	tests := []struct {
		name      string
		minutes   int
		rate      float64
		wantHours float64
		wantTotal float64
	}{
		{"zero minutes", 0, 12.5, 0, 0},
		{"whole hours", 480, 12.5, 8, 100},
		{"partial hour rounds to cents", 493, 12.5, 8.22, 102.75},
		{"repeats deterministically", 45, 10, 0.75, 7.5},
		{"zero rate yields zero total", 480, 0, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, total := computeWage(tt.minutes, tt.rate)
			if hours != tt.wantHours {
				t.Errorf("computeWage(%d, %v) hours = %v, want %v", tt.minutes, tt.rate, hours, tt.wantHours)
			}
			if total != tt.wantTotal {
				t.Errorf("computeWage(%d, %v) total = %v, want %v", tt.minutes, tt.rate, total, tt.wantTotal)
			}
		})
	}
}
