package geofence_test

import (
	"math"
	"testing"

	"sitetrack/backend/internal/pkg/geofence"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: 41.3111, lon1: 69.2797,
			lat2: 41.3111, lon2: 69.2797,
			want: 0, tolerance: 0.001,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want: 111195, tolerance: 100,
		},
		{
			name: "short hop across a site",
			lat1: 40.730610, lon1: -73.935242,
			lat2: 40.731610, lon2: -73.935242,
			want: 111.19, tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geofence.Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %.2f, want %.2f ± %.2f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	site := geofence.Circle{Latitude: 40.730610, Longitude: -73.935242, RadiusMeters: 200}

	t.Run("center is inside", func(t *testing.T) {
		res := geofence.Evaluate(site, site.Latitude, site.Longitude)
		if !res.Inside {
			t.Error("expected center to be inside the fence")
		}
		if res.DistanceMeters != 0 {
			t.Errorf("expected zero distance, got %f", res.DistanceMeters)
		}
	})

	t.Run("point just inside the radius", func(t *testing.T) {
		// ~111 m north of center, well within 200 m.
		res := geofence.Evaluate(site, site.Latitude+0.001, site.Longitude)
		if !res.Inside {
			t.Errorf("expected inside, distance %f", res.DistanceMeters)
		}
	})

	t.Run("point outside the radius", func(t *testing.T) {
		// ~556 m north of center.
		res := geofence.Evaluate(site, site.Latitude+0.005, site.Longitude)
		if res.Inside {
			t.Errorf("expected outside, distance %f", res.DistanceMeters)
		}
		if res.DistanceMeters < 500 || res.DistanceMeters > 600 {
			t.Errorf("unexpected distance %f", res.DistanceMeters)
		}
	})

	t.Run("boundary counts as inside", func(t *testing.T) {
		res := geofence.Evaluate(geofence.Circle{RadiusMeters: 111195}, 1, 0)
		if !res.Inside {
			t.Errorf("expected point at the boundary to be inside, distance %f", res.DistanceMeters)
		}
	})
}
