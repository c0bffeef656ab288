package geo

import (
	"math"
	"testing"
)

// TestDistance_KnownValues checks the haversine result against precomputed
// reference distances.
func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point equator", 0, 0, 0, 0, 0, 1e-6},
		{"same point offset", 48.8566, 2.3522, 48.8566, 2.3522, 0, 1e-6},
		{"small equator offset", 0, 0, 0, 0.0008, 88.97, 0.5},
		{"one degree longitude at equator", 0, 0, 0, 1, 111194.9, 10},
		{"one degree latitude", 10, 20, 11, 20, 111194.9, 10},
		{"quarter circumference", 0, 0, 0, 90, math.Pi / 2 * EarthRadiusMeters, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance(%v,%v,%v,%v) = %v, want %v (±%v)",
					tt.lat1, tt.lon1, tt.lat2, tt.lon2, got, tt.want, tt.tolerance)
			}
		})
	}
}

// TestDistance_Symmetry verifies Distance(P,Q) == Distance(Q,P) for a spread
// of point pairs.
func TestDistance_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{0, 0, 0, 0.0008},
		{51.5074, -0.1278, 40.7128, -74.0060},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{89.9, 0, -89.9, 180},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance not symmetric for %v: %v vs %v", p, ab, ba)
		}
	}
}

// TestDistance_NoNaN exercises antipodal and polar inputs that stress the
// sqrt(1-a) clamp.
func TestDistance_NoNaN(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"exact antipodes", 0, 0, 0, 180},
		{"near antipodes", 45, 45, -45, -135},
		{"pole to pole", 90, 0, -90, 0},
		{"pole to pole different meridians", 90, 10, -90, -170},
		{"north pole to itself", 90, 0, 90, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("Distance(%v,%v,%v,%v) = %v, want finite",
					tt.lat1, tt.lon1, tt.lat2, tt.lon2, got)
			}
			if got < 0 {
				t.Errorf("Distance returned negative value %v", got)
			}
			halfCircumference := math.Pi * EarthRadiusMeters
			if got > halfCircumference+1 {
				t.Errorf("Distance %v exceeds half circumference %v", got, halfCircumference)
			}
		})
	}
}
