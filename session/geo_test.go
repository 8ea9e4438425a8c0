package session

import (
	"math"
	"testing"
	"time"
)

var (
	newYork     = Point{Latitude: 40.7128, Longitude: -74.0060}
	losAngeles  = Point{Latitude: 34.0522, Longitude: -118.2437}
	londonCity  = Point{Latitude: 51.5074, Longitude: -0.1278}
	sameAsLAIsh = Point{Latitude: 34.0523, Longitude: -118.2438}
)

func TestHaversineKnownDistances(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
		want float64 // km
	}{
		{"new york to los angeles", newYork, losAngeles, 3936},
		{"new york to london", newYork, londonCity, 5570},
		{"zero distance", newYork, newYork, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Haversine(tc.a, tc.b)
			if math.Abs(got-tc.want) > tc.want*0.01+1 {
				t.Fatalf("want ~%.0f km, got %.1f km", tc.want, got)
			}
		})
	}
}

func TestImpossibleTravel(t *testing.T) {
	// NY to LA is ~3936 km: fine in 5h by plane, impossible in 1h.
	if ImpossibleTravel(newYork, losAngeles, 5*time.Hour) {
		t.Fatal("plausible flight flagged impossible")
	}
	if !ImpossibleTravel(newYork, losAngeles, time.Hour) {
		t.Fatal("3936 km in one hour not flagged")
	}
}

func TestImpossibleTravelZeroElapsed(t *testing.T) {
	if !ImpossibleTravel(newYork, londonCity, 0) {
		t.Fatal("real distance with zero elapsed time not flagged")
	}
	// Sub-kilometer jitter never counts, even instantaneously.
	if ImpossibleTravel(losAngeles, sameAsLAIsh, 0) {
		t.Fatal("coordinate jitter flagged impossible")
	}
}
