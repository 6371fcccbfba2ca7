package domain

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	saoPaulo := Coordinates{Lat: -23.5505, Lng: -46.6333}
	rio := Coordinates{Lat: -22.9068, Lng: -43.1729}

	got := saoPaulo.DistanceKm(rio)
	if math.Abs(got-360.75) > 2 {
		t.Fatalf("São Paulo to Rio = %.2f km, want ~360.75", got)
	}

	if d := saoPaulo.DistanceKm(saoPaulo); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}

	if a, b := saoPaulo.DistanceKm(rio), rio.DistanceKm(saoPaulo); math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance is not symmetric: %f vs %f", a, b)
	}
}

func TestDistanceKmOneDegreeOfLatitude(t *testing.T) {
	got := Coordinates{Lat: 0, Lng: 0}.DistanceKm(Coordinates{Lat: 1, Lng: 0})
	if math.Abs(got-111.19) > 0.5 {
		t.Fatalf("one degree of latitude = %.2f km, want ~111.19", got)
	}
}
