package present

import (
	"testing"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
)

func TestTrendChartAvailability(t *testing.T) {
	data := models.TrendsData{
		Area:      "queen-street",
		TimeFrame: "day",
		Trends: []models.TrendPoint{
			{Period: "9AM", Occupancy: 80},
			{Period: "10AM", Occupancy: 40},
		},
	}

	points := TrendChart(data)
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	want := []ChartPoint{
		{Time: "9AM", Availability: 20, Occupied: 80},
		{Time: "10AM", Availability: 60, Occupied: 40},
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("points[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestAvailability(t *testing.T) {
	if got := Availability(62); got != 38 {
		t.Errorf("Availability(62) = %v, want 38", got)
	}
}

func TestTrendCards(t *testing.T) {
	cards := TrendCards(models.TrendSummary{
		AverageOccupancy: 65, MaxOccupancy: 92, MinOccupancy: 30,
		PeakTime: "2PM", BestTime: "7AM",
	})
	if len(cards) != 3 {
		t.Fatalf("len(cards) = %d, want 3", len(cards))
	}
	if cards[0].Label != "7AM" || cards[0].Availability != 70 {
		t.Errorf("best card = %+v", cards[0])
	}
	if cards[1].Label != "2PM" || cards[1].Availability != 8 {
		t.Errorf("peak card = %+v", cards[1])
	}
	if cards[2].Availability != 35 {
		t.Errorf("average card = %+v", cards[2])
	}
}

func TestMarkerColor(t *testing.T) {
	tests := []struct {
		in   models.Availability
		want string
	}{
		{models.AvailabilityAvailable, ColorGreen},
		{models.AvailabilityLimited, ColorAmber},
		{models.AvailabilityFull, ColorRed},
		{"closed", ColorGray},
		{"", ColorGray},
	}
	for _, tt := range tests {
		if got := MarkerColor(tt.in); got != tt.want {
			t.Errorf("MarkerColor(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSpotPopup(t *testing.T) {
	p := SpotPopup(models.ParkingSpot{
		Name: "Collins Street Plaza", Address: "123 Collins St, Melbourne",
		TotalSpots: 100, AvailableSpots: 40, PricePerHour: 4.5, MaxDuration: "2 hours",
	})
	if p.Spots != "40/100" {
		t.Errorf("Spots = %q, want 40/100", p.Spots)
	}
	if p.Price != "$4.5" {
		t.Errorf("Price = %q, want $4.5", p.Price)
	}
	want := "https://www.google.com/maps/dir/?api=1&destination=123+Collins+St%2C+Melbourne&travelmode=driving"
	if p.DirectionsURL != want {
		t.Errorf("DirectionsURL = %q, want %q", p.DirectionsURL, want)
	}
}

func TestGrowthCharts(t *testing.T) {
	g := GrowthChart([]models.CarOwnershipPoint{{Year: 2015, Ownership: 3.1e6, Growth: 2.4}})
	if len(g) != 1 || g[0].Year != "2015" || g[0].Value != 3.1e6 {
		t.Errorf("GrowthChart = %+v", g)
	}
	p := PopulationChart([]models.PopulationPoint{{Year: 2020, Population: 47000, Growth: 5}})
	if len(p) != 1 || p[0].Year != "2020" || p[0].Growth != 5 {
		t.Errorf("PopulationChart = %+v", p)
	}
}

func TestFormatting(t *testing.T) {
	if got := Count(true, 5); got != "..." {
		t.Errorf("Count(loading) = %q", got)
	}
	if got := Count(false, 0); got != "0" {
		t.Errorf("Count(0) = %q", got)
	}
	if got := Price(false, 3.5); got != "3.50" {
		t.Errorf("Price(3.5) = %q", got)
	}
	if got := Percent(false, 23.4); got != "23.4" {
		t.Errorf("Percent(23.4) = %q", got)
	}
	if got := Dollars(false, 6.5); got != "$6.50" {
		t.Errorf("Dollars(6.5) = %q", got)
	}
	if got := Dollars(true, 6.5); got != "..." {
		t.Errorf("Dollars(loading) = %q, want ...", got)
	}
	if got := HourlyRate(8); got != "$8" {
		t.Errorf("HourlyRate(8) = %q", got)
	}
	if got := HourlyRate(6.25); got != "$6.25" {
		t.Errorf("HourlyRate(6.25) = %q", got)
	}
}
