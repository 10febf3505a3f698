package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/viewstate"
)

var testSpots = []models.ParkingSpot{
	{ID: "p1", Name: "Collins Street Car Park", Address: "123 Collins St", Availability: models.AvailabilityAvailable, TotalSpots: 200, AvailableSpots: 150, PricePerHour: 6.5, MaxDuration: "4 hours"},
	{ID: "p2", Name: "Bourke Street Central", Address: "45 Bourke St", Availability: models.AvailabilityLimited, TotalSpots: 320, AvailableSpots: 12, PricePerHour: 8, MaxDuration: "2 hours"},
}

func TestFilterSpots(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"p1", "p2"}},
		{"  bourke ", []string{"p2"}},
		{"ST", []string{"p1", "p2"}},
		{"123 collins", []string{"p1"}},
		{"flinders", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := filterSpots(testSpots, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("filterSpots(%q) returned %d spots, want %d", tt.query, len(got), len(tt.want))
			}
			for i, s := range got {
				if s.ID != tt.want[i] {
					t.Errorf("spot[%d] = %s, want %s", i, s.ID, tt.want[i])
				}
			}
		})
	}
}

func TestPrintSpots(t *testing.T) {
	var buf bytes.Buffer
	printSpots(&buf, testSpots)
	out := buf.String()

	for _, want := range []string{"Collins Street Car Park", "150/200", "$6.5", "12/320", "$8", "limited"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printSpots(&buf, nil)
	if !strings.Contains(buf.String(), "No parking spots found.") {
		t.Errorf("unexpected empty output: %s", buf.String())
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, models.StatsOverview{TotalSpots: 2400, AvailableSpots: 612, TotalLocations: 6, AveragePrice: 6.5})
	out := buf.String()

	for _, want := range []string{"2400", "612", "$6.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTrendsShowsAvailability(t *testing.T) {
	area, _ := viewstate.LookupArea("queen-street")
	data := models.TrendsData{
		Area:      "queen-street",
		TimeFrame: "day",
		Trends: []models.TrendPoint{
			{Period: "9AM", Occupancy: 80},
			{Period: "10AM", Occupancy: 40},
		},
		Summary: models.TrendSummary{AverageOccupancy: 60, MaxOccupancy: 80, MinOccupancy: 40, PeakTime: "9AM", BestTime: "10AM"},
	}

	var buf bytes.Buffer
	printTrends(&buf, area, data)
	out := buf.String()

	for _, want := range []string{
		"Queen Street Hub (day)",
		"9AM                    20         80",
		"10AM                   60         40",
		"Best Time: 10AM (60% available)",
		"Peak Time: 9AM (20% available)",
		"Average:   40% available",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintInsights(t *testing.T) {
	var buf bytes.Buffer
	printInsights(&buf, models.InsightsSummary{
		KeyMetrics:      models.KeyMetrics{CarOwnershipGrowth: 12.5, PopulationGrowth: 8.2, PeakHourOccupancy: 87, AveragePricePerHour: 6.5},
		Trends:          models.TrendLabels{CarOwnership: "increasing"},
		Implications:    []string{"Demand outpaces supply"},
		Recommendations: nil,
	})
	out := buf.String()

	for _, want := range []string{"12.5% (increasing)", "$6.50", "Implications", "* Demand outpaces supply"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Recommendations") {
		t.Errorf("empty list should be omitted:\n%s", out)
	}
}

func TestPrintSnapshots(t *testing.T) {
	var buf bytes.Buffer
	printSnapshots(&buf, []models.Snapshot{
		{ID: 7, TakenAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), SpotCount: 2, Spots: testSpots},
	})
	out := buf.String()
	if !strings.Contains(out, "2024-01-01 10:00:00 UTC") || !strings.Contains(out, "162") {
		t.Errorf("unexpected output:\n%s", out)
	}

	buf.Reset()
	printSnapshots(&buf, nil)
	if !strings.Contains(buf.String(), "No snapshots recorded.") {
		t.Errorf("unexpected empty output: %s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Elizabeth Street Complex", 10); got != "Elizabeth…" {
		t.Errorf("truncate = %q", got)
	}
}
