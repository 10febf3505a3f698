package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/present"
	"github.com/akozadaev/cbd_parking_dashboard/internal/viewstate"
)

// filterSpots оставляет парковки, у которых название или адрес содержит запрос.
func filterSpots(spots []models.ParkingSpot, query string) []models.ParkingSpot {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return spots
	}
	var out []models.ParkingSpot
	for _, s := range spots {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Address), q) {
			out = append(out, s)
		}
	}
	return out
}

func printSpots(w io.Writer, spots []models.ParkingSpot) {
	if len(spots) == 0 {
		fmt.Fprintln(w, "No parking spots found.")
		return
	}

	fmt.Fprintf(w, "%-8s %-28s %-10s %9s %8s %-10s\n", "ID", "Name", "Status", "Spots", "Price", "Max")
	fmt.Fprintf(w, "%-8s %-28s %-10s %9s %8s %-10s\n",
		"--------", "----------------------------", "----------", "---------", "--------", "----------")
	for _, s := range spots {
		p := present.SpotPopup(s)
		fmt.Fprintf(w, "%-8s %-28s %-10s %9s %8s %-10s\n",
			s.ID, truncate(s.Name, 28), s.Availability, p.Spots, p.Price, s.MaxDuration)
	}
}

func printStats(w io.Writer, s models.StatsOverview) {
	fmt.Fprintln(w, "Parking Overview")
	fmt.Fprintln(w, "================")
	fmt.Fprintf(w, "  Total spots:        %s\n", present.Count(false, s.TotalSpots))
	fmt.Fprintf(w, "  Available now:      %s\n", present.Count(false, s.AvailableSpots))
	fmt.Fprintf(w, "  Locations:          %s\n", present.Count(false, s.TotalLocations))
	fmt.Fprintf(w, "  Avg. price / hour:  $%s\n", present.Price(false, s.AveragePrice))
}

// printTrends печатает доступность, то есть 100 - occupancy.
func printTrends(w io.Writer, area viewstate.Area, data models.TrendsData) {
	title := fmt.Sprintf("%s (%s)", area.DisplayName, data.TimeFrame)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	fmt.Fprintf(w, "%-12s %12s %10s\n", "Period", "Available %", "Occupied %")
	for _, p := range present.TrendChart(data) {
		fmt.Fprintf(w, "%-12s %12s %10s\n", p.Time,
			present.Percent(false, p.Availability), present.Percent(false, p.Occupied))
	}

	fmt.Fprintln(w)
	for _, c := range present.TrendCards(data.Summary) {
		if c.Label != "" {
			fmt.Fprintf(w, "  %-10s %s (%s%% available)\n", c.Title+":", c.Label, present.Percent(false, c.Availability))
		} else {
			fmt.Fprintf(w, "  %-10s %s%% available\n", c.Title+":", present.Percent(false, c.Availability))
		}
	}
}

func printInsights(w io.Writer, s models.InsightsSummary) {
	m := s.KeyMetrics
	fmt.Fprintln(w, "Key Metrics")
	fmt.Fprintln(w, "-----------")
	fmt.Fprintf(w, "  Car ownership growth:  %s%% (%s)\n", present.Percent(false, m.CarOwnershipGrowth), s.Trends.CarOwnership)
	fmt.Fprintf(w, "  Population growth:     %s%% (%s)\n", present.Percent(false, m.PopulationGrowth), s.Trends.Population)
	fmt.Fprintf(w, "  Peak hour occupancy:   %s%% (%s)\n", present.Percent(false, m.PeakHourOccupancy), s.Trends.ParkingDemand)
	fmt.Fprintf(w, "  Avg. price / hour:     $%s (%s)\n", present.Price(false, m.AveragePricePerHour), s.Trends.Pricing)

	printList(w, "Implications", s.Implications)
	printList(w, "Recommendations", s.Recommendations)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	for _, item := range items {
		fmt.Fprintf(w, "  * %s\n", item)
	}
}

func printSnapshots(w io.Writer, snaps []models.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots recorded.")
		return
	}

	fmt.Fprintf(w, "%-6s %-25s %6s %10s\n", "ID", "Taken at", "Spots", "Available")
	for _, s := range snaps {
		available := 0
		for _, spot := range s.Spots {
			available += spot.AvailableSpots
		}
		fmt.Fprintf(w, "%-6d %-25s %6d %10d\n", s.ID, s.TakenAt.Format("2006-01-02 15:04:05 MST"), s.SpotCount, available)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
