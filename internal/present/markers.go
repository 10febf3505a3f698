package present

import (
	"fmt"
	"net/url"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
)

const (
	ColorGreen = "#10B981"
	ColorAmber = "#F59E0B"
	ColorRed   = "#EF4444"
	ColorGray  = "#6B7280"
)

// MarkerColor возвращает цвет маркера для категории доступности.
func MarkerColor(a models.Availability) string {
	switch a {
	case models.AvailabilityAvailable:
		return ColorGreen
	case models.AvailabilityLimited:
		return ColorAmber
	case models.AvailabilityFull:
		return ColorRed
	default:
		return ColorGray
	}
}

// Popup представляет содержимое всплывающего окна маркера
type Popup struct {
	Title         string `json:"title"`
	Address       string `json:"address"`
	Spots         string `json:"spots"`
	Price         string `json:"price"`
	MaxDuration   string `json:"maxDuration"`
	LastUpdated   string `json:"lastUpdated"`
	DirectionsURL string `json:"directionsUrl"`
}

// SpotPopup собирает содержимое всплывающего окна парковки.
func SpotPopup(s models.ParkingSpot) Popup {
	return Popup{
		Title:         s.Name,
		Address:       s.Address,
		Spots:         fmt.Sprintf("%d/%d", s.AvailableSpots, s.TotalSpots),
		Price:         HourlyRate(s.PricePerHour),
		MaxDuration:   s.MaxDuration,
		LastUpdated:   s.LastUpdated,
		DirectionsURL: DirectionsURL(s.Address),
	}
}

// DirectionsURL строит ссылку на построение маршрута до адреса.
func DirectionsURL(address string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", address)
	q.Set("travelmode", "driving")
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
