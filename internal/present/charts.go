// Package present преобразует данные API в модели отображения: точки графиков,
// карточки сводок, цвета маркеров и содержимое всплывающих окон карты.
// Все функции чистые и не обращаются к сети.
package present

import (
	"strconv"

	"github.com/akozadaev/cbd_parking_dashboard/internal/adapter"
	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
)

// ChartPoint представляет точку графиков страницы трендов
type ChartPoint struct {
	Time         string  `json:"time"`
	Availability float64 `json:"availability"`
	Occupied     float64 `json:"occupied"`
}

// TrendChart строит точки графика в исходном порядке.
// Доступность всегда 100 - occupancy.
func TrendChart(data models.TrendsData) []ChartPoint {
	points := make([]ChartPoint, 0, len(data.Trends))
	for _, t := range data.Trends {
		points = append(points, ChartPoint{
			Time:         t.Period,
			Availability: Availability(t.Occupancy),
			Occupied:     t.Occupancy,
		})
	}
	return points
}

// Availability переводит процент загрузки в процент доступности.
func Availability(occupancy float64) float64 {
	return 100 - occupancy
}

// TrendCard представляет карточку под графиками трендов
type TrendCard struct {
	Title        string  `json:"title"`
	Label        string  `json:"label"`
	Availability float64 `json:"availability"`
}

// TrendCards строит карточки «лучшее время», «пик» и «среднее».
func TrendCards(s models.TrendSummary) []TrendCard {
	return []TrendCard{
		{Title: "Best Time", Label: s.BestTime, Availability: Availability(s.MinOccupancy)},
		{Title: "Peak Time", Label: s.PeakTime, Availability: Availability(s.MaxOccupancy)},
		{Title: "Average", Availability: Availability(s.AverageOccupancy)},
	}
}

// GrowthPoint представляет точку графиков роста
type GrowthPoint struct {
	Year   string  `json:"year"`
	Value  float64 `json:"value"`
	Growth float64 `json:"growth"`
}

// GrowthChart строит ряд владения автомобилями.
func GrowthChart(series []models.CarOwnershipPoint) []GrowthPoint {
	points := make([]GrowthPoint, 0, len(series))
	for _, p := range series {
		points = append(points, GrowthPoint{Year: strconv.Itoa(p.Year), Value: p.Ownership, Growth: p.Growth})
	}
	return points
}

// PopulationChart строит ряд населения CBD.
func PopulationChart(series []models.PopulationPoint) []GrowthPoint {
	points := make([]GrowthPoint, 0, len(series))
	for _, p := range series {
		points = append(points, GrowthPoint{Year: strconv.Itoa(p.Year), Value: p.Population, Growth: p.Growth})
	}
	return points
}

// Count форматирует счётчик; во время загрузки показывается заглушка.
func Count(loading bool, v int) string {
	if loading {
		return adapter.Placeholder
	}
	return strconv.Itoa(v)
}

// Price форматирует цену с двумя знаками.
func Price(loading bool, v float64) string {
	if loading {
		return adapter.Placeholder
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Dollars форматирует сумму в долларах с двумя знаками.
// Во время загрузки знак доллара не выводится.
func Dollars(loading bool, v float64) string {
	if loading {
		return adapter.Placeholder
	}
	return "$" + Price(false, v)
}

// HourlyRate форматирует почасовую цену парковки так, как её прислало API.
func HourlyRate(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

// Percent форматирует процентный показатель без лишних нулей.
func Percent(loading bool, v float64) string {
	if loading {
		return adapter.Placeholder
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
