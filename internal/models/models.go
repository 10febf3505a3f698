package models

import "time"

// Availability представляет категорию доступности парковки, которую сообщает сервер.
// Не вычисляется из счётчиков мест и может с ними расходиться.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityLimited   Availability = "limited"
	AvailabilityFull      Availability = "full"
)

// ParkingSpot представляет парковку из списка /api/parking
type ParkingSpot struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Address        string       `json:"address"`
	Lat            float64      `json:"lat"`
	Lng            float64      `json:"lng"`
	Availability   Availability `json:"availability"`
	TotalSpots     int          `json:"totalSpots"`
	AvailableSpots int          `json:"availableSpots"`
	PricePerHour   float64      `json:"pricePerHour"`
	MaxDuration    string       `json:"maxDuration"`
	LastUpdated    string       `json:"lastUpdated"`
}

// Position возвращает координаты парковки
func (s ParkingSpot) Position() GeoPoint {
	return GeoPoint{Lat: s.Lat, Lng: s.Lng}
}

// GeoPoint представляет географические координаты
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// StatsOverview представляет сводку для главной страницы
type StatsOverview struct {
	TotalSpots     int     `json:"totalSpots"`
	AvailableSpots int     `json:"availableSpots"`
	TotalLocations int     `json:"totalLocations"`
	AveragePrice   float64 `json:"averagePrice"`
}

// TrendPoint представляет одну точку исторической загрузки
type TrendPoint struct {
	Period         string  `json:"period"`
	Occupancy      float64 `json:"occupancy"`
	AvailableSpots int     `json:"availableSpots"`
	Timestamp      string  `json:"timestamp"`
}

// TrendSummary представляет агрегаты, посчитанные на стороне API
type TrendSummary struct {
	AverageOccupancy float64 `json:"averageOccupancy"`
	MaxOccupancy     float64 `json:"maxOccupancy"`
	MinOccupancy     float64 `json:"minOccupancy"`
	PeakTime         string  `json:"peakTime"`
	BestTime         string  `json:"bestTime"`
	TotalPeriods     int     `json:"totalPeriods"`
}

// TrendsData представляет ответ /api/trends/{area}
type TrendsData struct {
	Area        string       `json:"area"`
	TimeFrame   string       `json:"timeFrame"`
	Trends      []TrendPoint `json:"trends"`
	Summary     TrendSummary `json:"summary"`
	LastUpdated string       `json:"lastUpdated"`
}

// KeyMetrics представляет числовые показатели сводки insights
type KeyMetrics struct {
	CarOwnershipGrowth  float64 `json:"carOwnershipGrowth"`
	PopulationGrowth    float64 `json:"populationGrowth"`
	PeakHourOccupancy   float64 `json:"peakHourOccupancy"`
	AveragePricePerHour float64 `json:"averagePricePerHour"`
}

// TrendLabels представляет качественные метки трендов
type TrendLabels struct {
	CarOwnership  string `json:"carOwnership"`
	Population    string `json:"population"`
	ParkingDemand string `json:"parkingDemand"`
	Pricing       string `json:"pricing"`
}

// InsightsSummary представляет ответ /api/insights/summary
type InsightsSummary struct {
	KeyMetrics      KeyMetrics  `json:"keyMetrics"`
	Trends          TrendLabels `json:"trends"`
	Implications    []string    `json:"implications"`
	Recommendations []string    `json:"recommendations"`
}

// CarOwnershipPoint представляет год ряда владения автомобилями
type CarOwnershipPoint struct {
	Year      int     `json:"year"`
	Ownership float64 `json:"ownership"`
	Growth    float64 `json:"growth"`
}

// PopulationPoint представляет год ряда численности населения CBD
type PopulationPoint struct {
	Year       int     `json:"year"`
	Population float64 `json:"population"`
	Growth     float64 `json:"growth"`
}

// GrowthSummary представляет итог по ряду роста
type GrowthSummary struct {
	TotalGrowth         float64 `json:"totalGrowth"`
	CurrentOwnership    float64 `json:"currentOwnership,omitempty"`
	CurrentPopulation   float64 `json:"currentPopulation,omitempty"`
	AverageAnnualGrowth float64 `json:"averageAnnualGrowth"`
	ImpactOnParking     string  `json:"impactOnParking"`
}

// CarOwnershipData представляет ответ /api/insights/car-ownership
type CarOwnershipData struct {
	CarOwnership []CarOwnershipPoint `json:"carOwnership"`
	Summary      GrowthSummary       `json:"summary"`
}

// PopulationData представляет ответ /api/insights/population-growth
type PopulationData struct {
	Population []PopulationPoint `json:"population"`
	Summary    GrowthSummary     `json:"summary"`
}

// Envelope представляет обёртку каждого ответа API
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Snapshot представляет сохранённый результат одного опроса списка парковок
type Snapshot struct {
	ID        int64         `json:"id" db:"id"`
	TakenAt   time.Time     `json:"taken_at" db:"taken_at"`
	SpotCount int           `json:"spot_count" db:"spot_count"`
	Spots     []ParkingSpot `json:"spots" db:"-"`
}

// SpotSearchResponse представляет ответ поиска по индексу парковок
type SpotSearchResponse struct {
	Spots []ParkingSpot `json:"spots"`
	Total int           `json:"total"`
}
