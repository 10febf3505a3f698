// Package gateway содержит HTTP клиент удалённого REST API парковок.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
)

var (
	// ErrEnvelope возвращается, если success=false или в ответе нет ожидаемых данных.
	ErrEnvelope = errors.New("unsuccessful response envelope")
	// ErrStatus возвращается на не-2xx ответ.
	ErrStatus = errors.New("unexpected status code")
)

// Client выполняет GET запросы к API с отключённым кешированием.
type Client struct {
	baseURL string
	client  *http.Client
}

// New создает клиента для указанного базового URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL возвращает базовый URL API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListParking возвращает полный список парковок.
// Эндпоинт: GET /api/parking
func (c *Client) ListParking(ctx context.Context) ([]models.ParkingSpot, error) {
	spots, err := get[[]models.ParkingSpot](ctx, c, "/api/parking")
	if err != nil {
		return nil, err
	}
	return *spots, nil
}

// StatsOverview возвращает сводку для главной страницы.
// Эндпоинт: GET /api/parking/stats/overview
func (c *Client) StatsOverview(ctx context.Context) (models.StatsOverview, error) {
	stats, err := get[models.StatsOverview](ctx, c, "/api/parking/stats/overview")
	if err != nil {
		return models.StatsOverview{}, err
	}
	return *stats, nil
}

// Trends возвращает историческую загрузку района за период.
// Эндпоинт: GET /api/trends/{area}?timeFrame={day|week|month}
func (c *Client) Trends(ctx context.Context, area, timeFrame string) (models.TrendsData, error) {
	path := fmt.Sprintf("/api/trends/%s?timeFrame=%s", url.PathEscape(area), url.QueryEscape(timeFrame))
	data, err := get[models.TrendsData](ctx, c, path)
	if err != nil {
		return models.TrendsData{}, err
	}
	return *data, nil
}

// InsightsSummary возвращает сводку аналитики.
// Эндпоинт: GET /api/insights/summary
func (c *Client) InsightsSummary(ctx context.Context) (models.InsightsSummary, error) {
	data, err := get[models.InsightsSummary](ctx, c, "/api/insights/summary")
	if err != nil {
		return models.InsightsSummary{}, err
	}
	return *data, nil
}

// CarOwnership возвращает ряд роста владения автомобилями.
// Эндпоинт: GET /api/insights/car-ownership
func (c *Client) CarOwnership(ctx context.Context) (models.CarOwnershipData, error) {
	data, err := get[models.CarOwnershipData](ctx, c, "/api/insights/car-ownership")
	if err != nil {
		return models.CarOwnershipData{}, err
	}
	if data.CarOwnership == nil {
		return models.CarOwnershipData{}, fmt.Errorf("%w: carOwnership missing", ErrEnvelope)
	}
	return *data, nil
}

// PopulationGrowth возвращает ряд роста населения CBD.
// Эндпоинт: GET /api/insights/population-growth
func (c *Client) PopulationGrowth(ctx context.Context) (models.PopulationData, error) {
	data, err := get[models.PopulationData](ctx, c, "/api/insights/population-growth")
	if err != nil {
		return models.PopulationData{}, err
	}
	if data.Population == nil {
		return models.PopulationData{}, fmt.Errorf("%w: population missing", ErrEnvelope)
	}
	return *data, nil
}

// get выполняет запрос и разбирает обёртку {success, data, error}.
func get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrStatus, path, res.StatusCode, strings.TrimSpace(string(body)))
	}

	var env models.Envelope[T]
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if !env.Success || env.Data == nil {
		msg := env.Error
		if msg == "" {
			msg = "no data"
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrEnvelope, path, msg)
	}

	return env.Data, nil
}
