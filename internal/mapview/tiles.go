package mapview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
)

// TileProvider описывает источник тайлов карты.
type TileProvider struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	MinZoom     int    `json:"minZoom"`
	MaxZoom     int    `json:"maxZoom"`
}

// DefaultProviders возвращает цепочку провайдеров в порядке приоритета.
func DefaultProviders() []TileProvider {
	return []TileProvider{
		{
			Name:        "OpenStreetMap",
			URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "© OpenStreetMap contributors",
			MinZoom:     12,
			MaxZoom:     19,
		},
		{
			Name:        "CartoDB Positron",
			URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
			Attribution: "© CartoDB",
			MinZoom:     12,
			MaxZoom:     19,
		},
	}
}

// TileXY возвращает координаты тайла (схема slippy map), покрывающего точку.
func TileXY(p models.GeoPoint, zoom int) (x, y int) {
	n := math.Exp2(float64(zoom))
	latRad := p.Lat * math.Pi / 180
	x = int(math.Floor((p.Lng + 180) / 360 * n))
	y = int(math.Floor((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n))
	return x, y
}

// TileURL подставляет координаты тайла в шаблон провайдера.
func TileURL(template string, z, x, y int) string {
	r := strings.NewReplacer(
		"{s}", "a",
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
		"{r}", "",
	)
	return r.Replace(template)
}

// TileChecker проверяет, что провайдер может отдавать тайлы.
// Без verify=true проверяется только шаблон URL.
type TileChecker struct {
	client *http.Client
	verify bool
}

// NewTileChecker создает проверку провайдеров. При verify=true запрашивается
// тайл, покрывающий центр карты.
func NewTileChecker(verify bool, timeout time.Duration) *TileChecker {
	return &TileChecker{
		client: &http.Client{Timeout: timeout},
		verify: verify,
	}
}

// Check возвращает ошибку, если провайдер нельзя подключить.
func (c *TileChecker) Check(ctx context.Context, p TileProvider, center models.GeoPoint, zoom int) error {
	if p.URL == "" {
		return errors.New("empty tile url")
	}
	for _, part := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(p.URL, part) {
			return fmt.Errorf("tile url %q lacks %s", p.URL, part)
		}
	}
	if p.MinZoom > p.MaxZoom {
		return fmt.Errorf("min zoom %d above max zoom %d", p.MinZoom, p.MaxZoom)
	}

	x, y := TileXY(center, zoom)
	tileURL := TileURL(p.URL, zoom, x, y)
	u, err := url.Parse(tileURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid tile url %q", tileURL)
	}

	if c == nil || !c.verify {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create tile request: %w", err)
	}
	req.Header.Set("User-Agent", "cbd-parking-dashboard")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tile request failed: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, io.LimitReader(res.Body, 1<<16))

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("tile %s returned %d", tileURL, res.StatusCode)
	}
	return nil
}
