package mapview

import (
	"context"
	"errors"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
)

// ErrPositionUnavailable возвращается, когда местоположение не получено.
var ErrPositionUnavailable = errors.New("position unavailable")

// Locator однократно возвращает текущее местоположение пользователя.
type Locator interface {
	CurrentPosition(ctx context.Context) (models.GeoPoint, error)
}

// LocatorFunc позволяет использовать функцию как Locator.
type LocatorFunc func(ctx context.Context) (models.GeoPoint, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context) (models.GeoPoint, error) {
	return f(ctx)
}

// ReportedPosition представляет местоположение, которое прислал браузер.
// Либо Position, либо Error (отказ в доступе, таймаут и т.п.).
type ReportedPosition struct {
	Position *models.GeoPoint `json:"position,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (r ReportedPosition) CurrentPosition(context.Context) (models.GeoPoint, error) {
	if r.Error != "" {
		return models.GeoPoint{}, errors.Join(ErrPositionUnavailable, errors.New(r.Error))
	}
	if r.Position == nil {
		return models.GeoPoint{}, ErrPositionUnavailable
	}
	return *r.Position, nil
}
