package mapview

import (
	"context"
	"fmt"
	"sync"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/present"
)

// Marker представляет маркер парковки на карте
type Marker struct {
	ID       string          `json:"id"`
	Position models.GeoPoint `json:"position"`
	Color    string          `json:"color"`
	Label    string          `json:"label"`
	Popup    present.Popup   `json:"popup"`
}

// Widget описывает экземпляр карты, которым управляет Map.
type Widget interface {
	AttachTiles(ctx context.Context, p TileProvider) error
	SetView(center models.GeoPoint, zoom int)
	PutMarker(m Marker) error
	RemoveMarker(id string)
	OpenPopup(id string) error
}

// View представляет состояние карты, которое рисует браузер
type View struct {
	Center    models.GeoPoint `json:"center"`
	Zoom      int             `json:"zoom"`
	Tiles     *TileProvider   `json:"tiles,omitempty"`
	Markers   []Marker        `json:"markers"`
	OpenPopup string          `json:"openPopup,omitempty"`
}

// ViewWidget реализует карту без отрисовки: хранит вид, слой тайлов и маркеры,
// а браузер получает их через View.
type ViewWidget struct {
	checker *TileChecker

	mu      sync.Mutex
	center  models.GeoPoint
	zoom    int
	tiles   *TileProvider
	markers map[string]Marker
	order   []string
	popup   string
}

// NewViewWidget создает карту с начальным видом.
func NewViewWidget(checker *TileChecker, center models.GeoPoint, zoom int) *ViewWidget {
	return &ViewWidget{
		checker: checker,
		center:  center,
		zoom:    zoom,
		markers: make(map[string]Marker),
	}
}

func (w *ViewWidget) AttachTiles(ctx context.Context, p TileProvider) error {
	w.mu.Lock()
	center, zoom := w.center, w.zoom
	w.mu.Unlock()

	if err := w.checker.Check(ctx, p, center, zoom); err != nil {
		return err
	}

	w.mu.Lock()
	w.tiles = &p
	w.mu.Unlock()
	return nil
}

func (w *ViewWidget) SetView(center models.GeoPoint, zoom int) {
	w.mu.Lock()
	w.center = center
	w.zoom = zoom
	w.mu.Unlock()
}

func (w *ViewWidget) PutMarker(m Marker) error {
	if m.ID == "" {
		return fmt.Errorf("marker without id")
	}
	if m.Position.Lat < -90 || m.Position.Lat > 90 || m.Position.Lng < -180 || m.Position.Lng > 180 {
		return fmt.Errorf("marker %s: coordinates %v,%v out of range", m.ID, m.Position.Lat, m.Position.Lng)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.markers[m.ID]; !ok {
		w.order = append(w.order, m.ID)
	}
	w.markers[m.ID] = m
	return nil
}

func (w *ViewWidget) RemoveMarker(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.markers[id]; !ok {
		return
	}
	delete(w.markers, id)
	for i, v := range w.order {
		if v == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.popup == id {
		w.popup = ""
	}
}

func (w *ViewWidget) OpenPopup(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.markers[id]; !ok {
		return fmt.Errorf("no marker %s", id)
	}
	w.popup = id
	return nil
}

// View возвращает копию текущего состояния карты.
func (w *ViewWidget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Center:    w.center,
		Zoom:      w.zoom,
		Markers:   make([]Marker, 0, len(w.order)),
		OpenPopup: w.popup,
	}
	if w.tiles != nil {
		t := *w.tiles
		v.Tiles = &t
	}
	for _, id := range w.order {
		v.Markers = append(v.Markers, w.markers[id])
	}
	return v
}
