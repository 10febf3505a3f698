package mapview

import (
	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/present"
)

// SelectedSpot представляет карточку выбранной парковки
type SelectedSpot struct {
	Spot  models.ParkingSpot `json:"spot"`
	Color string             `json:"color"`
	Popup present.Popup      `json:"popup"`
}

// Snapshot представляет состояние карты для страницы и живой ленты.
type Snapshot struct {
	Status      Status        `json:"status"`
	Error       string        `json:"error,omitempty"`
	Provider    string        `json:"provider,omitempty"`
	Loading     bool          `json:"loading"`
	LastUpdated string        `json:"lastUpdated,omitempty"`
	Query       string        `json:"query,omitempty"`
	SpotCount   int           `json:"spotCount"`
	Selected    *SelectedSpot `json:"selected,omitempty"`
	View        *View         `json:"view,omitempty"`
}

// Viewer реализуют виджеты, состояние которых можно отдать браузеру.
type Viewer interface {
	View() View
}

// Status возвращает состояние инициализации и ошибку последней неудачной попытки.
func (m *Map) Status() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.initErr
}

// Spots возвращает последний применённый список парковок.
func (m *Map) Spots() []models.ParkingSpot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ParkingSpot, len(m.current))
	copy(out, m.current)
	return out
}

// Selected возвращает выбранную парковку.
func (m *Map) Selected() (models.ParkingSpot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return models.ParkingSpot{}, false
	}
	return *m.selected, true
}

// Snapshot возвращает копию состояния карты.
func (m *Map) Snapshot() Snapshot {
	m.mu.Lock()
	s := Snapshot{
		Status:      m.status,
		Provider:    m.provider,
		Loading:     !m.loaded,
		LastUpdated: m.lastUpdated,
		Query:       m.query,
		SpotCount:   len(m.current),
	}
	if m.initErr != nil {
		s.Error = m.initErr.Error()
	}
	if m.selected != nil {
		s.Selected = &SelectedSpot{
			Spot:  *m.selected,
			Color: present.MarkerColor(m.selected.Availability),
			Popup: present.SpotPopup(*m.selected),
		}
	}
	m.mu.Unlock()

	if v, ok := m.widget.(Viewer); ok {
		view := v.View()
		s.View = &view
	}
	return s
}
