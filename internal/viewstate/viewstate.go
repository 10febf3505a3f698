// Package viewstate содержит состояние страниц дашборда: строку поиска,
// выбранный район и период, видимость напоминания о парковке.
package viewstate

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrUnknownArea      = errors.New("unknown area")
	ErrUnknownTimeFrame = errors.New("unknown time frame")
)

// Area представляет район CBD из фиксированного списка
type Area struct {
	ID          string
	Name        string
	DisplayName string
	Spots       int
}

// TimeFrame представляет период выборки трендов
type TimeFrame struct {
	ID       string
	Name     string
	Subtitle string
}

var areas = []Area{
	{ID: "collins-street", Name: "Collins Street", DisplayName: "Collins Street Plaza", Spots: 450},
	{ID: "bourke-street", Name: "Bourke Street", DisplayName: "Bourke Street Central", Spots: 320},
	{ID: "flinders-lane", Name: "Flinders Lane", DisplayName: "Flinders Lane Tower", Spots: 280},
	{ID: "queen-street", Name: "Queen Street", DisplayName: "Queen Street Hub", Spots: 180},
	{ID: "elizabeth-street", Name: "Elizabeth Street", DisplayName: "Elizabeth Street Complex", Spots: 520},
	{ID: "spencer-street", Name: "Spencer Street", DisplayName: "Spencer Street Station", Spots: 650},
}

var timeFrames = []TimeFrame{
	{ID: "day", Name: "Today", Subtitle: "today"},
	{ID: "week", Name: "This Week", Subtitle: "this week"},
	{ID: "month", Name: "This Month", Subtitle: "this month"},
}

const (
	DefaultArea      = "collins-street"
	DefaultTimeFrame = "week"
)

// Areas возвращает список районов в порядке отображения.
func Areas() []Area {
	out := make([]Area, len(areas))
	copy(out, areas)
	return out
}

// TimeFrames возвращает список периодов в порядке отображения.
func TimeFrames() []TimeFrame {
	out := make([]TimeFrame, len(timeFrames))
	copy(out, timeFrames)
	return out
}

// LookupArea ищет район по идентификатору.
func LookupArea(id string) (Area, bool) {
	for _, a := range areas {
		if a.ID == id {
			return a, true
		}
	}
	return Area{}, false
}

// LookupTimeFrame ищет период по идентификатору.
func LookupTimeFrame(id string) (TimeFrame, bool) {
	for _, tf := range timeFrames {
		if tf.ID == id {
			return tf, true
		}
	}
	return TimeFrame{}, false
}

// Search хранит строку поиска главной страницы.
type Search struct {
	mu    sync.Mutex
	query string
}

// Submit сохраняет запрос без пробелов по краям. Пустой запрос игнорируется.
func (s *Search) Submit(raw string) (string, bool) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", false
	}
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
	return q, true
}

// Query возвращает текущий запрос.
func (s *Search) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Selection хранит выбранные район и период страницы трендов.
type Selection struct {
	mu        sync.Mutex
	area      string
	timeFrame string
}

// NewSelection создает выбор со значениями по умолчанию.
func NewSelection() *Selection {
	return &Selection{area: DefaultArea, timeFrame: DefaultTimeFrame}
}

// SetArea меняет район. Возвращает true, если значение изменилось.
func (s *Selection) SetArea(id string) (bool, error) {
	if _, ok := LookupArea(id); !ok {
		return false, ErrUnknownArea
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.area != id
	s.area = id
	return changed, nil
}

// SetTimeFrame меняет период. Возвращает true, если значение изменилось.
func (s *Selection) SetTimeFrame(id string) (bool, error) {
	if _, ok := LookupTimeFrame(id); !ok {
		return false, ErrUnknownTimeFrame
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.timeFrame != id
	s.timeFrame = id
	return changed, nil
}

// Current возвращает выбранные район и период.
func (s *Selection) Current() (area, timeFrame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.area, s.timeFrame
}

// AlertMessage содержит текст напоминания об истечении парковки.
const AlertMessage = "Your parking at Collins Street Plaza expires in 15 minutes. Consider extending or moving your vehicle."

// Alert хранит видимость напоминания. Состояние не сохраняется между запусками.
type Alert struct {
	mu      sync.Mutex
	visible bool
}

func (a *Alert) Show() {
	a.mu.Lock()
	a.visible = true
	a.mu.Unlock()
}

func (a *Alert) Dismiss() {
	a.mu.Lock()
	a.visible = false
	a.mu.Unlock()
}

func (a *Alert) Visible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}
