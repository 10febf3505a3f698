// Package mapview управляет живой картой парковок и периодически обновляет
// её маркеры из API.
package mapview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/akozadaev/cbd_parking_dashboard/internal/adapter"
	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/present"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultZoom     = 15
	FocusZoom       = 16
	LocateZoom      = 15
	FallbackZoom    = 14
)

var (
	ErrAllProvidersFailed = errors.New("all tile providers failed")
	ErrNotReady           = errors.New("map is not ready")
	ErrInvalidState       = errors.New("invalid map state")
	ErrUnknownSpot        = errors.New("unknown parking spot")
)

// Status представляет состояние инициализации карты.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusInitializing  Status = "initializing"
	StatusReady         Status = "ready"
	StatusFailed        Status = "failed"
)

// SpotSource возвращает текущий список парковок.
type SpotSource interface {
	ListParking(ctx context.Context) ([]models.ParkingSpot, error)
}

// Options задаёт параметры карты. Нулевые значения заменяются значениями по умолчанию.
type Options struct {
	Center    models.GeoPoint
	Zoom      int
	Interval  time.Duration
	Providers []TileProvider

	// OnSelect вызывается при выборе парковки.
	OnSelect func(models.ParkingSpot)
	// OnChange вызывается после каждого изменения вида карты.
	OnChange func()
	// OnRefresh получает каждый успешно применённый список.
	OnRefresh func(ctx context.Context, spots []models.ParkingSpot)
}

// Map владеет одним экземпляром Widget. Создаётся через New,
// освобождается через Dispose.
type Map struct {
	opts   Options
	source SpotSource
	widget Widget
	spots  *adapter.Adapter[[]models.ParkingSpot]

	// подменяется в тестах
	newTicker func(time.Duration) (<-chan time.Time, func())

	mu          sync.Mutex
	status      Status
	initErr     error
	provider    string
	current     []models.ParkingSpot
	markers     map[string]models.ParkingSpot
	selected    *models.ParkingSpot
	query       string
	lastUpdated string
	loaded      bool
	cancel      context.CancelFunc
	disposed    bool

	wg sync.WaitGroup
}

// New создает карту в состоянии StatusUninitialized.
func New(opts Options, source SpotSource, widget Widget) *Map {
	if opts.Zoom == 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Providers == nil {
		opts.Providers = DefaultProviders()
	}
	return &Map{
		opts:   opts,
		source: source,
		widget: widget,
		spots:  adapter.New[[]models.ParkingSpot]("parking"),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
		status:  StatusUninitialized,
		markers: make(map[string]models.ParkingSpot),
	}
}

// Interval возвращает интервал опроса.
func (m *Map) Interval() time.Duration {
	return m.opts.Interval
}

// Init подключает первый рабочий провайдер тайлов.
// Допустим только из StatusUninitialized.
func (m *Map) Init(ctx context.Context) error {
	return m.initialize(ctx, StatusUninitialized)
}

// Retry повторяет инициализацию после StatusFailed.
func (m *Map) Retry(ctx context.Context) error {
	return m.initialize(ctx, StatusFailed)
}

func (m *Map) initialize(ctx context.Context, from Status) error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return ErrInvalidState
	}
	if m.status != from {
		status := m.status
		m.mu.Unlock()
		return fmt.Errorf("%w: cannot initialize from %s", ErrInvalidState, status)
	}
	m.status = StatusInitializing
	m.initErr = nil
	m.mu.Unlock()

	log.Printf("[map] initializing with %d tile providers", len(m.opts.Providers))
	m.widget.SetView(m.opts.Center, m.opts.Zoom)

	provider, err := m.attachTiles(ctx)

	m.mu.Lock()
	if err != nil {
		m.status = StatusFailed
		m.initErr = err
		m.mu.Unlock()
		log.Printf("[map] initialization failed: %v", err)
		m.notify()
		return err
	}
	m.status = StatusReady
	m.provider = provider
	m.syncMarkersLocked()
	m.focusLocked()
	m.mu.Unlock()

	log.Printf("[map] initialized with %s tiles", provider)
	m.notify()
	return nil
}

// attachTiles пробует провайдеров по порядку; побеждает первый подключившийся.
func (m *Map) attachTiles(ctx context.Context) (string, error) {
	var errs []error
	for _, p := range m.opts.Providers {
		if err := m.widget.AttachTiles(ctx, p); err != nil {
			log.Printf("[map] tile provider %s failed: %v", p.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}
		return p.Name, nil
	}
	return "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}

// Start выполняет первую загрузку и затем обновляет список каждые Interval,
// пока не отменён ctx или не вызван Dispose. Тик не ждёт завершения
// предыдущего запроса.
func (m *Map) Start(ctx context.Context) {
	m.mu.Lock()
	if m.disposed || m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go m.poll(ctx)
}

func (m *Map) poll(ctx context.Context) {
	defer m.wg.Done()

	m.spawnRefresh(ctx)

	ticks, stop := m.newTicker(m.opts.Interval)
	defer stop()
	log.Printf("[poller] started, refreshing every %s", m.opts.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[poller] stopped")
			return
		case <-ticks:
			m.spawnRefresh(ctx)
		}
	}
}

func (m *Map) spawnRefresh(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.Refresh(ctx)
	}()
}

// Refresh загружает список парковок один раз. Успешный ответ заменяет весь
// список и синхронизирует маркеры; ошибка или пустой список оставляют прежние маркеры.
func (m *Map) Refresh(ctx context.Context) error {
	m.mu.Lock()
	disposed := m.disposed
	m.mu.Unlock()
	if disposed {
		return ErrInvalidState
	}

	var fetchErr error
	applied := m.spots.Load(ctx, func(ctx context.Context) ([]models.ParkingSpot, error) {
		spots, err := m.source.ListParking(ctx)
		fetchErr = err
		return spots, err
	})

	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return nil
	}
	if !applied {
		m.mu.Unlock()
		return nil
	}
	m.loaded = true
	if fetchErr != nil {
		m.mu.Unlock()
		m.notify()
		return fetchErr
	}

	spots, _ := m.spots.Result()
	m.current = spots
	m.lastUpdated = time.Now().Format("15:04:05")
	// Пустой список не убирает уже показанные маркеры.
	if m.status == StatusReady && len(spots) > 0 {
		m.syncMarkersLocked()
		m.focusLocked()
	}
	m.mu.Unlock()

	if m.opts.OnRefresh != nil {
		m.opts.OnRefresh(ctx, spots)
	}
	m.notify()
	return nil
}

// syncMarkersLocked приводит маркеры к текущему списку по идентификатору.
// Ошибка одного маркера не прерывает остальные.
func (m *Map) syncMarkersLocked() {
	seen := make(map[string]bool, len(m.current))
	for _, s := range m.current {
		if prev, ok := m.markers[s.ID]; ok && prev == s {
			seen[s.ID] = true
			continue
		}
		if err := m.widget.PutMarker(markerFor(s)); err != nil {
			log.Printf("[map] error adding marker for spot %s: %v", s.Name, err)
			continue
		}
		m.markers[s.ID] = s
		seen[s.ID] = true
	}
	for id := range m.markers {
		if !seen[id] {
			m.widget.RemoveMarker(id)
			delete(m.markers, id)
		}
	}
}

func markerFor(s models.ParkingSpot) Marker {
	return Marker{
		ID:       s.ID,
		Position: s.Position(),
		Color:    present.MarkerColor(s.Availability),
		Label:    "P",
		Popup:    present.SpotPopup(s),
	}
}

// Focus запоминает поисковый запрос и центрирует карту на первой парковке,
// у которой название или адрес содержит запрос без учёта регистра.
// Если совпадений нет, ничего не меняется.
func (m *Map) Focus(query string) (models.ParkingSpot, bool) {
	m.mu.Lock()
	m.query = query
	spot, ok := m.focusLocked()
	m.mu.Unlock()

	if ok {
		m.notify()
	}
	return spot, ok
}

func (m *Map) focusLocked() (models.ParkingSpot, bool) {
	if m.query == "" || m.status != StatusReady {
		return models.ParkingSpot{}, false
	}
	spot, ok := MatchSpot(m.current, m.query)
	if !ok {
		return models.ParkingSpot{}, false
	}

	m.widget.SetView(spot.Position(), FocusZoom)
	m.selected = &spot
	if _, rendered := m.markers[spot.ID]; rendered {
		if err := m.widget.OpenPopup(spot.ID); err != nil {
			log.Printf("[map] cannot open popup for %s: %v", spot.ID, err)
		}
	}
	return spot, true
}

// MatchSpot возвращает первую парковку по порядку списка, у которой название
// или адрес содержит query без учёта регистра.
func MatchSpot(spots []models.ParkingSpot, query string) (models.ParkingSpot, bool) {
	q := strings.ToLower(query)
	if q == "" {
		return models.ParkingSpot{}, false
	}
	for _, s := range spots {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Address), q) {
			return s, true
		}
	}
	return models.ParkingSpot{}, false
}

// Locate один раз запрашивает местоположение. При успехе карта центрируется
// на нём, при ошибке возвращается к центру города. Повторов нет.
func (m *Map) Locate(ctx context.Context, loc Locator) error {
	m.mu.Lock()
	ready := m.status == StatusReady && !m.disposed
	m.mu.Unlock()
	if !ready {
		return ErrNotReady
	}

	pos, err := loc.CurrentPosition(ctx)
	if err != nil {
		log.Printf("[map] error getting current location: %v", err)
		m.widget.SetView(m.opts.Center, FallbackZoom)
	} else {
		m.widget.SetView(pos, LocateZoom)
	}
	m.notify()
	return nil
}

// Select выбирает парковку, как по клику на маркер.
func (m *Map) Select(id string) (models.ParkingSpot, error) {
	m.mu.Lock()
	var (
		spot  models.ParkingSpot
		found bool
	)
	for _, s := range m.current {
		if s.ID == id {
			spot, found = s, true
			break
		}
	}
	if !found {
		m.mu.Unlock()
		return models.ParkingSpot{}, ErrUnknownSpot
	}
	m.selected = &spot
	m.mu.Unlock()

	if m.opts.OnSelect != nil {
		m.opts.OnSelect(spot)
	}
	m.notify()
	return spot, nil
}

// ClearSelection закрывает карточку выбранной парковки.
func (m *Map) ClearSelection() {
	m.mu.Lock()
	m.selected = nil
	m.mu.Unlock()
	m.notify()
}

// Dispose останавливает опрос, дожидается запросов в полёте и убирает маркеры.
// После Dispose новых запросов не бывает.
func (m *Map) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()

	m.mu.Lock()
	for id := range m.markers {
		m.widget.RemoveMarker(id)
		delete(m.markers, id)
	}
	m.selected = nil
	m.mu.Unlock()
	log.Printf("[map] disposed")
}

func (m *Map) notify() {
	if m.opts.OnChange != nil {
		m.opts.OnChange()
	}
}
