package mapview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
)

var melbourne = models.GeoPoint{Lat: -37.8136, Lng: 144.9631}

type fakeSource struct {
	mu    sync.Mutex
	spots []models.ParkingSpot
	err   error
	calls atomic.Int32
}

func (f *fakeSource) ListParking(context.Context) ([]models.ParkingSpot, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.ParkingSpot, len(f.spots))
	copy(out, f.spots)
	return out, nil
}

func (f *fakeSource) set(spots []models.ParkingSpot, err error) {
	f.mu.Lock()
	f.spots, f.err = spots, err
	f.mu.Unlock()
}

// tileWidget оборачивает ViewWidget, у которого часть провайдеров «не подключается».
type tileWidget struct {
	*ViewWidget
	failing  map[string]bool
	attempts []string
}

func (w *tileWidget) AttachTiles(ctx context.Context, p TileProvider) error {
	w.attempts = append(w.attempts, p.Name)
	if w.failing[p.Name] {
		return errors.New("tiles unreachable")
	}
	return w.ViewWidget.AttachTiles(ctx, p)
}

func newTileWidget(failing ...string) *tileWidget {
	w := &tileWidget{
		ViewWidget: NewViewWidget(NewTileChecker(false, time.Second), melbourne, DefaultZoom),
		failing:    make(map[string]bool),
	}
	for _, name := range failing {
		w.failing[name] = true
	}
	return w
}

func cbdSpots() []models.ParkingSpot {
	return []models.ParkingSpot{
		{ID: "p1", Name: "Collins Street Plaza", Address: "123 Collins St", Lat: -37.8150, Lng: 144.9660, Availability: "available", TotalSpots: 450, AvailableSpots: 120},
		{ID: "p2", Name: "Bourke Street Central", Address: "200 Bourke St", Lat: -37.8130, Lng: 144.9670, Availability: "limited", TotalSpots: 320, AvailableSpots: 12},
		{ID: "p3", Name: "Queen Street Hub", Address: "55 Queen St", Lat: -37.8170, Lng: 144.9610, Availability: "full", TotalSpots: 180},
	}
}

func readyMap(t *testing.T, src *fakeSource, opts Options) (*Map, *tileWidget) {
	t.Helper()
	w := newTileWidget()
	if opts.Center == (models.GeoPoint{}) {
		opts.Center = melbourne
	}
	m := New(opts, src, w)
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(m.Dispose)
	return m, w
}

func markerIDs(v View) []string {
	ids := make([]string, 0, len(v.Markers))
	for _, mk := range v.Markers {
		ids = append(ids, mk.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProviderFallback(t *testing.T) {
	w := newTileWidget("OpenStreetMap")
	m := New(Options{Center: melbourne}, &fakeSource{}, w)

	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer m.Dispose()

	if !equalStrings(w.attempts, []string{"OpenStreetMap", "CartoDB Positron"}) {
		t.Errorf("attempts = %v, want OpenStreetMap then CartoDB Positron", w.attempts)
	}
	status, _ := m.Status()
	if status != StatusReady {
		t.Errorf("status = %s, want ready", status)
	}
	if v := w.View(); v.Tiles == nil || v.Tiles.Name != "CartoDB Positron" {
		t.Errorf("tiles = %+v, want CartoDB Positron", v.Tiles)
	}
}

func TestAllProvidersFailThenRetry(t *testing.T) {
	w := newTileWidget("OpenStreetMap", "CartoDB Positron")
	m := New(Options{Center: melbourne}, &fakeSource{}, w)
	defer m.Dispose()

	err := m.Init(context.Background())
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("Init err = %v, want ErrAllProvidersFailed", err)
	}
	if len(w.attempts) != 2 {
		t.Errorf("attempts = %v, want both providers", w.attempts)
	}
	status, initErr := m.Status()
	if status != StatusFailed || initErr == nil {
		t.Errorf("status = %s (%v), want failed with error", status, initErr)
	}
	if s := m.Snapshot(); s.Error == "" {
		t.Error("snapshot error is empty")
	}
	if err := m.Init(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Init err = %v, want ErrInvalidState", err)
	}

	delete(w.failing, "CartoDB Positron")
	if err := m.Retry(context.Background()); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if status, initErr := m.Status(); status != StatusReady || initErr != nil {
		t.Errorf("after retry status = %s (%v), want ready", status, initErr)
	}
	if err := m.Retry(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Retry from ready err = %v, want ErrInvalidState", err)
	}
}

func TestRefreshSyncsMarkersByID(t *testing.T) {
	src := &fakeSource{spots: cbdSpots()}
	m, w := readyMap(t, src, Options{})

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	v := w.View()
	if !equalStrings(markerIDs(v), []string{"p1", "p2", "p3"}) {
		t.Fatalf("markers = %v, want p1 p2 p3", markerIDs(v))
	}
	if v.Markers[1].Color != "#F59E0B" || v.Markers[2].Color != "#EF4444" {
		t.Errorf("colors = %s, %s", v.Markers[1].Color, v.Markers[2].Color)
	}

	next := cbdSpots()[:2]
	next[0].Availability = "full"
	next = append(next, models.ParkingSpot{ID: "p4", Name: "Spencer Street Station", Lat: -37.818, Lng: 144.952, Availability: "available"})
	src.set(next, nil)

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
	v = w.View()
	if !equalStrings(markerIDs(v), []string{"p1", "p2", "p4"}) {
		t.Errorf("markers = %v, want p1 p2 p4", markerIDs(v))
	}
	if v.Markers[0].Color != "#EF4444" {
		t.Errorf("p1 color = %s, want red after update", v.Markers[0].Color)
	}
	if s := m.Snapshot(); s.LastUpdated == "" || s.Loading || s.SpotCount != 3 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestRefreshFailureKeepsMarkers(t *testing.T) {
	src := &fakeSource{spots: cbdSpots()}
	m, w := readyMap(t, src, Options{})
	m.Refresh(context.Background())

	src.set(nil, errors.New("connection refused"))
	if err := m.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh error = nil, want failure")
	}

	if ids := markerIDs(w.View()); len(ids) != 3 {
		t.Errorf("markers after failure = %v, want 3 kept", ids)
	}
	if n := len(m.Spots()); n != 3 {
		t.Errorf("spots after failure = %d, want 3", n)
	}
}

func TestEmptyListingKeepsMarkers(t *testing.T) {
	src := &fakeSource{spots: cbdSpots()}
	m, w := readyMap(t, src, Options{})
	m.Refresh(context.Background())

	src.set([]models.ParkingSpot{}, nil)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if ids := markerIDs(w.View()); len(ids) != 3 {
		t.Errorf("markers after empty listing = %v, want 3 kept", ids)
	}
	if n := m.Snapshot().SpotCount; n != 0 {
		t.Errorf("SpotCount = %d, want 0", n)
	}

	src.set(cbdSpots()[:1], nil)
	m.Refresh(context.Background())
	if ids := markerIDs(w.View()); !equalStrings(ids, []string{"p1"}) {
		t.Errorf("markers = %v, want p1", ids)
	}
}

func TestMarkerFailureIsolated(t *testing.T) {
	spots := cbdSpots()
	spots[1].Lat = 123
	src := &fakeSource{spots: spots}
	m, w := readyMap(t, src, Options{})

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if ids := markerIDs(w.View()); !equalStrings(ids, []string{"p1", "p3"}) {
		t.Errorf("markers = %v, want p1 p3", ids)
	}
}

func TestMarkersRenderedWhenInitCompletesLater(t *testing.T) {
	src := &fakeSource{spots: cbdSpots()}
	w := newTileWidget()
	m := New(Options{Center: melbourne}, src, w)
	defer m.Dispose()

	m.Refresh(context.Background())
	if n := len(w.View().Markers); n != 0 {
		t.Fatalf("markers before init = %d, want 0", n)
	}
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if n := len(w.View().Markers); n != 3 {
		t.Errorf("markers after init = %d, want 3", n)
	}
}

func TestFocus(t *testing.T) {
	src := &fakeSource{spots: []models.ParkingSpot{
		{ID: "c", Name: "Collins Street Plaza", Address: "1 Collins St", Lat: -37.815, Lng: 144.966},
		{ID: "b", Name: "Bourke Street Central", Address: "2 Bourke St", Lat: -37.813, Lng: 144.967},
	}}
	m, w := readyMap(t, src, Options{})
	m.Refresh(context.Background())

	spot, ok := m.Focus("bourke")
	if !ok || spot.ID != "b" {
		t.Fatalf("Focus(bourke) = %+v, %t; want spot b", spot, ok)
	}
	v := w.View()
	if v.Center != (models.GeoPoint{Lat: -37.813, Lng: 144.967}) || v.Zoom != FocusZoom {
		t.Errorf("view = %+v @ %d, want bourke @ 16", v.Center, v.Zoom)
	}
	if v.OpenPopup != "b" {
		t.Errorf("open popup = %q, want b", v.OpenPopup)
	}

	if _, ok := m.Focus("zzz"); ok {
		t.Error("Focus(zzz) matched")
	}
	if sel, ok := m.Selected(); !ok || sel.ID != "b" {
		t.Errorf("selected after miss = %+v, %t; want b kept", sel, ok)
	}
	if w.View().Center != v.Center {
		t.Error("view moved on a miss")
	}
}

func TestFocusMatchesAddressAndFirstWins(t *testing.T) {
	spots := []models.ParkingSpot{
		{ID: "1", Name: "Flinders Lane Tower", Address: "10 Flinders Ln"},
		{ID: "2", Name: "Queen Street Hub", Address: "99 QUEEN ST"},
		{ID: "3", Name: "Queen Victoria", Address: "Elizabeth St"},
	}
	if s, ok := MatchSpot(spots, "queen st"); !ok || s.ID != "2" {
		t.Errorf("MatchSpot(queen st) = %s, %t; want 2", s.ID, ok)
	}
	if s, ok := MatchSpot(spots, "LN"); !ok || s.ID != "1" {
		t.Errorf("MatchSpot(LN) = %s, %t; want 1", s.ID, ok)
	}
	if _, ok := MatchSpot(spots, ""); ok {
		t.Error("empty query matched")
	}
}

func TestFocusAppliedOnceReady(t *testing.T) {
	src := &fakeSource{spots: cbdSpots()}
	w := newTileWidget()
	m := New(Options{Center: melbourne}, src, w)
	defer m.Dispose()
	m.Refresh(context.Background())

	if _, ok := m.Focus("queen"); ok {
		t.Fatal("Focus matched before map was ready")
	}
	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if sel, ok := m.Selected(); !ok || sel.ID != "p3" {
		t.Errorf("selected = %+v, %t; want p3 after init", sel, ok)
	}
}

func TestLocate(t *testing.T) {
	m, w := readyMap(t, &fakeSource{}, Options{})

	here := models.GeoPoint{Lat: -37.80, Lng: 144.95}
	if err := m.Locate(context.Background(), ReportedPosition{Position: &here}); err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if v := w.View(); v.Center != here || v.Zoom != LocateZoom {
		t.Errorf("view = %+v @ %d, want %+v @ 15", v.Center, v.Zoom, here)
	}

	if err := m.Locate(context.Background(), ReportedPosition{Error: "permission denied"}); err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if v := w.View(); v.Center != melbourne || v.Zoom != FallbackZoom {
		t.Errorf("view = %+v @ %d, want default center @ 14", v.Center, v.Zoom)
	}

	calls := 0
	notReady := New(Options{}, &fakeSource{}, newTileWidget())
	err := notReady.Locate(context.Background(), LocatorFunc(func(context.Context) (models.GeoPoint, error) {
		calls++
		return here, nil
	}))
	if !errors.Is(err, ErrNotReady) || calls != 0 {
		t.Errorf("Locate before init = %v (calls %d), want ErrNotReady without asking", err, calls)
	}
}

func TestSelect(t *testing.T) {
	var picked []string
	src := &fakeSource{spots: cbdSpots()}
	m, _ := readyMap(t, src, Options{OnSelect: func(s models.ParkingSpot) { picked = append(picked, s.ID) }})
	m.Refresh(context.Background())

	if _, err := m.Select("p2"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if _, err := m.Select("nope"); !errors.Is(err, ErrUnknownSpot) {
		t.Errorf("Select(nope) err = %v, want ErrUnknownSpot", err)
	}
	if !equalStrings(picked, []string{"p2"}) {
		t.Errorf("OnSelect calls = %v, want [p2]", picked)
	}
	s := m.Snapshot()
	if s.Selected == nil || s.Selected.Color != "#F59E0B" || s.Selected.Popup.Spots != "12/320" {
		t.Errorf("selected = %+v", s.Selected)
	}

	m.ClearSelection()
	if _, ok := m.Selected(); ok {
		t.Error("selection kept after ClearSelection")
	}
}

func TestDefaultInterval(t *testing.T) {
	m := New(Options{}, &fakeSource{}, newTileWidget())
	if m.Interval() != 30*time.Second {
		t.Errorf("Interval() = %v, want 30s", m.Interval())
	}
}

func TestPollingUsesIntervalAndStopsOnDispose(t *testing.T) {
	src := &fakeSource{spots: cbdSpots()}
	m := New(Options{Center: melbourne}, src, newTileWidget())

	ticks := make(chan time.Time)
	var (
		requested time.Duration
		stopped   atomic.Bool
	)
	m.newTicker = func(d time.Duration) (<-chan time.Time, func()) {
		requested = d
		return ticks, func() { stopped.Store(true) }
	}

	m.Start(context.Background())
	waitFor(t, func() bool { return src.calls.Load() == 1 })

	ticks <- time.Now()
	waitFor(t, func() bool { return src.calls.Load() == 2 })
	ticks <- time.Now()
	waitFor(t, func() bool { return src.calls.Load() == 3 })

	if requested != 30*time.Second {
		t.Errorf("ticker interval = %v, want 30s", requested)
	}

	m.Dispose()
	if !stopped.Load() {
		t.Error("ticker not stopped on Dispose")
	}
	select {
	case ticks <- time.Now():
		t.Error("poll loop still receiving ticks after Dispose")
	case <-time.After(20 * time.Millisecond):
	}
	if err := m.Refresh(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Refresh after Dispose err = %v, want ErrInvalidState", err)
	}
	if n := src.calls.Load(); n != 3 {
		t.Errorf("fetches = %d, want 3", n)
	}
}

func TestPollingWithRealTicker(t *testing.T) {
	src := &fakeSource{spots: cbdSpots()}
	m := New(Options{Center: melbourne, Interval: 10 * time.Millisecond}, src, newTileWidget())

	m.Start(context.Background())
	waitFor(t, func() bool { return src.calls.Load() >= 3 })
	m.Dispose()

	after := src.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if n := src.calls.Load(); n != after {
		t.Errorf("fetches after Dispose = %d, want %d", n, after)
	}
}

func TestOnRefreshAndOnChange(t *testing.T) {
	var refreshed, changed atomic.Int32
	src := &fakeSource{spots: cbdSpots()}
	m, _ := readyMap(t, src, Options{
		OnRefresh: func(_ context.Context, spots []models.ParkingSpot) { refreshed.Add(int32(len(spots))) },
		OnChange:  func() { changed.Add(1) },
	})

	m.Refresh(context.Background())
	if refreshed.Load() != 3 {
		t.Errorf("OnRefresh saw %d spots, want 3", refreshed.Load())
	}
	if changed.Load() == 0 {
		t.Error("OnChange not called")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
