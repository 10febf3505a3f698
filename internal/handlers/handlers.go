// Package handlers содержит HTTP обработчики дашборда: JSON API для карты,
// статистики, трендов и insights, а также HTML страницы.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akozadaev/cbd_parking_dashboard/internal/adapter"
	"github.com/akozadaev/cbd_parking_dashboard/internal/live"
	"github.com/akozadaev/cbd_parking_dashboard/internal/mapview"
	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/present"
	"github.com/akozadaev/cbd_parking_dashboard/internal/storage"
	"github.com/akozadaev/cbd_parking_dashboard/internal/viewstate"
	"github.com/gorilla/mux"
)

// Gateway описывает часть клиента API, которую используют страницы.
type Gateway interface {
	StatsOverview(ctx context.Context) (models.StatsOverview, error)
	Trends(ctx context.Context, area, timeFrame string) (models.TrendsData, error)
	InsightsSummary(ctx context.Context) (models.InsightsSummary, error)
	CarOwnership(ctx context.Context) (models.CarOwnershipData, error)
	PopulationGrowth(ctx context.Context) (models.PopulationData, error)
}

// SpotIndex описывает полнотекстовый поиск по парковкам.
type SpotIndex interface {
	SearchSpots(ctx context.Context, query string, limit int) (*models.SpotSearchResponse, error)
	GetSpot(ctx context.Context, id string) (*models.ParkingSpot, error)
}

// SnapshotLister отдаёт последние снимки опроса.
type SnapshotLister interface {
	Latest(ctx context.Context, limit int) ([]models.Snapshot, error)
}

// Options задаёт зависимости обработчиков. Spots и Snapshots необязательны.
type Options struct {
	Gateway   Gateway
	Map       *mapview.Map
	Hub       *live.Hub
	Spots     SpotIndex
	Snapshots SnapshotLister
}

// Handlers содержит зависимости и состояние страниц дашборда.
type Handlers struct {
	gateway   Gateway
	liveMap   *mapview.Map
	hub       *live.Hub
	spots     SpotIndex
	snapshots SnapshotLister

	stats        *adapter.Adapter[models.StatsOverview]
	trends       *adapter.Adapter[models.TrendsData]
	insights     *adapter.Adapter[models.InsightsSummary]
	carOwnership *adapter.Adapter[models.CarOwnershipData]
	population   *adapter.Adapter[models.PopulationData]

	search    viewstate.Search
	selection *viewstate.Selection
	alert     viewstate.Alert

	trendsMu sync.Mutex

	pages *template.Template
}

// NewHandlers создает обработчики и разбирает шаблоны страниц.
func NewHandlers(opts Options) (*Handlers, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	h := &Handlers{
		gateway:      opts.Gateway,
		liveMap:      opts.Map,
		hub:          opts.Hub,
		spots:        opts.Spots,
		snapshots:    opts.Snapshots,
		stats:        adapter.New[models.StatsOverview]("stats"),
		trends:       adapter.New[models.TrendsData]("trends"),
		insights:     adapter.New[models.InsightsSummary]("insights"),
		carOwnership: adapter.New[models.CarOwnershipData]("car-ownership"),
		population:   adapter.New[models.PopulationData]("population"),
		selection:    viewstate.NewSelection(),
		pages:        pages,
	}
	// Напоминание показывается при каждом запуске, пока его не закроют.
	h.alert.Show()
	return h, nil
}

// Routes регистрирует все маршруты дашборда.
func (h *Handlers) Routes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	router.HandleFunc("/", h.HomePage).Methods("GET")
	router.HandleFunc("/map", h.MapPage).Methods("GET")
	router.HandleFunc("/trends", h.TrendsPage).Methods("GET")
	router.HandleFunc("/insights", h.InsightsPage).Methods("GET")
	router.HandleFunc("/alert/show", h.ShowAlert).Methods("POST")
	router.HandleFunc("/alert/dismiss", h.DismissAlert).Methods("POST")

	router.HandleFunc("/api/map", h.GetMap).Methods("GET")
	router.HandleFunc("/api/map/search", h.SearchMap).Methods("POST")
	router.HandleFunc("/api/map/locate", h.LocateMap).Methods("POST")
	router.HandleFunc("/api/map/retry", h.RetryMap).Methods("POST")
	router.HandleFunc("/api/map/select/{id}", h.SelectSpot).Methods("POST")
	router.HandleFunc("/api/map/select", h.ClearSelection).Methods("DELETE")

	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")
	router.HandleFunc("/api/trends/{area}", h.GetTrends).Methods("GET")
	router.HandleFunc("/api/insights", h.GetInsights).Methods("GET")
	router.HandleFunc("/api/insights/car-ownership", h.GetCarOwnership).Methods("GET")
	router.HandleFunc("/api/insights/population-growth", h.GetPopulationGrowth).Methods("GET")

	router.HandleFunc("/api/spots/search", h.SearchSpots).Methods("GET")
	router.HandleFunc("/api/spots/{id}", h.GetSpot).Methods("GET")
	router.HandleFunc("/api/snapshots", h.ListSnapshots).Methods("GET")

	if h.hub != nil {
		router.HandleFunc("/ws/map", h.hub.ServeWS).Methods("GET")
	}
}

// WidgetResponse представляет состояние виджета вместе с последним успешным результатом.
type WidgetResponse[T any] struct {
	Loading   bool   `json:"loading"`
	Error     string `json:"error,omitempty"`
	Data      *T     `json:"data,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func widgetResponse[T any](s adapter.State[T]) WidgetResponse[T] {
	resp := WidgetResponse[T]{Loading: s.Loading}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	if s.HasResult {
		data := s.Result
		resp.Data = &data
		resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// TrendsResponse представляет данные страницы трендов, готовые для графиков.
type TrendsResponse struct {
	Area        string               `json:"area"`
	TimeFrame   string               `json:"timeFrame"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
	Chart       []present.ChartPoint `json:"chart"`
	Cards       []present.TrendCard  `json:"cards"`
	Summary     *models.TrendSummary `json:"summary,omitempty"`
	LastUpdated string               `json:"lastUpdated,omitempty"`
}

// GrowthResponse представляет ряд роста, готовый для графика.
type GrowthResponse struct {
	Loading bool                  `json:"loading"`
	Error   string                `json:"error,omitempty"`
	Chart   []present.GrowthPoint `json:"chart"`
	Summary *models.GrowthSummary `json:"summary,omitempty"`
}

// MapSearchRequest представляет запрос поиска на карте
type MapSearchRequest struct {
	Query string `json:"query"`
}

// MapSearchResponse представляет результат поиска на карте
type MapSearchResponse struct {
	Found bool                `json:"found"`
	Spot  *models.ParkingSpot `json:"spot,omitempty"`
	Map   mapview.Snapshot    `json:"map"`
}

// HealthCheck обрабатывает GET запрос на проверку работоспособности сервиса.
// Эндпоинт: GET /health
//
// @Summary      Проверка работоспособности сервиса
// @Description  Возвращает статус сервиса и состояние карты.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if h.liveMap != nil {
		status, _ := h.liveMap.Status()
		resp["map"] = string(status)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetMap возвращает текущее состояние карты.
// Эндпоинт: GET /api/map
//
// @Summary      Состояние карты
// @Description  Возвращает статус инициализации, слой тайлов, маркеры и выбранную парковку.
// @Tags         map
// @Produce      json
// @Success      200  {object}  mapview.Snapshot
// @Router       /api/map [get]
func (h *Handlers) GetMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.liveMap.Snapshot())
}

// SearchMap центрирует карту на первой парковке, подходящей под запрос.
// Если совпадений нет, состояние карты не меняется.
// Эндпоинт: POST /api/map/search
//
// @Summary      Поиск на карте
// @Description  Ищет первую парковку, у которой название или адрес содержит запрос без учёта регистра.
// @Tags         map
// @Accept       json
// @Produce      json
// @Param        request  body      MapSearchRequest  true  "Строка поиска"
// @Success      200      {object}  MapSearchResponse
// @Failure      400      {object}  map[string]string  "Пустой запрос"
// @Router       /api/map/search [post]
func (h *Handlers) SearchMap(w http.ResponseWriter, r *http.Request) {
	var req MapSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	query, ok := h.search.Submit(req.Query)
	if !ok {
		http.Error(w, "Query is required", http.StatusBadRequest)
		return
	}

	resp := MapSearchResponse{}
	if spot, found := h.liveMap.Focus(query); found {
		resp.Found = true
		resp.Spot = &spot
	}
	resp.Map = h.liveMap.Snapshot()
	writeJSON(w, http.StatusOK, resp)
}

// LocateMap центрирует карту на местоположении, которое прислал браузер.
// При ошибке геолокации карта возвращается к центру города.
// Эндпоинт: POST /api/map/locate
//
// @Summary      Моё местоположение
// @Tags         map
// @Accept       json
// @Produce      json
// @Param        request  body      mapview.ReportedPosition  true  "Координаты или ошибка геолокации"
// @Success      200      {object}  mapview.Snapshot
// @Failure      409      {object}  map[string]string  "Карта не готова"
// @Router       /api/map/locate [post]
func (h *Handlers) LocateMap(w http.ResponseWriter, r *http.Request) {
	var pos mapview.ReportedPosition
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.liveMap.Locate(r.Context(), pos); err != nil {
		if errors.Is(err, mapview.ErrNotReady) {
			http.Error(w, "Map is not ready", http.StatusConflict)
			return
		}
		log.Printf("Error locating: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.liveMap.Snapshot())
}

// RetryMap повторяет подключение тайлов после неудачной инициализации.
// Эндпоинт: POST /api/map/retry
//
// @Summary      Повторить инициализацию карты
// @Tags         map
// @Produce      json
// @Success      200  {object}  mapview.Snapshot
// @Failure      409  {object}  map[string]string  "Карта не в состоянии failed"
// @Failure      502  {object}  map[string]string  "Ни один провайдер тайлов не подключился"
// @Router       /api/map/retry [post]
func (h *Handlers) RetryMap(w http.ResponseWriter, r *http.Request) {
	err := h.liveMap.Retry(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, h.liveMap.Snapshot())
	case errors.Is(err, mapview.ErrInvalidState):
		http.Error(w, "Map is not in failed state", http.StatusConflict)
	case errors.Is(err, mapview.ErrAllProvidersFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		log.Printf("Error retrying map: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// SelectSpot выбирает парковку, как клик по маркеру.
// Эндпоинт: POST /api/map/select/{id}
//
// @Summary      Выбрать парковку
// @Tags         map
// @Produce      json
// @Param        id   path      string  true  "Идентификатор парковки"
// @Success      200  {object}  mapview.Snapshot
// @Failure      404  {object}  map[string]string  "Парковка не найдена"
// @Router       /api/map/select/{id} [post]
func (h *Handlers) SelectSpot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.liveMap.Select(id); err != nil {
		if errors.Is(err, mapview.ErrUnknownSpot) {
			http.Error(w, "Parking spot not found", http.StatusNotFound)
			return
		}
		log.Printf("Error selecting spot: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.liveMap.Snapshot())
}

// ClearSelection закрывает карточку выбранной парковки.
// Эндпоинт: DELETE /api/map/select
//
// @Summary      Снять выбор парковки
// @Tags         map
// @Produce      json
// @Success      200  {object}  mapview.Snapshot
// @Router       /api/map/select [delete]
func (h *Handlers) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.liveMap.ClearSelection()
	writeJSON(w, http.StatusOK, h.liveMap.Snapshot())
}

// GetStats загружает сводку для главной страницы.
// Эндпоинт: GET /api/stats
//
// @Summary      Сводка по парковкам
// @Tags         stats
// @Produce      json
// @Success      200  {object}  WidgetResponse[models.StatsOverview]
// @Failure      502  {object}  map[string]string  "API недоступно и данных ещё нет"
// @Router       /api/stats [get]
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	h.loadStats(r.Context())
	writeWidget(w, h.stats.Snapshot())
}

// GetTrends загружает тренды загрузки района за период.
// Эндпоинт: GET /api/trends/{area}?timeFrame=day|week|month
//
// @Summary      Тренды загрузки района
// @Tags         trends
// @Produce      json
// @Param        area       path      string  true   "Район"  Enums(collins-street, bourke-street, flinders-lane, queen-street, elizabeth-street, spencer-street)
// @Param        timeFrame  query     string  false  "Период" Enums(day, week, month)
// @Success      200        {object}  TrendsResponse
// @Failure      400        {object}  map[string]string  "Неизвестный период"
// @Failure      404        {object}  map[string]string  "Неизвестный район"
// @Router       /api/trends/{area} [get]
func (h *Handlers) GetTrends(w http.ResponseWriter, r *http.Request) {
	area := mux.Vars(r)["area"]
	timeFrame := r.URL.Query().Get("timeFrame")
	if timeFrame == "" {
		timeFrame = viewstate.DefaultTimeFrame
	}

	resp, err := h.loadTrends(r.Context(), area, timeFrame)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetInsights загружает сводку insights.
// Эндпоинт: GET /api/insights
//
// @Summary      Сводка insights
// @Tags         insights
// @Produce      json
// @Success      200  {object}  WidgetResponse[models.InsightsSummary]
// @Failure      502  {object}  map[string]string  "API недоступно и данных ещё нет"
// @Router       /api/insights [get]
func (h *Handlers) GetInsights(w http.ResponseWriter, r *http.Request) {
	h.insights.Load(r.Context(), h.gateway.InsightsSummary)
	writeWidget(w, h.insights.Snapshot())
}

// GetCarOwnership загружает ряд владения автомобилями.
// Эндпоинт: GET /api/insights/car-ownership
//
// @Summary      Рост владения автомобилями
// @Tags         insights
// @Produce      json
// @Success      200  {object}  GrowthResponse
// @Router       /api/insights/car-ownership [get]
func (h *Handlers) GetCarOwnership(w http.ResponseWriter, r *http.Request) {
	h.carOwnership.Load(r.Context(), h.gateway.CarOwnership)
	writeJSON(w, http.StatusOK, carOwnershipResponse(h.carOwnership.Snapshot()))
}

// GetPopulationGrowth загружает ряд численности населения.
// Эндпоинт: GET /api/insights/population-growth
//
// @Summary      Рост населения CBD
// @Tags         insights
// @Produce      json
// @Success      200  {object}  GrowthResponse
// @Router       /api/insights/population-growth [get]
func (h *Handlers) GetPopulationGrowth(w http.ResponseWriter, r *http.Request) {
	h.population.Load(r.Context(), h.gateway.PopulationGrowth)
	writeJSON(w, http.StatusOK, populationResponse(h.population.Snapshot()))
}

// SearchSpots выполняет полнотекстовый поиск по индексу парковок.
// Эндпоинт: GET /api/spots/search?q=&limit=
//
// @Summary      Поиск парковок
// @Tags         spots
// @Produce      json
// @Param        q      query     string  false  "Название или адрес"
// @Param        limit  query     int     false  "Максимум результатов (по умолчанию 20)"
// @Success      200    {object}  models.SpotSearchResponse
// @Failure      503    {object}  map[string]string  "Индекс не настроен"
// @Router       /api/spots/search [get]
func (h *Handlers) SearchSpots(w http.ResponseWriter, r *http.Request) {
	if h.spots == nil {
		http.Error(w, "Spot index is not configured", http.StatusServiceUnavailable)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	res, err := h.spots.SearchSpots(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		log.Printf("Error searching spots: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetSpot возвращает парковку из индекса по идентификатору.
// Эндпоинт: GET /api/spots/{id}
//
// @Summary      Парковка по идентификатору
// @Tags         spots
// @Produce      json
// @Param        id   path      string  true  "Идентификатор парковки"
// @Success      200  {object}  models.ParkingSpot
// @Failure      404  {object}  map[string]string  "Парковка не найдена"
// @Failure      503  {object}  map[string]string  "Индекс не настроен"
// @Router       /api/spots/{id} [get]
func (h *Handlers) GetSpot(w http.ResponseWriter, r *http.Request) {
	if h.spots == nil {
		http.Error(w, "Spot index is not configured", http.StatusServiceUnavailable)
		return
	}

	spot, err := h.spots.GetSpot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Parking spot not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting spot: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

// ListSnapshots возвращает последние сохранённые снимки опроса.
// Эндпоинт: GET /api/snapshots?limit=
//
// @Summary      Снимки опроса парковок
// @Tags         snapshots
// @Produce      json
// @Param        limit  query     int  false  "Сколько снимков вернуть (по умолчанию 10)"
// @Success      200    {array}   models.Snapshot
// @Failure      503    {object}  map[string]string  "Журнал снимков не настроен"
// @Router       /api/snapshots [get]
func (h *Handlers) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		http.Error(w, "Snapshot store is not configured", http.StatusServiceUnavailable)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	snaps, err := h.snapshots.Latest(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing snapshots: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (h *Handlers) loadStats(ctx context.Context) {
	h.stats.Load(ctx, h.gateway.StatsOverview)
}

// loadTrends применяет выбор района и периода и загружает тренды.
// Каждый запрос страницы или API выполняет один запрос к API.
func (h *Handlers) loadTrends(ctx context.Context, area, timeFrame string) (TrendsResponse, error) {
	h.trendsMu.Lock()
	areaChanged, err := h.selection.SetArea(area)
	if err != nil {
		h.trendsMu.Unlock()
		return TrendsResponse{}, err
	}
	tfChanged, err := h.selection.SetTimeFrame(timeFrame)
	h.trendsMu.Unlock()
	if err != nil {
		return TrendsResponse{}, err
	}
	if areaChanged || tfChanged {
		log.Printf("[trends] selection changed to %s/%s", area, timeFrame)
	}

	h.trends.Load(ctx, func(ctx context.Context) (models.TrendsData, error) {
		data, err := h.gateway.Trends(ctx, area, timeFrame)
		// Ключ выбора берётся из запроса, а не из ответа API.
		data.Area, data.TimeFrame = area, timeFrame
		return data, err
	})
	return trendsResponse(area, timeFrame, h.trends.Snapshot()), nil
}

func trendsResponse(area, timeFrame string, s adapter.State[models.TrendsData]) TrendsResponse {
	resp := TrendsResponse{
		Area:      area,
		TimeFrame: timeFrame,
		Loading:   s.Loading,
		Chart:     []present.ChartPoint{},
		Cards:     []present.TrendCard{},
	}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	// Ответ для другого выбора не показывается.
	if s.HasResult && s.Result.Area == area && s.Result.TimeFrame == timeFrame {
		summary := s.Result.Summary
		resp.Chart = present.TrendChart(s.Result)
		resp.Cards = present.TrendCards(summary)
		resp.Summary = &summary
		resp.LastUpdated = s.Result.LastUpdated
	}
	return resp
}

func carOwnershipResponse(s adapter.State[models.CarOwnershipData]) GrowthResponse {
	resp := GrowthResponse{Loading: s.Loading, Chart: []present.GrowthPoint{}}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	if s.HasResult {
		summary := s.Result.Summary
		resp.Chart = present.GrowthChart(s.Result.CarOwnership)
		resp.Summary = &summary
	}
	return resp
}

func populationResponse(s adapter.State[models.PopulationData]) GrowthResponse {
	resp := GrowthResponse{Loading: s.Loading, Chart: []present.GrowthPoint{}}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	if s.HasResult {
		summary := s.Result.Summary
		resp.Chart = present.PopulationChart(s.Result.Population)
		resp.Summary = &summary
	}
	return resp
}

func writeSelectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, viewstate.ErrUnknownArea):
		http.Error(w, "Unknown area", http.StatusNotFound)
	case errors.Is(err, viewstate.ErrUnknownTimeFrame):
		http.Error(w, "Unknown time frame, expected one of: "+strings.Join(timeFrameIDs(), ", "), http.StatusBadRequest)
	default:
		log.Printf("Error applying selection: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func timeFrameIDs() []string {
	var ids []string
	for _, tf := range viewstate.TimeFrames() {
		ids = append(ids, tf.ID)
	}
	return ids
}

// writeWidget отвечает 502, только если запрос не удался и показать нечего.
func writeWidget[T any](w http.ResponseWriter, s adapter.State[T]) {
	if s.Err != nil && !s.HasResult {
		http.Error(w, "Upstream API unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, widgetResponse(s))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
