package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/akozadaev/cbd_parking_dashboard/internal/adapter"
	"github.com/akozadaev/cbd_parking_dashboard/internal/mapview"
	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/present"
	"github.com/akozadaev/cbd_parking_dashboard/internal/viewstate"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templatesFS embed.FS

func parsePages() (*template.Template, error) {
	funcs := template.FuncMap{
		"count":   present.Count,
		"dollars": present.Dollars,
		"percent": present.Percent,
	}
	pages, err := template.New("pages").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return pages, nil
}

type pageHeader struct {
	Active       string
	AlertVisible bool
	AlertMessage string
	Path         string
}

type statCard struct {
	Title string
	Value string
}

type homePage struct {
	pageHeader
	Stats []statCard
	Error string
	Areas []viewstate.Area
	Query string
}

type mapPage struct {
	pageHeader
	Query string
	Map   mapview.Snapshot
}

type areaOption struct {
	viewstate.Area
	Selected bool
}

type timeFrameOption struct {
	viewstate.TimeFrame
	Selected bool
}

type trendsPage struct {
	pageHeader
	Areas      []areaOption
	TimeFrames []timeFrameOption
	Area       viewstate.Area
	TimeFrame  viewstate.TimeFrame
	Trends     TrendsResponse
}

type insightsPage struct {
	pageHeader
	Summary      WidgetResponse[models.InsightsSummary]
	CarOwnership GrowthResponse
	Population   GrowthResponse
}

func (h *Handlers) header(r *http.Request, active string) pageHeader {
	return pageHeader{
		Active:       active,
		AlertVisible: h.alert.Visible(),
		AlertMessage: viewstate.AlertMessage,
		Path:         r.URL.RequestURI(),
	}
}

// HomePage отображает главную страницу: сводку, поиск и список районов.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	h.loadStats(r.Context())
	s := h.stats.Snapshot()

	data := homePage{
		pageHeader: h.header(r, "home"),
		Stats:      statCards(s),
		Areas:      viewstate.Areas(),
		Query:      h.search.Query(),
	}
	if s.Err != nil {
		data.Error = "Parking data is temporarily unavailable."
	}
	h.render(w, "home.html", data)
}

func statCards(s adapter.State[models.StatsOverview]) []statCard {
	v := s.Result
	return []statCard{
		{Title: "Total Spots", Value: present.Count(s.Loading, v.TotalSpots)},
		{Title: "Available Now", Value: present.Count(s.Loading, v.AvailableSpots)},
		{Title: "Locations", Value: present.Count(s.Loading, v.TotalLocations)},
		{Title: "Avg. Price / Hour", Value: present.Dollars(s.Loading, v.AveragePrice)},
	}
}

// MapPage отображает живую карту. Параметр q фокусирует карту на парковке.
func (h *Handlers) MapPage(w http.ResponseWriter, r *http.Request) {
	data := mapPage{pageHeader: h.header(r, "map")}

	if q, ok := h.search.Submit(r.URL.Query().Get("q")); ok {
		data.Query = q
		h.liveMap.Focus(q)
	}
	data.Map = h.liveMap.Snapshot()
	h.render(w, "map.html", data)
}

// TrendsPage отображает графики доступности выбранного района.
func (h *Handlers) TrendsPage(w http.ResponseWriter, r *http.Request) {
	area, timeFrame := h.selection.Current()
	if v := r.URL.Query().Get("area"); v != "" {
		area = v
	}
	if v := r.URL.Query().Get("timeFrame"); v != "" {
		timeFrame = v
	}

	resp, err := h.loadTrends(r.Context(), area, timeFrame)
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	if resp.Error != "" {
		log.Printf("[trends] error loading %s/%s: %s", area, timeFrame, resp.Error)
		resp.Error = "Trend data is temporarily unavailable."
	}

	data := trendsPage{pageHeader: h.header(r, "trends"), Trends: resp}
	for _, a := range viewstate.Areas() {
		data.Areas = append(data.Areas, areaOption{Area: a, Selected: a.ID == area})
		if a.ID == area {
			data.Area = a
		}
	}
	for _, tf := range viewstate.TimeFrames() {
		data.TimeFrames = append(data.TimeFrames, timeFrameOption{TimeFrame: tf, Selected: tf.ID == timeFrame})
		if tf.ID == timeFrame {
			data.TimeFrame = tf
		}
	}
	h.render(w, "trends.html", data)
}

// InsightsPage отображает сводку insights и графики роста.
// Три виджета загружаются параллельно и независимо друг от друга.
func (h *Handlers) InsightsPage(w http.ResponseWriter, r *http.Request) {
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		h.insights.Load(ctx, h.gateway.InsightsSummary)
		return nil
	})
	g.Go(func() error {
		h.carOwnership.Load(ctx, h.gateway.CarOwnership)
		return nil
	})
	g.Go(func() error {
		h.population.Load(ctx, h.gateway.PopulationGrowth)
		return nil
	})
	g.Wait()

	data := insightsPage{
		pageHeader:   h.header(r, "insights"),
		Summary:      widgetResponse(h.insights.Snapshot()),
		CarOwnership: carOwnershipResponse(h.carOwnership.Snapshot()),
		Population:   populationResponse(h.population.Snapshot()),
	}
	data.Summary.Error = pageError("insights", data.Summary.Error, "Insights are temporarily unavailable.")
	data.CarOwnership.Error = pageError("car ownership", data.CarOwnership.Error, "Car ownership data is temporarily unavailable.")
	data.Population.Error = pageError("population", data.Population.Error, "Population data is temporarily unavailable.")
	h.render(w, "insights.html", data)
}

// pageError пишет причину в лог и заменяет её сообщением для страницы.
func pageError(widget, cause, message string) string {
	if cause == "" {
		return ""
	}
	log.Printf("[insights] error loading %s: %s", widget, cause)
	return message
}

// ShowAlert снова показывает напоминание.
func (h *Handlers) ShowAlert(w http.ResponseWriter, r *http.Request) {
	h.alert.Show()
	redirectBack(w, r)
}

// DismissAlert скрывает напоминание до следующего запуска.
func (h *Handlers) DismissAlert(w http.ResponseWriter, r *http.Request) {
	h.alert.Dismiss()
	redirectBack(w, r)
}

// redirectBack возвращает на страницу из поля формы next; допускаются только локальные пути.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	next := r.FormValue("next")
	if u, err := url.Parse(next); err != nil || next == "" || u.IsAbs() || u.Host != "" || next[0] != '/' {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
