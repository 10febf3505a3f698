package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cache-Control") != "no-cache, no-store" {
			t.Errorf("Cache-Control = %q, want no-cache, no-store", r.Header.Get("Cache-Control"))
		}
		body, ok := routes[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListParking(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/parking": `{"success":true,"data":[
			{"id":"1","name":"Collins Street Plaza","address":"123 Collins St","lat":-37.81,"lng":144.96,"availability":"available","totalSpots":100,"availableSpots":40,"pricePerHour":4.5,"maxDuration":"2h","lastUpdated":"now"},
			{"id":"2","name":"Bourke Street Central","address":"45 Bourke St","lat":-37.812,"lng":144.965,"availability":"full","totalSpots":50,"availableSpots":0,"pricePerHour":6,"maxDuration":"1h","lastUpdated":"now"}
		]}`,
	})

	spots, err := New(srv.URL, time.Second).ListParking(context.Background())
	if err != nil {
		t.Fatalf("ListParking failed: %v", err)
	}
	if len(spots) != 2 {
		t.Fatalf("len(spots) = %d, want 2", len(spots))
	}
	if spots[1].Name != "Bourke Street Central" || spots[1].Availability != "full" {
		t.Errorf("spots[1] = %+v", spots[1])
	}
	if spots[0].PricePerHour != 4.5 || spots[0].AvailableSpots != 40 {
		t.Errorf("spots[0] = %+v", spots[0])
	}
}

func TestTrendsQuery(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/trends/queen-street?timeFrame=day": `{"success":true,"data":{"area":"queen-street","timeFrame":"day",
			"trends":[{"period":"9AM","occupancy":80},{"period":"10AM","occupancy":40}],
			"summary":{"averageOccupancy":60,"maxOccupancy":80,"minOccupancy":40,"peakTime":"9AM","bestTime":"10AM","totalPeriods":2}}}`,
	})

	data, err := New(srv.URL+"/", time.Second).Trends(context.Background(), "queen-street", "day")
	if err != nil {
		t.Fatalf("Trends failed: %v", err)
	}
	if len(data.Trends) != 2 || data.Trends[0].Occupancy != 80 || data.Trends[1].Period != "10AM" {
		t.Errorf("trends = %+v", data.Trends)
	}
	if data.Summary.PeakTime != "9AM" {
		t.Errorf("peakTime = %q, want 9AM", data.Summary.PeakTime)
	}
}

func TestEnvelopeFailures(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/parking/stats/overview":     `{"success":false,"error":"db down"}`,
		"/api/insights/summary":           `{"success":true}`,
		"/api/insights/population-growth": `{"success":true,"data":{"summary":{"totalGrowth":3}}}`,
		"/api/insights/car-ownership":     `{"success":true,"data":{"carOwnership":[]}}`,
	})
	c := New(srv.URL, time.Second)
	ctx := context.Background()

	if _, err := c.StatsOverview(ctx); !errors.Is(err, ErrEnvelope) {
		t.Errorf("StatsOverview err = %v, want ErrEnvelope", err)
	}
	if _, err := c.InsightsSummary(ctx); !errors.Is(err, ErrEnvelope) {
		t.Errorf("InsightsSummary err = %v, want ErrEnvelope", err)
	}
	if _, err := c.PopulationGrowth(ctx); !errors.Is(err, ErrEnvelope) {
		t.Errorf("PopulationGrowth err = %v, want ErrEnvelope", err)
	}
	if data, err := c.CarOwnership(ctx); err != nil || len(data.CarOwnership) != 0 {
		t.Errorf("CarOwnership = %+v, %v; want empty series, nil", data, err)
	}
}

func TestStatusAndDecodeFailures(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/insights/summary": `{not json`,
	})
	c := New(srv.URL, time.Second)

	if _, err := c.ListParking(context.Background()); !errors.Is(err, ErrStatus) {
		t.Errorf("ListParking err = %v, want ErrStatus", err)
	}
	_, err := c.InsightsSummary(context.Background())
	if err == nil || errors.Is(err, ErrEnvelope) || errors.Is(err, ErrStatus) {
		t.Errorf("InsightsSummary err = %v, want decode error", err)
	}
}
