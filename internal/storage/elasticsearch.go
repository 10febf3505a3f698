// Package storage содержит индекс парковок в Elasticsearch/OpenSearch
// и журнал снимков опроса в PostgreSQL или SQLite.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/elastic/go-elasticsearch/v8"
)

// ErrNotFound возвращается, когда документа нет в индексе.
var ErrNotFound = errors.New("spot not found")

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SpotIndexMapping содержит маппинг индекса парковок.
const SpotIndexMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "keyword"},
      "name":           {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "address":        {"type": "text"},
      "lat":            {"type": "double"},
      "lng":            {"type": "double"},
      "availability":   {"type": "keyword"},
      "totalSpots":     {"type": "integer"},
      "availableSpots": {"type": "integer"},
      "pricePerHour":   {"type": "double"},
      "maxDuration":    {"type": "keyword"},
      "lastUpdated":    {"type": "keyword"}
    }
  }
}`

// SpotIndex предоставляет полнотекстовый поиск по парковкам.
// Чтение и массовая запись идут прямыми HTTP запросами для совместимости с OpenSearch.
type SpotIndex struct {
	client     *elasticsearch.Client
	index      string
	httpClient *http.Client
	baseURL    string

	// последняя отправленная в индекс версия каждой парковки
	mu      sync.Mutex
	indexed map[string]models.ParkingSpot
}

// NewSpotIndex создает индекс парковок поверх клиента Elasticsearch.
func NewSpotIndex(client *elasticsearch.Client, index string, baseURL string) *SpotIndex {
	return &SpotIndex{
		client:     client,
		index:      index,
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		indexed:    make(map[string]models.ParkingSpot),
	}
}

// CreateIndex создает индекс с заданным маппингом. Существующий индекс не трогается.
func (s *SpotIndex) CreateIndex(ctx context.Context, mappingJSON string) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(strings.NewReader(mappingJSON)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error creating index: %s", string(body))
	}

	return nil
}

// BulkIndexSpots индексирует список парковок одним запросом Bulk API.
func (s *SpotIndex) BulkIndexSpots(ctx context.Context, spots []models.ParkingSpot) error {
	return s.bulk(ctx, spots, nil)
}

// RecordSnapshot обновляет индекс по результату опроса: отправляются только
// изменившиеся парковки, а пропавшие из списка удаляются. Реализует SnapshotRecorder.
func (s *SpotIndex) RecordSnapshot(ctx context.Context, spots []models.ParkingSpot) error {
	s.mu.Lock()
	var changed []models.ParkingSpot
	seen := make(map[string]bool, len(spots))
	for _, spot := range spots {
		seen[spot.ID] = true
		if prev, ok := s.indexed[spot.ID]; !ok || prev != spot {
			changed = append(changed, spot)
		}
	}
	var removed []string
	for id := range s.indexed {
		if !seen[id] {
			removed = append(removed, id)
		}
	}
	s.mu.Unlock()

	if len(changed) == 0 && len(removed) == 0 {
		return nil
	}
	if err := s.bulk(ctx, changed, removed); err != nil {
		return err
	}

	s.mu.Lock()
	for _, spot := range changed {
		s.indexed[spot.ID] = spot
	}
	for _, id := range removed {
		delete(s.indexed, id)
	}
	s.mu.Unlock()
	log.Printf("[index] synced %d changed and %d removed spots", len(changed), len(removed))
	return nil
}

func (s *SpotIndex) bulk(ctx context.Context, spots []models.ParkingSpot, deleteIDs []string) error {
	if len(spots) == 0 && len(deleteIDs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, spot := range spots {
		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": s.index,
				"_id":    spot.ID,
			},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		if err := enc.Encode(spot); err != nil {
			return fmt.Errorf("failed to encode spot: %w", err)
		}
	}
	for _, id := range deleteIDs {
		meta := map[string]interface{}{
			"delete": map[string]interface{}{
				"_index": s.index,
				"_id":    id,
			},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/_bulk?refresh=true", &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error bulk indexing: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if result.Errors {
		var failed []string
		for _, item := range result.Items {
			for action, op := range item {
				// удаление отсутствующего документа не ошибка
				if action == "delete" && op.Status == http.StatusNotFound {
					continue
				}
				if op.Status >= 300 {
					failed = append(failed, op.ID)
				}
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("bulk indexing failed for %d spots: %s", len(failed), strings.Join(failed, ", "))
		}
	}

	return nil
}

// GetSpot возвращает парковку по идентификатору или ErrNotFound.
func (s *SpotIndex) GetSpot(ctx context.Context, id string) (*models.ParkingSpot, error) {
	endpoint := fmt.Sprintf("%s/%s/_doc/%s", s.baseURL, s.index, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get spot: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("error getting spot: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Found  bool               `json:"found"`
		Source models.ParkingSpot `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Found {
		return nil, ErrNotFound
	}

	return &result.Source, nil
}

// SearchSpots ищет парковки по названию и адресу. Пустой запрос возвращает все.
func (s *SpotIndex) SearchSpots(ctx context.Context, query string, limit int) (*models.SpotSearchResponse, error) {
	limit = clampLimit(limit)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildSearchQuery(query)); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/_search?size=%d", s.baseURL, s.index, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("error searching: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.ParkingSpot `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := &models.SpotSearchResponse{
		Spots: make([]models.ParkingSpot, 0, len(result.Hits.Hits)),
		Total: result.Hits.Total.Value,
	}
	for _, hit := range result.Hits.Hits {
		out.Spots = append(out.Spots, hit.Source)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}

// buildSearchQuery строит запрос: совпадение по названию весит больше,
// чем по адресу; свободные парковки поднимаются выше.
func buildSearchQuery(query string) map[string]interface{} {
	query = strings.TrimSpace(query)

	var must interface{}
	if query == "" {
		must = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		must = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    query,
				"fields":   []string{"name^2", "address"},
				"type":     "bool_prefix",
				"operator": "and",
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
				"should": []map[string]interface{}{
					{
						"term": map[string]interface{}{
							"availability": map[string]interface{}{
								"value": string(models.AvailabilityAvailable),
								"boost": 1.5,
							},
						},
					},
				},
			},
		},
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"availableSpots": map[string]interface{}{"order": "desc"}},
		},
	}
}
