package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/akozadaev/cbd_parking_dashboard/internal/config"
	"github.com/akozadaev/cbd_parking_dashboard/internal/gateway"
	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
)

// indexer загружает парковки в индекс поиска.
// Без аргументов список берётся из API, иначе из JSON файла: indexer spots.json
func main() {
	cfg := config.Load()
	if cfg.ElasticsearchURL == "" {
		log.Fatal("ELASTICSEARCH_URL is not set")
	}

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:         []string{cfg.ElasticsearchURL},
		DisableMetaHeader: true,
	})
	if err != nil {
		log.Fatalf("Error creating Elasticsearch client: %v", err)
	}

	spotIndex := storage.NewSpotIndex(esClient, "parking_spots", cfg.ElasticsearchURL)

	ctx := context.Background()
	if err := spotIndex.CreateIndex(ctx, storage.SpotIndexMapping); err != nil {
		log.Fatalf("Error creating index: %v", err)
	}

	var spots []models.ParkingSpot
	if len(os.Args) > 1 {
		spots, err = loadSpotsFromFile(os.Args[1])
	} else {
		api := gateway.New(cfg.APIBaseURL, cfg.HTTPTimeout)
		spots, err = api.ListParking(ctx)
	}
	if err != nil {
		log.Fatalf("Error loading spots: %v", err)
	}

	log.Printf("Indexing %d spots...", len(spots))

	if err := spotIndex.BulkIndexSpots(ctx, spots); err != nil {
		log.Fatalf("Error indexing spots: %v", err)
	}

	log.Println("Indexing completed successfully!")
}

// loadSpotsFromFile загружает парковки из JSON файла
func loadSpotsFromFile(filename string) ([]models.ParkingSpot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var spots []models.ParkingSpot
	if err := json.Unmarshal(data, &spots); err != nil {
		return nil, err
	}

	return spots, nil
}
