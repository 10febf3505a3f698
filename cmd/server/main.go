// @title           CBD Parking Dashboard API
// @version         1.0
// @description     REST API дашборда парковок CBD: живая карта, тренды загрузки районов и статистика роста города.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  akozadaev@inbox.ru
// @contact.url    https://github.com/akozadaev/cbd_parking_dashboard

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @schemes   http https
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/akozadaev/cbd_parking_dashboard/docs" // swagger docs
	"github.com/akozadaev/cbd_parking_dashboard/internal/config"
	"github.com/akozadaev/cbd_parking_dashboard/internal/gateway"
	"github.com/akozadaev/cbd_parking_dashboard/internal/handlers"
	"github.com/akozadaev/cbd_parking_dashboard/internal/live"
	"github.com/akozadaev/cbd_parking_dashboard/internal/mapview"
	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/akozadaev/cbd_parking_dashboard/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg := config.Load()

	api := gateway.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	log.Printf("Parking API: %s", api.BaseURL())

	opts := handlers.Options{Gateway: api}
	// Получатели каждого применённого опроса
	var recorders storage.Recorders

	// Индекс парковок необязателен: без ELASTICSEARCH_URL поиск /api/spots отключён.
	// Индекс обновляется после каждого опроса карты.
	if cfg.ElasticsearchURL != "" {
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses:         []string{cfg.ElasticsearchURL},
			DisableMetaHeader: true,
		})
		if err != nil {
			log.Fatalf("Error creating Elasticsearch client: %v", err)
		}
		log.Println("Elasticsearch/OpenSearch client initialized")

		spotIndex := storage.NewSpotIndex(esClient, "parking_spots", cfg.ElasticsearchURL)
		if err := spotIndex.CreateIndex(context.Background(), storage.SpotIndexMapping); err != nil {
			log.Printf("Warning: could not create index: %v", err)
		} else {
			log.Println("Elasticsearch index created/verified")
		}
		opts.Spots = spotIndex
		recorders = append(recorders, spotIndex)
	}

	if cfg.SaveSnapshots {
		snapshots, err := storage.NewSnapshotStore(context.Background(), cfg.SnapshotDriver, cfg.SnapshotDSN())
		if err != nil {
			log.Fatalf("Error creating snapshot store: %v", err)
		}
		defer snapshots.Close()
		log.Printf("Snapshot store ready (%s)", cfg.SnapshotDriver)

		recorders = append(recorders, snapshots)
		opts.Snapshots = snapshots
	}

	// Карта и живая лента ссылаются друг на друга через замыкания
	var liveMap *mapview.Map
	hub := live.NewHub(func() interface{} { return liveMap.Snapshot() })

	center := models.GeoPoint{Lat: cfg.MapCenterLat, Lng: cfg.MapCenterLng}
	widget := mapview.NewViewWidget(mapview.NewTileChecker(cfg.TileVerify, cfg.HTTPTimeout), center, mapview.DefaultZoom)
	liveMap = mapview.New(mapview.Options{
		Center:   center,
		Interval: cfg.PollInterval,
		OnSelect: func(s models.ParkingSpot) {
			log.Printf("[map] selected %s (%s)", s.ID, s.Name)
		},
		OnChange: func() {
			hub.Broadcast(liveMap.Snapshot())
		},
		OnRefresh: func(ctx context.Context, spots []models.ParkingSpot) {
			if len(recorders) == 0 {
				return
			}
			if err := recorders.RecordSnapshot(ctx, spots); err != nil {
				log.Printf("[poller] error recording refresh: %v", err)
			}
		},
	}, api, widget)

	opts.Map = liveMap
	opts.Hub = hub

	h, err := handlers.NewHandlers(opts)
	if err != nil {
		log.Fatalf("Error creating handlers: %v", err)
	}

	// Настройка роутера
	router := mux.NewRouter()
	h.Routes(router)

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Настройка CORS
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Карта инициализируется один раз; при ошибке её можно повторить через /api/map/retry
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	initCtx, cancelInit := context.WithTimeout(ctx, cfg.HTTPTimeout)
	if err := liveMap.Init(initCtx); err != nil {
		log.Printf("Warning: map initialization failed: %v", err)
	}
	cancelInit()
	liveMap.Start(ctx)

	// Настройка сервера
	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	liveMap.Dispose()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
