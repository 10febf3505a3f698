// Package config предоставляет загрузку конфигурации приложения из переменных окружения.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все параметры конфигурации приложения.
// Значения загружаются из переменных окружения с fallback на значения по умолчанию.
type Config struct {
	APIBaseURL       string        // Базовый URL REST API парковок
	AppPort          string        // Порт для HTTP сервера
	PollInterval     time.Duration // Интервал опроса списка парковок для карты
	HTTPTimeout      time.Duration // Таймаут запросов к API
	MapCenterLat     float64       // Широта центра карты по умолчанию
	MapCenterLng     float64       // Долгота центра карты по умолчанию
	TileVerify       bool          // Проверять тайл-провайдеры реальным запросом
	ElasticsearchURL string        // URL Elasticsearch/OpenSearch; пустой отключает индекс парковок
	PostgresHost     string        // Хост PostgreSQL
	PostgresPort     string        // Порт PostgreSQL
	PostgresUser     string        // Пользователь PostgreSQL
	PostgresPassword string        // Пароль PostgreSQL
	PostgresDB       string        // Имя базы данных PostgreSQL
	SaveSnapshots    bool          // Сохранять снимки каждого опроса
	SnapshotDriver   string        // Драйвер журнала снимков: postgres или sqlite3
	SQLitePath       string        // Файл базы для драйвера sqlite3
}

// Load загружает конфигурацию из переменных окружения.
// Сначала читаются файлы .env.local и .env, если они есть.
// Если переменная не установлена, используется значение по умолчанию.
func Load() *Config {
	loadDotEnv(".env.local", ".env")

	return &Config{
		APIBaseURL:       getEnv("PARKING_API_BASE_URL", "http://localhost:5000"),
		AppPort:          getEnv("APP_PORT", "8080"),
		PollInterval:     getDuration("POLL_INTERVAL", 30*time.Second),
		HTTPTimeout:      getDuration("HTTP_TIMEOUT", 10*time.Second),
		MapCenterLat:     getFloat("MAP_CENTER_LAT", -37.8136),
		MapCenterLng:     getFloat("MAP_CENTER_LNG", 144.9631),
		TileVerify:       getBool("TILE_VERIFY", false),
		ElasticsearchURL: getEnv("ELASTICSEARCH_URL", ""),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "parking_user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "parking_pass"),
		PostgresDB:       getEnv("POSTGRES_DB", "parking_db"),
		SaveSnapshots:    getBool("SAVE_SNAPSHOTS", false),
		SnapshotDriver:   getEnv("SNAPSHOT_DRIVER", "postgres"),
		SQLitePath:       getEnv("SQLITE_PATH", "snapshots.db"),
	}
}

// PostgresDSN собирает строку подключения к PostgreSQL в формате lib/pq.
func (c *Config) PostgresDSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=disable"
}

// SnapshotDSN возвращает строку подключения для выбранного драйвера снимков.
func (c *Config) SnapshotDSN() string {
	if c.SnapshotDriver == "sqlite3" {
		return c.SQLitePath
	}
	return c.PostgresDSN()
}

// loadDotEnv загружает все найденные файлы окружения по порядку.
// Уже установленные переменные не перезаписываются, поэтому первый файл важнее.
func loadDotEnv(files ...string) {
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			log.Printf("Loaded environment from %s", f)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
