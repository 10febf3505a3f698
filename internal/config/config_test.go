package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PARKING_API_BASE_URL", "APP_PORT", "POLL_INTERVAL", "HTTP_TIMEOUT",
		"MAP_CENTER_LAT", "MAP_CENTER_LNG", "TILE_VERIFY", "ELASTICSEARCH_URL", "SAVE_SNAPSHOTS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.APIBaseURL != "http://localhost:5000" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://localhost:5000")
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if cfg.MapCenterLat != -37.8136 || cfg.MapCenterLng != 144.9631 {
		t.Errorf("map center = %v,%v, want -37.8136,144.9631", cfg.MapCenterLat, cfg.MapCenterLng)
	}
	if cfg.ElasticsearchURL != "" {
		t.Errorf("ElasticsearchURL = %q, want empty", cfg.ElasticsearchURL)
	}
	if cfg.SaveSnapshots {
		t.Error("SaveSnapshots = true, want false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PARKING_API_BASE_URL", "http://api.example:9000")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("MAP_CENTER_LAT", "1.5")
	t.Setenv("TILE_VERIFY", "true")

	cfg := Load()

	if cfg.APIBaseURL != "http://api.example:9000" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.MapCenterLat != 1.5 {
		t.Errorf("MapCenterLat = %v, want 1.5", cfg.MapCenterLat)
	}
	if !cfg.TileVerify {
		t.Error("TileVerify = false, want true")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	t.Setenv("MAP_CENTER_LNG", "east")
	t.Setenv("SAVE_SNAPSHOTS", "maybe")

	cfg := Load()

	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if cfg.MapCenterLng != 144.9631 {
		t.Errorf("MapCenterLng = %v, want 144.9631", cfg.MapCenterLng)
	}
	if cfg.SaveSnapshots {
		t.Error("SaveSnapshots = true, want false")
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u", PostgresPassword: "p", PostgresDB: "d"}
	want := "host=db port=5433 user=u password=p dbname=d sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Errorf("PostgresDSN() = %q, want %q", got, want)
	}
}

func TestSnapshotDSN(t *testing.T) {
	cfg := &Config{SnapshotDriver: "sqlite3", SQLitePath: "/tmp/snap.db", PostgresHost: "db"}
	if got := cfg.SnapshotDSN(); got != "/tmp/snap.db" {
		t.Errorf("SnapshotDSN() = %q, want /tmp/snap.db", got)
	}

	cfg.SnapshotDriver = "postgres"
	if got := cfg.SnapshotDSN(); got != cfg.PostgresDSN() {
		t.Errorf("SnapshotDSN() = %q, want postgres dsn", got)
	}
}

func TestLoadDotEnvReadsAllFiles(t *testing.T) {
	keys := []string{"CBD_TEST_LOCAL_ONLY", "CBD_TEST_SHARED", "CBD_TEST_BASE_ONLY"}
	for _, key := range keys {
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for _, key := range keys {
			os.Unsetenv(key)
		}
	})

	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	base := filepath.Join(dir, ".env")
	os.WriteFile(local, []byte("CBD_TEST_LOCAL_ONLY=local\nCBD_TEST_SHARED=local\n"), 0o644)
	os.WriteFile(base, []byte("CBD_TEST_SHARED=base\nCBD_TEST_BASE_ONLY=base\n"), 0o644)

	loadDotEnv(local, filepath.Join(dir, "missing.env"), base)

	want := map[string]string{
		"CBD_TEST_LOCAL_ONLY": "local",
		"CBD_TEST_SHARED":     "local",
		"CBD_TEST_BASE_ONLY":  "base",
	}
	for key, v := range want {
		if got := os.Getenv(key); got != v {
			t.Errorf("%s = %q, want %q", key, got, v)
		}
	}
}
