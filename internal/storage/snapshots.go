package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/akozadaev/cbd_parking_dashboard/internal/models"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DefaultSnapshotLimit = 10
	MaxSnapshotLimit     = 100
)

var snapshotSchema = map[string]string{
	"postgres": `
		CREATE TABLE IF NOT EXISTS parking_snapshots (
			id         BIGSERIAL PRIMARY KEY,
			taken_at   TIMESTAMPTZ NOT NULL,
			spot_count INTEGER NOT NULL,
			spots      JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS parking_snapshots_taken_at_idx ON parking_snapshots (taken_at DESC);`,
	"sqlite3": `
		CREATE TABLE IF NOT EXISTS parking_snapshots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at   TIMESTAMP NOT NULL,
			spot_count INTEGER NOT NULL,
			spots      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS parking_snapshots_taken_at_idx ON parking_snapshots (taken_at DESC);`,
}

// SnapshotRecorder сохраняет каждый применённый список парковок.
type SnapshotRecorder interface {
	RecordSnapshot(ctx context.Context, spots []models.ParkingSpot) error
}

// Recorders передаёт список каждому получателю по очереди.
// Ошибка одного получателя не мешает остальным.
type Recorders []SnapshotRecorder

// RecordSnapshot реализует SnapshotRecorder.
func (rs Recorders) RecordSnapshot(ctx context.Context, spots []models.ParkingSpot) error {
	var errs []error
	for _, r := range rs {
		if err := r.RecordSnapshot(ctx, spots); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SnapshotStore хранит журнал снимков опроса в PostgreSQL или SQLite.
type SnapshotStore struct {
	db *sqlx.DB
}

// NewSnapshotStore подключается к базе и создает таблицу снимков.
// driver: "postgres" (DSN в формате lib/pq) или "sqlite3" (путь к файлу).
func NewSnapshotStore(ctx context.Context, driver, dsn string) (*SnapshotStore, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	s := NewSnapshotStoreWithDB(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSnapshotStoreWithDB создает хранилище поверх открытого подключения.
func NewSnapshotStoreWithDB(db *sqlx.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Migrate создает таблицу снимков, если её нет.
func (s *SnapshotStore) Migrate(ctx context.Context) error {
	schema, ok := snapshotSchema[s.db.DriverName()]
	if !ok {
		return fmt.Errorf("unsupported snapshot driver %q", s.db.DriverName())
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}

// Close закрывает подключение к базе данных.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Save сохраняет список парковок как новый снимок.
func (s *SnapshotStore) Save(ctx context.Context, spots []models.ParkingSpot) (*models.Snapshot, error) {
	if spots == nil {
		spots = []models.ParkingSpot{}
	}
	spotsJSON, err := json.Marshal(spots)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spots: %w", err)
	}

	snap := &models.Snapshot{
		TakenAt:   time.Now().UTC().Truncate(time.Microsecond),
		SpotCount: len(spots),
		Spots:     spots,
	}

	query := s.db.Rebind(`
		INSERT INTO parking_snapshots (taken_at, spot_count, spots)
		VALUES (?, ?, ?)
		RETURNING id`)

	if err := s.db.QueryRowxContext(ctx, query, snap.TakenAt, snap.SpotCount, string(spotsJSON)).Scan(&snap.ID); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return snap, nil
}

// RecordSnapshot реализует SnapshotRecorder.
func (s *SnapshotStore) RecordSnapshot(ctx context.Context, spots []models.ParkingSpot) error {
	snap, err := s.Save(ctx, spots)
	if err != nil {
		return err
	}
	log.Printf("[snapshots] saved snapshot %d with %d spots", snap.ID, snap.SpotCount)
	return nil
}

type snapshotRow struct {
	ID        int64     `db:"id"`
	TakenAt   time.Time `db:"taken_at"`
	SpotCount int       `db:"spot_count"`
	Spots     []byte    `db:"spots"`
}

// Latest возвращает последние снимки, новые первыми.
func (s *SnapshotStore) Latest(ctx context.Context, limit int) ([]models.Snapshot, error) {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	if limit > MaxSnapshotLimit {
		limit = MaxSnapshotLimit
	}

	query := s.db.Rebind(`
		SELECT id, taken_at, spot_count, spots
		FROM parking_snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT ?`)

	var rows []snapshotRow
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	snapshots := make([]models.Snapshot, 0, len(rows))
	for _, r := range rows {
		snap := models.Snapshot{ID: r.ID, TakenAt: r.TakenAt, SpotCount: r.SpotCount}
		if err := json.Unmarshal(r.Spots, &snap.Spots); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %d: %w", r.ID, err)
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}
