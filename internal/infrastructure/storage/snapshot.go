// Package storage сохраняет полные снимки симуляции в SQLite.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/world"
	"notquiteparadise/pkg/logger"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot - всё, что нужно для восстановления симуляции: компоненты,
// порядок очереди, глобальное время и рельеф.
type Snapshot struct {
	ID        string
	CreatedAt time.Time

	Seed       int64
	GlobalTime int
	Round      int

	MapWidth  int
	MapHeight int
	Terrain   []world.Terrain
	Explored  []bool

	Queue    []domain.EntityID
	Entities []ecs.Record
}

// SnapshotInfo - строка списка снимков.
type SnapshotInfo struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Seed       int64     `json:"seed"`
	GlobalTime int       `json:"global_time"`
	Round      int       `json:"round"`
	Entities   int       `json:"entities"`
}

// SnapshotStore хранит снимки в SQLite (modernc, без cgo).
type SnapshotStore struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open открывает базу и создаёт схему.
func Open(path string) (*SnapshotStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// У каждого соединения своя in-memory база.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SnapshotStore{
		db:  db,
		log: logger.Log.WithFields(logrus.Fields{"component": "snapshot_store", "path": path}),
	}, nil
}

// Close закрывает соединение.
func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save пишет снимок в одной транзакции и возвращает его ID.
func (s *SnapshotStore) Save(ctx context.Context, snap *Snapshot) (string, error) {
	if snap == nil {
		return "", errors.New("snapshot is nil")
	}
	if len(snap.Terrain) != snap.MapWidth*snap.MapHeight {
		return "", fmt.Errorf("terrain has %d tiles, map is %dx%d", len(snap.Terrain), snap.MapWidth, snap.MapHeight)
	}

	if snap.ID == "" {
		snap.ID = ulid.Make().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	queue, err := json.Marshal(snap.Queue)
	if err != nil {
		return "", fmt.Errorf("encode queue: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (
		   id, created_at, seed, global_time, round,
		   map_width, map_height, terrain, explored, queue
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID,
		snap.CreatedAt.UnixMilli(),
		snap.Seed,
		snap.GlobalTime,
		snap.Round,
		snap.MapWidth,
		snap.MapHeight,
		encodeTerrain(snap.Terrain),
		encodeExplored(snap.Explored, len(snap.Terrain)),
		string(queue),
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_entities (snapshot_id, ordinal, entity_id, components) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare entity insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range snap.Entities {
		comps, err := json.Marshal(rec.Components)
		if err != nil {
			return "", fmt.Errorf("encode entity %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, snap.ID, i, strconv.FormatUint(uint64(rec.ID), 10), string(comps)); err != nil {
			return "", fmt.Errorf("insert entity %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit snapshot: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"snapshot_id": snap.ID,
		"entities":    len(snap.Entities),
		"time":        snap.GlobalTime,
	}).Info("Snapshot saved")
	return snap.ID, nil
}

// Load читает снимок по ID.
func (s *SnapshotStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, seed, global_time, round, map_width, map_height, terrain, explored, queue
		   FROM snapshots WHERE id = ?`, id)
	return s.scanSnapshot(ctx, row)
}

// Latest читает самый свежий снимок.
func (s *SnapshotStore) Latest(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, seed, global_time, round, map_width, map_height, terrain, explored, queue
		   FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1`)
	return s.scanSnapshot(ctx, row)
}

// List возвращает снимки от новых к старым.
func (s *SnapshotStore) List(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.created_at, s.seed, s.global_time, s.round,
		        (SELECT COUNT(*) FROM snapshot_entities e WHERE e.snapshot_id = s.id)
		   FROM snapshots s ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var created int64
		if err := rows.Scan(&info.ID, &created, &info.Seed, &info.GlobalTime, &info.Round, &info.Entities); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		info.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete удаляет снимок вместе с сущностями.
func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

func (s *SnapshotStore) scanSnapshot(ctx context.Context, row *sql.Row) (*Snapshot, error) {
	var (
		snap     Snapshot
		created  int64
		terrain  []byte
		explored []byte
		queue    string
	)
	err := row.Scan(&snap.ID, &created, &snap.Seed, &snap.GlobalTime, &snap.Round,
		&snap.MapWidth, &snap.MapHeight, &terrain, &explored, &queue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	snap.CreatedAt = time.UnixMilli(created).UTC()
	snap.Terrain = decodeTerrain(terrain)
	snap.Explored = decodeExplored(explored)
	if err := json.Unmarshal([]byte(queue), &snap.Queue); err != nil {
		return nil, fmt.Errorf("decode queue: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT entity_id, components FROM snapshot_entities WHERE snapshot_id = ? ORDER BY ordinal`, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("load entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawID, comps string
		if err := rows.Scan(&rawID, &comps); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		id, err := domain.ParseEntityID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse entity id %q: %w", rawID, err)
		}
		rec := ecs.Record{ID: id}
		if err := json.Unmarshal([]byte(comps), &rec.Components); err != nil {
			return nil, fmt.Errorf("decode entity %s: %w", rawID, err)
		}
		snap.Entities = append(snap.Entities, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func encodeTerrain(t []world.Terrain) []byte {
	out := make([]byte, len(t))
	for i, v := range t {
		out[i] = byte(v)
	}
	return out
}

func decodeTerrain(b []byte) []world.Terrain {
	out := make([]world.Terrain, len(b))
	for i, v := range b {
		out[i] = world.Terrain(v)
	}
	return out
}

func encodeExplored(explored []bool, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n && i < len(explored); i++ {
		if explored[i] {
			out[i] = 1
		}
	}
	return out
}

func decodeExplored(b []byte) []bool {
	out := make([]bool, len(b))
	for i, v := range b {
		out[i] = v == 1
	}
	return out
}
