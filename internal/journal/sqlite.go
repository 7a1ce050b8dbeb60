package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"truco-lite/truco"
)

const defaultLocalDBName = "truco_local.db"

type SQLiteService struct {
	db *sql.DB
}

func localDatabasePathFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("JOURNAL_DB_PATH")); v != "" {
		return v
	}
	return defaultLocalDBName
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	return NewSQLiteService(localDatabasePathFromEnv())
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS game_event_stream (
    game_id       TEXT NOT NULL,
    seq           INTEGER NOT NULL,
    event_type    TEXT NOT NULL,
    payload_json  TEXT NOT NULL,
    created_at_ms INTEGER NOT NULL,
    PRIMARY KEY (game_id, seq)
)`)
	return err
}

func (s *SQLiteService) Append(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.GameID) == "" {
		return fmt.Errorf("empty game id")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO game_event_stream (game_id, seq, event_type, payload_json, created_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (game_id, seq) DO NOTHING`,
		e.GameID, e.Seq, string(e.Kind), string(e.Payload), e.CreatedAt.UnixMilli())
	if err != nil {
		log.Printf("[Journal] append failed: game=%s seq=%d err=%v", e.GameID, e.Seq, err)
	}
	return err
}

func (s *SQLiteService) ListByGame(ctx context.Context, gameID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT game_id, seq, event_type, payload_json, created_at_ms
FROM game_event_stream
WHERE game_id = ?
ORDER BY seq ASC
LIMIT ?`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind, payload string
		var createdMs int64
		if err := rows.Scan(&e.GameID, &e.Seq, &kind, &payload, &createdMs); err != nil {
			return nil, err
		}
		e.Kind = truco.EventKind(kind)
		e.Payload = []byte(payload)
		e.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func marshalPayload(payload any) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Journal] marshal payload failed: %v", err)
		return []byte("{}")
	}
	return raw
}
