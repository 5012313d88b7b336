package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "blackjack_local.db"

type SQLiteService struct {
	db          *sql.DB
	recentLimit int
}

// DefaultSQLitePath is the per-user database location used when no path is configured.
func DefaultSQLitePath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "BlackjackLite", defaultLocalDBName), nil
}

func NewSQLiteService(dbPath string, recentLimit int) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		p, err := DefaultSQLitePath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}
	if dbPath != ":memory:" {
		dbPath = filepath.Clean(dbPath)
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
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure ledger schema: %w", err)
	}

	return &SQLiteService{db: db, recentLimit: recentLimit}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordRound(ctx context.Context, r Round) error {
	if strings.TrimSpace(r.sessionID) == "" {
		return ErrNotFound
	}
	hands, err := encodeHands(r)
	if err != nil {
		return err
	}
	key := SessionKey(r.sessionID)
	settledAt := r.SettledAt
	if settledAt.IsZero() {
		settledAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO blackjack_round_history (
    session_key, round, winner, bet, delta, balance, is_blackjack,
    player_score, dealer_score, hands_json, message, settled_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, key, r.Round, r.Winner, r.Bet, r.Delta, r.Balance, boolToInt(r.IsBlackjack),
		r.PlayerScore, r.DealerScore, hands, r.Message, settledAt.UTC().UnixMilli())
	if err != nil {
		return err
	}

	if s.recentLimit > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM blackjack_round_history
WHERE session_key = ?
  AND id IN (
      SELECT id
      FROM blackjack_round_history
      WHERE session_key = ?
      ORDER BY settled_at_ms DESC, id DESC
      LIMIT -1 OFFSET ?
  )
`, key, key, s.recentLimit)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteService) ListRecent(ctx context.Context, sessionID string, limit int) ([]Round, error) {
	if strings.TrimSpace(sessionID) == "" {
		return []Round{}, nil
	}
	limit = normalizeLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
SELECT round, winner, bet, delta, balance, is_blackjack, player_score, dealer_score,
       hands_json, message, settled_at_ms
FROM blackjack_round_history
WHERE session_key = ?
ORDER BY settled_at_ms DESC, id DESC
LIMIT ?
`, SessionKey(sessionID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Round, 0, limit)
	for rows.Next() {
		var item Round
		var isBlackjack int64
		var hands []byte
		var settledAtMs int64
		if err := rows.Scan(&item.Round, &item.Winner, &item.Bet, &item.Delta, &item.Balance,
			&isBlackjack, &item.PlayerScore, &item.DealerScore, &hands, &item.Message, &settledAtMs); err != nil {
			return nil, err
		}
		item.IsBlackjack = isBlackjack == 1
		item.SettledAt = time.UnixMilli(settledAtMs).UTC()
		decodeHands(hands, &item)
		items = append(items, item)
	}
	return items, rows.Err()
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS blackjack_round_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_key TEXT NOT NULL,
    round INTEGER NOT NULL,
    winner TEXT NOT NULL,
    bet INTEGER NOT NULL,
    delta INTEGER NOT NULL,
    balance INTEGER NOT NULL,
    is_blackjack INTEGER NOT NULL DEFAULT 0,
    player_score INTEGER NOT NULL,
    dealer_score INTEGER NOT NULL,
    hands_json TEXT NOT NULL DEFAULT '{}',
    message TEXT NOT NULL DEFAULT '',
    settled_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_blackjack_round_history_recent ON blackjack_round_history(session_key, settled_at_ms DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
