package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StockPulse/internal/model"
)

// SQLiteStore caches candle series in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol   TEXT    NOT NULL,
			period   TEXT    NOT NULL,
			date     INTEGER NOT NULL,
			open     REAL,
			high     REAL,
			low      REAL,
			close    REAL,
			volume   REAL,
			turnover REAL,
			PRIMARY KEY (symbol, period, date)
		)`,
		`CREATE TABLE IF NOT EXISTS bar_fetches (
			symbol     TEXT    NOT NULL,
			period     TEXT    NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, period)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string, period model.Period) (*model.Series, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM bar_fetches WHERE symbol = ? AND period = ?`,
		symbol, string(period)).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load fetch time: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, open, high, low, close, volume, turnover
		 FROM bars WHERE symbol = ? AND period = ? ORDER BY date`,
		symbol, string(period))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load bars: %w", err)
	}
	defer rows.Close()

	series := &model.Series{Symbol: symbol, Period: period}
	for rows.Next() {
		var (
			date int64
			bar  model.OHLCV
		)
		if err := rows.Scan(&date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume, &bar.Turnover); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan bar: %w", err)
		}
		bar.Date = time.Unix(date, 0).UTC()
		series.Bars = append(series.Bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("load bars: %w", err)
	}
	return series, time.Unix(fetchedAt, 0).UTC(), nil
}

func (s *SQLiteStore) SaveBars(ctx context.Context, series *model.Series, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	period := string(series.Period)
	if _, err := tx.ExecContext(ctx, `DELETE FROM bars WHERE symbol = ? AND period = ?`, series.Symbol, period); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bars
		(symbol, period, date, open, high, low, close, volume, turnover)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range series.Bars {
		if _, err := stmt.ExecContext(ctx, series.Symbol, period, b.Date.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume, b.Turnover); err != nil {
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO bar_fetches (symbol, period, fetched_at) VALUES (?,?,?)
		ON CONFLICT(symbol, period) DO UPDATE SET fetched_at = excluded.fetched_at`,
		series.Symbol, period, fetchedAt.Unix()); err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}

var (
	_ BarStore = (*SQLiteStore)(nil)
	_ BarStore = NoopStore{}
)
