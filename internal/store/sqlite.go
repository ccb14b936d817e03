package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "stock-analyzer/internal/errors"
	"stock-analyzer/internal/models"
)

// SQLiteStore implements PortfolioStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based portfolio store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Holdings table for portfolio positions
	CREATE TABLE IF NOT EXISTS holdings (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		shares REAL NOT NULL,
		purchase_price REAL NOT NULL,
		purchase_date DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_holdings_symbol ON holdings(symbol);
	CREATE INDEX IF NOT EXISTS idx_holdings_created ON holdings(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertHolding persists a new holding.
func (s *SQLiteStore) InsertHolding(ctx context.Context, holding *models.Holding) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holdings (id, symbol, name, shares, purchase_price, purchase_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		holding.ID, holding.Symbol, holding.Name, holding.Shares,
		holding.PurchasePrice, holding.PurchaseDate, holding.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, fmt.Sprintf("insert holding %s: %v", holding.Symbol, err))
	}
	return nil
}

// ListHoldings returns every holding, oldest first.
func (s *SQLiteStore) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, name, shares, purchase_price, purchase_date, created_at
		FROM holdings
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.Symbol, &h.Name, &h.Shares,
			&h.PurchasePrice, &h.PurchaseDate, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// DeleteHolding removes a holding by id.
func (s *SQLiteStore) DeleteHolding(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM holdings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}
