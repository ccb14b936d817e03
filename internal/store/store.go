// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"stock-analyzer/internal/models"
)

// PortfolioStore defines the interface for holding persistence.
type PortfolioStore interface {
	// InsertHolding persists a new holding.
	InsertHolding(ctx context.Context, holding *models.Holding) error
	// ListHoldings returns every holding, oldest first.
	ListHoldings(ctx context.Context) ([]models.Holding, error)
	// DeleteHolding removes a holding by id. It returns
	// ErrHoldingNotFound when no row matches.
	DeleteHolding(ctx context.Context, id string) error

	Close() error
}
