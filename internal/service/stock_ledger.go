package service

import (
	"context"
	"fmt"
	"time"

	"floraops/internal/model"
	"floraops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// stockEpsilon guards leftover recording against floating rounding noise:
// remainders at or below this are not worth a ledger row.
var stockEpsilon = decimal.NewFromFloat(0.01)

// StockLedger is the append/deplete log of packing leftovers. Producers are
// stage-2 completions; consumers are later stage-2 reuse requests and direct
// stock sales. All methods expect to run inside the caller's transaction
// context so ledger mutations commit or roll back with the stage update.
type StockLedger interface {
	// ReuseFromStock depletes entries for product oldest-first (ties broken
	// by id) until requested is satisfied or entries run out, and returns
	// the amount actually reused. Short stock is not an error here: the
	// caller simply reuses less. A requested amount <= 0 is a no-op.
	ReuseFromStock(ctx context.Context, product string, requested decimal.Decimal) (decimal.Decimal, error)
	// RecordLeftover appends an entry for quantities above the epsilon,
	// stamped with the given processing time, which establishes FIFO age.
	RecordLeftover(ctx context.Context, orderID uuid.UUID, product, sourceEntityType, sourceEntityName string, quantity decimal.Decimal, at time.Time) error
	// ClearForOrder deletes every entry originating from orderID. Used when
	// a stage-2 submission edits an already-completed stage: leftovers are
	// recomputed from scratch, never added on top.
	ClearForOrder(ctx context.Context, orderID uuid.UUID) error
	TotalAvailable(ctx context.Context, product string) (decimal.Decimal, error)
	TotalsByProduct(ctx context.Context) ([]repository.ProductTotal, error)
}

type stockLedger struct {
	stockRepo repository.StockRepository
}

func NewStockLedger(stockRepo repository.StockRepository) StockLedger {
	return &stockLedger{stockRepo: stockRepo}
}

func (l *stockLedger) ReuseFromStock(ctx context.Context, product string, requested decimal.Decimal) (decimal.Decimal, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	entries, err := l.stockRepo.ListByProductFIFO(ctx, product)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list stock for %s: %w", product, err)
	}

	remaining := requested
	reused := decimal.Zero

	for i := range entries {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		entry := entries[i]
		take := entry.Quantity
		if take.GreaterThan(remaining) {
			take = remaining
		}

		newQuantity := entry.Quantity.Sub(take)
		if newQuantity.LessThanOrEqual(decimal.Zero) {
			if err := l.stockRepo.Delete(ctx, entry.ID); err != nil {
				return decimal.Zero, fmt.Errorf("failed to delete depleted stock entry: %w", err)
			}
		} else {
			entry.Quantity = newQuantity
			if err := l.stockRepo.Update(ctx, &entry); err != nil {
				return decimal.Zero, fmt.Errorf("failed to update stock entry: %w", err)
			}
		}

		reused = reused.Add(take)
		remaining = remaining.Sub(take)
	}

	return reused, nil
}

func (l *stockLedger) RecordLeftover(ctx context.Context, orderID uuid.UUID, product, sourceEntityType, sourceEntityName string, quantity decimal.Decimal, at time.Time) error {
	if quantity.LessThanOrEqual(stockEpsilon) {
		return nil
	}

	entry := model.StockEntry{
		OrderID:          orderID,
		Product:          product,
		SourceEntityType: sourceEntityType,
		SourceEntityName: sourceEntityName,
		Quantity:         quantity.Round(2),
		CreatedAt:        at,
	}
	if err := l.stockRepo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("failed to record leftover stock: %w", err)
	}
	return nil
}

func (l *stockLedger) ClearForOrder(ctx context.Context, orderID uuid.UUID) error {
	if err := l.stockRepo.DeleteByOrder(ctx, orderID); err != nil {
		return fmt.Errorf("failed to clear stock for order %s: %w", orderID, err)
	}
	return nil
}

func (l *stockLedger) TotalAvailable(ctx context.Context, product string) (decimal.Decimal, error) {
	return l.stockRepo.SumByProduct(ctx, product)
}

func (l *stockLedger) TotalsByProduct(ctx context.Context) ([]repository.ProductTotal, error) {
	return l.stockRepo.SumAll(ctx)
}
