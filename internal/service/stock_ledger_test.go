package service

import (
	"context"
	"testing"
	"time"

	"floraops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedEntry(t *testing.T, repo *fakeStockRepo, product, quantity string, age time.Duration) model.StockEntry {
	t.Helper()
	entry := model.StockEntry{
		OrderID:          uuid.New(),
		Product:          product,
		SourceEntityType: model.EntityTypeFarmer,
		SourceEntityName: "Green Valley Farm",
		Quantity:         d(quantity),
		CreatedAt:        time.Now().Add(-age),
	}
	require.NoError(t, repo.Create(context.Background(), &entry))
	return entry
}

func TestReuseFromStockDepletesOldestFirst(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)
	ctx := context.Background()

	oldest := seedEntry(t, repo, "Rose", "10", 3*time.Hour)
	middle := seedEntry(t, repo, "Rose", "5", 2*time.Hour)
	newest := seedEntry(t, repo, "Rose", "3", 1*time.Hour)

	reused, err := ledger.ReuseFromStock(ctx, "Rose", d("12"))
	require.NoError(t, err)
	assert.True(t, reused.Equal(d("12")), "reused %s", reused)

	// Oldest entry fully consumed and deleted, middle partially drained,
	// newest untouched.
	_, err = repo.FindByID(ctx, oldest.ID)
	assert.Error(t, err)

	remaining, err := repo.FindByID(ctx, middle.ID)
	require.NoError(t, err)
	assert.True(t, remaining.Quantity.Equal(d("3")), "middle %s", remaining.Quantity)

	untouched, err := repo.FindByID(ctx, newest.ID)
	require.NoError(t, err)
	assert.True(t, untouched.Quantity.Equal(d("3")))
}

func TestReuseFromStockToleratesShortStock(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)
	ctx := context.Background()

	seedEntry(t, repo, "Rose", "4", 2*time.Hour)
	seedEntry(t, repo, "Rose", "2", 1*time.Hour)

	reused, err := ledger.ReuseFromStock(ctx, "Rose", d("10"))
	require.NoError(t, err)
	assert.True(t, reused.Equal(d("6")), "reused %s", reused)

	total, err := ledger.TotalAvailable(ctx, "Rose")
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestReuseFromStockIgnoresOtherProducts(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)
	ctx := context.Background()

	seedEntry(t, repo, "Rose", "10", 2*time.Hour)
	tulip := seedEntry(t, repo, "Tulip", "7", 3*time.Hour)

	reused, err := ledger.ReuseFromStock(ctx, "Rose", d("10"))
	require.NoError(t, err)
	assert.True(t, reused.Equal(d("10")))

	kept, err := repo.FindByID(ctx, tulip.ID)
	require.NoError(t, err)
	assert.True(t, kept.Quantity.Equal(d("7")))
}

func TestReuseFromStockNonPositiveIsNoop(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)
	ctx := context.Background()

	seedEntry(t, repo, "Rose", "10", time.Hour)

	reused, err := ledger.ReuseFromStock(ctx, "Rose", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, reused.IsZero())

	total, err := ledger.TotalAvailable(ctx, "Rose")
	require.NoError(t, err)
	assert.True(t, total.Equal(d("10")))
}

func TestReuseFromStockConservesQuantity(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)
	ctx := context.Background()

	seedEntry(t, repo, "Rose", "10.50", 3*time.Hour)
	seedEntry(t, repo, "Rose", "4.25", 2*time.Hour)
	seedEntry(t, repo, "Rose", "1.75", 1*time.Hour)

	reused, err := ledger.ReuseFromStock(ctx, "Rose", d("12.30"))
	require.NoError(t, err)

	total, err := ledger.TotalAvailable(ctx, "Rose")
	require.NoError(t, err)
	assert.True(t, reused.Add(total).Equal(d("16.50")), "reused %s + remaining %s", reused, total)
}

func TestRecordLeftoverSkipsDust(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)
	ctx := context.Background()

	err := ledger.RecordLeftover(ctx, uuid.New(), "Rose", model.EntityTypeFarmer, "Green Valley Farm", d("0.01"), time.Now())
	require.NoError(t, err)
	assert.Empty(t, repo.entries)

	err = ledger.RecordLeftover(ctx, uuid.New(), "Rose", model.EntityTypeFarmer, "Green Valley Farm", d("0.02"), time.Now())
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	assert.True(t, repo.entries[0].Quantity.Equal(d("0.02")))
}

func TestRecordLeftoverRoundsToTwoDecimals(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)

	err := ledger.RecordLeftover(context.Background(), uuid.New(), "Rose", model.EntityTypeSupplier, "Bloom Trading", d("2.375"), time.Now())
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	assert.True(t, repo.entries[0].Quantity.Equal(d("2.38")), "stored %s", repo.entries[0].Quantity)
}

func TestClearForOrderRemovesOnlyThatOrder(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)
	ctx := context.Background()

	mine := seedEntry(t, repo, "Rose", "10", 2*time.Hour)
	other := seedEntry(t, repo, "Rose", "5", time.Hour)

	require.NoError(t, ledger.ClearForOrder(ctx, mine.OrderID))

	_, err := repo.FindByID(ctx, mine.ID)
	assert.Error(t, err)
	_, err = repo.FindByID(ctx, other.ID)
	assert.NoError(t, err)
}

func TestTotalsByProduct(t *testing.T) {
	repo := newFakeStockRepo()
	ledger := NewStockLedger(repo)

	seedEntry(t, repo, "Tulip", "3", 3*time.Hour)
	seedEntry(t, repo, "Rose", "10", 2*time.Hour)
	seedEntry(t, repo, "Rose", "5", time.Hour)

	totals, err := ledger.TotalsByProduct(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Rose", totals[0].Product)
	assert.True(t, totals[0].Total.Equal(d("15")))
	assert.Equal(t, "Tulip", totals[1].Product)
	assert.True(t, totals[1].Total.Equal(d("3")))
}
