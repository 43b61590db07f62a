package service

import (
	"context"
	"testing"
	"time"

	"floraops/internal/model"
	"floraops/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockEnv struct {
	stock    *fakeStockRepo
	sales    *fakeStockSaleRepo
	registry *fakeRegistryRepo
	audits   *fakeAuditRepo
	svc      StockService

	buyerID uuid.UUID
}

func newStockEnv() *stockEnv {
	env := &stockEnv{
		stock:    newFakeStockRepo(),
		sales:    &fakeStockSaleRepo{},
		registry: newFakeRegistryRepo(),
		audits:   &fakeAuditRepo{},
		buyerID:  uuid.New(),
	}
	env.registry.addEntity(model.EntityTypeThirdParty, env.buyerID, "Saigon Wholesale")
	env.svc = NewStockService(
		env.stock,
		env.sales,
		env.registry,
		env.audits,
		NewStockLedger(env.stock),
		fakeTxManager{},
		nil,
	)
	return env
}

func (env *stockEnv) sellRequest(entryID uuid.UUID, quantity, price float64) SellStockRequest {
	return SellStockRequest{
		StockEntryID:    entryID.String(),
		Quantity:        quantity,
		UnitPrice:       price,
		BuyerEntityType: model.EntityTypeThirdParty,
		BuyerEntityID:   env.buyerID.String(),
	}
}

func TestSellStockDepletesFIFO(t *testing.T) {
	env := newStockEnv()
	ctx := context.Background()

	older := seedEntry(t, env.stock, "Rose", "10", 2*time.Hour)
	newer := seedEntry(t, env.stock, "Rose", "5", time.Hour)

	sale, err := env.svc.SellStock(ctx, uuid.NewString(), env.sellRequest(newer.ID, 12, 3))
	require.NoError(t, err)
	assert.Equal(t, "Rose", sale.Product)
	assert.True(t, sale.Quantity.Equal(d("12")))
	assert.True(t, sale.TotalAmount.Equal(d("36")), "total %s", sale.TotalAmount)
	assert.Equal(t, "Saigon Wholesale", sale.BuyerName)

	// Oldest entry drained first even though the newer one was referenced.
	_, err = env.stock.FindByID(ctx, older.ID)
	assert.Error(t, err)
	remaining, err := env.stock.FindByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.True(t, remaining.Quantity.Equal(d("3")), "remaining %s", remaining.Quantity)

	require.Len(t, env.sales.sales, 1)
	require.Len(t, env.audits.logs, 1)
	assert.Equal(t, model.ActionSellStock, env.audits.logs[0].Action)
}

func TestSellStockStrictShortfall(t *testing.T) {
	env := newStockEnv()
	ctx := context.Background()

	entry := seedEntry(t, env.stock, "Rose", "6", time.Hour)

	// A sale is strict: 6kg on hand cannot cover 10kg, and nothing mutates.
	_, err := env.svc.SellStock(ctx, uuid.NewString(), env.sellRequest(entry.ID, 10, 3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficient, apperr.KindOf(err))

	total, sumErr := env.stock.SumByProduct(ctx, "Rose")
	require.NoError(t, sumErr)
	assert.True(t, total.Equal(d("6")), "ledger mutated to %s", total)
	assert.Empty(t, env.sales.sales)
	assert.Empty(t, env.audits.logs)
}

func TestSellStockUnknownEntry(t *testing.T) {
	env := newStockEnv()

	_, err := env.svc.SellStock(context.Background(), uuid.NewString(), env.sellRequest(uuid.New(), 5, 3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSellStockUnknownBuyer(t *testing.T) {
	env := newStockEnv()
	entry := seedEntry(t, env.stock, "Rose", "10", time.Hour)

	req := env.sellRequest(entry.ID, 5, 3)
	req.BuyerEntityID = uuid.NewString()
	_, err := env.svc.SellStock(context.Background(), uuid.NewString(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetAvailability(t *testing.T) {
	env := newStockEnv()
	seedEntry(t, env.stock, "Rose", "10", 2*time.Hour)
	seedEntry(t, env.stock, "Rose", "5.5", time.Hour)

	availability, err := env.svc.GetAvailability(context.Background(), "Rose")
	require.NoError(t, err)
	assert.Equal(t, "Rose", availability.Product)
	assert.True(t, availability.Total.Equal(d("15.5")))
}

func TestGetAllAvailability(t *testing.T) {
	env := newStockEnv()
	seedEntry(t, env.stock, "Tulip", "3", 2*time.Hour)
	seedEntry(t, env.stock, "Rose", "10", time.Hour)

	totals, err := env.svc.GetAllAvailability(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Rose", totals[0].Product)
	assert.Equal(t, "Tulip", totals[1].Product)
}
