package repository

import (
	"context"

	"floraops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductTotal is the summed ledger quantity for one product.
type ProductTotal struct {
	Product string          `json:"product"`
	Total   decimal.Decimal `json:"total"`
}

type StockRepository interface {
	Create(ctx context.Context, entry *model.StockEntry) error
	Update(ctx context.Context, entry *model.StockEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockEntry, error)
	// ListByProductFIFO returns all entries for a product ordered oldest
	// first, ties broken by id, locking each row FOR UPDATE for the
	// duration of the enclosing transaction.
	ListByProductFIFO(ctx context.Context, product string) ([]model.StockEntry, error)
	List(ctx context.Context, product string) ([]model.StockEntry, error)
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error
	SumByProduct(ctx context.Context, product string) (decimal.Decimal, error)
	SumAll(ctx context.Context) ([]ProductTotal, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, entry *model.StockEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *stockRepository) Update(ctx context.Context, entry *model.StockEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *stockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.StockEntry{}).Error
}

func (r *stockRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.StockEntry, error) {
	var entry model.StockEntry
	if err := GetDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *stockRepository) ListByProductFIFO(ctx context.Context, product string) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product = ?", product).
		Order("created_at asc, id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *stockRepository) List(ctx context.Context, product string) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	db := GetDB(ctx, r.db).Order("created_at asc, id asc")
	if product != "" {
		db = db.Where("product = ?", product)
	}
	if err := db.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *stockRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("order_id = ?", orderID).Delete(&model.StockEntry{}).Error
}

func (r *stockRepository) SumByProduct(ctx context.Context, product string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.StockEntry{}).
		Where("product = ?", product).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *stockRepository) SumAll(ctx context.Context) ([]ProductTotal, error) {
	var totals []ProductTotal
	err := GetDB(ctx, r.db).Model(&model.StockEntry{}).
		Select("product, SUM(quantity) as total").
		Group("product").
		Order("product asc").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
