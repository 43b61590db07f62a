package repository

import (
	"context"

	"floraops/internal/model"

	"gorm.io/gorm"
)

type StockSaleRepository interface {
	Create(ctx context.Context, sale *model.StockSale) error
	List(ctx context.Context, page, limit int) ([]model.StockSale, int64, error)
}

type stockSaleRepository struct {
	db *gorm.DB
}

func NewStockSaleRepository(db *gorm.DB) StockSaleRepository {
	return &stockSaleRepository{db: db}
}

func (r *stockSaleRepository) Create(ctx context.Context, sale *model.StockSale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *stockSaleRepository) List(ctx context.Context, page, limit int) ([]model.StockSale, int64, error) {
	var sales []model.StockSale
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockSale{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}
