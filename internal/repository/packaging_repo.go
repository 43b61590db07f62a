package repository

import (
	"context"

	"floraops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PackagingMaterialRepository interface {
	// FindByNameForUpdate locks and returns the material row matching name.
	FindByNameForUpdate(ctx context.Context, name string) (*model.PackagingMaterial, error)
	// FindByColorForUpdate is the fallback lookup when no material carries
	// the submitted name.
	FindByColorForUpdate(ctx context.Context, color string) (*model.PackagingMaterial, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
	List(ctx context.Context) ([]model.PackagingMaterial, error)
	Create(ctx context.Context, material *model.PackagingMaterial) error
}

type packagingMaterialRepository struct {
	db *gorm.DB
}

func NewPackagingMaterialRepository(db *gorm.DB) PackagingMaterialRepository {
	return &packagingMaterialRepository{db: db}
}

func (r *packagingMaterialRepository) FindByNameForUpdate(ctx context.Context, name string) (*model.PackagingMaterial, error) {
	var material model.PackagingMaterial
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *packagingMaterialRepository) FindByColorForUpdate(ctx context.Context, color string) (*model.PackagingMaterial, error) {
	var material model.PackagingMaterial
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("color = ?", color).Order("name asc").First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *packagingMaterialRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.PackagingMaterial{}).
		Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *packagingMaterialRepository) List(ctx context.Context) ([]model.PackagingMaterial, error) {
	var materials []model.PackagingMaterial
	if err := GetDB(ctx, r.db).Order("category asc, name asc").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *packagingMaterialRepository) Create(ctx context.Context, material *model.PackagingMaterial) error {
	return GetDB(ctx, r.db).Create(material).Error
}
