package repository

import (
	"context"

	"floraops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistryRepository exposes the read-only lookups the workflow engine needs
// from the registry subsystem (farmers, suppliers, third parties, drivers,
// labourers). Registry CRUD lives elsewhere.
type RegistryRepository interface {
	// EntityName returns the display name of a source entity, checking type
	// and id together.
	EntityName(ctx context.Context, entityType string, id uuid.UUID) (string, error)
	EntityExists(ctx context.Context, entityType string, id uuid.UUID) (bool, error)
	DriverName(ctx context.Context, id uuid.UUID) (string, error)
	LabourerName(ctx context.Context, id uuid.UUID) (string, error)
}

type registryRepository struct {
	db *gorm.DB
}

func NewRegistryRepository(db *gorm.DB) RegistryRepository {
	return &registryRepository{db: db}
}

func (r *registryRepository) EntityName(ctx context.Context, entityType string, id uuid.UUID) (string, error) {
	var entity model.SourceEntity
	if err := GetDB(ctx, r.db).
		Where("id = ? AND type = ?", id, entityType).
		First(&entity).Error; err != nil {
		return "", err
	}
	return entity.Name, nil
}

func (r *registryRepository) EntityExists(ctx context.Context, entityType string, id uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.SourceEntity{}).
		Where("id = ? AND type = ?", id, entityType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *registryRepository) DriverName(ctx context.Context, id uuid.UUID) (string, error) {
	var driver model.Driver
	if err := GetDB(ctx, r.db).First(&driver, "id = ?", id).Error; err != nil {
		return "", err
	}
	return driver.Name, nil
}

func (r *registryRepository) LabourerName(ctx context.Context, id uuid.UUID) (string, error) {
	var labourer model.Labourer
	if err := GetDB(ctx, r.db).First(&labourer, "id = ?", id).Error; err != nil {
		return "", err
	}
	return labourer.Name, nil
}
