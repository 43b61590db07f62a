package repository

import (
	"context"

	"floraops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	Save(ctx context.Context, assignment *model.Assignment) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Assignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	return GetDB(ctx, r.db).Create(assignment).Error
}

func (r *assignmentRepository) Save(ctx context.Context, assignment *model.Assignment) error {
	return GetDB(ctx, r.db).Save(assignment).Error
}

func (r *assignmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := GetDB(ctx, r.db).Where("order_id = ?", orderID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}
