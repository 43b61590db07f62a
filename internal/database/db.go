package database

import (
	"log"

	"floraops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.SourceEntity{},
		&model.Driver{},
		&model.Labourer{},
		&model.Order{},
		&model.OrderItem{},
		&model.Assignment{},
		&model.StockEntry{},
		&model.StockSale{},
		&model.PackagingMaterial{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
