package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockEntry is one row of the shared stock ledger: kilograms of a product
// left over after a stage-2 packing operation, available for FIFO reuse by
// any later packing operation of any order. Quantity is strictly positive;
// an entry depleted to zero is deleted, never kept at zero.
type StockEntry struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"` // origin order
	Product          string          `gorm:"type:varchar(255);not null;index" json:"product"`
	SourceEntityType string          `gorm:"type:varchar(20);not null" json:"source_entity_type"`
	SourceEntityName string          `gorm:"type:varchar(255);not null" json:"source_entity_name"`
	Quantity         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"` // establishes FIFO age
}

// StockSale records a direct sale of ledger stock outside the order workflow.
type StockSale struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Product         string          `gorm:"type:varchar(255);not null;index" json:"product"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	BuyerEntityType string          `gorm:"type:varchar(20);not null" json:"buyer_entity_type"`
	BuyerEntityID   uuid.UUID       `gorm:"type:uuid;not null" json:"buyer_entity_id"`
	BuyerName       string          `gorm:"type:varchar(255)" json:"buyer_name"`
	CreatedAt       time.Time       `json:"created_at"`
}
