package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderType enum constants
const (
	OrderTypeBox    = "BOX"
	OrderTypeLocal  = "LOCAL"
	OrderTypeFlower = "FLOWER"
)

// Order represents a customer order moving through the fulfillment workflow
type Order struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode    string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_code"`
	CustomerName string         `gorm:"type:varchar(255);not null" json:"customer_name"`
	OrderType    string         `gorm:"type:varchar(20);not null;index" json:"order_type"` // BOX, LOCAL, FLOWER
	RequestedBy  time.Time      `gorm:"not null" json:"requested_by"`                      // date the customer wants delivery by
	Note         string         `gorm:"type:text" json:"note"`
	Items        []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem is a line item within an Order. NetWeight is the quantity budget
// that stage-2 packing for this product must not exceed.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Product       string          `gorm:"type:varchar(255);not null" json:"product"`
	NetWeight     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_weight"`
	GrossWeight   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gross_weight"`
	PackagingType string          `gorm:"type:varchar(50)" json:"packaging_type"` // BOX, BAG, BUNDLE
	BoxCount      int             `gorm:"type:int;default:0" json:"box_count"`
	PricePerKg    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"price_per_kg"`
}
