package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackagingMaterial is a keyed quantity store of consumables (tape, wrap)
// decremented by dispatch-stage usage. Quantity never goes negative; an
// insufficient decrement is a hard error.
type PackagingMaterial struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category  string          `gorm:"type:varchar(50);not null;index" json:"category"` // TAPE, WRAP
	Name      string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Color     string          `gorm:"type:varchar(50);index" json:"color"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
