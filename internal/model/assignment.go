package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage status enum constants. Statuses submitted by clients are compared
// case-insensitively and stored lowercased.
const (
	StageStatusPending    = "pending"
	StageStatusInProgress = "in_progress"
	StageStatusCompleted  = "completed"
)

// SourceEntityType enum constants (who a quantity was collected from)
const (
	EntityTypeFarmer     = "FARMER"
	EntityTypeSupplier   = "SUPPLIER"
	EntityTypeThirdParty = "THIRD_PARTY"
)

// CollectionType enum constants for stage 1
const (
	CollectionTypeBox = "BOX"
	CollectionTypeBag = "BAG"
)

// Assignment holds the full workflow state for one order: one status per
// stage plus the structured payload submitted for that stage. It is created
// lazily on first access to an order's workflow and mutated in place.
type Assignment struct {
	ID               uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Order            *Order             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	OrderType        string             `gorm:"type:varchar(20);not null" json:"order_type"`
	Status           string             `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CollectionStatus string             `gorm:"type:varchar(20);not null;default:'pending'" json:"collection_status"`
	PackagingStatus  string             `gorm:"type:varchar(20);not null;default:'pending'" json:"packaging_status"`
	DispatchStatus   string             `gorm:"type:varchar(20);not null;default:'pending'" json:"dispatch_status"`
	ReviewStatus     string             `gorm:"type:varchar(20);not null;default:'pending'" json:"review_status"`
	Collection       *CollectionPayload `gorm:"type:jsonb;serializer:json" json:"collection,omitempty"`
	Packaging        *PackagingPayload  `gorm:"type:jsonb;serializer:json" json:"packaging,omitempty"`
	Dispatch         *DispatchPayload   `gorm:"type:jsonb;serializer:json" json:"dispatch,omitempty"`
	Review           *ReviewPayload     `gorm:"type:jsonb;serializer:json" json:"review,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// CollectionLine records who a product is collected from and how much.
type CollectionLine struct {
	Product          string          `json:"product"`
	SourceEntityType string          `json:"source_entity_type"` // FARMER, SUPPLIER, THIRD_PARTY
	SourceEntityID   uuid.UUID       `json:"source_entity_id"`
	AssignedQuantity decimal.Decimal `json:"assigned_quantity"`
	AssignedBoxes    int             `json:"assigned_boxes"`
	Price            decimal.Decimal `json:"price"`
	Status           string          `json:"status"`
}

// DeliveryRoute groups collection lines under a driver run (BOX orders only).
type DeliveryRoute struct {
	DriverID    uuid.UUID `json:"driver_id"`
	DriverName  string    `json:"driver_name"`
	Destination string    `json:"destination"`
	Products    []string  `json:"products"`
	Status      string    `json:"status"`
}

// CollectionPayload is the stage-1 payload.
type CollectionPayload struct {
	CollectionType string           `json:"collection_type"` // BOX or BAG
	Lines          []CollectionLine `json:"lines"`
	Routes         []DeliveryRoute  `json:"routes,omitempty"`
}

// PackingLine is one stage-2 line. ReuseApplied and Leftover are computed by
// the engine, not submitted.
type PackingLine struct {
	Product          string          `json:"product"`
	SourceEntityType string          `json:"source_entity_type"`
	SourceEntityID   uuid.UUID       `json:"source_entity_id"`
	SourceEntityName string          `json:"source_entity_name"`
	Grade            string          `json:"grade,omitempty"` // FLOWER orders only
	PickedQuantity   decimal.Decimal `json:"picked_quantity"`
	Wastage          decimal.Decimal `json:"wastage"`
	PackedAmount     decimal.Decimal `json:"packed_amount"`
	ReuseRequested   decimal.Decimal `json:"reuse_requested"`
	Leftover         decimal.Decimal `json:"leftover"`
	Status           string          `json:"status"`
}

// PackingGroup is the per-product breakdown of a stage-2 submission against
// the order item budget.
type PackingGroup struct {
	Product        string          `json:"product"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
	TotalPacked    decimal.Decimal `json:"total_packed"`
	ReuseRequested decimal.Decimal `json:"reuse_requested"`
	ReuseApplied   decimal.Decimal `json:"reuse_applied"`
	TotalLeftover  decimal.Decimal `json:"total_leftover"`
}

// LabourGroup summarizes stage-2 work per labourer.
type LabourGroup struct {
	LabourerID   uuid.UUID `json:"labourer_id"`
	LabourerName string    `json:"labourer_name"`
	Products     []string  `json:"products"`
}

// PackagingPayload is the stage-2 payload.
type PackagingPayload struct {
	Lines         []PackingLine  `json:"lines"`
	Groups        []PackingGroup `json:"groups"`
	LabourSummary []LabourGroup  `json:"labour_summary,omitempty"`
}

// DispatchLine is one stage-3 line: a packed product leaving with a driver.
type DispatchLine struct {
	Product      string          `json:"product"`
	GrossWeight  decimal.Decimal `json:"gross_weight"`
	PackageCount int             `json:"package_count"`
	TapeName     string          `json:"tape_name"`
	TapeColor    string          `json:"tape_color"`
	TapeQuantity decimal.Decimal `json:"tape_quantity"`
	DriverID     uuid.UUID       `json:"driver_id"`
	Destination  string          `json:"destination"`
	Status       string          `json:"status"`
}

// DriverGroup summarizes stage-3 loads per driver.
type DriverGroup struct {
	DriverID     uuid.UUID `json:"driver_id"`
	DriverName   string    `json:"driver_name"`
	Destinations []string  `json:"destinations"`
}

// DispatchPayload is the stage-3 payload.
type DispatchPayload struct {
	Lines         []DispatchLine `json:"lines"`
	DriverSummary []DriverGroup  `json:"driver_summary,omitempty"`
}

// ReviewRow confirms the market price achieved for one product.
type ReviewRow struct {
	Product     string          `json:"product"`
	MarketPrice decimal.Decimal `json:"market_price"`
}

// ReviewPayload is the terminal stage-4 payload.
type ReviewPayload struct {
	Rows []ReviewRow `json:"rows"`
	Note string      `json:"note,omitempty"`
}

// NormalizeStageStatus maps a client-submitted status onto the canonical
// lowercase form. Unknown values fall back to in_progress.
func NormalizeStageStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case StageStatusCompleted:
		return StageStatusCompleted
	case StageStatusPending, "":
		return StageStatusPending
	default:
		return StageStatusInProgress
	}
}

// IsStageCompleted reports whether a submitted status means completed,
// case-insensitively.
func IsStageCompleted(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), StageStatusCompleted)
}
