package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"floraops/internal/model"
	"floraops/internal/repository"
	ws "floraops/internal/websocket"
	"floraops/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type SellStockRequest struct {
	// StockEntryID references any ledger entry of the product being sold;
	// the sale itself depletes FIFO across all entries of that product.
	StockEntryID    string  `json:"stock_entry_id" binding:"required,uuid"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price" binding:"required,gt=0"`
	BuyerEntityType string  `json:"buyer_entity_type" binding:"required,oneof=FARMER SUPPLIER THIRD_PARTY"`
	BuyerEntityID   string  `json:"buyer_entity_id" binding:"required,uuid"`
}

type StockAvailabilityResponse struct {
	Product string          `json:"product,omitempty"`
	Total   decimal.Decimal `json:"total"`
}

// --- Interface ---

// StockService answers ledger availability queries and performs direct
// stock sales. Unlike stage-2 reuse, a sale is strict: total stock short of
// the requested quantity is a hard error and nothing is mutated.
type StockService interface {
	GetAvailability(ctx context.Context, product string) (StockAvailabilityResponse, error)
	GetAllAvailability(ctx context.Context) ([]repository.ProductTotal, error)
	ListEntries(ctx context.Context, product string) ([]model.StockEntry, error)
	SellStock(ctx context.Context, userID string, req SellStockRequest) (*model.StockSale, error)
}

type stockService struct {
	stockRepo    repository.StockRepository
	saleRepo     repository.StockSaleRepository
	registryRepo repository.RegistryRepository
	auditRepo    repository.AuditRepository
	ledger       StockLedger
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewStockService(
	stockRepo repository.StockRepository,
	saleRepo repository.StockSaleRepository,
	registryRepo repository.RegistryRepository,
	auditRepo repository.AuditRepository,
	ledger StockLedger,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) StockService {
	return &stockService{
		stockRepo:    stockRepo,
		saleRepo:     saleRepo,
		registryRepo: registryRepo,
		auditRepo:    auditRepo,
		ledger:       ledger,
		txManager:    txManager,
		hub:          hub,
	}
}

func (s *stockService) GetAvailability(ctx context.Context, product string) (StockAvailabilityResponse, error) {
	total, err := s.ledger.TotalAvailable(ctx, product)
	if err != nil {
		return StockAvailabilityResponse{}, fmt.Errorf("failed to sum stock: %w", err)
	}
	return StockAvailabilityResponse{Product: product, Total: total}, nil
}

func (s *stockService) GetAllAvailability(ctx context.Context) ([]repository.ProductTotal, error) {
	return s.ledger.TotalsByProduct(ctx)
}

func (s *stockService) ListEntries(ctx context.Context, product string) ([]model.StockEntry, error) {
	return s.stockRepo.List(ctx, product)
}

func (s *stockService) SellStock(ctx context.Context, userID string, req SellStockRequest) (*model.StockSale, error) {
	entryID, err := uuid.Parse(req.StockEntryID)
	if err != nil {
		return nil, apperr.Validationf("invalid stock entry id: %s", req.StockEntryID)
	}
	buyerID, err := uuid.Parse(req.BuyerEntityID)
	if err != nil {
		return nil, apperr.Validationf("invalid buyer entity id: %s", req.BuyerEntityID)
	}

	quantity := decimal.NewFromFloat(req.Quantity).Round(2)
	unitPrice := decimal.NewFromFloat(req.UnitPrice).Round(2)

	var sale *model.StockSale
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		entry, findErr := s.stockRepo.FindByID(txCtx, entryID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("stock entry", req.StockEntryID)
			}
			return fmt.Errorf("failed to load stock entry: %w", findErr)
		}
		product := entry.Product

		buyerName, lookupErr := s.registryRepo.EntityName(txCtx, req.BuyerEntityType, buyerID)
		if lookupErr != nil {
			if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("buyer entity", req.BuyerEntityID)
			}
			return fmt.Errorf("failed to look up buyer: %w", lookupErr)
		}

		// Strict shortfall: unlike stage-2 reuse, a sale of more than the
		// ledger holds fails outright with zero mutation.
		available, sumErr := s.ledger.TotalAvailable(txCtx, product)
		if sumErr != nil {
			return fmt.Errorf("failed to sum stock: %w", sumErr)
		}
		if available.LessThan(quantity) {
			return apperr.Insufficient("insufficient stock of %s: requested %s, available %s",
				product, quantity, available)
		}

		reused, reuseErr := s.ledger.ReuseFromStock(txCtx, product, quantity)
		if reuseErr != nil {
			return reuseErr
		}
		if reused.LessThan(quantity) {
			// Guarded by the availability check above; hitting this means
			// the ledger changed underneath us despite the row locks.
			return apperr.Insufficient("stock of %s depleted concurrently", product)
		}

		sale = &model.StockSale{
			Product:         product,
			Quantity:        quantity,
			UnitPrice:       unitPrice,
			TotalAmount:     quantity.Mul(unitPrice).Round(2),
			BuyerEntityType: req.BuyerEntityType,
			BuyerEntityID:   buyerID,
			BuyerName:       buyerName,
		}
		if createErr := s.saleRepo.Create(txCtx, sale); createErr != nil {
			return fmt.Errorf("failed to create stock sale: %w", createErr)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(map[string]interface{}{
			"product":    product,
			"quantity":   quantity,
			"unit_price": unitPrice,
			"buyer":      buyerName,
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionSellStock,
			EntityID:   sale.ID.String(),
			EntityName: product,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		payload, marshalErr := json.Marshal(WorkflowEvent{
			Event: "stock.sold",
			Data: map[string]interface{}{
				"product":  sale.Product,
				"quantity": sale.Quantity,
			},
		})
		if marshalErr == nil {
			s.hub.Broadcast <- payload
		}
	}

	return sale, nil
}
