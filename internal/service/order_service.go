package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"floraops/internal/model"
	"floraops/internal/repository"
	"floraops/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type OrderItemRequest struct {
	Product       string  `json:"product" binding:"required"`
	NetWeight     float64 `json:"net_weight" binding:"required,gt=0"`
	GrossWeight   float64 `json:"gross_weight" binding:"required,gt=0"`
	PackagingType string  `json:"packaging_type"`
	BoxCount      int     `json:"box_count" binding:"gte=0"`
	PricePerKg    float64 `json:"price_per_kg" binding:"gte=0"`
}

type CreateOrderRequest struct {
	OrderCode    string             `json:"order_code" binding:"required"`
	CustomerName string             `json:"customer_name" binding:"required"`
	OrderType    string             `json:"order_type" binding:"required,oneof=BOX LOCAL FLOWER"`
	RequestedBy  string             `json:"requested_by" binding:"required"` // YYYY-MM-DD
	Note         string             `json:"note"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderService creates and reads the orders the workflow operates on.
// Order editing and deletion live outside the workflow core.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, page, limit int, orderType string) ([]model.Order, int64, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewOrderService(orderRepo repository.OrderRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) OrderService {
	return &orderService{orderRepo: orderRepo, auditRepo: auditRepo, txManager: txManager}
}

func (s *orderService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*model.Order, error) {
	requestedBy, err := time.Parse("2006-01-02", req.RequestedBy)
	if err != nil {
		return nil, apperr.Validationf("invalid requested_by date: %s", req.RequestedBy)
	}

	order := &model.Order{
		OrderCode:    req.OrderCode,
		CustomerName: req.CustomerName,
		OrderType:    req.OrderType,
		RequestedBy:  requestedBy,
		Note:         req.Note,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.orderRepo.Create(txCtx, order); createErr != nil {
			return fmt.Errorf("failed to create order: %w", createErr)
		}

		for _, itemReq := range req.Items {
			item := &model.OrderItem{
				OrderID:       order.ID,
				Product:       itemReq.Product,
				NetWeight:     round2(itemReq.NetWeight),
				GrossWeight:   round2(itemReq.GrossWeight),
				PackagingType: itemReq.PackagingType,
				BoxCount:      itemReq.BoxCount,
				PricePerKg:    round2(itemReq.PricePerKg),
			}
			if createErr := s.orderRepo.CreateItem(txCtx, item); createErr != nil {
				return fmt.Errorf("failed to create order item: %w", createErr)
			}
			order.Items = append(order.Items, *item)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionCreateOrder,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
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

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", id)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, oid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order", id)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int, orderType string) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.orderRepo.List(ctx, page, limit, orderType)
}
