package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"floraops/internal/model"
	"floraops/internal/repository"
	ws "floraops/internal/websocket"
	"floraops/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderTypeProfile captures the small shape differences between order types.
// The stage semantics (budget check, FIFO reuse, tape consumption) are the
// same for all three.
type orderTypeProfile struct {
	hasReview      bool // LOCAL orders end at dispatch
	requiresRoutes bool // BOX collections are grouped into delivery routes
	allowsGrade    bool // FLOWER packing lines carry a grade
}

var orderTypeProfiles = map[string]orderTypeProfile{
	model.OrderTypeBox:    {hasReview: true, requiresRoutes: true},
	model.OrderTypeLocal:  {hasReview: false},
	model.OrderTypeFlower: {hasReview: true, allowsGrade: true},
}

// --- DTOs ---

type CollectionLineRequest struct {
	Product          string  `json:"product" binding:"required"`
	SourceEntityType string  `json:"source_entity_type" binding:"required,oneof=FARMER SUPPLIER THIRD_PARTY"`
	SourceEntityID   string  `json:"source_entity_id" binding:"required,uuid"`
	AssignedQuantity float64 `json:"assigned_quantity" binding:"required,gt=0"`
	AssignedBoxes    int     `json:"assigned_boxes" binding:"gte=0"`
	Price            float64 `json:"price" binding:"gte=0"`
	Status           string  `json:"status"`
}

type DeliveryRouteRequest struct {
	DriverID    string   `json:"driver_id" binding:"required,uuid"`
	Destination string   `json:"destination" binding:"required"`
	Products    []string `json:"products"`
	Status      string   `json:"status"`
}

type SubmitCollectionRequest struct {
	CollectionType string                  `json:"collection_type" binding:"required,oneof=BOX BAG"`
	Lines          []CollectionLineRequest `json:"lines" binding:"required,min=1,dive"`
	Routes         []DeliveryRouteRequest  `json:"routes" binding:"omitempty,dive"`
}

type PackingLineRequest struct {
	Product          string  `json:"product" binding:"required"`
	SourceEntityType string  `json:"source_entity_type" binding:"required,oneof=FARMER SUPPLIER THIRD_PARTY"`
	SourceEntityID   string  `json:"source_entity_id" binding:"required,uuid"`
	Grade            string  `json:"grade"`
	PickedQuantity   float64 `json:"picked_quantity" binding:"gte=0"`
	Wastage          float64 `json:"wastage" binding:"gte=0"`
	PackedAmount     float64 `json:"packed_amount" binding:"gte=0"`
	ReuseRequested   float64 `json:"reuse_requested" binding:"gte=0"`
	Status           string  `json:"status"`
}

type LabourGroupRequest struct {
	LabourerID string   `json:"labourer_id" binding:"required,uuid"`
	Products   []string `json:"products"`
}

type SubmitPackagingRequest struct {
	Lines         []PackingLineRequest `json:"lines" binding:"required,min=1,dive"`
	LabourSummary []LabourGroupRequest `json:"labour_summary" binding:"omitempty,dive"`
}

type DispatchLineRequest struct {
	Product      string  `json:"product" binding:"required"`
	GrossWeight  float64 `json:"gross_weight" binding:"gte=0"`
	PackageCount int     `json:"package_count" binding:"gte=0"`
	TapeName     string  `json:"tape_name"`
	TapeColor    string  `json:"tape_color"`
	TapeQuantity float64 `json:"tape_quantity" binding:"gte=0"`
	DriverID     string  `json:"driver_id" binding:"required,uuid"`
	Destination  string  `json:"destination" binding:"required"`
	Status       string  `json:"status"`
}

type TapeUsageRequest struct {
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Quantity float64 `json:"quantity" binding:"gte=0"`
}

type SubmitDispatchRequest struct {
	Lines     []DispatchLineRequest `json:"lines" binding:"required,min=1,dive"`
	TapeUsage []TapeUsageRequest    `json:"tape_usage" binding:"omitempty,dive"`
	IsEdit    bool                  `json:"is_edit"`
}

type ReviewRowRequest struct {
	Product     string  `json:"product" binding:"required"`
	MarketPrice float64 `json:"market_price"`
}

type SubmitReviewRequest struct {
	Rows []ReviewRowRequest `json:"rows" binding:"required,min=1,dive"`
	Note string             `json:"note"`
}

// --- Interface ---

// AssignmentService is the stage transition engine: it validates a stage
// submission against the order's budgets, runs the allocation algorithms
// against the stock ledger and packaging-material inventory, and persists
// the new assignment state, all inside one transaction.
type AssignmentService interface {
	GetByOrder(ctx context.Context, orderID string) (*model.Assignment, error)
	SubmitCollection(ctx context.Context, userID, orderID string, req SubmitCollectionRequest) (*model.Assignment, error)
	SubmitPackaging(ctx context.Context, userID, orderID string, req SubmitPackagingRequest) (*model.Assignment, error)
	SubmitDispatch(ctx context.Context, userID, orderID string, req SubmitDispatchRequest) (*model.Assignment, error)
	SubmitReview(ctx context.Context, userID, orderID string, req SubmitReviewRequest) (*model.Assignment, error)
}

type assignmentService struct {
	orderRepo      repository.OrderRepository
	assignmentRepo repository.AssignmentRepository
	packagingRepo  repository.PackagingMaterialRepository
	registryRepo   repository.RegistryRepository
	auditRepo      repository.AuditRepository
	ledger         StockLedger
	txManager      repository.TransactionManager
	hub            *ws.Hub
}

func NewAssignmentService(
	orderRepo repository.OrderRepository,
	assignmentRepo repository.AssignmentRepository,
	packagingRepo repository.PackagingMaterialRepository,
	registryRepo repository.RegistryRepository,
	auditRepo repository.AuditRepository,
	ledger StockLedger,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) AssignmentService {
	return &assignmentService{
		orderRepo:      orderRepo,
		assignmentRepo: assignmentRepo,
		packagingRepo:  packagingRepo,
		registryRepo:   registryRepo,
		auditRepo:      auditRepo,
		ledger:         ledger,
		txManager:      txManager,
		hub:            hub,
	}
}

// --- Implementation ---

func (s *assignmentService) GetByOrder(ctx context.Context, orderID string) (*model.Assignment, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", orderID)
	}

	var assignment *model.Assignment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, findErr := s.findOrder(txCtx, oid)
		if findErr != nil {
			return findErr
		}
		assignment, findErr = s.loadOrCreate(txCtx, order)
		return findErr
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) SubmitCollection(ctx context.Context, userID, orderID string, req SubmitCollectionRequest) (*model.Assignment, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", orderID)
	}

	var assignment *model.Assignment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, txErr := s.findOrder(txCtx, oid)
		if txErr != nil {
			return txErr
		}
		profile := orderTypeProfiles[order.OrderType]

		if profile.requiresRoutes && len(req.Routes) == 0 {
			return apperr.Validation("delivery routes are required for box orders")
		}
		if !profile.requiresRoutes && len(req.Routes) > 0 {
			return apperr.Validationf("delivery routes are not applicable to %s orders", order.OrderType)
		}

		assignment, txErr = s.loadOrCreate(txCtx, order)
		if txErr != nil {
			return txErr
		}

		lines := make([]model.CollectionLine, 0, len(req.Lines))
		allDone := true
		for _, lineReq := range req.Lines {
			entityID, parseErr := uuid.Parse(lineReq.SourceEntityID)
			if parseErr != nil {
				return apperr.Validationf("invalid source entity id: %s", lineReq.SourceEntityID)
			}
			exists, lookupErr := s.registryRepo.EntityExists(txCtx, lineReq.SourceEntityType, entityID)
			if lookupErr != nil {
				return fmt.Errorf("failed to check source entity: %w", lookupErr)
			}
			if !exists {
				return apperr.NotFound("source entity", lineReq.SourceEntityID)
			}

			status := model.NormalizeStageStatus(lineReq.Status)
			if !model.IsStageCompleted(status) {
				allDone = false
			}
			lines = append(lines, model.CollectionLine{
				Product:          lineReq.Product,
				SourceEntityType: lineReq.SourceEntityType,
				SourceEntityID:   entityID,
				AssignedQuantity: round2(lineReq.AssignedQuantity),
				AssignedBoxes:    lineReq.AssignedBoxes,
				Price:            round2(lineReq.Price),
				Status:           status,
			})
		}

		routes := make([]model.DeliveryRoute, 0, len(req.Routes))
		for _, routeReq := range req.Routes {
			driverID, parseErr := uuid.Parse(routeReq.DriverID)
			if parseErr != nil {
				return apperr.Validationf("invalid driver id: %s", routeReq.DriverID)
			}
			driverName, lookupErr := s.registryRepo.DriverName(txCtx, driverID)
			if lookupErr != nil {
				if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
					return apperr.NotFound("driver", routeReq.DriverID)
				}
				return fmt.Errorf("failed to look up driver: %w", lookupErr)
			}

			status := model.NormalizeStageStatus(routeReq.Status)
			if !model.IsStageCompleted(status) {
				allDone = false
			}
			routes = append(routes, model.DeliveryRoute{
				DriverID:    driverID,
				DriverName:  driverName,
				Destination: routeReq.Destination,
				Products:    routeReq.Products,
				Status:      status,
			})
		}

		assignment.Collection = &model.CollectionPayload{
			CollectionType: req.CollectionType,
			Lines:          lines,
			Routes:         routes,
		}
		assignment.CollectionStatus = stageStatusFor(allDone)
		s.recomputeOverall(assignment)

		if saveErr := s.assignmentRepo.Save(txCtx, assignment); saveErr != nil {
			return fmt.Errorf("failed to save assignment: %w", saveErr)
		}
		return s.audit(txCtx, userID, model.ActionSubmitCollection, order, req)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("stage.collection", map[string]interface{}{
		"order_id": orderID,
		"status":   assignment.CollectionStatus,
	})
	return assignment, nil
}

// SubmitPackaging runs the stage-2 algorithm: budget validation per product
// group, clear-then-recompute on edit, FIFO reuse against the ledger, and
// leftover recording stamped at processing time.
func (s *assignmentService) SubmitPackaging(ctx context.Context, userID, orderID string, req SubmitPackagingRequest) (*model.Assignment, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", orderID)
	}

	var assignment *model.Assignment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, txErr := s.findOrder(txCtx, oid)
		if txErr != nil {
			return txErr
		}
		profile := orderTypeProfiles[order.OrderType]

		for _, lineReq := range req.Lines {
			if lineReq.Grade != "" && !profile.allowsGrade {
				return apperr.Validationf("grade is not applicable to %s orders", order.OrderType)
			}
			if lineReq.Wastage > lineReq.PickedQuantity {
				return apperr.Validationf("wastage exceeds picked quantity for %s", lineReq.Product)
			}
		}

		assignment, txErr = s.loadOrCreate(txCtx, order)
		if txErr != nil {
			return txErr
		}

		// Quantity budget per product: the order item's requested net weight.
		budgets := make(map[string]decimal.Decimal, len(order.Items))
		for _, item := range order.Items {
			budgets[item.Product] = budgets[item.Product].Add(item.NetWeight)
		}

		// Group submitted lines by product, preserving first-seen order so
		// ledger consumption stays deterministic.
		type groupTotals struct {
			packed decimal.Decimal
			reuse  decimal.Decimal
		}
		groupOrder := make([]string, 0, len(req.Lines))
		groups := make(map[string]*groupTotals, len(req.Lines))
		for _, lineReq := range req.Lines {
			g, ok := groups[lineReq.Product]
			if !ok {
				g = &groupTotals{packed: decimal.Zero, reuse: decimal.Zero}
				groups[lineReq.Product] = g
				groupOrder = append(groupOrder, lineReq.Product)
			}
			g.packed = g.packed.Add(round2(lineReq.PackedAmount))
			g.reuse = g.reuse.Add(round2(lineReq.ReuseRequested))
		}

		// Validate budgets before any mutation: total packing for a product
		// (packed + reuse) must not exceed the order item's net weight.
		for _, product := range groupOrder {
			needed, onOrder := budgets[product]
			if !onOrder {
				return apperr.Validationf("product %s is not on this order", product)
			}
			g := groups[product]
			totalPacking := g.packed.Add(g.reuse)
			if totalPacking.GreaterThan(needed) {
				return apperr.Validation(
					fmt.Sprintf("total packing %s exceeds requested %s", totalPacking, needed),
					product,
				)
			}
		}

		// Any prior stage-2 payload makes this an edit, draft or completed:
		// its recorded leftovers are wiped and the submission recomputed
		// from scratch, never layered on top of the old one.
		if assignment.Packaging != nil {
			if clearErr := s.ledger.ClearForOrder(txCtx, oid); clearErr != nil {
				return clearErr
			}
		}

		// FIFO reuse per product group. Short stock is tolerated: the group
		// simply reuses less than requested.
		reuseApplied := make(map[string]decimal.Decimal, len(groupOrder))
		for _, product := range groupOrder {
			g := groups[product]
			if g.reuse.LessThanOrEqual(decimal.Zero) {
				continue
			}
			applied, reuseErr := s.ledger.ReuseFromStock(txCtx, product, g.reuse)
			if reuseErr != nil {
				return reuseErr
			}
			reuseApplied[product] = applied
		}

		// Record leftovers per line: what was picked minus wastage minus
		// what got packed goes back to the ledger, stamped now so future
		// reuse sees this batch as the newest stock.
		processedAt := time.Now()
		leftoverByProduct := make(map[string]decimal.Decimal, len(groupOrder))
		lines := make([]model.PackingLine, 0, len(req.Lines))
		allDone := true
		for _, lineReq := range req.Lines {
			entityID, parseErr := uuid.Parse(lineReq.SourceEntityID)
			if parseErr != nil {
				return apperr.Validationf("invalid source entity id: %s", lineReq.SourceEntityID)
			}

			picked := round2(lineReq.PickedQuantity)
			wastage := round2(lineReq.Wastage)
			packed := round2(lineReq.PackedAmount)
			revisedPicked := picked.Sub(wastage)
			remainingStock := revisedPicked.Sub(packed)

			entityName, nameErr := s.registryRepo.EntityName(txCtx, lineReq.SourceEntityType, entityID)
			if nameErr != nil {
				if errors.Is(nameErr, gorm.ErrRecordNotFound) {
					return apperr.NotFound("source entity", lineReq.SourceEntityID)
				}
				return fmt.Errorf("failed to look up source entity: %w", nameErr)
			}

			leftover := decimal.Zero
			if remainingStock.GreaterThan(stockEpsilon) {
				if recordErr := s.ledger.RecordLeftover(txCtx, oid, lineReq.Product, lineReq.SourceEntityType, entityName, remainingStock, processedAt); recordErr != nil {
					return recordErr
				}
				leftover = remainingStock.Round(2)
				leftoverByProduct[lineReq.Product] = leftoverByProduct[lineReq.Product].Add(leftover)
			}

			status := model.NormalizeStageStatus(lineReq.Status)
			if !model.IsStageCompleted(status) {
				allDone = false
			}
			lines = append(lines, model.PackingLine{
				Product:          lineReq.Product,
				SourceEntityType: lineReq.SourceEntityType,
				SourceEntityID:   entityID,
				SourceEntityName: entityName,
				Grade:            lineReq.Grade,
				PickedQuantity:   picked,
				Wastage:          wastage,
				PackedAmount:     packed,
				ReuseRequested:   round2(lineReq.ReuseRequested),
				Leftover:         leftover,
				Status:           status,
			})
		}

		groupBreakdown := make([]model.PackingGroup, 0, len(groupOrder))
		for _, product := range groupOrder {
			g := groups[product]
			groupBreakdown = append(groupBreakdown, model.PackingGroup{
				Product:        product,
				QuantityNeeded: budgets[product],
				TotalPacked:    g.packed,
				ReuseRequested: g.reuse,
				ReuseApplied:   reuseApplied[product],
				TotalLeftover:  leftoverByProduct[product],
			})
		}

		labourSummary, summaryErr := s.buildLabourSummary(txCtx, req.LabourSummary)
		if summaryErr != nil {
			return summaryErr
		}

		assignment.Packaging = &model.PackagingPayload{
			Lines:         lines,
			Groups:        groupBreakdown,
			LabourSummary: labourSummary,
		}
		assignment.PackagingStatus = stageStatusFor(allDone)
		s.recomputeOverall(assignment)

		if saveErr := s.assignmentRepo.Save(txCtx, assignment); saveErr != nil {
			return fmt.Errorf("failed to save assignment: %w", saveErr)
		}
		return s.audit(txCtx, userID, model.ActionSubmitPackaging, order, req)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("stock.changed", map[string]interface{}{
		"order_id": orderID,
		"stage":    "packaging",
		"status":   assignment.PackagingStatus,
	})
	return assignment, nil
}

// SubmitDispatch persists stage-3 details and, on first submission only,
// consumes packaging material. Edits deliberately skip consumption so a
// re-save never double-charges inventory.
func (s *assignmentService) SubmitDispatch(ctx context.Context, userID, orderID string, req SubmitDispatchRequest) (*model.Assignment, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", orderID)
	}

	var assignment *model.Assignment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, txErr := s.findOrder(txCtx, oid)
		if txErr != nil {
			return txErr
		}

		assignment, txErr = s.loadOrCreate(txCtx, order)
		if txErr != nil {
			return txErr
		}

		isEdit := req.IsEdit || assignment.Dispatch != nil

		lines := make([]model.DispatchLine, 0, len(req.Lines))
		driverNames := make(map[uuid.UUID]string)
		allDone := true
		for _, lineReq := range req.Lines {
			driverID, parseErr := uuid.Parse(lineReq.DriverID)
			if parseErr != nil {
				return apperr.Validationf("invalid driver id: %s", lineReq.DriverID)
			}
			if _, known := driverNames[driverID]; !known {
				name, lookupErr := s.registryRepo.DriverName(txCtx, driverID)
				if lookupErr != nil {
					if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
						return apperr.NotFound("driver", lineReq.DriverID)
					}
					return fmt.Errorf("failed to look up driver: %w", lookupErr)
				}
				driverNames[driverID] = name
			}

			status := model.NormalizeStageStatus(lineReq.Status)
			if !model.IsStageCompleted(status) {
				allDone = false
			}
			lines = append(lines, model.DispatchLine{
				Product:      lineReq.Product,
				GrossWeight:  round2(lineReq.GrossWeight),
				PackageCount: lineReq.PackageCount,
				TapeName:     lineReq.TapeName,
				TapeColor:    lineReq.TapeColor,
				TapeQuantity: round2(lineReq.TapeQuantity),
				DriverID:     driverID,
				Destination:  lineReq.Destination,
				Status:       status,
			})
		}

		if !isEdit {
			if consumeErr := s.consumeTape(txCtx, req); consumeErr != nil {
				return consumeErr
			}
		}

		assignment.Dispatch = &model.DispatchPayload{
			Lines:         lines,
			DriverSummary: buildDriverSummary(lines, driverNames),
		}
		assignment.DispatchStatus = stageStatusFor(allDone)
		s.recomputeOverall(assignment)

		if saveErr := s.assignmentRepo.Save(txCtx, assignment); saveErr != nil {
			return fmt.Errorf("failed to save assignment: %w", saveErr)
		}
		return s.audit(txCtx, userID, model.ActionSubmitDispatch, order, req)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("stage.dispatch", map[string]interface{}{
		"order_id": orderID,
		"status":   assignment.DispatchStatus,
	})
	return assignment, nil
}

func (s *assignmentService) SubmitReview(ctx context.Context, userID, orderID string, req SubmitReviewRequest) (*model.Assignment, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", orderID)
	}

	var assignment *model.Assignment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, txErr := s.findOrder(txCtx, oid)
		if txErr != nil {
			return txErr
		}
		profile := orderTypeProfiles[order.OrderType]
		if !profile.hasReview {
			return apperr.Validationf("review stage is not applicable to %s orders", order.OrderType)
		}

		var missing []string
		rows := make([]model.ReviewRow, 0, len(req.Rows))
		for _, rowReq := range req.Rows {
			price := round2(rowReq.MarketPrice)
			if price.LessThanOrEqual(decimal.Zero) {
				missing = append(missing, rowReq.Product)
			}
			rows = append(rows, model.ReviewRow{Product: rowReq.Product, MarketPrice: price})
		}
		if len(missing) > 0 {
			return apperr.Validation("market price is required for every reviewed product", missing...)
		}

		assignment, txErr = s.loadOrCreate(txCtx, order)
		if txErr != nil {
			return txErr
		}

		assignment.Review = &model.ReviewPayload{Rows: rows, Note: req.Note}
		assignment.ReviewStatus = model.StageStatusCompleted
		s.recomputeOverall(assignment)

		if saveErr := s.assignmentRepo.Save(txCtx, assignment); saveErr != nil {
			return fmt.Errorf("failed to save assignment: %w", saveErr)
		}
		return s.audit(txCtx, userID, model.ActionSubmitReview, order, req)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("stage.review", map[string]interface{}{
		"order_id": orderID,
		"status":   assignment.ReviewStatus,
	})
	return assignment, nil
}

// --- Helpers ---

func (s *assignmentService) findOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order", id.String())
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

// loadOrCreate implements the upsert-by-order semantics: the assignment
// record appears on first access to an order's workflow.
func (s *assignmentService) loadOrCreate(ctx context.Context, order *model.Order) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByOrderID(ctx, order.ID)
	if err == nil {
		return assignment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	assignment = &model.Assignment{
		OrderID:          order.ID,
		OrderType:        order.OrderType,
		Status:           model.StageStatusPending,
		CollectionStatus: model.StageStatusPending,
		PackagingStatus:  model.StageStatusPending,
		DispatchStatus:   model.StageStatusPending,
		ReviewStatus:     model.StageStatusPending,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return assignment, nil
}

// consumeTape aggregates requested tape usage by name (fallback color) and
// decrements the packaging-material inventory. A missing key or a decrement
// below zero aborts the whole stage transaction.
func (s *assignmentService) consumeTape(ctx context.Context, req SubmitDispatchRequest) error {
	type tapeKey struct {
		name  string
		color string
	}
	order := make([]tapeKey, 0, len(req.Lines))
	usage := make(map[tapeKey]decimal.Decimal)

	add := func(name, color string, qty decimal.Decimal) {
		if qty.LessThanOrEqual(decimal.Zero) || (name == "" && color == "") {
			return
		}
		key := tapeKey{name: name, color: color}
		if _, seen := usage[key]; !seen {
			order = append(order, key)
		}
		usage[key] = usage[key].Add(qty)
	}

	if len(req.TapeUsage) > 0 {
		for _, u := range req.TapeUsage {
			add(u.Name, u.Color, round2(u.Quantity))
		}
	} else {
		for _, line := range req.Lines {
			add(line.TapeName, line.TapeColor, round2(line.TapeQuantity))
		}
	}

	for _, key := range order {
		requested := usage[key]

		material, err := s.packagingRepo.FindByNameForUpdate(ctx, key.name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up packaging material: %w", err)
			}
			if key.color == "" {
				return apperr.NotFound("packaging material", key.name)
			}
			material, err = s.packagingRepo.FindByColorForUpdate(ctx, key.color)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("packaging material", key.name+"/"+key.color)
				}
				return fmt.Errorf("failed to look up packaging material: %w", err)
			}
		}

		newQuantity := material.Quantity.Sub(requested)
		if newQuantity.IsNegative() {
			return apperr.Insufficient("insufficient %s: requested %s, available %s",
				material.Name, requested, material.Quantity)
		}
		if err := s.packagingRepo.UpdateQuantity(ctx, material.ID, newQuantity); err != nil {
			return fmt.Errorf("failed to decrement packaging material: %w", err)
		}
	}

	return nil
}

func (s *assignmentService) buildLabourSummary(ctx context.Context, reqs []LabourGroupRequest) ([]model.LabourGroup, error) {
	summary := make([]model.LabourGroup, 0, len(reqs))
	for _, groupReq := range reqs {
		labourerID, err := uuid.Parse(groupReq.LabourerID)
		if err != nil {
			return nil, apperr.Validationf("invalid labourer id: %s", groupReq.LabourerID)
		}
		name, err := s.registryRepo.LabourerName(ctx, labourerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("labourer", groupReq.LabourerID)
			}
			return nil, fmt.Errorf("failed to look up labourer: %w", err)
		}
		summary = append(summary, model.LabourGroup{
			LabourerID:   labourerID,
			LabourerName: name,
			Products:     groupReq.Products,
		})
	}
	return summary, nil
}

func buildDriverSummary(lines []model.DispatchLine, names map[uuid.UUID]string) []model.DriverGroup {
	order := make([]uuid.UUID, 0, len(names))
	destinations := make(map[uuid.UUID][]string)
	for _, line := range lines {
		if _, seen := destinations[line.DriverID]; !seen {
			order = append(order, line.DriverID)
		}
		destinations[line.DriverID] = append(destinations[line.DriverID], line.Destination)
	}

	summary := make([]model.DriverGroup, 0, len(order))
	for _, driverID := range order {
		summary = append(summary, model.DriverGroup{
			DriverID:     driverID,
			DriverName:   names[driverID],
			Destinations: destinations[driverID],
		})
	}
	return summary
}

// recomputeOverall rolls the per-stage statuses up into the assignment
// status. LOCAL orders complete after dispatch; the rest after review.
func (s *assignmentService) recomputeOverall(a *model.Assignment) {
	profile := orderTypeProfiles[a.OrderType]
	statuses := []string{a.CollectionStatus, a.PackagingStatus, a.DispatchStatus}
	if profile.hasReview {
		statuses = append(statuses, a.ReviewStatus)
	}

	allCompleted := true
	anyStarted := false
	for _, status := range statuses {
		if status != model.StageStatusCompleted {
			allCompleted = false
		}
		if status != model.StageStatusPending {
			anyStarted = true
		}
	}

	switch {
	case allCompleted:
		a.Status = model.StageStatusCompleted
	case anyStarted:
		a.Status = model.StageStatusInProgress
	default:
		a.Status = model.StageStatusPending
	}
}

func (s *assignmentService) audit(ctx context.Context, userID, action string, order *model.Order, details interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}

	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   order.ID.String(),
		EntityName: order.OrderCode,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// WorkflowEvent is the websocket payload broadcast after a committed change.
type WorkflowEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

func (s *assignmentService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(WorkflowEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func stageStatusFor(allDone bool) string {
	if allDone {
		return model.StageStatusCompleted
	}
	return model.StageStatusInProgress
}

func round2(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
