package service

import (
	"context"
	"sort"

	"floraops/internal/model"
	"floraops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. The fake transaction manager
// just runs the function; tests that assert zero mutation rely on the engine
// failing before it writes, which is the property under test.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeStockRepo struct {
	entries []model.StockEntry
	seq     map[uuid.UUID]int
	nextSeq int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{seq: make(map[uuid.UUID]int)}
}

func (r *fakeStockRepo) Create(_ context.Context, entry *model.StockEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.nextSeq++
	r.seq[entry.ID] = r.nextSeq
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeStockRepo) Update(_ context.Context, entry *model.StockEntry) error {
	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			r.entries[i] = *entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeStockRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockEntry, error) {
	for i := range r.entries {
		if r.entries[i].ID == id {
			entry := r.entries[i]
			return &entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStockRepo) ListByProductFIFO(_ context.Context, product string) ([]model.StockEntry, error) {
	var out []model.StockEntry
	for _, entry := range r.entries {
		if entry.Product == product {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})
	return out, nil
}

func (r *fakeStockRepo) List(ctx context.Context, product string) ([]model.StockEntry, error) {
	if product == "" {
		out := make([]model.StockEntry, len(r.entries))
		copy(out, r.entries)
		return out, nil
	}
	return r.ListByProductFIFO(ctx, product)
}

func (r *fakeStockRepo) DeleteByOrder(_ context.Context, orderID uuid.UUID) error {
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.OrderID != orderID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}

func (r *fakeStockRepo) SumByProduct(_ context.Context, product string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, entry := range r.entries {
		if entry.Product == product {
			total = total.Add(entry.Quantity)
		}
	}
	return total, nil
}

func (r *fakeStockRepo) SumAll(_ context.Context) ([]repository.ProductTotal, error) {
	totals := make(map[string]decimal.Decimal)
	var products []string
	for _, entry := range r.entries {
		if _, seen := totals[entry.Product]; !seen {
			products = append(products, entry.Product)
		}
		totals[entry.Product] = totals[entry.Product].Add(entry.Quantity)
	}
	sort.Strings(products)
	out := make([]repository.ProductTotal, 0, len(products))
	for _, product := range products {
		out = append(out, repository.ProductTotal{Product: product, Total: totals[product]})
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	byOrder map[uuid.UUID]*model.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{byOrder: make(map[uuid.UUID]*model.Assignment)}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	r.byOrder[assignment.OrderID] = assignment
	return nil
}

func (r *fakeAssignmentRepo) Save(_ context.Context, assignment *model.Assignment) error {
	r.byOrder[assignment.OrderID] = assignment
	return nil
}

func (r *fakeAssignmentRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*model.Assignment, error) {
	assignment, ok := r.byOrder[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

type fakePackagingRepo struct {
	materials []*model.PackagingMaterial
}

func (r *fakePackagingRepo) FindByNameForUpdate(_ context.Context, name string) (*model.PackagingMaterial, error) {
	for _, material := range r.materials {
		if material.Name == name {
			return material, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePackagingRepo) FindByColorForUpdate(_ context.Context, color string) (*model.PackagingMaterial, error) {
	var match *model.PackagingMaterial
	for _, material := range r.materials {
		if material.Color == color && (match == nil || material.Name < match.Name) {
			match = material
		}
	}
	if match == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return match, nil
}

func (r *fakePackagingRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	for _, material := range r.materials {
		if material.ID == id {
			material.Quantity = quantity
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePackagingRepo) List(_ context.Context) ([]model.PackagingMaterial, error) {
	out := make([]model.PackagingMaterial, 0, len(r.materials))
	for _, material := range r.materials {
		out = append(out, *material)
	}
	return out, nil
}

func (r *fakePackagingRepo) Create(_ context.Context, material *model.PackagingMaterial) error {
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	r.materials = append(r.materials, material)
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	items  []model.OrderItem
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) CreateItem(_ context.Context, item *model.OrderItem) error {
	if _, ok := r.orders[item.OrderID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeOrderRepo) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _, _ int, orderType string) ([]model.Order, int64, error) {
	var out []model.Order
	for _, order := range r.orders {
		if orderType == "" || order.OrderType == orderType {
			out = append(out, *order)
		}
	}
	return out, int64(len(out)), nil
}

type fakeRegistryRepo struct {
	entities  map[string]string // type/id -> name
	drivers   map[uuid.UUID]string
	labourers map[uuid.UUID]string
}

func newFakeRegistryRepo() *fakeRegistryRepo {
	return &fakeRegistryRepo{
		entities:  make(map[string]string),
		drivers:   make(map[uuid.UUID]string),
		labourers: make(map[uuid.UUID]string),
	}
}

func (r *fakeRegistryRepo) addEntity(entityType string, id uuid.UUID, name string) {
	r.entities[entityType+"/"+id.String()] = name
}

func (r *fakeRegistryRepo) EntityName(_ context.Context, entityType string, id uuid.UUID) (string, error) {
	name, ok := r.entities[entityType+"/"+id.String()]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return name, nil
}

func (r *fakeRegistryRepo) EntityExists(_ context.Context, entityType string, id uuid.UUID) (bool, error) {
	_, ok := r.entities[entityType+"/"+id.String()]
	return ok, nil
}

func (r *fakeRegistryRepo) DriverName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := r.drivers[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return name, nil
}

func (r *fakeRegistryRepo) LabourerName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := r.labourers[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return name, nil
}

type fakeStockSaleRepo struct {
	sales []model.StockSale
}

func (r *fakeStockSaleRepo) Create(_ context.Context, sale *model.StockSale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.sales = append(r.sales, *sale)
	return nil
}

func (r *fakeStockSaleRepo) List(_ context.Context, _, _ int) ([]model.StockSale, int64, error) {
	return r.sales, int64(len(r.sales)), nil
}

type fakeAuditRepo struct {
	logs []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return r.logs, int64(len(r.logs)), nil
}
