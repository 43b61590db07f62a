package service

import (
	"context"
	"testing"

	"floraops/internal/model"
	"floraops/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService() (OrderService, *fakeOrderRepo, *fakeAuditRepo) {
	orders := newFakeOrderRepo()
	audits := &fakeAuditRepo{}
	return NewOrderService(orders, audits, fakeTxManager{}), orders, audits
}

func TestCreateOrderPersistsItemsAndAudits(t *testing.T) {
	svc, orders, audits := newOrderService()

	order, err := svc.CreateOrder(context.Background(), uuid.NewString(), CreateOrderRequest{
		OrderCode:    "ORD-2024-001",
		CustomerName: "Hanoi Flower Market",
		OrderType:    model.OrderTypeBox,
		RequestedBy:  "2026-09-03",
		Items: []OrderItemRequest{
			{Product: "Rose", NetWeight: 100, GrossWeight: 110, PackagingType: "BOX", BoxCount: 10},
			{Product: "Tulip", NetWeight: 50, GrossWeight: 55, PackagingType: "BOX", BoxCount: 5},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].NetWeight.Equal(d("100")))
	assert.Equal(t, 2026, order.RequestedBy.Year())

	assert.Len(t, orders.items, 2)
	require.Len(t, audits.logs, 1)
	assert.Equal(t, model.ActionCreateOrder, audits.logs[0].Action)
	assert.Equal(t, "ORD-2024-001", audits.logs[0].EntityName)
}

func TestCreateOrderRejectsBadDate(t *testing.T) {
	svc, _, audits := newOrderService()

	_, err := svc.CreateOrder(context.Background(), uuid.NewString(), CreateOrderRequest{
		OrderCode:    "ORD-2024-002",
		CustomerName: "Hanoi Flower Market",
		OrderType:    model.OrderTypeLocal,
		RequestedBy:  "03/09/2026",
		Items:        []OrderItemRequest{{Product: "Rose", NetWeight: 100, GrossWeight: 110}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, audits.logs)
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _, _ := newOrderService()

	_, err := svc.GetOrder(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetOrderInvalidID(t *testing.T) {
	svc, _, _ := newOrderService()

	_, err := svc.GetOrder(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
