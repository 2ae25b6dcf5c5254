package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
	"github.com/vivekbhola/mystic-prana-web/internal/orders"
	"github.com/vivekbhola/mystic-prana-web/internal/payment"
)

type orderStoreMock struct {
	created *domain.Order
	order   *domain.Order
	err     error

	paidOrderID   string
	paidPaymentID string
}

func (m *orderStoreMock) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.created = order
	return nil
}

func (m *orderStoreMock) GetOrderByGatewayID(_ context.Context, id string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.order == nil {
		return nil, orders.ErrOrderNotFound
	}
	return m.order, nil
}

func (m *orderStoreMock) MarkPaid(_ context.Context, gatewayOrderID, paymentID string) error {
	if m.err != nil {
		return m.err
	}
	if m.order == nil {
		return orders.ErrOrderNotFound
	}
	m.paidOrderID = gatewayOrderID
	m.paidPaymentID = paymentID
	return nil
}

type gatewayMock struct {
	order     payment.GatewayOrder
	err       error
	verifyOK  bool
	lastProof [3]string
}

func (m *gatewayMock) CreateOrder(context.Context, domain.Money, string) (payment.GatewayOrder, error) {
	if m.err != nil {
		return payment.GatewayOrder{}, m.err
	}
	return m.order, nil
}

func (m *gatewayMock) VerifySignature(orderID, paymentID, signature string) bool {
	m.lastProof = [3]string{orderID, paymentID, signature}
	return m.verifyOK
}

func validCreateOrderBody() CreateOrderRequestDTO {
	return CreateOrderRequestDTO{
		Amount:   120000,
		Currency: "INR",
		CustomerInfo: domain.CustomerInfo{
			Name:  "Asha",
			Email: "asha@example.com",
			Phone: "9999999999",
		},
		CartItems: []domain.CartItem{
			{ProductID: "p1", Name: "Healing Crystal", Price: "₹600", Quantity: 2},
		},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	store := &orderStoreMock{}
	gw := &gatewayMock{order: payment.GatewayOrder{ID: "order_demo_123", Amount: 120000, Currency: "INR"}}
	handler := NewOrderHandler(store, gw, 5*time.Second)

	body, _ := json.Marshal(validCreateOrderBody())
	recorder := httptest.NewRecorder()
	handler.CreateOrder(recorder, httptest.NewRequest("POST", "/api/create-order?session_id=sess-1", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp payment.GatewayOrder
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "order_demo_123", resp.ID)
	assert.Equal(t, int64(120000), resp.Amount)

	require.NotNil(t, store.created)
	assert.Equal(t, "order_demo_123", store.created.GatewayOrderID)
	assert.Equal(t, int64(120000), store.created.AmountMinor)
	assert.Equal(t, domain.OrderStatusCreated, store.created.Status)
	assert.Equal(t, "sess-1", store.created.SessionID)
}

func TestCreateOrder_MissingCustomerName(t *testing.T) {
	handler := NewOrderHandler(&orderStoreMock{}, &gatewayMock{}, 5*time.Second)

	req := validCreateOrderBody()
	req.CustomerInfo.Name = ""
	body, _ := json.Marshal(req)

	recorder := httptest.NewRecorder()
	handler.CreateOrder(recorder, httptest.NewRequest("POST", "/api/create-order", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&resp)
	assert.Equal(t, "invalid_customer_info", resp.Code)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	handler := NewOrderHandler(&orderStoreMock{}, &gatewayMock{}, 5*time.Second)

	req := validCreateOrderBody()
	req.CartItems = nil
	body, _ := json.Marshal(req)

	recorder := httptest.NewRecorder()
	handler.CreateOrder(recorder, httptest.NewRequest("POST", "/api/create-order", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateOrder_GatewayFailure(t *testing.T) {
	gw := &gatewayMock{err: assert.AnError}
	handler := NewOrderHandler(&orderStoreMock{}, gw, 5*time.Second)

	body, _ := json.Marshal(validCreateOrderBody())
	recorder := httptest.NewRecorder()
	handler.CreateOrder(recorder, httptest.NewRequest("POST", "/api/create-order", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestVerifyPayment_Success(t *testing.T) {
	store := &orderStoreMock{order: &domain.Order{GatewayOrderID: "order_1", Status: domain.OrderStatusCreated}}
	gw := &gatewayMock{verifyOK: true}
	handler := NewOrderHandler(store, gw, 5*time.Second)

	body, _ := json.Marshal(VerifyPaymentRequestDTO{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "sig",
	})
	recorder := httptest.NewRecorder()
	handler.VerifyPayment(recorder, httptest.NewRequest("POST", "/api/verify-payment", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "order_1", store.paidOrderID)
	assert.Equal(t, "pay_1", store.paidPaymentID)
}

func TestVerifyPayment_BadSignature(t *testing.T) {
	store := &orderStoreMock{order: &domain.Order{GatewayOrderID: "order_1"}}
	gw := &gatewayMock{verifyOK: false}
	handler := NewOrderHandler(store, gw, 5*time.Second)

	body, _ := json.Marshal(VerifyPaymentRequestDTO{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "forged",
	})
	recorder := httptest.NewRecorder()
	handler.VerifyPayment(recorder, httptest.NewRequest("POST", "/api/verify-payment", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, store.paidOrderID, "a failed verification must not mark the order paid")
}

func TestVerifyPayment_OrderNotFound(t *testing.T) {
	handler := NewOrderHandler(&orderStoreMock{}, &gatewayMock{verifyOK: true}, 5*time.Second)

	body, _ := json.Marshal(VerifyPaymentRequestDTO{
		RazorpayOrderID:   "order_missing",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "sig",
	})
	recorder := httptest.NewRecorder()
	handler.VerifyPayment(recorder, httptest.NewRequest("POST", "/api/verify-payment", bytes.NewReader(body)))

	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestVerifyPayment_MissingFields(t *testing.T) {
	handler := NewOrderHandler(&orderStoreMock{}, &gatewayMock{verifyOK: true}, 5*time.Second)

	body, _ := json.Marshal(VerifyPaymentRequestDTO{RazorpayOrderID: "order_1"})
	recorder := httptest.NewRecorder()
	handler.VerifyPayment(recorder, httptest.NewRequest("POST", "/api/verify-payment", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}
