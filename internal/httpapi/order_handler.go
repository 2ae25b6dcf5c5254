package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
	"github.com/vivekbhola/mystic-prana-web/internal/orders"
	"github.com/vivekbhola/mystic-prana-web/internal/payment"
)

// OrderStore is what the payment endpoints need from the orders layer.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) error
}

type OrderHandler struct {
	store   OrderStore
	gateway payment.Gateway
	timeout time.Duration
}

func NewOrderHandler(store OrderStore, gateway payment.Gateway, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		store:   store,
		gateway: gateway,
		timeout: timeout,
	}
}

type CreateOrderRequestDTO struct {
	Amount       int64               `json:"amount"` // minor units
	Currency     string              `json:"currency"`
	CustomerInfo domain.CustomerInfo `json:"customer_info"`
	CartItems    []domain.CartItem   `json:"cart_items"`
}

type VerifyPaymentRequestDTO struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// POST /api/create-order
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := req.CustomerInfo.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_customer_info", err.Error())
		return
	}
	if len(req.CartItems) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty, nothing to order")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	amount, err := domain.NewMoney(decimal.NewFromInt(req.Amount).Div(decimal.NewFromInt(100)), req.Currency)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_currency", err.Error())
		return
	}

	sessionID := r.URL.Query().Get("session_id")

	gatewayOrder, err := h.gateway.CreateOrder(ctx, amount, sessionID)
	if err != nil {
		log.Printf("gateway create order failed: %v", err)
		respondError(w, http.StatusBadGateway, "gateway_error", "failed to create payment order")
		return
	}

	order := orders.NewOrder(sessionID, gatewayOrder.ID, amount, req.CustomerInfo, req.CartItems)
	if err := h.store.CreateOrder(ctx, order); err != nil {
		log.Printf("persist order failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to record order")
		return
	}

	respondJSON(w, http.StatusOK, gatewayOrder)
}

// POST /api/verify-payment
func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req VerifyPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order id, payment id and signature are required")
		return
	}

	if !h.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		respondError(w, http.StatusBadRequest, "verification_failed", "payment signature verification failed")
		return
	}

	err := h.store.MarkPaid(ctx, req.RazorpayOrderID, req.RazorpayPaymentID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		log.Printf("mark order paid failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to record payment")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
