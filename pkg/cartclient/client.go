package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

var (
	// ErrNetworkFailure covers requests that never completed: connection
	// refused, DNS failure, timeout.
	ErrNetworkFailure = errors.New("network failure")
	// ErrServerRejected covers non-2xx responses from the backend.
	ErrServerRejected = errors.New("server rejected request")
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP client for the storefront API. Idempotent reads get a
// single retry with backoff; writes never retry (no idempotency keys on the
// cart endpoints).
type Client struct {
	baseURL string
	reads   *retryablehttp.Client
	writes  *http.Client
}

func New(baseURL string) *Client {
	reads := retryablehttp.NewClient()
	reads.RetryMax = 1
	reads.RetryWaitMin = 200 * time.Millisecond
	reads.RetryWaitMax = time.Second
	reads.HTTPClient.Timeout = defaultTimeout
	reads.Logger = nil

	return &Client{
		baseURL: baseURL,
		reads:   reads,
		writes:  &http.Client{Timeout: defaultTimeout},
	}
}

// CartResponse mirrors GET /api/cart/{sessionID}.
type CartResponse struct {
	Items       []domain.CartItem `json:"items"`
	TotalAmount float64           `json:"total_amount"`
}

// Order is the payment order descriptor issued by /api/create-order.
// Amount is in minor currency units.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type CreateOrderRequest struct {
	Amount       int64               `json:"amount"`
	Currency     string              `json:"currency"`
	CustomerInfo domain.CustomerInfo `json:"customer_info"`
	CartItems    []domain.CartItem   `json:"cart_items"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (c *Client) GetCart(ctx context.Context, sessionID string) (CartResponse, error) {
	var cart CartResponse

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/cart/%s", c.baseURL, sessionID), nil)
	if err != nil {
		return cart, fmt.Errorf("build cart request: %w", err)
	}

	resp, err := c.reads.Do(req)
	if err != nil {
		return cart, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cart, rejectionError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return cart, fmt.Errorf("decode cart response: %w", err)
	}
	return cart, nil
}

func (c *Client) AddItem(ctx context.Context, sessionID string, item domain.CartItem) error {
	url := fmt.Sprintf("%s/api/cart?session_id=%s", c.baseURL, sessionID)
	return c.write(ctx, http.MethodPost, url, item, http.StatusCreated)
}

func (c *Client) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	url := fmt.Sprintf("%s/api/cart/%s/item/%s", c.baseURL, sessionID, productID)
	body := map[string]int{"quantity": quantity}
	return c.write(ctx, http.MethodPut, url, body, http.StatusOK)
}

func (c *Client) RemoveItem(ctx context.Context, sessionID, productID string) error {
	url := fmt.Sprintf("%s/api/cart/%s/item/%s", c.baseURL, sessionID, productID)
	return c.write(ctx, http.MethodDelete, url, nil, http.StatusOK)
}

func (c *Client) ClearCart(ctx context.Context, sessionID string) error {
	url := fmt.Sprintf("%s/api/cart/%s", c.baseURL, sessionID)
	return c.write(ctx, http.MethodDelete, url, nil, http.StatusOK)
}

func (c *Client) CreateOrder(ctx context.Context, sessionID string, req CreateOrderRequest) (Order, error) {
	var order Order

	payload, err := json.Marshal(req)
	if err != nil {
		return order, fmt.Errorf("marshal order request: %w", err)
	}

	url := fmt.Sprintf("%s/api/create-order?session_id=%s", c.baseURL, sessionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return order, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.writes.Do(httpReq)
	if err != nil {
		return order, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return order, rejectionError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return order, fmt.Errorf("decode order response: %w", err)
	}
	return order, nil
}

func (c *Client) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) error {
	url := fmt.Sprintf("%s/api/verify-payment", c.baseURL)
	return c.write(ctx, http.MethodPost, url, req, http.StatusOK)
}

func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/services", nil)
	if err != nil {
		return nil, fmt.Errorf("build services request: %w", err)
	}

	resp, err := c.reads.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, rejectionError(resp)
	}

	var services []domain.Service
	if err := json.NewDecoder(resp.Body).Decode(&services); err != nil {
		return nil, fmt.Errorf("decode services response: %w", err)
	}
	return services, nil
}

func (c *Client) write(ctx context.Context, method, url string, body interface{}, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.writes.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return rejectionError(resp)
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

func rejectionError(resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: status %d: %s", ErrServerRejected, resp.StatusCode, bytes.TrimSpace(detail))
}
