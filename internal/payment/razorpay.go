package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// RazorpayGateway talks to the Razorpay Orders API. When constructed without
// a key it runs in demo mode: order ids are minted locally with a "demo"
// marker and no request ever leaves the process.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *RazorpayGateway) DemoMode() bool {
	return g.keyID == ""
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount domain.Money, receipt string) (GatewayOrder, error) {
	if g.DemoMode() {
		id := fmt.Sprintf("order_demo_%s", strings.ReplaceAll(uuid.NewString(), "-", "")[:14])
		return GatewayOrder{
			ID:       id,
			Amount:   amount.MinorUnits(),
			Currency: fmt.Sprint(amount.Currency),
		}, nil
	}

	body := map[string]interface{}{
		"amount":   amount.MinorUnits(),
		"currency": fmt.Sprint(amount.Currency),
		"receipt":  receipt,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("gateway order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return GatewayOrder{}, fmt.Errorf("gateway rejected order: status %d: %s", resp.StatusCode, detail)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return GatewayOrder{}, fmt.Errorf("decode order response: %w", err)
	}

	return order, nil
}

// VerifySignature checks the gateway callback proof: HMAC-SHA256 of
// "orderID|paymentID" keyed with the API secret, hex encoded.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
