package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  string
	}{
		{"rupee symbol", "₹600", "600"},
		{"dollar symbol", "$12.50", "12.5"},
		{"plain number", "99", "99"},
		{"with decimals", "₹1299.99", "1299.99"},
		{"empty string", "", "0"},
		{"symbols only", "₹$", "0"},
		{"with spaces", "₹ 600", "600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, ParsePrice(tt.price).Equal(want),
				"ParsePrice(%q) = %s, want %s", tt.price, ParsePrice(tt.price), want)
		})
	}
}

func TestCartTotal(t *testing.T) {
	cart := &Cart{
		SessionID: "s1",
		Items: []CartItem{
			{ProductID: "p1", Price: "₹600", Quantity: 2},
			{ProductID: "p2", Price: "$12.50", Quantity: 1},
		},
	}

	assert.True(t, cart.Total().Equal(decimal.NewFromFloat(1212.5)), "got %s", cart.Total())
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCartTotalEmpty(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	assert.True(t, cart.Total().IsZero())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestMoneyMinorUnits(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(1200.00), "INR")
	require.NoError(t, err)
	assert.Equal(t, int64(120000), m.MinorUnits())

	m, err = NewMoney(decimal.NewFromFloat(99.995), "INR")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), m.MinorUnits()) // rounds, not truncates
}

func TestNewMoneyRejectsUnknownCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(1), "NOPE")
	assert.Error(t, err)
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, CanTransitionTo(OrderStatusCreated, OrderStatusPaid))
	assert.True(t, CanTransitionTo(OrderStatusCreated, OrderStatusCancelled))
	assert.True(t, CanTransitionTo(OrderStatusCreated, OrderStatusFailed))
	assert.False(t, CanTransitionTo(OrderStatusPaid, OrderStatusFailed))
	assert.False(t, CanTransitionTo(OrderStatusFailed, OrderStatusPaid))
	assert.False(t, CanTransitionTo(OrderStatusCreated, OrderStatusCreated))

	assert.True(t, OrderStatusPaid.IsTerminal())
	assert.False(t, OrderStatusCreated.IsTerminal())
}

func TestIsDemoOrderID(t *testing.T) {
	assert.True(t, IsDemoOrderID("order_demo_123"))
	assert.False(t, IsDemoOrderID("order_Nx7Qb2"))
}

func TestCustomerInfoValidate(t *testing.T) {
	valid := CustomerInfo{Name: "Asha", Email: "asha@example.com", Phone: "9999999999"}
	assert.NoError(t, valid.Validate())

	for _, tt := range []struct {
		name string
		info CustomerInfo
	}{
		{"missing name", CustomerInfo{Email: "a@b.c", Phone: "1"}},
		{"missing email", CustomerInfo{Name: "A", Phone: "1"}},
		{"missing phone", CustomerInfo{Name: "A", Email: "a@b.c"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestContactInquiryValidate(t *testing.T) {
	valid := ContactInquiry{
		Name:    "Asha",
		Email:   "asha@example.com",
		Subject: "Booking a session",
		Message: "I would like to book a chakra balancing session.",
	}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.Subject = "Hi"
	assert.ErrorIs(t, invalid.Validate(), ErrValidation)

	invalid = valid
	invalid.Message = "too short"
	assert.ErrorIs(t, invalid.Validate(), ErrValidation)
}
