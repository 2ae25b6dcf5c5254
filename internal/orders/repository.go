package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already exists for this gateway order id")
)

type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) error
	GetUnpublishedEvents(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkEventPublished(ctx context.Context, id int64) error
	Close() error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not load embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer info: %w", err)
	}

	query := `INSERT INTO orders (id, session_id, gateway_order_id, amount_minor, currency, status, customer, items, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		order.SessionID,
		order.GatewayOrderID,
		order.AmountMinor,
		order.Currency,
		order.Status,
		customerJSON,
		itemsJSON)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func (r *Repository) GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	query := `SELECT id, session_id, gateway_order_id, amount_minor, currency, status, customer, items, COALESCE(payment_id, ''), created_at, updated_at
	          FROM orders WHERE gateway_order_id = $1`

	var order domain.Order
	var customerJSON, itemsJSON []byte
	err := r.db.QueryRowContext(ctx, query, gatewayOrderID).Scan(
		&order.ID,
		&order.SessionID,
		&order.GatewayOrderID,
		&order.AmountMinor,
		&order.Currency,
		&order.Status,
		&customerJSON,
		&itemsJSON,
		&order.PaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by gateway id: %w", err)
	}

	if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer info: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}

	return &order, nil
}

// MarkPaid flips the order to PAID and stages an order.paid outbox event in
// the same transaction. Illegal transitions (already terminal) are rejected.
func (r *Repository) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) error {
	order, err := r.GetOrderByGatewayID(ctx, gatewayOrderID)
	if err != nil {
		return err
	}
	if !domain.CanTransitionTo(order.Status, domain.OrderStatusPaid) {
		return fmt.Errorf("cannot mark order %s paid from status %s", gatewayOrderID, order.Status)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, payment_id = $2, updated_at = NOW()
		 WHERE gateway_order_id = $3 AND status = $4`,
		domain.OrderStatusPaid, paymentID, gatewayOrderID, domain.OrderStatusCreated)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("cannot mark order %s paid: concurrent status change", gatewayOrderID)
	}

	payload := map[string]interface{}{
		"order_id":         order.ID,
		"gateway_order_id": gatewayOrderID,
		"session_id":       order.SessionID,
		"payment_id":       paymentID,
		"amount_minor":     order.AmountMinor,
		"currency":         order.Currency,
		"customer":         order.Customer,
		"items":            order.Items,
		"paid_at":          time.Now().UTC(),
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_outbox (event_type, payload, created_at) VALUES ($1, $2, NOW())`,
		EventOrderPaid, payloadJSON)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) GetUnpublishedEvents(ctx context.Context, limit int) ([]OutboxEvent, error) {
	query := `SELECT id, event_type, payload, created_at
	          FROM order_outbox WHERE published_at IS NULL
	          ORDER BY id ASC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func (r *Repository) MarkEventPublished(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE order_outbox SET published_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark event published: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// NewOrder builds a persistable order from a create-order request.
func NewOrder(sessionID, gatewayOrderID string, amount domain.Money, customer domain.CustomerInfo, items []domain.CartItem) *domain.Order {
	now := time.Now()
	return &domain.Order{
		ID:             uuid.New(),
		SessionID:      sessionID,
		GatewayOrderID: gatewayOrderID,
		AmountMinor:    amount.MinorUnits(),
		Currency:       fmt.Sprint(amount.Currency),
		Status:         domain.OrderStatusCreated,
		Customer:       customer,
		Items:          items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
