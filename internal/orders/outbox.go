package orders

import (
	"embed"
	"time"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const EventOrderPaid = "order.paid"

// OutboxEvent is a pending order event row; published at least once.
type OutboxEvent struct {
	ID        int64
	EventType string
	Payload   []byte
	CreatedAt time.Time
}
