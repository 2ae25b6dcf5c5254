package wellness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
)

// Store holds the presentation-side content: bookable services and contact
// inquiries.
type Store interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	CreateInquiry(ctx context.Context, inquiry *domain.ContactInquiry) error
	ListInquiries(ctx context.Context) ([]domain.ContactInquiry, error)
}

type mongoStore struct {
	services  *mongo.Collection
	inquiries *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{
		services:  db.Collection("services"),
		inquiries: db.Collection("contact_inquiries"),
	}
}

// ListServices falls back to the built-in catalog when nothing is seeded.
func (s *mongoStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	cursor, err := s.services.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []domain.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	if len(services) == 0 {
		return domain.DefaultServices(), nil
	}
	return services, nil
}

func (s *mongoStore) CreateInquiry(ctx context.Context, inquiry *domain.ContactInquiry) error {
	if inquiry.ID == "" {
		inquiry.ID = uuid.NewString()
	}
	if inquiry.Timestamp.IsZero() {
		inquiry.Timestamp = time.Now().UTC()
	}
	if inquiry.Status == "" {
		inquiry.Status = "new"
	}

	if _, err := s.inquiries.InsertOne(ctx, inquiry); err != nil {
		return fmt.Errorf("failed to insert inquiry: %w", err)
	}
	return nil
}

// ListInquiries returns submitted inquiries, newest first.
func (s *mongoStore) ListInquiries(ctx context.Context) ([]domain.ContactInquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.inquiries.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var inquiries []domain.ContactInquiry
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, fmt.Errorf("failed to decode inquiries: %w", err)
	}
	return inquiries, nil
}
