package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service is a bookable offering shown on the services page.
type Service struct {
	ID          string   `bson:"id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description" json:"description"`
	Duration    string   `bson:"duration" json:"duration"`
	PriceRange  string   `bson:"price_range,omitempty" json:"price_range,omitempty"`
	Benefits    []string `bson:"benefits" json:"benefits"`
	IsActive    bool     `bson:"is_active" json:"is_active"`
}

// DefaultServices is served when no services are seeded in the database yet.
func DefaultServices() []Service {
	return []Service{
		{
			ID:          uuid.NewString(),
			Name:        "Energy Healing Sessions",
			Description: "Personalized energy healing sessions to restore balance and promote natural healing.",
			Duration:    "60-90 minutes",
			Benefits:    []string{"Stress relief", "Energy balance", "Emotional healing", "Physical wellness"},
			IsActive:    true,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Group Meditation",
			Description: "Join our weekly group meditation sessions for community healing and shared spiritual growth.",
			Duration:    "45 minutes",
			Benefits:    []string{"Community connection", "Guided practice", "Spiritual growth", "Inner peace"},
			IsActive:    true,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Chakra Balancing",
			Description: "Specialized chakra alignment and balancing therapy to harmonize your energy centers.",
			Duration:    "75 minutes",
			Benefits:    []string{"Energy alignment", "Chakra balance", "Spiritual clarity", "Physical vitality"},
			IsActive:    true,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Wellness Consultation",
			Description: "Comprehensive wellness assessment and personalized healing plan development.",
			Duration:    "90 minutes",
			Benefits:    []string{"Personalized plan", "Holistic assessment", "Goal setting", "Ongoing support"},
			IsActive:    true,
		},
	}
}

type ContactInquiry struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Email           string    `bson:"email" json:"email"`
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject         string    `bson:"subject" json:"subject"`
	Message         string    `bson:"message" json:"message"`
	ServiceInterest string    `bson:"service_interest,omitempty" json:"service_interest,omitempty"`
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
	Status          string    `bson:"status" json:"status"`
}

func (c ContactInquiry) Validate() error {
	if l := len(c.Name); l < 2 || l > 100 {
		return fmt.Errorf("%w: name must be 2-100 characters", ErrValidation)
	}
	if !strings.Contains(c.Email, "@") {
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	if len(c.Phone) > 20 {
		return fmt.Errorf("%w: phone must be at most 20 characters", ErrValidation)
	}
	if l := len(c.Subject); l < 5 || l > 200 {
		return fmt.Errorf("%w: subject must be 5-200 characters", ErrValidation)
	}
	if l := len(c.Message); l < 10 || l > 1000 {
		return fmt.Errorf("%w: message must be 10-1000 characters", ErrValidation)
	}
	return nil
}
