package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/vivekbhola/mystic-prana-web/internal/domain"
	"github.com/vivekbhola/mystic-prana-web/internal/wellness"
)

type WellnessHandler struct {
	store   wellness.Store
	timeout time.Duration
}

func NewWellnessHandler(store wellness.Store, timeout time.Duration) *WellnessHandler {
	return &WellnessHandler{
		store:   store,
		timeout: timeout,
	}
}

// GET /api/services
func (h *WellnessHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	services, err := h.store.ListServices(ctx)
	if err != nil {
		log.Printf("list services failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch services")
		return
	}

	respondJSON(w, http.StatusOK, services)
}

// POST /api/contact
func (h *WellnessHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var inquiry domain.ContactInquiry
	if err := json.NewDecoder(r.Body).Decode(&inquiry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := inquiry.Validate(); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondError(w, http.StatusBadRequest, "invalid_inquiry", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to validate inquiry")
		return
	}

	if err := h.store.CreateInquiry(ctx, &inquiry); err != nil {
		log.Printf("create inquiry failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to submit inquiry")
		return
	}

	respondJSON(w, http.StatusCreated, inquiry)
}

// GET /api/contact
func (h *WellnessHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	inquiries, err := h.store.ListInquiries(ctx)
	if err != nil {
		log.Printf("list inquiries failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch inquiries")
		return
	}

	if inquiries == nil {
		inquiries = []domain.ContactInquiry{}
	}
	respondJSON(w, http.StatusOK, inquiries)
}
