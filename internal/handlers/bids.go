package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	apperrors "github.com/rentit-app/rentit-backend/internal/errors"
	"github.com/rentit-app/rentit-backend/internal/invoice"
	"github.com/rentit-app/rentit-backend/internal/middleware"
	"github.com/rentit-app/rentit-backend/internal/models"
	"github.com/rentit-app/rentit-backend/internal/service"
)

// BidHandler exposes the bid lifecycle over HTTP. All decisions live in the
// service; the handler only decodes, authenticates and encodes.
type BidHandler struct {
	bidService *service.BidService
}

// NewBidHandler creates a new bid handler
func NewBidHandler(bidService *service.BidService) *BidHandler {
	return &BidHandler{bidService: bidService}
}

type odometerRequest struct {
	Reading int64 `json:"reading"`
}

// CreateBid handles POST /api/v1/bids/{vehicleId}
func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	vehicleID := mux.Vars(r)["vehicleId"]

	var req service.CreateBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	bid, err := h.bidService.CreateBid(r.Context(), claims.UserID, vehicleID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bid)
}

// ApproveBid handles PATCH /api/v1/bids/approve/{id}
func (h *BidHandler) ApproveBid(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	bidID := mux.Vars(r)["id"]

	bid, err := h.bidService.ApproveBid(r.Context(), claims.UserID, bidID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// RejectBid handles PATCH /api/v1/bids/reject/{id}
func (h *BidHandler) RejectBid(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	bidID := mux.Vars(r)["id"]

	bid, err := h.bidService.RejectBid(r.Context(), claims.UserID, bidID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// SetStartOdometer handles PATCH /api/v1/bids/startOdometer/{id}
func (h *BidHandler) SetStartOdometer(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	bidID := mux.Vars(r)["id"]

	var req odometerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.bidService.SetStartOdometer(r.Context(), claims.UserID, bidID, req.Reading); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Start odometer recorded"})
}

// EndTrip handles PATCH /api/v1/bids/endTrip/{id}
func (h *BidHandler) EndTrip(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	bidID := mux.Vars(r)["id"]

	var req odometerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	inv, err := h.bidService.CompleteTrip(r.Context(), claims.UserID, bidID, req.Reading)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// BookedDates handles GET /api/v1/bids/bookedDates/{vehicleId}. Public:
// prospective renters need the blocked windows before they sign up.
func (h *BidHandler) BookedDates(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicleId"]

	dates, err := h.bidService.BookedDates(r.Context(), vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

// UserBids handles GET /api/v1/bids/user
func (h *BidHandler) UserBids(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	status := models.BidStatus(r.URL.Query().Get("status"))

	bids, err := h.bidService.BidsByRenter(r.Context(), claims.UserID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

// OwnerBids handles GET /api/v1/bids/owner
func (h *BidHandler) OwnerBids(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	status := models.BidStatus(r.URL.Query().Get("status"))

	bids, err := h.bidService.BidsByOwner(r.Context(), claims.UserID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

// Invoice handles GET /api/v1/bids/invoice/{id}, streaming the rendered PDF.
func (h *BidHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	bidID := mux.Vars(r)["id"]

	inv, err := h.bidService.GetInvoice(r.Context(), claims.UserID, bidID)
	if err != nil {
		writeError(w, err)
		return
	}

	pdf, err := invoice.Render(inv)
	if err != nil {
		log.WithError(err).WithField("bid_id", bidID).Error("invoice render failed")
		http.Error(w, "Failed to render invoice", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", inv.Number))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
