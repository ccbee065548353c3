package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rentit-app/rentit-backend/internal/db"
	apperrors "github.com/rentit-app/rentit-backend/internal/errors"
	"github.com/rentit-app/rentit-backend/internal/middleware"
	"github.com/rentit-app/rentit-backend/internal/models"
)

// VehicleHandler handles vehicle listing requests. Writes are owner scoped:
// an owner only edits their own listings.
type VehicleHandler struct {
	vehicleCollection db.VehicleCollection
	userCollection    db.UserCollection
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleCollection db.VehicleCollection, userCollection db.UserCollection) *VehicleHandler {
	return &VehicleHandler{
		vehicleCollection: vehicleCollection,
		userCollection:    userCollection,
	}
}

type vehicleRequest struct {
	Name                  string `json:"name"`
	PlateNumber           string `json:"plate_number"`
	RentalPrice           int64  `json:"rental_price"`
	Seats                 int    `json:"seats"`
	RentalPriceOutStation int64  `json:"rental_price_out_station"`
	RatePerKm             int64  `json:"rate_per_km"`
	FixedKilometer        int64  `json:"fixed_kilometer"`
	Status                string `json:"status"`
}

func (r *vehicleRequest) validate() error {
	if r.Name == "" {
		return apperrors.Validation("vehicle name is required")
	}
	if r.PlateNumber == "" {
		return apperrors.Validation("plate number is required")
	}
	if r.RentalPrice < 0 || r.RentalPriceOutStation < 0 {
		return apperrors.Validation("rental prices must not be negative")
	}
	if r.RatePerKm < 0 || r.FixedKilometer < 0 {
		return apperrors.Validation("rate per km and fixed kilometer must not be negative")
	}
	if r.Seats <= 0 {
		return apperrors.Validation("seats must be positive")
	}
	return nil
}

// CreateVehicle handles POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	owner, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !owner.CanListVehicles() {
		writeError(w, apperrors.Authorization("only owners may list vehicles"))
		return
	}

	vehicle := models.Vehicle{
		Name:                  req.Name,
		PlateNumber:           req.PlateNumber,
		RentalPrice:           req.RentalPrice,
		Seats:                 req.Seats,
		RentalPriceOutStation: req.RentalPriceOutStation,
		RatePerKm:             req.RatePerKm,
		FixedKilometer:        req.FixedKilometer,
		Owner:                 owner.Snapshot(),
		Status:                req.Status,
	}

	created, err := h.vehicleCollection.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListVehicles handles GET /api/v1/vehicles. Public so prospective renters
// can browse the catalogue.
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	vehicles, err := h.vehicleCollection.FindVehicles(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// GetVehicle handles GET /api/v1/vehicles/{id}
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicleCollection.FindVehicleByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// UpdateVehicle handles PUT /api/v1/vehicles/{id}
func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := h.vehicleCollection.FindVehicleByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.Owner.ID.Hex() != claims.UserID && claims.Role != models.RoleAdmin {
		writeError(w, apperrors.Authorization("only the vehicle owner may update this listing"))
		return
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	updated := *existing
	updated.Name = req.Name
	updated.PlateNumber = req.PlateNumber
	updated.RentalPrice = req.RentalPrice
	updated.Seats = req.Seats
	updated.RentalPriceOutStation = req.RentalPriceOutStation
	updated.RatePerKm = req.RatePerKm
	updated.FixedKilometer = req.FixedKilometer
	if req.Status != "" {
		updated.Status = req.Status
	}

	if err := h.vehicleCollection.UpdateVehicle(r.Context(), id, updated); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteVehicle handles DELETE /api/v1/vehicles/{id}
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := h.vehicleCollection.FindVehicleByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.Owner.ID.Hex() != claims.UserID && claims.Role != models.RoleAdmin {
		writeError(w, apperrors.Authorization("only the vehicle owner may delete this listing"))
		return
	}

	if err := h.vehicleCollection.DeleteVehicle(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
}
