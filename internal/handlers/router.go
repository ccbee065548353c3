package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rentit-app/rentit-backend/internal/middleware"
	"github.com/rentit-app/rentit-backend/internal/models"
)

// NewRouter builds the HTTP API. Authentication runs on every route; the
// middleware itself knows which paths are public.
func NewRouter(authMW *middleware.AuthMiddleware, rateMW *middleware.RateLimitMiddleware, authH *AuthHandler, bidH *BidHandler, vehicleH *VehicleHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(rateMW.RateLimit(120, 60))
	api.Use(authMW.Authenticate)

	api.HandleFunc("/auth/register", authH.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/profile", authH.GetProfile).Methods(http.MethodGet)

	ownerOnly := authMW.RequireRole(models.RoleOwner)
	api.HandleFunc("/vehicles", vehicleH.ListVehicles).Methods(http.MethodGet)
	api.Handle("/vehicles", ownerOnly(http.HandlerFunc(vehicleH.CreateVehicle))).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}", vehicleH.GetVehicle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", vehicleH.UpdateVehicle).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id}", vehicleH.DeleteVehicle).Methods(http.MethodDelete)

	api.HandleFunc("/bids/bookedDates/{vehicleId}", bidH.BookedDates).Methods(http.MethodGet)
	api.HandleFunc("/bids/user", bidH.UserBids).Methods(http.MethodGet)
	api.HandleFunc("/bids/owner", bidH.OwnerBids).Methods(http.MethodGet)
	api.HandleFunc("/bids/approve/{id}", bidH.ApproveBid).Methods(http.MethodPatch)
	api.HandleFunc("/bids/reject/{id}", bidH.RejectBid).Methods(http.MethodPatch)
	api.HandleFunc("/bids/startOdometer/{id}", bidH.SetStartOdometer).Methods(http.MethodPatch)
	api.HandleFunc("/bids/endTrip/{id}", bidH.EndTrip).Methods(http.MethodPatch)
	api.HandleFunc("/bids/invoice/{id}", bidH.Invoice).Methods(http.MethodGet)
	api.HandleFunc("/bids/{vehicleId}", bidH.CreateBid).Methods(http.MethodPost)

	return r
}
