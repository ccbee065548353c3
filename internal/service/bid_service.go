package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/rentit-app/rentit-backend/internal/db"
	apperrors "github.com/rentit-app/rentit-backend/internal/errors"
	"github.com/rentit-app/rentit-backend/internal/models"
	"github.com/rentit-app/rentit-backend/internal/notify"
)

// CreateBidRequest carries the renter's offer for a vehicle.
type CreateBidRequest struct {
	Amount       int64     `json:"amount"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	IsOutStation bool      `json:"is_out_station"`
}

// BidService orchestrates the bid lifecycle: placement, the approval sweep,
// odometer capture and trip settlement. Persistence goes through the
// collection interfaces; notifications are fire-and-forget through the
// dispatcher.
type BidService struct {
	bids       db.BidCollection
	vehicles   db.VehicleCollection
	users      db.UserCollection
	invoices   db.InvoiceCollection
	dispatcher notify.Dispatcher
}

// NewBidService wires the service. A nil dispatcher is replaced with a no-op
// one so callers never have to check.
func NewBidService(bids db.BidCollection, vehicles db.VehicleCollection, users db.UserCollection, invoices db.InvoiceCollection, dispatcher notify.Dispatcher) *BidService {
	if dispatcher == nil {
		dispatcher = notify.NopDispatcher{}
	}
	return &BidService{
		bids:       bids,
		vehicles:   vehicles,
		users:      users,
		invoices:   invoices,
		dispatcher: dispatcher,
	}
}

// CreateBid validates the offer, snapshots the vehicle and renter, and stores
// the bid as pending. The snapshots are taken here and never refreshed.
func (s *BidService) CreateBid(ctx context.Context, renterID, vehicleID string, req CreateBidRequest) (*models.Bid, error) {
	if req.Amount < models.MinBidAmount || req.Amount > models.MaxBidAmount {
		return nil, apperrors.Validation("bid amount must be between %d and %d", models.MinBidAmount, models.MaxBidAmount)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, apperrors.Validation("start date and end date are required")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.Validation("end date must be after start date")
	}

	vehicle, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	renter, err := s.users.FindUserByID(ctx, renterID)
	if err != nil {
		return nil, err
	}
	if renter.ID == vehicle.Owner.ID {
		return nil, apperrors.Validation("owners cannot bid on their own vehicles")
	}

	bid := models.Bid{
		Amount:       req.Amount,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsOutStation: req.IsOutStation,
		User:         renter.Snapshot(),
		Vehicle:      vehicle.Snapshot(),
	}
	return s.bids.InsertBid(ctx, bid)
}

// ApproveBid approves the bid on behalf of the vehicle's owner. In the same
// transaction every other pending bid on the vehicle whose window overlaps the
// approved window is rejected; each affected renter is notified.
func (s *BidService) ApproveBid(ctx context.Context, actorID, bidID string) (*models.Bid, error) {
	bid, err := s.bids.FindBidByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(bid, actorID); err != nil {
		return nil, err
	}

	approved, rejected, err := s.bids.ApproveAndRejectOverlapping(ctx, bidID)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Submit(eventFor(notify.EventBidApproved, approved))
	for i := range rejected {
		s.dispatcher.Submit(eventFor(notify.EventBidRejected, &rejected[i]))
	}
	if len(rejected) > 0 {
		log.WithFields(log.Fields{
			"bid_id":   bidID,
			"rejected": len(rejected),
		}).Info("approval swept overlapping pending bids")
	}
	return approved, nil
}

// RejectBid rejects a pending bid on behalf of the vehicle's owner. Rejecting
// a bid that is already rejected or approved is a conflict, not a no-op.
func (s *BidService) RejectBid(ctx context.Context, actorID, bidID string) (*models.Bid, error) {
	bid, err := s.bids.FindBidByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(bid, actorID); err != nil {
		return nil, err
	}
	if bid.Status != models.BidStatusPending {
		return nil, apperrors.Conflict("bid %s is %s, only pending bids can be rejected", bidID, bid.Status)
	}

	updated, err := s.bids.UpdateBidStatus(ctx, bidID, models.BidStatusRejected)
	if err != nil {
		return nil, err
	}
	s.dispatcher.Submit(eventFor(notify.EventBidRejected, updated))
	return updated, nil
}

// SetStartOdometer records the reading taken at handover. Only the vehicle's
// owner may record readings, and only on an approved bid.
func (s *BidService) SetStartOdometer(ctx context.Context, actorID, bidID string, reading int64) error {
	bid, err := s.bids.FindBidByID(ctx, bidID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(bid, actorID); err != nil {
		return err
	}
	if bid.Status != models.BidStatusApproved {
		return apperrors.Conflict("bid %s is %s, odometer readings require an approved bid", bidID, bid.Status)
	}
	if bid.TripCompleted {
		return apperrors.Conflict("trip for bid %s is already completed", bidID)
	}
	if reading < 0 {
		return apperrors.Validation("odometer reading must not be negative")
	}
	return s.bids.SetStartOdometer(ctx, bidID, reading)
}

// SetFinalOdometer records the return reading without settling. Most callers
// use CompleteTrip, which records and settles in one step; this exists for
// flows that capture the reading at drop-off and invoice later.
func (s *BidService) SetFinalOdometer(ctx context.Context, actorID, bidID string, reading int64) error {
	bid, err := s.bids.FindBidByID(ctx, bidID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(bid, actorID); err != nil {
		return err
	}
	if bid.Status != models.BidStatusApproved {
		return apperrors.Conflict("bid %s is %s, odometer readings require an approved bid", bidID, bid.Status)
	}
	if bid.TripCompleted {
		return apperrors.Conflict("trip for bid %s is already completed", bidID)
	}
	return s.bids.SetFinalOdometer(ctx, bidID, reading)
}

// CompleteTrip records the final odometer reading, settles the trip, stores
// the invoice and marks the bid completed. Settlement is pure; only the
// persisted invoice and the completion flag change state.
func (s *BidService) CompleteTrip(ctx context.Context, actorID, bidID string, finalReading int64) (*models.Invoice, error) {
	bid, err := s.bids.FindBidByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(bid, actorID); err != nil {
		return nil, err
	}
	if bid.Status != models.BidStatusApproved {
		return nil, apperrors.Conflict("bid %s is %s, only approved bids can be completed", bidID, bid.Status)
	}
	if bid.TripCompleted {
		return nil, apperrors.Conflict("trip for bid %s is already completed", bidID)
	}
	if bid.StartOdometer == nil {
		return nil, apperrors.Validation("start odometer must be recorded before the trip can be completed")
	}

	if err := s.bids.SetFinalOdometer(ctx, bidID, finalReading); err != nil {
		return nil, err
	}

	settlement, err := Settle(SettlementInput{
		StartDate:            bid.StartDate,
		EndDate:              bid.EndDate,
		StartOdometer:        *bid.StartOdometer,
		FinalOdometer:        finalReading,
		FixedKilometerPerDay: bid.Vehicle.FixedKilometer,
		RatePerKm:            bid.Vehicle.RatePerKm,
		BaseAmount:           bid.Amount,
	})
	if err != nil {
		return nil, err
	}

	invoice := models.Invoice{
		Number:         uuid.NewString(),
		BidID:          bid.ID,
		OwnerName:      bid.Vehicle.Owner.Username,
		OwnerEmail:     bid.Vehicle.Owner.Email,
		RenterName:     bid.User.Username,
		RenterEmail:    bid.User.Email,
		VehicleName:    bid.Vehicle.Name,
		PlateNumber:    bid.Vehicle.PlateNumber,
		StartDate:      bid.StartDate,
		EndDate:        bid.EndDate,
		NoOfDays:       settlement.NoOfDays,
		StartOdometer:  *bid.StartOdometer,
		FinalOdometer:  finalReading,
		TotalDistance:  settlement.TotalDistance,
		FixedKilometer: bid.Vehicle.FixedKilometer,
		ExtraKilometer: settlement.ExtraDistance,
		RatePerKm:      bid.Vehicle.RatePerKm,
		ExtraAmount:    settlement.ExtraAmount,
		BaseAmount:     bid.Amount,
		TotalAmount:    settlement.TotalAmount,
	}
	stored, err := s.invoices.InsertInvoice(ctx, invoice)
	if err != nil {
		return nil, err
	}

	if err := s.bids.MarkTripCompleted(ctx, bidID, stored.ID, settlement.TotalAmount); err != nil {
		return nil, err
	}

	ev := eventFor(notify.EventTripCompleted, bid)
	ev.Amount = settlement.TotalAmount
	s.dispatcher.Submit(ev)
	return stored, nil
}

// GetInvoice returns the stored invoice. Only the bid's renter or the
// vehicle's owner may read it.
func (s *BidService) GetInvoice(ctx context.Context, actorID, bidID string) (*models.Invoice, error) {
	bid, err := s.bids.FindBidByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if actorID != bid.User.ID.Hex() && actorID != bid.Vehicle.Owner.ID.Hex() {
		return nil, apperrors.Authorization("only the renter or the vehicle owner may view this invoice")
	}
	if bid.InvoiceID == nil {
		return nil, apperrors.NotFound("bid %s has no invoice yet", bidID)
	}
	return s.invoices.FindInvoiceByID(ctx, bid.InvoiceID.Hex())
}

// BookedDates returns the approved booking windows for the vehicle so clients
// can grey out unavailable dates. Pending bids do not block dates.
func (s *BidService) BookedDates(ctx context.Context, vehicleID string) ([]models.DateRange, error) {
	return s.bids.BookedDates(ctx, vehicleID)
}

// BidsByRenter returns the renter's own bids, optionally filtered by status.
func (s *BidService) BidsByRenter(ctx context.Context, renterID string, status models.BidStatus) ([]models.Bid, error) {
	if status != "" && !models.IsValidBidStatus(status) {
		return nil, apperrors.Validation("invalid bid status %q", status)
	}
	return s.bids.FindBidsByRenter(ctx, renterID, status)
}

// BidsByOwner returns bids on the owner's vehicles, optionally filtered by
// status.
func (s *BidService) BidsByOwner(ctx context.Context, ownerID string, status models.BidStatus) ([]models.Bid, error) {
	if status != "" && !models.IsValidBidStatus(status) {
		return nil, apperrors.Validation("invalid bid status %q", status)
	}
	return s.bids.FindBidsByOwner(ctx, ownerID, status)
}

// authorizeOwner checks the acting user against the owner snapshot embedded
// in the bid.
func (s *BidService) authorizeOwner(bid *models.Bid, actorID string) error {
	if actorID != bid.Vehicle.Owner.ID.Hex() {
		return apperrors.Authorization("only the vehicle owner may perform this action")
	}
	return nil
}

func eventFor(eventType notify.EventType, bid *models.Bid) notify.Event {
	return notify.Event{
		Type:        eventType,
		BidID:       bid.ID.Hex(),
		VehicleName: bid.Vehicle.Name,
		PlateNumber: bid.Vehicle.PlateNumber,
		RenterName:  bid.User.Username,
		RenterEmail: bid.User.Email,
		RenterTel:   bid.User.Tel,
		Amount:      bid.Amount,
		StartDate:   bid.StartDate,
		EndDate:     bid.EndDate,
	}
}
