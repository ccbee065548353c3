package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BidStatus is the lifecycle state of a bid.
type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusApproved BidStatus = "approved"
	BidStatusRejected BidStatus = "rejected"
)

// Bid amount bounds in currency units.
const (
	MinBidAmount int64 = 0
	MaxBidAmount int64 = 1000000
)

// IsValidBidStatus checks if a bid status is valid.
func IsValidBidStatus(s BidStatus) bool {
	switch s {
	case BidStatusPending, BidStatusApproved, BidStatusRejected:
		return true
	default:
		return false
	}
}

// UserSnapshot is an immutable copy of the renter or owner identity taken when
// the bid is created. It is never refreshed from the live user record.
type UserSnapshot struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Tel      string             `bson:"tel" json:"tel"`
}

// VehicleSnapshot is an immutable copy of the vehicle pricing and capacity
// facts taken when the bid is created. Bids are historical contracts: editing
// the live vehicle afterwards does not change existing bids.
type VehicleSnapshot struct {
	ID                    primitive.ObjectID `bson:"_id" json:"id"`
	Name                  string             `bson:"name" json:"name"`
	PlateNumber           string             `bson:"plate_number" json:"plate_number"`
	RentalPrice           int64              `bson:"rental_price" json:"rental_price"`
	Seats                 int                `bson:"seats" json:"seats"`
	RentalPriceOutStation int64              `bson:"rental_price_out_station" json:"rental_price_out_station"`
	RatePerKm             int64              `bson:"rate_per_km" json:"rate_per_km"`
	FixedKilometer        int64              `bson:"fixed_kilometer" json:"fixed_kilometer"`
	Owner                 UserSnapshot       `bson:"owner" json:"owner"`
}

// Bid represents a renter's offer for a vehicle over a date window.
// An approved bid is the booking; there is no separate booking record.
type Bid struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Amount        int64              `bson:"amount" json:"amount"`
	StartDate     time.Time          `bson:"start_date" json:"start_date"`
	EndDate       time.Time          `bson:"end_date" json:"end_date"`
	IsOutStation  bool               `bson:"is_out_station" json:"is_out_station"`
	Status        BidStatus          `bson:"status" json:"status"`
	TripCompleted bool               `bson:"trip_completed" json:"trip_completed"`
	User          UserSnapshot       `bson:"user" json:"user"`
	Vehicle       VehicleSnapshot    `bson:"vehicle" json:"vehicle"`
	StartOdometer *int64             `bson:"start_odometer,omitempty" json:"start_odometer,omitempty"`
	FinalOdometer *int64             `bson:"final_odometer,omitempty" json:"final_odometer,omitempty"`
	InvoiceID     *primitive.ObjectID `bson:"invoice_id,omitempty" json:"invoice_id,omitempty"`
	TotalAmount   *int64             `bson:"total_amount,omitempty" json:"total_amount,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// OverlapsWindow reports whether the bid's booking window intersects the
// closed interval [start, end].
func (b *Bid) OverlapsWindow(start, end time.Time) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}

// DateRange is a booked window returned to clients so they can grey out
// unavailable dates.
type DateRange struct {
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
}
