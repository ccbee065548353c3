package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle represents a listed rental vehicle.
type Vehicle struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                  string             `bson:"name" json:"name"`
	PlateNumber           string             `bson:"plate_number" json:"plate_number"`
	RentalPrice           int64              `bson:"rental_price" json:"rental_price"`
	Seats                 int                `bson:"seats" json:"seats"`
	RentalPriceOutStation int64              `bson:"rental_price_out_station" json:"rental_price_out_station"`
	RatePerKm             int64              `bson:"rate_per_km" json:"rate_per_km"`
	FixedKilometer        int64              `bson:"fixed_kilometer" json:"fixed_kilometer"` // free km allowance per rental day
	Owner                 UserSnapshot       `bson:"owner" json:"owner"`
	Status                string             `bson:"status" json:"status"` // "active" or "inactive"
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updated_at"`
}

// Snapshot copies the vehicle's pricing facts into an immutable value for
// embedding in a bid.
func (v *Vehicle) Snapshot() VehicleSnapshot {
	return VehicleSnapshot{
		ID:                    v.ID,
		Name:                  v.Name,
		PlateNumber:           v.PlateNumber,
		RentalPrice:           v.RentalPrice,
		Seats:                 v.Seats,
		RentalPriceOutStation: v.RentalPriceOutStation,
		RatePerKm:             v.RatePerKm,
		FixedKilometer:        v.FixedKilometer,
		Owner:                 v.Owner,
	}
}
