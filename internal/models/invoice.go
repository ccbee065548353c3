package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice is the settled bill for a completed trip. Every intermediate value
// of the settlement is retained so the rendered document can reproduce each
// step, not just the final figure.
type Invoice struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number  string             `bson:"number" json:"number"`
	BidID   primitive.ObjectID `bson:"bid_id" json:"bid_id"`

	OwnerName   string `bson:"owner_name" json:"owner_name"`
	OwnerEmail  string `bson:"owner_email" json:"owner_email"`
	RenterName  string `bson:"renter_name" json:"renter_name"`
	RenterEmail string `bson:"renter_email" json:"renter_email"`
	VehicleName string `bson:"vehicle_name" json:"vehicle_name"`
	PlateNumber string `bson:"plate_number" json:"plate_number"`

	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`

	NoOfDays       int64 `bson:"no_of_days" json:"no_of_days"`
	StartOdometer  int64 `bson:"start_odometer" json:"start_odometer"`
	FinalOdometer  int64 `bson:"final_odometer" json:"final_odometer"`
	TotalDistance  int64 `bson:"total_distance" json:"total_distance"`
	FixedKilometer int64 `bson:"fixed_kilometer" json:"fixed_kilometer"`
	ExtraKilometer int64 `bson:"extra_kilometer" json:"extra_kilometer"`
	RatePerKm      int64 `bson:"rate_per_km" json:"rate_per_km"`
	ExtraAmount    int64 `bson:"extra_amount" json:"extra_amount"`
	BaseAmount     int64 `bson:"base_amount" json:"base_amount"`
	TotalAmount    int64 `bson:"total_amount" json:"total_amount"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
