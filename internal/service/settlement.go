package service

import (
	"math"
	"time"

	apperrors "github.com/rentit-app/rentit-backend/internal/errors"
)

// SettlementInput carries everything the settlement needs: the booking window
// and base amount from the bid, the pricing facts from the vehicle snapshot,
// and both odometer readings.
type SettlementInput struct {
	StartDate            time.Time
	EndDate              time.Time
	StartOdometer        int64
	FinalOdometer        int64
	FixedKilometerPerDay int64
	RatePerKm            int64
	BaseAmount           int64
}

// Settlement retains every intermediate value so the invoice can reproduce
// each step of the calculation, not just the final figure.
type Settlement struct {
	NoOfDays        int64
	TotalDistance   int64
	AllowedDistance int64
	ExtraDistance   int64
	ExtraAmount     int64
	TotalAmount     int64
}

// InclusiveDayCount counts rental days including both endpoints: a trip from
// Jan 1 to Jan 3 spans 3 days. This definition governs the free-kilometer
// allowance and must not be replaced with plain subtraction.
func InclusiveDayCount(start, end time.Time) int64 {
	diff := end.Sub(start)
	return int64(math.Ceil(diff.Hours()/24)) + 1
}

// Settle computes the final invoiced amount for a completed trip from the
// odometer delta. Pure: same inputs always produce the same outputs.
func Settle(in SettlementInput) (Settlement, error) {
	if in.EndDate.Before(in.StartDate) {
		return Settlement{}, apperrors.Validation("end date %s is before start date %s",
			in.EndDate.Format("2006-01-02"), in.StartDate.Format("2006-01-02"))
	}
	if in.FinalOdometer < in.StartOdometer {
		return Settlement{}, apperrors.Validation("final odometer %d is less than start odometer %d",
			in.FinalOdometer, in.StartOdometer)
	}

	days := InclusiveDayCount(in.StartDate, in.EndDate)
	totalDistance := in.FinalOdometer - in.StartOdometer
	allowedDistance := in.FixedKilometerPerDay * days
	extraDistance := totalDistance - allowedDistance
	if extraDistance < 0 {
		extraDistance = 0
	}
	extraAmount := extraDistance * in.RatePerKm

	return Settlement{
		NoOfDays:        days,
		TotalDistance:   totalDistance,
		AllowedDistance: allowedDistance,
		ExtraDistance:   extraDistance,
		ExtraAmount:     extraAmount,
		TotalAmount:     in.BaseAmount + extraAmount,
	}, nil
}
