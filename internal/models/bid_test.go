package models

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsValidBidStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   BidStatus
		expected bool
	}{
		{"pending", BidStatusPending, true},
		{"approved", BidStatusApproved, true},
		{"rejected", BidStatusRejected, true},
		{"invalid", "cancelled", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidBidStatus(tt.status); got != tt.expected {
				t.Errorf("IsValidBidStatus(%s) = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestBid_OverlapsWindow(t *testing.T) {
	bid := &Bid{StartDate: date("2024-01-04"), EndDate: date("2024-01-08")}

	tests := []struct {
		name     string
		start    string
		end      string
		expected bool
	}{
		{"identical window", "2024-01-04", "2024-01-08", true},
		{"overlaps tail", "2024-01-07", "2024-01-10", true},
		{"overlaps head", "2024-01-01", "2024-01-05", true},
		{"contained", "2024-01-05", "2024-01-06", true},
		{"containing", "2024-01-01", "2024-01-12", true},
		{"shared endpoint start", "2024-01-08", "2024-01-10", true},
		{"shared endpoint end", "2024-01-01", "2024-01-04", true},
		{"strictly before", "2024-01-01", "2024-01-03", false},
		{"strictly after", "2024-01-09", "2024-01-12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bid.OverlapsWindow(date(tt.start), date(tt.end)); got != tt.expected {
				t.Errorf("OverlapsWindow(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.expected)
			}
		})
	}
}

func TestVehicle_SnapshotIsACopy(t *testing.T) {
	v := &Vehicle{
		Name:           "Swift",
		PlateNumber:    "DL-01-1234",
		RentalPrice:    3000,
		Seats:          5,
		RatePerKm:      5,
		FixedKilometer: 100,
	}

	snap := v.Snapshot()

	// Mutating the live vehicle must not change the embedded snapshot:
	// bids are historical contracts.
	v.RentalPrice = 9999
	v.PlateNumber = "DL-01-9999"

	if snap.RentalPrice != 3000 {
		t.Errorf("snapshot rental price changed to %d after live edit", snap.RentalPrice)
	}
	if snap.PlateNumber != "DL-01-1234" {
		t.Errorf("snapshot plate number changed to %s after live edit", snap.PlateNumber)
	}
}
