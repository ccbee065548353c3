package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers short bid status notices via Twilio.
type SMSSender struct {
	client *twilio.RestClient
	from   string
}

// NewSMSSender reads Twilio configuration from the environment. Returns nil
// if the account SID is unset so callers can skip the channel entirely.
func NewSMSSender() *SMSSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || from == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	return &SMSSender{client: client, from: from}
}

func (s *SMSSender) Name() string { return "sms" }

func (s *SMSSender) Send(_ context.Context, ev Event) error {
	if ev.RenterTel == "" {
		return nil
	}
	var message string
	switch ev.Type {
	case EventBidApproved:
		message = fmt.Sprintf("RentIT: your bid for %s (%s) was approved! Pickup from %s.",
			ev.VehicleName, ev.PlateNumber, ev.StartDate.Format("02/01"))
	case EventBidRejected:
		message = fmt.Sprintf("RentIT: your bid for %s (%s) was rejected.", ev.VehicleName, ev.PlateNumber)
	case EventBidExpired:
		message = fmt.Sprintf("RentIT: your bid for %s (%s) expired.", ev.VehicleName, ev.PlateNumber)
	case EventTripCompleted:
		message = fmt.Sprintf("RentIT: trip with %s complete. Total Rs.%d. Invoice in the app.", ev.VehicleName, ev.Amount)
	default:
		message = fmt.Sprintf("RentIT: update on your bid for %s.", ev.VehicleName)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(ev.RenterTel)
	params.SetFrom(s.from)
	params.SetBody(message)

	_, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}
