package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers bid status events to the renter's inbox via SendGrid.
type EmailSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailSender reads SendGrid configuration from the environment. Returns
// nil if SENDGRID_API_KEY is unset so callers can skip the channel entirely.
func NewEmailSender() *EmailSender {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return nil
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		fromEmail = "noreply@rentit.example.com"
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "RentIT"
	}
	return &EmailSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *EmailSender) Name() string { return "email" }

func (s *EmailSender) Send(ctx context.Context, ev Event) error {
	subject, body := composeEmail(ev)
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(ev.RenterName, ev.RenterEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func composeEmail(ev Event) (subject, body string) {
	window := fmt.Sprintf("%s to %s",
		ev.StartDate.Format("02 Jan 2006"), ev.EndDate.Format("02 Jan 2006"))

	switch ev.Type {
	case EventBidApproved:
		subject = fmt.Sprintf("Your bid for %s has been approved", ev.VehicleName)
		body = fmt.Sprintf(
			"Hello %s,\n\nYour bid of Rs.%d for %s (%s), %s, has been approved by the owner.\n\nThank you for using RentIT!",
			ev.RenterName, ev.Amount, ev.VehicleName, ev.PlateNumber, window)
	case EventBidRejected:
		subject = fmt.Sprintf("Your bid for %s has been rejected", ev.VehicleName)
		body = fmt.Sprintf(
			"Hello %s,\n\nYour bid of Rs.%d for %s (%s), %s, has been rejected.\n\nThank you for using RentIT!",
			ev.RenterName, ev.Amount, ev.VehicleName, ev.PlateNumber, window)
	case EventBidExpired:
		subject = fmt.Sprintf("Your bid for %s has expired", ev.VehicleName)
		body = fmt.Sprintf(
			"Hello %s,\n\nYour bid of Rs.%d for %s (%s), %s, expired before the owner responded.\n\nThank you for using RentIT!",
			ev.RenterName, ev.Amount, ev.VehicleName, ev.PlateNumber, window)
	case EventTripCompleted:
		subject = fmt.Sprintf("Trip completed for %s", ev.VehicleName)
		body = fmt.Sprintf(
			"Hello %s,\n\nYour trip with %s (%s), %s, is complete. Total amount: Rs.%d. Your invoice is available in the app.\n\nThank you for using RentIT!",
			ev.RenterName, ev.VehicleName, ev.PlateNumber, window, ev.Amount)
	default:
		subject = fmt.Sprintf("Update on your bid for %s", ev.VehicleName)
		body = fmt.Sprintf("Hello %s,\n\nThere is an update on your bid for %s (%s), %s.",
			ev.RenterName, ev.VehicleName, ev.PlateNumber, window)
	}
	return subject, body
}
