package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/rentit-app/rentit-backend/internal/models"
)

// Render produces the trip invoice PDF. Every settlement step is shown with
// its arithmetic so the renter can verify the charge line by line.
func Render(inv *models.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", inv.Number), false)
	pdf.AddPage()

	header(pdf)
	meta(pdf, inv)
	summary(pdf, inv)
	detailTable(pdf, inv)
	footer(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func header(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(68, 68, 68)
	pdf.Text(20, 20, "RentIT")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(120, 12)
	pdf.MultiCell(70, 5, "RentIT\nJanta Colony\nRajouri Garden, West Delhi", "", "R", false)
}

func meta(pdf *fpdf.Fpdf, inv *models.Invoice) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(20, 45, "Trip Invoice")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 53, fmt.Sprintf("Invoice Number: %s", inv.Number))
	pdf.Text(20, 59, fmt.Sprintf("Invoice Date: %s", formatDate(inv.CreatedAt)))
}

func summary(pdf *fpdf.Fpdf, inv *models.Invoice) {
	const top = 70.0

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(20, top, "Car Owner:")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(48, top, inv.OwnerName)
	pdf.Text(48, top+5, inv.OwnerEmail)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(110, top, "Renter:")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(130, top, inv.RenterName)
	pdf.Text(130, top+5, inv.RenterEmail)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(20, top+15, "Vehicle:")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(48, top+15, inv.VehicleName)
	pdf.Text(48, top+20, inv.PlateNumber)
}

func detailTable(pdf *fpdf.Fpdf, inv *models.Invoice) {
	pdf.SetY(100)

	pdf.SetFont("Helvetica", "B", 10)
	tableRow(pdf, "Field", "Value")
	hr(pdf)

	pdf.SetFont("Helvetica", "", 10)
	tableRow(pdf, "Booking ID", inv.BidID.Hex())
	tableRow(pdf, "Start Date", formatDate(inv.StartDate))
	tableRow(pdf, "End Date", formatDate(inv.EndDate))
	tableRow(pdf, "Total Days", fmt.Sprintf("%d", inv.NoOfDays))
	tableRow(pdf, "Start Odometer", fmt.Sprintf("%d", inv.StartOdometer))
	tableRow(pdf, "Final Odometer", fmt.Sprintf("%d", inv.FinalOdometer))
	tableRow(pdf, "Free Kilometer/Day", fmt.Sprintf("%d", inv.FixedKilometer))
	tableRow(pdf, "Distance Travelled",
		fmt.Sprintf("%d - %d = %d", inv.FinalOdometer, inv.StartOdometer, inv.TotalDistance))
	tableRow(pdf, "Extra Kilometers",
		fmt.Sprintf("%d - %d * %d = %d", inv.TotalDistance, inv.FixedKilometer, inv.NoOfDays, inv.ExtraKilometer))
	tableRow(pdf, "Rate per KM", formatCurrency(inv.RatePerKm))
	tableRow(pdf, "Extra Amount",
		fmt.Sprintf("%d * %d = %s", inv.ExtraKilometer, inv.RatePerKm, formatCurrency(inv.ExtraAmount)))
	tableRow(pdf, "Base Amount", formatCurrency(inv.BaseAmount))

	hr(pdf)
	pdf.SetFont("Helvetica", "B", 10)
	tableRow(pdf, "Total Amount", formatCurrency(inv.TotalAmount))
}

func tableRow(pdf *fpdf.Fpdf, field, value string) {
	pdf.SetX(20)
	pdf.CellFormat(80, 7, field, "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 7, value, "", 1, "R", false, 0, "")
}

func hr(pdf *fpdf.Fpdf) {
	y := pdf.GetY() + 1
	pdf.SetDrawColor(170, 170, 170)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func footer(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 280, "Thank you for using RentIT!")
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatCurrency(amount int64) string {
	return fmt.Sprintf("Rs.%d", amount)
}
