// Package ticket renders booking e-tickets as PDF.
package ticket

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

type Passenger struct {
	Seat   string
	Name   string
	Gender string
}

type Data struct {
	Reference   string
	Source      string
	Destination string
	Departure   time.Time
	VehicleName string
	Passengers  []Passenger
	TotalPrice  float64
	PaidAt      *time.Time
}

// Build renders the e-ticket and returns the PDF bytes with a suggested
// filename.
func Build(d Data) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Ref : %s", safe(d.Reference, "-")),
		fmt.Sprintf("Route       : %s -> %s", safe(d.Source, "-"), safe(d.Destination, "-")),
		fmt.Sprintf("Departure   : %s", d.Departure.Format("2006-01-02 15:04")),
		fmt.Sprintf("Vehicle     : %s", safe(d.VehicleName, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for i, p := range d.Passengers {
		pdf.Cell(0, 6, fmt.Sprintf("%d) Seat %s  %s (%s)", i+1, safe(p.Seat, "-"), safe(p.Name, "-"), safe(p.Gender, "-")))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", d.TotalPrice))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	note := "Payment pending. This ticket is valid only once payment is confirmed."
	if d.PaidAt != nil {
		note = "Paid on " + d.PaidAt.Format("2006-01-02 15:04") + ". Please present this ticket at boarding."
	}
	pdf.MultiCell(0, 6, note, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("TICKET_%s.pdf", filenamePart(d.Reference))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func filenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
