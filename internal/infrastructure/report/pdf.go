// Package report renders reports for export.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"bikeship/internal/domain/entity"
)

const font = "Helvetica"

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// PDF renders a report as an A4 document: the summary figures followed by one
// row per shipment.
func (g *Generator) PDF(r entity.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Shipment report", false)
	pdf.SetCreationDate(g.now())
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont(font, "B", 16)
	pdf.Cell(0, 10, "Shipment report")
	pdf.Ln(10)

	pdf.SetFont(font, "", 9)
	pdf.Cell(0, 5, "Generated "+g.now().Format("02.01.2006 15:04"))
	pdf.Ln(5)
	if f := filterLine(r.Filter); f != "" {
		pdf.Cell(0, 5, tr(f))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	st := r.Stats
	summary := [][2]string{
		{"Shipments", fmt.Sprintf("%d (%d pending)", st.TotalShipments, st.PendingShipments)},
		{"Total profit", money(st.TotalProfit)},
		{"Total savings", money(st.TotalSavings)},
		{"Profit this month", money(st.MonthProfit)},
		{"Savings this month", money(st.MonthSavings)},
		{"Best customer", customer(st.BestCustomer)},
		{"Worst customer", customer(st.WorstCustomer)},
		{"Favourite carrier", carrier(st.FavoriteCarrier)},
	}

	for _, row := range summary {
		pdf.SetFont(font, "B", 10)
		pdf.Cell(50, 6, row[0])
		pdf.SetFont(font, "", 10)
		pdf.Cell(0, 6, tr(row[1]))
		pdf.Ln(6)
	}

	pdf.Ln(4)

	cols := []struct {
		title string
		width float64
	}{
		{"Date", 22}, {"Order", 25}, {"Customer", 38}, {"Portal / Carrier", 40},
		{"Payment", 22}, {"Profit", 22}, {"Status", 21},
	}

	pdf.SetFont(font, "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(font, "", 8)
	for _, s := range r.Shipments {
		cells := []string{
			s.CreatedAt.Format("02.01.2006"),
			trim(s.OrderID, 14),
			trim(customerName(s.CustomerName), 22),
			trim(fmt.Sprintf("%s / %s", s.SelectedQuote.Portal, s.SelectedQuote.Carrier), 24),
			money(s.CustomerPayment),
			money(s.Profit),
			string(s.Status),
		}
		for i, c := range cols {
			align := "L"
			if i == 4 || i == 5 {
				align = "R"
			}
			pdf.CellFormat(c.width, 6, tr(cells[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(r.Shipments) == 0 {
		pdf.Cell(0, 6, "No shipments match this report.")
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf.Output: %w", err)
	}

	return buf.Bytes(), nil
}

func filterLine(f entity.ReportFilter) string {
	var parts []string
	if f.Customer != "" {
		parts = append(parts, "customer "+f.Customer)
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if f.Top > 0 {
		parts = append(parts, fmt.Sprintf("top %d customers", f.Top))
	}
	if f.Bottom > 0 {
		parts = append(parts, fmt.Sprintf("bottom %d customers", f.Bottom))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filter: " + strings.Join(parts, ", ")
}

func money(d decimal.Decimal) string {
	return "EUR " + d.StringFixed(2)
}

func customer(c *entity.CustomerProfit) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", c.Name, money(c.Profit))
}

func carrier(c *entity.CarrierShare) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d%%)", c.Carrier, c.Percentage)
}

func customerName(name string) string {
	if name == "" {
		return entity.UnknownCustomer
	}
	return name
}

func trim(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
