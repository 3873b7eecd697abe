// Package receipt renders a closed order into printable text and a QR code
// for the reprint lookup. It only ever reads order data.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/alextreichler/dinedash/internal/billing"
	"github.com/alextreichler/dinedash/internal/models"
	qrcode "github.com/skip2/go-qrcode"
)

const width = 40

type Data struct {
	RestaurantName string
	Currency       string
	Order          *models.OrderDetail
	Items          []models.OrderItemDetail
	Totals         billing.Totals
}

func center(s string) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func rule() string {
	return strings.Repeat("-", width)
}

// Render produces the fixed-width receipt text.
func Render(d Data) string {
	var b strings.Builder

	b.WriteString(center(d.RestaurantName) + "\n")
	b.WriteString(rule() + "\n")
	b.WriteString(fmt.Sprintf("Table:  %s\n", d.Order.TableName))
	b.WriteString(fmt.Sprintf("Server: %s\n", d.Order.ServerName))
	b.WriteString(fmt.Sprintf("Opened: %s\n", d.Order.CreatedAt.Format("2006-01-02 15:04")))
	if d.Order.ClosedAt != nil {
		b.WriteString(fmt.Sprintf("Closed: %s\n", d.Order.ClosedAt.Format("2006-01-02 15:04")))
	}
	b.WriteString(rule() + "\n")

	for _, it := range d.Items {
		line := billing.LineTotal(it.Quantity, it.PriceAtTime)
		name := it.Name
		if len(name) > 22 {
			name = name[:22]
		}
		b.WriteString(fmt.Sprintf("%-22s %3dx %9.2f\n", name, it.Quantity, line))
	}

	b.WriteString(rule() + "\n")
	b.WriteString(fmt.Sprintf("%-28s %s%9.2f\n", "Subtotal", d.Currency, d.Totals.Subtotal))
	b.WriteString(fmt.Sprintf("%-28s %s%9.2f\n", "Tax", d.Currency, d.Totals.Tax))
	b.WriteString(fmt.Sprintf("%-28s %s%9.2f\n", "TOTAL", d.Currency, d.Totals.Total))
	b.WriteString(rule() + "\n")
	if d.Order.ReceiptRef != "" {
		b.WriteString(fmt.Sprintf("Ref: %s\n", d.Order.ReceiptRef))
	}
	b.WriteString(center("Thank you, come again!") + "\n")

	return b.String()
}

// QR encodes the receipt reference as a PNG, printed at the bottom of the
// receipt so a reprint can find the order again.
func QR(ref string) ([]byte, error) {
	return qrcode.Encode(ref, qrcode.Medium, 256)
}

// TotalsFromItems recomputes display totals for a closed order from its
// stored line items; the frozen total_amount stays authoritative.
func TotalsFromItems(items []models.OrderItemDetail, taxRate float64) billing.Totals {
	lines := make([]billing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, billing.Line{Quantity: it.Quantity, Price: it.PriceAtTime})
	}
	return billing.Compute(lines, taxRate)
}

// Filename suggests a stable name when a receipt is saved to disk.
func Filename(ref string, closedAt time.Time) string {
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return fmt.Sprintf("receipt-%s-%s.txt", closedAt.Format("20060102-1504"), ref)
}
