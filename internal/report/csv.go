package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"shoplens/internal/commerce"
)

// ContentTypeCSV is the response content type for report exports.
const ContentTypeCSV = "text/csv; charset=utf-8"

var csvHeader = []string{"Name", "Email", "Orders", "Total Spent", "Currency", "Customer Since", "First Order"}

// WriteCSV serializes the full filtered and sorted customer set. Fields
// containing commas, quotes or newlines come out quoted with internal
// quotes doubled.
func WriteCSV(w io.Writer, customers []commerce.Customer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("report: csv header write failed: %w", err)
	}

	for _, customer := range customers {
		row := []string{
			customer.DisplayName,
			customer.Email,
			strconv.Itoa(customer.OrdersCount()),
			strconv.FormatFloat(customer.SpentValue(), 'f', 2, 64),
			customer.AmountSpent.CurrencyCode,
			isoDay(customer.CreatedAt),
			isoDay(customer.FirstOrderDate()),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("report: csv row write failed: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportFilename is the dated attachment name for a CSV download.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("customer-report-%s.csv", now.UTC().Format("2006-01-02"))
}

func isoDay(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}
