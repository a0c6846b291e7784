// Package ingest adapts the raw spreadsheet export into typed transaction
// rows. All header-name fallback logic lives here; the aggregation core
// never sees a source column name.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Config bounds the upload handling.
type Config struct {
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// ErrNoRows is returned when the first sheet has no data rows at all.
var ErrNoRows = errors.New("spreadsheet has no data rows")

// ErrNoDatedRows is returned when no row carries a parseable creation date;
// every downstream computation would be empty.
var ErrNoDatedRows = errors.New("no rows with a parseable creation date")

// Parse reads the first sheet of an xlsx export into transaction rows.
// Rows are deduplicated by order id + product name + price, and rows whose
// creation date does not parse are dropped. Absent numeric fields become 0.
func Parse(r io.Reader) ([]entity.TransactionRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	idx := headerIndex(records[0])
	seen := make(map[string]struct{}, len(records)-1)
	rows := make([]entity.TransactionRow, 0, len(records)-1)
	dated := 0

	for _, record := range records[1:] {
		cell := func(f field) string {
			i := idx[f]
			if i < 0 || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := entity.TransactionRow{
			OrderID:       cell(colOrderID),
			ProductName:   cell(colProduct),
			CustomerName:  cell(colCustomer),
			Quantity:      parseInt(cell(colQuantity)),
			UnitPrice:     parsePrice(cell(colPrice)),
			WarehouseCode: cell(colWarehouse),
			RecordStatus:  cell(colRecordStatus),
			CreatorName:   cell(colCreator),
			ShippedStatus: entity.ShippedStatus(cell(colShipped)),
			ExportForm:    cell(colExportForm),
			ReturnStatus:  cell(colReturnStatus),
			CancelStatus:  cell(colCancelStatus),
			PaymentStatus: cell(colPaymentStatus),
			IndustryCode:  cell(colIndustryCode),
			CategoryCode:  cell(colCategoryCode),
			Manufacturer:  cell(colManufacturer),
		}

		key := row.OrderID + "|" + row.ProductName + "|" + row.UnitPrice.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		row.CreatedAt = parseDate(cell(colCreatedAt))
		if row.CreatedAt.IsZero() {
			continue
		}
		dated++
		rows = append(rows, row)
	}

	if dated == 0 {
		return nil, ErrNoDatedRows
	}
	return rows, nil
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cleanNumber(s), 64); err == nil {
		return int(f)
	}
	return 0
}

func parsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleanNumber(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// cleanNumber strips thousands separators the export sprinkles into numeric
// cells.
func cleanNumber(s string) string {
	return strings.NewReplacer(",", "", " ", "").Replace(s)
}

// Date layouts seen in the exports, tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"01-02-06 15:04",
	"1/2/06 15:04",
}

// parseDate handles the date shapes Excel hands over: a textual date in one
// of the known layouts, or a raw serial number counted from the 1900 epoch.
// The zero time marks an unparseable date; callers drop such rows.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelEpoch.Add(time.Duration(math.Round(serial * 86400 * float64(time.Second))))
	}
	return time.Time{}
}

// Excel serial day 0 in the 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.Local)
