package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippedStatus is the shipment state of a transaction line.
type ShippedStatus string

const (
	Shipped   ShippedStatus = "Đã xuất"
	Unshipped ShippedStatus = "Chưa xuất"
)

// TransactionRow is one sold line item from the spreadsheet export, already
// normalized by the ingest adapter. Absent numeric fields are zero, never an
// error. A zero CreatedAt means the source date did not parse; such rows are
// excluded from every date-indexed computation.
type TransactionRow struct {
	OrderID      string
	ProductName  string
	CustomerName string

	Quantity  int
	UnitPrice decimal.Decimal

	WarehouseCode string
	RecordStatus  string
	CreatorName   string
	ShippedStatus ShippedStatus
	CreatedAt     time.Time

	ExportForm    string
	ReturnStatus  string
	CancelStatus  string
	PaymentStatus string

	IndustryCode string
	CategoryCode string
	Manufacturer string
}
