package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hdnguyen/salesboard/internal/category"
	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/hdnguyen/salesboard/internal/rules"
)

// Export forms used across the tests, one per business class.
const (
	cashForm        = "Xuất bán hàng tại siêu thị"
	installmentForm = "Xuất bán hàng trả góp tại siêu thị"
	passThroughForm = "Xuất dịch vụ thu hộ cước Payoo"
)

const mappingSheet = `STT,Nhóm hàng,Ngành hàng,Nhóm sản phẩm
1,4479 - Dịch Vụ Bảo Hiểm,VAS,Bảo hiểm
2,1116 - Máy lọc nước RO,Gia dụng,Máy lọc nước
3,555 - Nồi chiên,Gia dụng,Nồi chiên
4,22 - Laptop,ICT,Laptop
5,99 - Office,ICT,Office & Virus
6,880 - Loa Karaoke,Điện tử,Loa
7,777 - Vật tư,DCNB,Vật tư
`

func testEngine(t *testing.T) *Engine {
	t.Helper()
	m, err := category.Parse(strings.NewReader(mappingSheet))
	require.NoError(t, err)
	r := rules.Default()
	return NewEngine(category.NewResolver(m, r), r)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(day, hour int) time.Time {
	return time.Date(2025, 8, day, hour, 0, 0, 0, time.Local)
}

type rowOpt func(*entity.TransactionRow)

// row builds a valid cash-form sale with factor-1 taxonomy codes; options
// override individual fields.
func row(opts ...rowOpt) entity.TransactionRow {
	r := entity.TransactionRow{
		OrderID:       "DH0001",
		ProductName:   "Nồi chiên Philips",
		CustomerName:  "KH01",
		Quantity:      1,
		UnitPrice:     dec("100"),
		WarehouseCode: "K01",
		RecordStatus:  "Hoàn thành",
		CreatorName:   "Nguyễn Văn A",
		ShippedStatus: entity.Shipped,
		CreatedAt:     at(1, 10),
		ExportForm:    cashForm,
		ReturnStatus:  "Chưa trả",
		CancelStatus:  "Chưa hủy",
		PaymentStatus: "Đã thu",
		IndustryCode:  "301 - Gia dụng",
		CategoryCode:  "555 - Nồi chiên",
		Manufacturer:  "Philips",
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

func withPrice(s string) rowOpt {
	return func(r *entity.TransactionRow) { r.UnitPrice = dec(s) }
}

func withForm(form string) rowOpt {
	return func(r *entity.TransactionRow) { r.ExportForm = form }
}

func withCodes(industry, category string) rowOpt {
	return func(r *entity.TransactionRow) {
		r.IndustryCode = industry
		r.CategoryCode = category
	}
}

func withCreator(name string) rowOpt {
	return func(r *entity.TransactionRow) { r.CreatorName = name }
}

func withCustomer(name string) rowOpt {
	return func(r *entity.TransactionRow) { r.CustomerName = name }
}

func withTime(tm time.Time) rowOpt {
	return func(r *entity.TransactionRow) { r.CreatedAt = tm }
}

func withQuantity(q int) rowOpt {
	return func(r *entity.TransactionRow) { r.Quantity = q }
}

func withProduct(name string) rowOpt {
	return func(r *entity.TransactionRow) { r.ProductName = name }
}

func withManufacturer(name string) rowOpt {
	return func(r *entity.TransactionRow) { r.Manufacturer = name }
}
