package ingest

// Logical fields of the export and the header spellings each one appears
// under. Different export tools capitalize the Vietnamese headers
// differently; the first matching spelling wins.
type field int

const (
	colOrderID field = iota
	colProduct
	colCustomer
	colQuantity
	colPrice
	colWarehouse
	colRecordStatus
	colCreator
	colShipped
	colCreatedAt
	colExportForm
	colReturnStatus
	colPaymentStatus
	colCancelStatus
	colIndustryCode
	colCategoryCode
	colManufacturer
)

var columnAliases = map[field][]string{
	colOrderID:       {"Mã Đơn Hàng", "Mã đơn hàng"},
	colProduct:       {"Tên Sản Phẩm", "Tên sản phẩm"},
	colCustomer:      {"Tên Khách Hàng", "Tên khách hàng"},
	colQuantity:      {"Số Lượng", "Số lượng"},
	colPrice:         {"Giá bán_1"},
	colWarehouse:     {"Mã kho tạo"},
	colRecordStatus:  {"Trạng thái hồ sơ"},
	colCreator:       {"Người tạo"},
	colShipped:       {"Trạng thái xuất"},
	colCreatedAt:     {"Ngày tạo"},
	colExportForm:    {"Hình thức xuất"},
	colReturnStatus:  {"Tình trạng nhập trả của sản phẩm đổi với sản phẩm chính"},
	colPaymentStatus: {"Trạng thái thu tiền"},
	colCancelStatus:  {"Trạng thái hủy"},
	colIndustryCode:  {"Ngành Hàng", "Ngành hàng"},
	colCategoryCode:  {"Nhóm Hàng", "Nhóm hàng"},
	colManufacturer:  {"Nhà sản xuất", "Hãng"},
}

// headerIndex maps each logical field to its column position in the sheet,
// -1 when no alias matched.
func headerIndex(header []string) map[field]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := byName[h]; !ok {
			byName[h] = i
		}
	}
	idx := make(map[field]int, len(columnAliases))
	for f, aliases := range columnAliases {
		idx[f] = -1
		for _, alias := range aliases {
			if i, ok := byName[alias]; ok {
				idx[f] = i
				break
			}
		}
	}
	return idx
}
