package report

import (
	"strings"

	"github.com/hdnguyen/salesboard/internal/entity"
	"github.com/hdnguyen/salesboard/internal/rules"
	"golang.org/x/text/unicode/norm"
)

// Status values a row must carry to count as a valid sale. Compared after
// normalization; spreadsheet tools emit these in both NFC and NFD.
var (
	statusNotCancelled = normalizeStatus("chưa hủy")
	statusNotReturned  = normalizeStatus("chưa trả")
	statusCollected    = normalizeStatus("đã thu")
)

// Classifier tags transaction rows with their business category. All
// predicates are pure and independent.
type Classifier struct {
	rules *rules.Rules
}

func NewClassifier(r *rules.Rules) *Classifier {
	return &Classifier{rules: r}
}

func (c *Classifier) IsCashForm(row *entity.TransactionRow) bool {
	return c.rules.IsCashForm(row.ExportForm)
}

func (c *Classifier) IsInstallmentForm(row *entity.TransactionRow) bool {
	return c.rules.IsInstallmentForm(row.ExportForm)
}

func (c *Classifier) IsPassThroughForm(row *entity.TransactionRow) bool {
	return c.rules.IsPassThroughForm(row.ExportForm)
}

// IsValidSale reports whether the row counts as a completed sale: not
// cancelled, not returned, payment collected, and not a pass-through
// collection.
func (c *Classifier) IsValidSale(row *entity.TransactionRow) bool {
	return !c.IsPassThroughForm(row) &&
		normalizeStatus(row.CancelStatus) == statusNotCancelled &&
		normalizeStatus(row.ReturnStatus) == statusNotReturned &&
		normalizeStatus(row.PaymentStatus) == statusCollected
}

// IsRevenueCounted reports whether the row's price contributes to actual
// revenue. Only cash-form and installment-form sales do; pass-through and
// unclassified forms are excluded even where the row itself is counted.
func (c *Classifier) IsRevenueCounted(row *entity.TransactionRow) bool {
	return c.IsCashForm(row) || c.IsInstallmentForm(row)
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}
