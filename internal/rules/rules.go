// Package rules holds the business-rule tables the aggregation pipeline
// classifies against: export-form sets, the normalized-revenue conversion
// factors and the subgroup promotion rules. The tables encode undocumented
// retail taxonomy semantics, so defaults must be kept verbatim; deployments
// with a different taxonomy override them through a rules file.
package rules

import "github.com/shopspring/decimal"

// Config points at an optional TOML rules file overriding the defaults.
type Config struct {
	Path string `mapstructure:"path"`
}

// Rules is one immutable rule set shared read-only by every pipeline run.
type Rules struct {
	cashForms        map[string]struct{}
	installmentForms map[string]struct{}
	passThroughForms map[string]struct{}

	promotedSubgroups map[string]struct{}
	umbrellaAllowList map[string]map[string]struct{}

	excludedIndustries map[string]struct{}

	pairFactors     map[factorKey]decimal.Decimal
	industryFactors map[string]decimal.Decimal
}

type factorKey struct {
	industry string
	category string
}

// IsCashForm reports whether the export form is a cash-form sale.
func (r *Rules) IsCashForm(form string) bool {
	_, ok := r.cashForms[form]
	return ok
}

// IsInstallmentForm reports whether the export form is an installment-form sale.
func (r *Rules) IsInstallmentForm(form string) bool {
	_, ok := r.installmentForms[form]
	return ok
}

// IsPassThroughForm reports whether the export form is a collection-only
// transaction, excluded from revenue entirely.
func (r *Rules) IsPassThroughForm(form string) bool {
	_, ok := r.passThroughForms[form]
	return ok
}

// IsPromotedSubgroup reports whether the subgroup acts as its own top-level
// industry in industry-indexed aggregations.
func (r *Rules) IsPromotedSubgroup(subgroup string) bool {
	_, ok := r.promotedSubgroups[subgroup]
	return ok
}

// UmbrellaAllowList returns the explicit subgroup allow-list for an umbrella
// industry, or ok=false when the industry has no allow-list. Rows under an
// allow-listed umbrella whose subgroup is not in the list are excluded from
// industry aggregation entirely.
func (r *Rules) UmbrellaAllowList(industry string) (map[string]struct{}, bool) {
	l, ok := r.umbrellaAllowList[industry]
	return l, ok
}

// IsExcludedIndustry reports whether the industry is left out of the
// per-industry revenue grid.
func (r *Rules) IsExcludedIndustry(industry string) bool {
	_, ok := r.excludedIndustries[industry]
	return ok
}

// ConversionFactor maps (industry code, leaf category code) to the
// multiplicative factor for normalized revenue. Compound pairs are checked
// first, then the industry code alone; anything unmatched gets 1.
func (r *Rules) ConversionFactor(industryCode, categoryCode string) decimal.Decimal {
	if f, ok := r.pairFactors[factorKey{industryCode, categoryCode}]; ok {
		return f
	}
	if f, ok := r.industryFactors[industryCode]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// Default returns the rule set of the deployment this service was built for.
func Default() *Rules {
	return fromLists(defaultLists())
}

func defaultLists() ruleLists {
	return ruleLists{
		CashForms: []string{
			"Xuất bán hàng Online tại siêu thị",
			"Xuất bán hàng online tiết kiệm",
			"Xuất bán hàng tại siêu thị",
			"Xuất bán hàng tại siêu thị (TCĐM)",
			"Xuất bán Online giá rẻ",
			"Xuất bán pre-order tại siêu thị",
			"Xuất bán ưu đãi cho nhân viên",
			"Xuất dịch vụ thu hộ bảo hiểm",
			"Xuất đổi bảo hành sản phẩm IMEI",
			"Xuất đổi bảo hành tại siêu thị",
		},
		InstallmentForms: []string{
			"Xuất bán hàng trả góp Online",
			"Xuất bán hàng trả góp Online giá rẻ",
			"Xuất bán hàng trả góp online tiết kiệm",
			"Xuất bán hàng trả góp tại siêu thị",
			"Xuất bán hàng trả góp tại siêu thị (TCĐM)",
			"Xuất bán trả góp ưu đãi cho nhân viên",
			"Xuất đổi bảo hành sản phẩm trả góp có IMEI",
			"Xuất bán trả góp cho NV phục vụ công việc",
		},
		PassThroughForms: []string{
			"Xuất dịch vụ thu hộ trả góp ACS",
			"Xuất dịch vụ thu hộ cước Payoo",
			"Xuất dịch vụ thu hộ qua Epay",
			"Xuất dịch vụ thu hộ qua SmartNet",
			"Xuất dịch vụ thu hộ qua tổng công ty Viettel",
			"Xuất dịch vụ thu hộ nạp tiền vào ví",
			"Xuất dịch vụ thu hộ cước Bảo Kim",
		},
		PromotedSubgroups: []string{
			"Máy lọc nước",
			"Máy lạnh",
			"Máy nước nóng",
			"Tủ lạnh",
			"Tủ đông",
			"Tủ mát",
			"Máy giặt",
			"Máy sấy",
			"Máy rửa chén",
		},
		UmbrellaAllowList: map[string][]string{
			"ICT": {"Smartphone", "Laptop", "Tablet"},
		},
		ExcludedIndustries: []string{
			"DCNB",
			"Thẻ cào",
			"Phụ kiện lắp đặt",
			"Software",
		},
		PairFactors: []pairFactor{
			{"164 - VAS", "4479 - Dịch Vụ Bảo Hiểm", "4.18"},
			{"164 - VAS", "4499 - Thu Hộ Phí Bảo Hiểm", "4.18"},
			{"304 - Điện tử", "880 - Loa Karaoke", "1.29"},
		},
		IndustryFactors: map[string]string{
			"664 - Sim Online":        "5.45",
			"16 - Phụ kiện tiện ích":  "3.37",
			"184 - Phụ kiện trang trí": "3.37",
			"764 - Loa vi tính":       "3.37",
			"23 - Wearable":           "3",
			"1274 - Đồng Hồ Thời Trang": "3",
			"364 - IT":                "2",
			"1034 - Dụng cụ nhà bếp":  "1.92",
			"1116 - Máy lọc nước":     "1.85",
			"484 - Điện gia dụng":     "1.85",
			"1214 - Gia dụng lắp đặt": "1.85",
			"22 - Laptop":             "1.2",
			"244 - Tablet":            "1.2",
		},
	}
}

// ruleLists is the serialized form of a rule set, as found in a rules file.
type ruleLists struct {
	CashForms          []string            `mapstructure:"cash_forms"`
	InstallmentForms   []string            `mapstructure:"installment_forms"`
	PassThroughForms   []string            `mapstructure:"pass_through_forms"`
	PromotedSubgroups  []string            `mapstructure:"promoted_subgroups"`
	UmbrellaAllowList  map[string][]string `mapstructure:"umbrella_allow_list"`
	ExcludedIndustries []string            `mapstructure:"excluded_industries"`
	PairFactors        []pairFactor        `mapstructure:"pair_factors"`
	IndustryFactors    map[string]string   `mapstructure:"industry_factors"`
}

type pairFactor struct {
	Industry string `mapstructure:"industry"`
	Category string `mapstructure:"category"`
	Factor   string `mapstructure:"factor"`
}

func fromLists(l ruleLists) *Rules {
	r := &Rules{
		cashForms:          toSet(l.CashForms),
		installmentForms:   toSet(l.InstallmentForms),
		passThroughForms:   toSet(l.PassThroughForms),
		promotedSubgroups:  toSet(l.PromotedSubgroups),
		umbrellaAllowList:  make(map[string]map[string]struct{}, len(l.UmbrellaAllowList)),
		excludedIndustries: toSet(l.ExcludedIndustries),
		pairFactors:        make(map[factorKey]decimal.Decimal, len(l.PairFactors)),
		industryFactors:    make(map[string]decimal.Decimal, len(l.IndustryFactors)),
	}
	for umbrella, subgroups := range l.UmbrellaAllowList {
		r.umbrellaAllowList[umbrella] = toSet(subgroups)
	}
	for _, p := range l.PairFactors {
		r.pairFactors[factorKey{p.Industry, p.Category}] = decimal.RequireFromString(p.Factor)
	}
	for industry, f := range l.IndustryFactors {
		r.industryFactors[industry] = decimal.RequireFromString(f)
	}
	return r
}

func toSet(values []string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}
