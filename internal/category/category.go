// Package category builds the leaf-category index from the 4-column mapping
// sheet and resolves leaf codes to their industry and subgroup, applying the
// taxonomy's subgroup promotion rules.
package category

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hdnguyen/salesboard/internal/rules"
)

// ErrEmptyMap is returned when the mapping sheet parses to zero groups. The
// caller must surface this to the user; every downstream aggregation would
// silently drop 100% of rows otherwise.
var ErrEmptyMap = errors.New("category map has no usable rows")

// Map holds the category indexes, built once per upload and shared read-only
// by every aggregation call.
type Map struct {
	leafToIndustry    map[string]string
	leafToSubgroup    map[string]string
	industryLeafCodes map[string][]string
}

// Parse reads the 4-column mapping sheet (ignored id, leaf category code,
// industry name, subgroup name). The header row is skipped, as are rows with
// fewer than 4 columns or any empty required field.
func Parse(r io.Reader) (*Map, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	m := &Map{
		leafToIndustry:    make(map[string]string),
		leafToSubgroup:    make(map[string]string),
		industryLeafCodes: make(map[string][]string),
	}

	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read category map: %w", err)
		}
		line++
		if line == 1 {
			continue
		}
		if len(record) < 4 {
			continue
		}
		leaf := strings.TrimSpace(record[1])
		industry := strings.TrimSpace(record[2])
		subgroup := strings.TrimSpace(record[3])
		if leaf == "" || industry == "" || subgroup == "" {
			continue
		}

		m.leafToIndustry[leaf] = industry
		m.leafToSubgroup[leaf] = subgroup
		m.industryLeafCodes[industry] = append(m.industryLeafCodes[industry], leaf)
	}

	if len(m.industryLeafCodes) == 0 {
		return nil, ErrEmptyMap
	}
	return m, nil
}

// Industries returns the industry names of the map, sorted.
func (m *Map) Industries() []string {
	out := make([]string, 0, len(m.industryLeafCodes))
	for industry := range m.industryLeafCodes {
		out = append(out, industry)
	}
	sort.Strings(out)
	return out
}

// LeafCodes returns the leaf category codes of one industry. Used only for
// populating filter option lists, never by the aggregation math.
func (m *Map) LeafCodes(industry string) []string {
	return m.industryLeafCodes[industry]
}

// Resolver resolves leaf category codes against a Map with the rule set's
// promotion and allow-list semantics applied.
type Resolver struct {
	m *Map
	r *rules.Rules
}

func NewResolver(m *Map, r *rules.Rules) *Resolver {
	return &Resolver{m: m, r: r}
}

// Subgroup returns the subgroup name for a leaf category code, or "" when
// the code is unmapped.
func (rs *Resolver) Subgroup(categoryCode string) string {
	return rs.m.leafToSubgroup[categoryCode]
}

// Industry returns the industry a leaf category code aggregates under.
// Promoted subgroups replace their umbrella industry; under an umbrella with
// an explicit allow-list, subgroups in the list are promoted and everything
// else is excluded ("") as a deliberate data-quality filter. "" also means
// the code is unmapped; either way the row is dropped from industry-indexed
// aggregation.
func (rs *Resolver) Industry(categoryCode string) string {
	industry, ok := rs.m.leafToIndustry[categoryCode]
	if !ok {
		return ""
	}
	subgroup := rs.m.leafToSubgroup[categoryCode]

	if allowed, ok := rs.r.UmbrellaAllowList(industry); ok {
		if _, ok := allowed[subgroup]; ok {
			return subgroup
		}
		return ""
	}
	if rs.r.IsPromotedSubgroup(subgroup) {
		return subgroup
	}
	return industry
}
