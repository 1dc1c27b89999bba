package runrate

import (
	"encoding/json"
	"strings"
)

// Values is a list-valued filter criterion. In JSON it accepts either a
// single string or an array of strings; blank entries are dropped.
type Values []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Values) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = NewValues(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = NewValues(many...)
	return nil
}

// NewValues builds a criterion from values, dropping blank entries.
func NewValues(values ...string) Values {
	out := make(Values, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Empty reports whether the criterion imposes no restriction.
func (s Values) Empty() bool {
	for _, v := range s {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (s Values) set() map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, v := range s {
		if strings.TrimSpace(v) != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// Filters are the hierarchical criteria applied before derivation.
type Filters struct {
	Country      Values `json:"country,omitempty"`
	BusinessUnit Values `json:"businessUnit,omitempty"`
	Category     Values `json:"category,omitempty"`
	SubCategory  Values `json:"subCategory,omitempty"`
	Search       string    `json:"search,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (f Filters) IsEmpty() bool {
	return f.Country.Empty() && f.BusinessUnit.Empty() && f.Category.Empty() &&
		f.SubCategory.Empty() && strings.TrimSpace(f.Search) == ""
}

// stage is one step of the filter sequence.
type stage struct {
	col ColumnID
	sel Values
}

func (f Filters) stages() []stage {
	return []stage{
		{ColCountry, f.Country},
		{ColBusinessUnit, f.BusinessUnit},
		{ColCategory, f.Category},
		{ColSubCategory, f.SubCategory},
	}
}

// Apply runs country, business unit, category and sub category membership
// filters followed by free-text search. Empty criteria pass every row. The
// result preserves input order and shares the input's row values.
func (f Filters) Apply(rows []RawRow) []RawRow {
	if f.IsEmpty() {
		return rows
	}
	out := rows
	for _, st := range f.stages() {
		out = filterByValues(out, st.col, st.sel)
	}
	return filterBySearch(out, f.Search)
}

func filterByValues(rows []RawRow, col ColumnID, sel Values) []RawRow {
	if sel.Empty() {
		return rows
	}
	set := sel.set()
	out := make([]RawRow, 0, len(rows))
	for _, r := range rows {
		if _, ok := set[r.Dimension(col)]; ok {
			out = append(out, r)
		}
	}
	return out
}

var searchColumns = []ColumnID{ColCountry, ColBusinessUnit, ColCategory, ColSubCategory}

func filterBySearch(rows []RawRow, search string) []RawRow {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return rows
	}
	out := make([]RawRow, 0, len(rows))
	for _, r := range rows {
		for _, col := range searchColumns {
			if strings.Contains(strings.ToLower(r.Dimension(col)), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// FilterOptions lists the selectable values for each dimension.
type FilterOptions struct {
	Countries     []string `json:"countries"`
	BusinessUnits []string `json:"businessUnits"`
	Categories    []string `json:"categories"`
	SubCategories []string `json:"subCategories"`
}

// Options returns the distinct values of each dimension in first-seen order.
// Each list is drawn from the rows that pass the filters upstream of that
// dimension, so choosing a country narrows the business units offered and so
// on down the hierarchy. Search does not narrow options.
func Options(rows []RawRow, f Filters) FilterOptions {
	byCountry := filterByValues(rows, ColCountry, f.Country)
	byUnit := filterByValues(byCountry, ColBusinessUnit, f.BusinessUnit)
	byCategory := filterByValues(byUnit, ColCategory, f.Category)

	return FilterOptions{
		Countries:     distinct(rows, ColCountry),
		BusinessUnits: distinct(byCountry, ColBusinessUnit),
		Categories:    distinct(byUnit, ColCategory),
		SubCategories: distinct(byCategory, ColSubCategory),
	}
}

func distinct(rows []RawRow, col ColumnID) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		v := r.Dimension(col)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
