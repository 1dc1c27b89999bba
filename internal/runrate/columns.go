package runrate

import "fmt"

// Align is the horizontal alignment of a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// ColumnSpec describes one displayable column. IsUserInput columns are read
// from UserInputs rather than from the row. Placeholder columns are shown but
// not populated by the pipeline.
type ColumnSpec struct {
	ID          ColumnID  `json:"id"`
	Label       string    `json:"label"`
	Align       Align     `json:"align"`
	MinWidth    int       `json:"minWidth"`
	IsUserInput bool      `json:"isUserInput,omitempty"`
	Placeholder bool      `json:"placeholder,omitempty"`
	Format      Formatter `json:"-"`
}

// Formatted reports whether the column has a display formatter.
func (c ColumnSpec) Formatted() bool {
	return c.Format != nil
}

var defaultColumns = []ColumnSpec{
	{ID: ColCountry, Label: "Country", Align: AlignLeft, MinWidth: 120},
	{ID: ColBusinessUnit, Label: "Business Unit", Align: AlignLeft, MinWidth: 150},
	{ID: ColCategory, Label: "Category", Align: AlignLeft, MinWidth: 150},
	{ID: ColSubCategory, Label: "Sub Category", Align: AlignLeft, MinWidth: 170},
	{ID: ColTotalForecast, Label: "Total Forecast Gross Sales (Current Month)", Align: AlignRight, MinWidth: 180, Format: FormatCurrency},
	{ID: ColAvg13WeeksWeekdays, Label: "Avg Actual Shipments 13 Weeks (Weekdays)", Align: AlignRight, MinWidth: 170, Format: FormatCurrency},
	{ID: ColAvg13WeeksWeekends, Label: "Avg Actual Shipments 13 Weeks (Weekends)", Align: AlignRight, MinWidth: 170, Format: FormatCurrency},
	{ID: ColAvg8WeeksWeekdays, Label: "Avg Actual Shipments 8 Weeks (Weekdays)", Align: AlignRight, MinWidth: 170, Format: FormatCurrency},
	{ID: ColAvg8WeeksWeekends, Label: "Avg Actual Shipments 8 Weeks (Weekends)", Align: AlignRight, MinWidth: 170, Format: FormatCurrency},
	{ID: ColActualTillDate, Label: "Total Actual Shipments (Current Month)", Align: AlignRight, MinWidth: 170, Format: FormatCurrency},
	{ID: ColShipmentsRemainingDays, Label: "Shipments Remaining Days", Align: AlignRight, MinWidth: 160, Format: FormatCurrency},
	{ID: ColActualPlusRemaining, Label: "Actual Shipments Till Date + Remaining", Align: AlignRight, MinWidth: 190, Format: FormatCurrency},
	{ID: ColRunRateForecast, Label: "Run Rate Forecast", Align: AlignRight, MinWidth: 160, Format: FormatCurrency},
	{ID: ColRunRateVsForecast, Label: "Run Rate vs Forecast MO", Align: AlignRight, MinWidth: 150, Format: FormatPercent},
	{ID: ColLowSidePercent, Label: "Low Side %", Align: AlignCenter, MinWidth: 110, IsUserInput: true},
	{ID: ColLowSideGS, Label: "Low Side GS (Incremental/Decremental)", Align: AlignRight, MinWidth: 190, Format: FormatCurrency},
	{ID: ColHighSidePercent, Label: "High Side %", Align: AlignCenter, MinWidth: 110, IsUserInput: true},
	{ID: ColHighSideGS, Label: "High Side GS (Incremental/Decremental)", Align: AlignRight, MinWidth: 190, Format: FormatCurrency},
}

// DefaultColumns returns a copy of the built-in column catalog in display
// order.
func DefaultColumns() []ColumnSpec {
	out := make([]ColumnSpec, len(defaultColumns))
	copy(out, defaultColumns)
	return out
}

// LookupColumn finds a column of the built-in catalog by id.
func LookupColumn(id ColumnID) (ColumnSpec, bool) {
	for _, c := range defaultColumns {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// UnknownColumnError is returned when a requested column id is not in the
// catalog.
type UnknownColumnError struct {
	ID ColumnID
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", string(e.ID))
}

// ResolveColumns maps ids to catalog entries, keeping the requested order. An
// empty id list resolves to the whole catalog.
func ResolveColumns(ids []ColumnID) ([]ColumnSpec, error) {
	if len(ids) == 0 {
		return DefaultColumns(), nil
	}
	out := make([]ColumnSpec, 0, len(ids))
	for _, id := range ids {
		c, ok := LookupColumn(id)
		if !ok {
			return nil, &UnknownColumnError{ID: id}
		}
		out = append(out, c)
	}
	return out, nil
}
