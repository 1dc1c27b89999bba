package services

import (
	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
	api "github.com/shanawarAnsari/intelliplan-sub001/pkg/contracts/api/v1"
)

// FiltersFromRequest converts the wire filters.
func FiltersFromRequest(f api.FiltersRequest) runrate.Filters {
	return runrate.Filters{
		Country:      runrate.NewValues(f.Country...),
		BusinessUnit: runrate.NewValues(f.BusinessUnit...),
		Category:     runrate.NewValues(f.Category...),
		SubCategory:  runrate.NewValues(f.SubCategory...),
		Search:       f.Search,
	}
}

// QueryFromRequest converts a validated request into a query. columns is
// only used by exports.
func QueryFromRequest(req api.ComputeRequest, columns []string) ForecastQuery {
	inputs := runrate.NewUserInputs(runrate.Level(req.InputsLevel))
	for _, in := range req.Inputs {
		inputs.Set(in.Row, runrate.ColumnID(in.Column), in.Value)
	}

	q := ForecastQuery{
		Selection: runrate.Selection{
			Filters: FiltersFromRequest(req.Filters),
			Window:  runrate.RateWindow(req.Window),
			Level:   runrate.Level(req.Level),
		},
		Inputs: inputs,
	}
	for _, c := range columns {
		q.Columns = append(q.Columns, runrate.ColumnID(c))
	}
	return q
}
