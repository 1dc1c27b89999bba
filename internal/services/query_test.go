package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
	api "github.com/shanawarAnsari/intelliplan-sub001/pkg/contracts/api/v1"
)

func TestFiltersFromRequest(t *testing.T) {
	got := FiltersFromRequest(api.FiltersRequest{
		Country:  api.StringList{"US", " "},
		Category: api.StringList{"Snacks"},
		Search:   "chips",
	})

	want := runrate.Filters{
		Country:  runrate.Values{"US"},
		Category: runrate.Values{"Snacks"},
		Search:   "chips",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.BusinessUnit)
}

func TestQueryFromRequest(t *testing.T) {
	req := api.ComputeRequest{
		SelectionRequest: api.SelectionRequest{
			Filters: api.FiltersRequest{Country: api.StringList{"CA"}},
			Window:  "8weeks",
			Level:   "CATEGORY",
		},
		InputsLevel: "CATEGORY",
		Inputs: []api.UserInputRequest{
			{Row: 0, Column: "LOW_SIDE_PERCENT", Value: "95"},
			{Row: 2, Column: "HIGH_SIDE_PERCENT", Value: "110"},
		},
	}

	q := QueryFromRequest(req, []string{"COUNTRY", "LOW_SIDE_PERCENT"})

	assert.Equal(t, runrate.Window8Weeks, q.Selection.Window)
	assert.Equal(t, runrate.LevelCategory, q.Selection.Level)
	assert.Equal(t, runrate.Values{"CA"}, q.Selection.Filters.Country)
	assert.Equal(t, []runrate.ColumnID{runrate.ColCountry, runrate.ColLowSidePercent}, q.Columns)

	assert.Equal(t, runrate.LevelCategory, q.Inputs.Level)
	assert.Equal(t, 2, q.Inputs.Len())
	v, ok := q.Inputs.Get(2, runrate.ColHighSidePercent)
	assert.True(t, ok)
	assert.Equal(t, "110", v)
}

func TestQueryFromRequest_Defaults(t *testing.T) {
	q := QueryFromRequest(api.ComputeRequest{}, nil)

	assert.Empty(t, q.Selection.Window)
	assert.Empty(t, q.Selection.Level)
	assert.True(t, q.Selection.Filters.IsEmpty())
	assert.Zero(t, q.Inputs.Len())
	assert.Nil(t, q.Columns)
}
