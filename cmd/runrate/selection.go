package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/middleware"
	api "github.com/shanawarAnsari/intelliplan-sub001/pkg/contracts/api/v1"
)

// selectionFlags are the filter, window, level and what-if flags shared by
// compute and export.
type selectionFlags struct {
	countries     []string
	businessUnits []string
	categories    []string
	subCategories []string
	search        string
	window        string
	level         string
	inputsLevel   string
	inputs        []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.countries, "country", nil, "Country filter (repeatable or comma separated)")
	flags.StringSliceVar(&f.businessUnits, "business-unit", nil, "Business unit filter")
	flags.StringSliceVar(&f.categories, "category", nil, "Category filter")
	flags.StringSliceVar(&f.subCategories, "sub-category", nil, "Sub category filter")
	flags.StringVar(&f.search, "search", "", "Case-insensitive substring matched against every dimension")
	flags.StringVar(&f.window, "window", "", "Rate window: 13weeks or 8weeks (default from config)")
	flags.StringVar(&f.level, "level", "", "Aggregation level: SUB_CATEGORY, BUSINESS_UNIT or CATEGORY (default from config)")
	flags.StringVar(&f.inputsLevel, "inputs-level", "", "Level the --input rows refer to (default: --level)")
	flags.StringArrayVar(&f.inputs, "input", nil, "What-if value as row:column=value, e.g. 0:LOW_SIDE_PERCENT=95")
}

// request builds and validates the wire request the flags describe.
func (f *selectionFlags) request() (api.ComputeRequest, error) {
	req := api.ComputeRequest{
		SelectionRequest: api.SelectionRequest{
			Filters: api.FiltersRequest{
				Country:      f.countries,
				BusinessUnit: f.businessUnits,
				Category:     f.categories,
				SubCategory:  f.subCategories,
				Search:       f.search,
			},
			Window: f.window,
			Level:  strings.ToUpper(f.level),
		},
		InputsLevel: strings.ToUpper(f.inputsLevel),
	}

	for _, raw := range f.inputs {
		in, err := parseInput(raw)
		if err != nil {
			return api.ComputeRequest{}, err
		}
		req.Inputs = append(req.Inputs, in)
	}

	if err := middleware.ValidateStruct(middleware.NewValidator(), req); err != nil {
		return api.ComputeRequest{}, describeError(err)
	}
	return req, nil
}

// parseInput parses row:column=value. The value may be empty, which clears
// the input.
func parseInput(raw string) (api.UserInputRequest, error) {
	target, value, ok := strings.Cut(raw, "=")
	if !ok {
		return api.UserInputRequest{}, fmt.Errorf("invalid --input %q: expected row:column=value", raw)
	}
	rowText, column, ok := strings.Cut(target, ":")
	if !ok {
		return api.UserInputRequest{}, fmt.Errorf("invalid --input %q: expected row:column=value", raw)
	}

	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil {
		return api.UserInputRequest{}, fmt.Errorf("invalid --input %q: row must be an integer", raw)
	}

	return api.UserInputRequest{
		Row:    row,
		Column: strings.ToUpper(strings.TrimSpace(column)),
		Value:  strings.TrimSpace(value),
	}, nil
}
