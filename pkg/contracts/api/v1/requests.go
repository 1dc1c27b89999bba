// Package api contains API contract definitions for the run-rate forecast service.
// Version v1 represents the current stable API version.
package api

import (
	"encoding/json"
	"strings"
)

// Accepted enumerations
const (
	Window13Weeks = "13weeks"
	Window8Weeks  = "8weeks"

	LevelSubCategory  = "SUB_CATEGORY"
	LevelBusinessUnit = "BUSINESS_UNIT"
	LevelCategory     = "CATEGORY"
)

// StringList is a filter criterion. It decodes from either a single string
// or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if strings.TrimSpace(one) == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// Forecast API Requests

// FiltersRequest holds the hierarchical filter criteria
type FiltersRequest struct {
	Country      StringList `json:"country,omitempty" validate:"omitempty,max=500,dive,max=200"`
	BusinessUnit StringList `json:"businessUnit,omitempty" validate:"omitempty,max=500,dive,max=200"`
	Category     StringList `json:"category,omitempty" validate:"omitempty,max=500,dive,max=200"`
	SubCategory  StringList `json:"subCategory,omitempty" validate:"omitempty,max=500,dive,max=200"`
	Search       string     `json:"search,omitempty" validate:"max=200"`
}

// UserInputRequest is one what-if percentage typed against a displayed row
type UserInputRequest struct {
	Row    int    `json:"row" validate:"gte=0"`
	Column string `json:"column" validate:"required,userinputcolumn"`
	Value  string `json:"value" validate:"max=64"`
}

// SelectionRequest is the selection part shared by every forecast call
type SelectionRequest struct {
	Filters FiltersRequest `json:"filters"`
	Window  string         `json:"rateWindow,omitempty" validate:"omitempty,oneof=13weeks 8weeks"`
	Level   string         `json:"level,omitempty" validate:"omitempty,oneof=SUB_CATEGORY BUSINESS_UNIT CATEGORY"`
}

// ComputeRequest represents a request to run one forecast pass
type ComputeRequest struct {
	SelectionRequest
	// InputsLevel is the level the inputs were typed at; empty means Level.
	InputsLevel string             `json:"inputsLevel,omitempty" validate:"omitempty,oneof=SUB_CATEGORY BUSINESS_UNIT CATEGORY"`
	Inputs      []UserInputRequest `json:"inputs,omitempty" validate:"omitempty,max=10000,dive"`
}

// ExportRequest represents a request to export the visible view
type ExportRequest struct {
	ComputeRequest
	Columns []string `json:"columns,omitempty" validate:"omitempty,max=100,dive,columnid"`
}

// OptionsRequest represents a request for cascading filter options
type OptionsRequest struct {
	Filters FiltersRequest `json:"filters"`
}

// CalendarRequest represents a request for remaining day counts
type CalendarRequest struct {
	Date string `json:"date" query:"date" validate:"omitempty,datetime=2006-01-02"`
}

// Health API Requests

// HealthCheckRequest represents a health check request
type HealthCheckRequest struct {
	Verbose bool `json:"verbose" query:"verbose"`
}
