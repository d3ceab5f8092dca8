package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/validation"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

// FlexString accepts either a JSON string or a JSON number, so clients may
// send coordinates as typed text or as numbers.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = FlexString(num.String())
	return nil
}

// SubmitQueryRequest is the raw dashboard form.
type SubmitQueryRequest struct {
	Latitude  FlexString `form:"latitude" json:"latitude"`
	Longitude FlexString `form:"longitude" json:"longitude"`
	StartDate string     `form:"start_date" json:"start_date"`
	EndDate   string     `form:"end_date" json:"end_date"`
}

func (r SubmitQueryRequest) FormInput() validation.FormInput {
	return validation.FormInput{
		Latitude:  string(r.Latitude),
		Longitude: string(r.Longitude),
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

type SetPageRequest struct {
	Page int `form:"page" json:"page"`
}

type SetRowsPerPageRequest struct {
	RowsPerPage int `form:"rows_per_page" json:"rows_per_page"`
}

// ArchiveRequest is the query string of the stateless archive endpoint.
type ArchiveRequest struct {
	Latitude    string `form:"latitude"`
	Longitude   string `form:"longitude"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
	Page        int    `form:"page,default=1"`
	RowsPerPage int    `form:"rows_per_page,default=10"`
}

type ArchiveResponse struct {
	Query weather.Query      `json:"query"`
	Page  dashboard.PageView `json:"page"`
}

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

// DashboardErrorResponse carries a fetch error together with the dashboard
// state it left behind.
type DashboardErrorResponse struct {
	ErrorResponse
	Dashboard dashboard.Snapshot `json:"dashboard"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}

type LandingResponse struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Links   map[string]string `json:"links"`
}
