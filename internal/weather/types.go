package weather

import (
	"strconv"
	"strings"
)

// Daily metric names requested from the archive provider.
const (
	MetricTemperatureMax          = "temperature_2m_max"
	MetricTemperatureMin          = "temperature_2m_min"
	MetricTemperatureMean         = "temperature_2m_mean"
	MetricApparentTemperatureMax  = "apparent_temperature_max"
	MetricApparentTemperatureMin  = "apparent_temperature_min"
	MetricApparentTemperatureMean = "apparent_temperature_mean"
)

// DailyMetrics is the fixed list of metrics sent in the `daily` parameter.
var DailyMetrics = []string{
	MetricTemperatureMax,
	MetricTemperatureMin,
	MetricTemperatureMean,
	MetricApparentTemperatureMax,
	MetricApparentTemperatureMin,
	MetricApparentTemperatureMean,
}

// Query identifies one archive request and its cache entry.
type Query struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

// Key joins the four query fields. Identical queries always produce the same key.
func (q Query) Key() string {
	return strings.Join([]string{
		strconv.FormatFloat(q.Latitude, 'f', -1, 64),
		strconv.FormatFloat(q.Longitude, 'f', -1, 64),
		q.StartDate,
		q.EndDate,
	}, "|")
}

// DailyRecord is one day of temperature metrics. A nil metric means the
// provider has no value for that day and is serialised as null.
type DailyRecord struct {
	Time             string   `json:"time"`
	ApparentTempMax  *float64 `json:"apparent_temp_max"`
	ApparentTempMin  *float64 `json:"apparent_temp_min"`
	ApparentTempMean *float64 `json:"apparent_temp_mean"`
	Temp2MMax        *float64 `json:"temp_2m_max"`
	Temp2MMin        *float64 `json:"temp_2m_min"`
	Temp2MMean       *float64 `json:"temp_2m_mean"`
}

// Temp returns a pointer to v for building records.
func Temp(v float64) *float64 {
	return &v
}

// Report is the fetched dataset for one query. Cached reports must not be mutated.
type Report struct {
	Data  []DailyRecord     `json:"data"`
	Units map[string]string `json:"units"`
}

// Len returns the number of daily records, tolerating a nil report.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Data)
}
