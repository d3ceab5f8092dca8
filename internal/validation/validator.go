package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func GetValidator() *validator.Validate {
	return validate
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180.0 && lon <= 180.0
}

// FormInput is the raw, unparsed form as typed by the user.
type FormInput struct {
	Latitude  string `form:"latitude" json:"latitude"`
	Longitude string `form:"longitude" json:"longitude"`
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
}

type parsedInput struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
}

var fieldLabels = map[string]string{
	"latitude":   "Latitude",
	"longitude":  "Longitude",
	"start_date": "Start date",
	"end_date":   "End date",
}

// Error holds one message per offending form field.
type Error struct {
	Fields map[string]string `json:"fields"`
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate parses and checks the form. It does not check that the start
// date precedes the end date.
func Validate(in FormInput) (weather.Query, error) {
	fields := make(map[string]string)

	lat, err := parseCoordinate(in.Latitude)
	if err != nil {
		fields["latitude"] = "Latitude must be a number"
	}
	lon, err := parseCoordinate(in.Longitude)
	if err != nil {
		fields["longitude"] = "Longitude must be a number"
	}

	parsed := parsedInput{
		Latitude:  lat,
		Longitude: lon,
		StartDate: strings.TrimSpace(in.StartDate),
		EndDate:   strings.TrimSpace(in.EndDate),
	}

	if err := validate.Struct(parsed); err != nil {
		if validatorErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validatorErrs {
				if _, exists := fields[fe.Field()]; exists {
					continue
				}
				fields[fe.Field()] = getErrorMessage(fe)
			}
		} else {
			return weather.Query{}, err
		}
	}

	if len(fields) > 0 {
		return weather.Query{}, &Error{Fields: fields}
	}

	return weather.Query{
		Latitude:  parsed.Latitude,
		Longitude: parsed.Longitude,
		StartDate: parsed.StartDate,
		EndDate:   parsed.EndDate,
	}, nil
}

func parseCoordinate(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func getErrorMessage(err validator.FieldError) string {
	label, ok := fieldLabels[err.Field()]
	if !ok {
		label = err.Field()
	}

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "latitude":
		return fmt.Sprintf("%s must be between -90 and 90", label)
	case "longitude":
		return fmt.Sprintf("%s must be between -180 and 180", label)
	case "datetime":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
