package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() FormInput {
	return FormInput{
		Latitude:  "52.52",
		Longitude: "13.41",
		StartDate: "2024-12-09",
		EndDate:   "2024-12-23",
	}
}

func TestValidate_Success(t *testing.T) {
	q, err := Validate(validForm())
	require.NoError(t, err)

	assert.Equal(t, 52.52, q.Latitude)
	assert.Equal(t, 13.41, q.Longitude)
	assert.Equal(t, "2024-12-09", q.StartDate)
	assert.Equal(t, "2024-12-23", q.EndDate)
}

func TestValidate_BoundaryCoordinates(t *testing.T) {
	cases := []struct{ lat, lon string }{
		{"-90", "-180"},
		{"90", "180"},
		{"0", "0"},
		{" 45.5 ", "-120.25"},
	}

	for _, tc := range cases {
		in := validForm()
		in.Latitude = tc.lat
		in.Longitude = tc.lon

		_, err := Validate(in)
		assert.NoError(t, err, "lat=%s lon=%s", tc.lat, tc.lon)
	}
}

func TestValidate_LatitudeOutOfRange(t *testing.T) {
	in := validForm()
	in.Latitude = "200"

	_, err := Validate(in)
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"latitude": "Latitude must be between -90 and 90"}, verr.Fields)
}

func TestValidate_LongitudeOutOfRange(t *testing.T) {
	in := validForm()
	in.Longitude = "-180.5"

	_, err := Validate(in)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 1)
	assert.Equal(t, "Longitude must be between -180 and 180", verr.Fields["longitude"])
}

func TestValidate_NotANumber(t *testing.T) {
	in := validForm()
	in.Latitude = "north"
	in.Longitude = ""

	_, err := Validate(in)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Latitude must be a number", verr.Fields["latitude"])
	assert.Equal(t, "Longitude must be a number", verr.Fields["longitude"])
	assert.Len(t, verr.Fields, 2)
}

func TestValidate_ReportsAllFields(t *testing.T) {
	_, err := Validate(FormInput{Latitude: "91", Longitude: "x"})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"latitude":   "Latitude must be between -90 and 90",
		"longitude":  "Longitude must be a number",
		"start_date": "Start date is required",
		"end_date":   "End date is required",
	}, verr.Fields)
	assert.Contains(t, err.Error(), "start_date: Start date is required")
}

func TestValidate_DateFormat(t *testing.T) {
	in := validForm()
	in.StartDate = "09/12/2024"

	_, err := Validate(in)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Start date must be in YYYY-MM-DD format", verr.Fields["start_date"])
}

func TestValidate_InvertedRangeAccepted(t *testing.T) {
	in := validForm()
	in.StartDate = "2024-12-23"
	in.EndDate = "2024-12-09"

	q, err := Validate(in)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-23", q.StartDate)
}
