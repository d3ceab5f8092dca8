package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

func TestFlexString_AcceptsStringsAndNumbers(t *testing.T) {
	var req SubmitQueryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"latitude":52.52,"longitude":"13.41","start_date":"2024-12-09","end_date":null}`), &req))

	in := req.FormInput()
	assert.Equal(t, "52.52", in.Latitude)
	assert.Equal(t, "13.41", in.Longitude)
	assert.Equal(t, "2024-12-09", in.StartDate)
	assert.Empty(t, in.EndDate)

	var bad SubmitQueryRequest
	assert.Error(t, json.Unmarshal([]byte(`{"latitude":true}`), &bad))
}

func TestFetchErrorStatus(t *testing.T) {
	tests := []struct {
		err    *weather.FetchError
		status int
		code   string
	}{
		{weather.NewServerError(500), http.StatusBadGateway, CodeServerError},
		{weather.NewNoResponseError(errors.New("dial tcp: refused")), http.StatusGatewayTimeout, CodeNoResponse},
		{weather.NewUnknownError(errors.New("decode")), http.StatusInternalServerError, CodeUnknownError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			status, code := fetchErrorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)

			resp := fetchErrorResponse(tt.err)
			assert.Equal(t, tt.err.Error(), resp.Error)
		})
	}
}

func TestResponseBodiesHaveNoValidationRules(t *testing.T) {
	for _, body := range []interface{}{ErrorResponse{}, HealthResponse{}, ValidationErrorResponse{}, LandingResponse{}} {
		typ := reflect.TypeOf(body)
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			_, ok := field.Tag.Lookup("validate")
			assert.False(t, ok, "%s.%s", typ.Name(), field.Name)
		}
	}
}
