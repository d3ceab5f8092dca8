package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-dashboard/internal/config"
)

func TestNew_Disabled(t *testing.T) {
	tele, err := New(context.Background(), config.TelemetryConfig{Enabled: false}, "test")
	require.NoError(t, err)

	assert.False(t, tele.IsEnabled())
	assert.NotNil(t, tele.GetTracer())
	assert.NoError(t, tele.Shutdown(context.Background()))
}

func TestNilTelemetry(t *testing.T) {
	var tele *Telemetry

	assert.False(t, tele.IsEnabled())

	_, span := tele.GetTracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tele.Shutdown(context.Background()))
}
