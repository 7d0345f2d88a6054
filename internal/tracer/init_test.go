package tracer

import (
	"context"
	"testing"

	"bayan-ai-be/internal/config"
	"bayan-ai-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown := InitTracer(config.TelemetryConfig{Enabled: false}, "bayan-ai-be", logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}
