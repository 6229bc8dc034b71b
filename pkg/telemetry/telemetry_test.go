package telemetry

import (
	"context"
	"testing"

	"bookingdesk/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown := Setup(context.Background(), "bookingdesk", logger.Discard())
	assert.NoError(t, shutdown(context.Background()))
}
