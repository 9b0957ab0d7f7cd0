package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpansAreExported(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("test", "0.0.0", exporter))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	_, ok := StartSpan(context.Background(), "artifact_version.approve", attribute.Int64("version.id", 3))
	EndSpan(ok, nil)

	_, failed := StartSpan(context.Background(), "artifact_version.reject")
	EndSpan(failed, errors.New("boom"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "artifact_version.approve", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "boom", spans[1].Status.Description)
}

func TestEndSpanNil(t *testing.T) {
	assert.NotPanics(t, func() { EndSpan(nil, errors.New("x")) })
}
