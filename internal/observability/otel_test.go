package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaders(t *testing.T) {
	assert.Nil(t, ParseHeaders(""))
	assert.Nil(t, ParseHeaders("novalue, =x"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2=3"}, ParseHeaders(" a=1 ,bad, b=2=3"))
}

func TestSampleRatioClamps(t *testing.T) {
	t.Setenv("OTEL_SAMPLER_RATIO", "")
	assert.Equal(t, 0.1, SampleRatio())
	t.Setenv("OTEL_SAMPLER_RATIO", "7")
	assert.Equal(t, 1.0, SampleRatio())
	t.Setenv("OTEL_SAMPLER_RATIO", "-2")
	assert.Equal(t, 0.0, SampleRatio())
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "false")
	shutdown := InitOTel(context.Background(), nil, OtelConfig{ServiceName: "test"})
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
