package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usersvc/internal/config"
)

func TestNewMetrics_RegistersOnGivenRegistry(t *testing.T) {
	// テストごとに新しいRegistryを使う
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/hello", "200").Inc()
	m.RefreshTokensCleanedTotal.Add(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/hello", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RefreshTokensCleanedTotal))

	n, err := testutil.GatherAndCount(reg, "refresh_tokens_cleanup_deleted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// 別のRegistryなら二重登録にならない
	assert.NotPanics(t, func() { NewMetrics(prometheus.NewRegistry()) })
}

func TestInitTracing_Disabled(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	shutdown, err := InitTracing(context.Background(), config.TracingConfig{Enabled: false}, "1.0.0", log)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSamplerFromEnv(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "traceidratio")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
	s, name := samplerFromEnv()
	assert.Equal(t, "traceidratio", name)
	assert.Contains(t, s.Description(), "0.25")

	t.Setenv("OTEL_TRACES_SAMPLER", "")
	_, name = samplerFromEnv()
	assert.Equal(t, "parentbased_always_on", name)
}

func TestNewExporter_UnknownProtocol(t *testing.T) {
	_, err := newExporter(context.Background(), "carrier-pigeon")
	assert.Error(t, err)
}
