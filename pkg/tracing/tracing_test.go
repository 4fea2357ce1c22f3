package tracing

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerDisabled(t *testing.T) {
	tracer, closeFn, err := InitTracer(Config{})
	require.NoError(t, err)
	assert.IsType(t, opentracing.NoopTracer{}, tracer)
	closeFn()
}

func TestInitTracerEnabled(t *testing.T) {
	prev := opentracing.GlobalTracer()
	t.Cleanup(func() { opentracing.SetGlobalTracer(prev) })
	old := SetServiceName("ares_bot_test")
	t.Cleanup(func() { SetServiceName(old) })

	// UDP-репортёр не требует живого агента
	tracer, closeFn, err := InitTracer(Config{Enabled: true, Host: "127.0.0.1", Port: 6831})
	require.NoError(t, err)
	defer closeFn()

	assert.Same(t, tracer, opentracing.GlobalTracer())
	span := tracer.StartSpan("engine.tick")
	span.Finish()
}
