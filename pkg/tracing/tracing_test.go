package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/taskmill/taskmill/pkg/config"
)

func TestNewProviderDisabled(t *testing.T) {
	is := is.New(t)
	tp, err := NewProvider(context.TODO(), config.DefaultConfig(), nil)
	is.NoErr(err)
	is.True(tp == nil)

	shutdown, err := Install(context.TODO(), config.DefaultConfig())
	is.NoErr(err)
	is.NoErr(shutdown(context.TODO()))
}

func TestNewProviderErrors(t *testing.T) {
	is := is.New(t)
	_, err := NewProvider(context.TODO(), nil, nil)
	is.Equal(err, config.ErrNilConfig)

	cfg := config.DefaultConfig()
	cfg.Tracing.Exporter = "zipkin"
	_, err = NewProvider(context.TODO(), cfg, nil)
	is.True(err != nil)
}

func TestStdoutProviderExportsSpans(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Tracing.Exporter = "stdout"

	var buf bytes.Buffer
	tp, err := NewProvider(context.TODO(), cfg, &buf)
	is.NoErr(err)

	_, span := tp.Tracer("test").Start(context.TODO(), "webhook.delivery")
	span.End()
	is.NoErr(tp.Shutdown(context.TODO()))

	out := buf.String()
	is.True(strings.Contains(out, `"webhook.delivery"`))
	is.True(strings.Contains(out, "taskmill"))
}

func TestValidateTracing(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.Tracing.Exporter = "jaeger"
	is.True(cfg.Validate() != nil)

	cfg.Tracing.Exporter = "otlp"
	cfg.Tracing.SampleRatio = 2
	is.True(cfg.Validate() != nil)
}
