package webhook

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/matryer/is"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestDeliverySpans(t *testing.T) {
	is := is.New(t)
	sr := recordSpans(t)
	ctx := testContext()

	rcv := newReceiver(t, http.StatusAccepted, "")
	dead := deadURL(t)
	reg := &memRegistry{hooks: []Hook{
		{ID: 1, Action: ActionProjectDelete, URL: rcv.URL, Enabled: true},
		{ID: 2, Action: ActionProjectDelete, URL: dead, Enabled: true},
	}}

	ev, err := NewEvent(ActionProjectDelete, map[string]int{"id": 9})
	is.NoErr(err)
	NewDispatcher(ctx, reg).Dispatch(ctx, ev)

	spans := sr.Ended()
	is.Equal(len(spans), 2)

	byID := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range spans {
		is.Equal(s.Name(), "webhook.delivery")
		byID[spanAttrs(s)["webhook.id"].AsString()] = s
	}

	ok := byID["1"]
	attrs := spanAttrs(ok)
	is.Equal(attrs["webhook.action"].AsString(), "project.delete")
	is.Equal(attrs["http.response.status_code"].AsInt64(), int64(http.StatusAccepted))
	u, err := url.Parse(rcv.URL)
	is.NoErr(err)
	is.Equal(attrs["server.address"].AsString(), u.Hostname())
	is.True(attrs["webhook.delivery_id"].AsString() != "")
	is.True(ok.Status().Code != codes.Error)

	failed := byID["2"]
	is.Equal(failed.Status().Code, codes.Error)
	_, hasStatus := spanAttrs(failed)["http.response.status_code"]
	is.True(!hasStatus)
	is.Equal(len(failed.Events()), 1) // the recorded error
}
