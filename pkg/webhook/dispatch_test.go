package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/taskmill/taskmill/pkg/config"
)

// memRegistry is an in-memory Registry.
type memRegistry struct {
	mu        sync.Mutex
	hooks     []Hook
	logs      []Log
	lookupErr error
	appendErr error
	lookups   int
}

func (r *memRegistry) WebhooksByAction(_ context.Context, action Action) ([]Hook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	var hooks []Hook
	for _, h := range r.hooks {
		if h.Action == action {
			hooks = append(hooks, h)
		}
	}
	return hooks, nil
}

func (r *memRegistry) AppendWebhookLog(_ context.Context, l Log) (Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return Log{}, r.appendErr
	}
	l.ID = int64(len(r.logs) + 1)
	l.CreatedAt = time.Now()
	r.logs = append(r.logs, l)
	return l, nil
}

func (r *memRegistry) logsFor(id int64) []Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	var logs []Log
	for _, l := range r.logs {
		if l.WebhookID == id {
			logs = append(logs, l)
		}
	}
	return logs
}

// receiver is a webhook endpoint recording what it receives.
type receiver struct {
	*httptest.Server
	mu   sync.Mutex
	reqs []receivedRequest
}

type receivedRequest struct {
	header http.Header
	body   string
}

func newReceiver(t *testing.T, status int, response string) *receiver {
	t.Helper()
	rcv := &receiver{}
	rcv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rcv.mu.Lock()
		rcv.reqs = append(rcv.reqs, receivedRequest{r.Header.Clone(), string(body)})
		rcv.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(rcv.Close)
	return rcv
}

func (r *receiver) requests() []receivedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]receivedRequest(nil), r.reqs...)
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	u := srv.URL
	srv.Close()
	return u
}

func testContext() context.Context {
	cfg := config.DefaultConfig()
	cfg.Webhook.Timeout = 2 * time.Second
	return config.WithContext(context.TODO(), cfg)
}

func TestDispatchSignedTaskCreate(t *testing.T) {
	is := is.New(t)
	ctx := testContext()

	rcv := newReceiver(t, http.StatusOK, "ok")
	reg := &memRegistry{hooks: []Hook{
		{ID: 1, Action: ActionTaskCreate, URL: rcv.URL + "/hook", Secret: "k", Enabled: true},
	}}

	ev, err := NewEvent(ActionTaskCreate, map[string]any{"id": 1, "name": "T"})
	is.NoErr(err)
	NewDispatcher(ctx, reg).Dispatch(ctx, ev)

	logs := reg.logsFor(1)
	is.Equal(len(logs), 1)
	is.Equal(logs[0].Action, "task.create")
	is.Equal(logs[0].Payload, `{"id":1,"name":"T"}`)
	is.Equal(*logs[0].StatusCode, http.StatusOK)
	is.Equal(logs[0].Response, "ok")

	reqs := rcv.requests()
	is.Equal(len(reqs), 1)
	is.Equal(reqs[0].body, logs[0].Payload) // the logged bytes are the sent bytes
	is.Equal(reqs[0].header.Get(SignatureHeader), Sign("k", []byte(logs[0].Payload)))
	is.Equal(reqs[0].header.Get(DeliveryHeader), logs[0].DeliveryID)
}

func TestDispatchIsolatesFailures(t *testing.T) {
	is := is.New(t)
	ctx := testContext()

	rcv := newReceiver(t, http.StatusOK, "ok")
	reg := &memRegistry{hooks: []Hook{
		{ID: 1, Action: ActionProjectDelete, URL: deadURL(t), Enabled: true},
		{ID: 2, Action: ActionProjectDelete, URL: rcv.URL, Enabled: true},
	}}

	ev, err := NewEvent(ActionProjectDelete, map[string]any{"id": 9, "name": "Apollo"})
	is.NoErr(err)
	NewDispatcher(ctx, reg).Dispatch(ctx, ev)

	refused := reg.logsFor(1)
	is.Equal(len(refused), 1)
	is.True(refused[0].StatusCode == nil)
	is.True(refused[0].Response != "")
	is.Equal(refused[0].Payload, `{"id":9,"name":"Apollo"}`)

	ok := reg.logsFor(2)
	is.Equal(len(ok), 1)
	is.Equal(*ok[0].StatusCode, http.StatusOK)
	is.Equal(len(rcv.requests()), 1)
}

func TestDispatchSkipsDisabledAndOtherActions(t *testing.T) {
	is := is.New(t)
	ctx := testContext()

	rcv := newReceiver(t, http.StatusNoContent, "")
	reg := &memRegistry{hooks: []Hook{
		{ID: 1, Action: ActionUserUpdate, URL: rcv.URL, Enabled: true},
		{ID: 2, Action: ActionUserUpdate, URL: rcv.URL, Enabled: false},
		{ID: 3, Action: ActionUserDelete, URL: rcv.URL, Enabled: true},
		{ID: 4, Action: ActionUserUpdate, URL: rcv.URL, Enabled: true},
	}}

	ev, err := NewEvent(ActionUserUpdate, map[string]any{"id": 1})
	is.NoErr(err)
	NewDispatcher(ctx, reg).Dispatch(ctx, ev)

	is.Equal(reg.lookups, 1)
	is.Equal(len(reg.logsFor(1)), 1)
	is.Equal(len(reg.logsFor(2)), 0)
	is.Equal(len(reg.logsFor(3)), 0)
	is.Equal(len(reg.logsFor(4)), 1)
	is.Equal(len(rcv.requests()), 2)
}

func TestDispatchLogsErrorStatuses(t *testing.T) {
	is := is.New(t)
	ctx := testContext()

	rcv := newReceiver(t, http.StatusInternalServerError, "boom")
	reg := &memRegistry{hooks: []Hook{{ID: 1, Action: ActionTaskDelete, URL: rcv.URL, Enabled: true}}}

	ev, err := NewEvent(ActionTaskDelete, map[string]any{"id": 1})
	is.NoErr(err)
	NewDispatcher(ctx, reg).Dispatch(ctx, ev)

	logs := reg.logsFor(1)
	is.Equal(len(logs), 1)
	is.Equal(*logs[0].StatusCode, http.StatusInternalServerError)
	is.Equal(logs[0].Response, "boom")
}

func TestDispatchManyWebhooks(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Webhook.Workers = 3
	ctx := config.WithContext(context.TODO(), cfg)

	rcv := newReceiver(t, http.StatusOK, "ok")
	reg := &memRegistry{}
	for i := 1; i <= 10; i++ {
		reg.hooks = append(reg.hooks, Hook{ID: int64(i), Action: ActionTaskLog, URL: rcv.URL, Enabled: true})
	}

	ev, err := NewEvent(ActionTaskLog, map[string]any{"id": 1})
	is.NoErr(err)
	NewDispatcher(ctx, reg).Dispatch(ctx, ev)

	ids := make([]int, 0, len(reg.logs))
	for _, l := range reg.logs {
		ids = append(ids, int(l.WebhookID))
	}
	sort.Ints(ids)
	is.Equal(ids, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
}

func TestDispatchNeverFails(t *testing.T) {
	is := is.New(t)
	ctx := testContext()

	ev, err := NewEvent(ActionTaskUpdate, map[string]any{"id": 1})
	is.NoErr(err)

	// Registry lookups failing.
	NewDispatcher(ctx, &memRegistry{lookupErr: errors.New("db down")}).Dispatch(ctx, ev)

	// Log appends failing, e.g. the webhook was deleted mid-flight.
	rcv := newReceiver(t, http.StatusOK, "ok")
	reg := &memRegistry{
		hooks:     []Hook{{ID: 1, Action: ActionTaskUpdate, URL: rcv.URL, Enabled: true}},
		appendErr: errors.New("webhook not found"),
	}
	NewDispatcher(ctx, reg).Dispatch(ctx, ev)
	is.Equal(len(rcv.requests()), 1)

	// A malformed stored URL only fails its own webhook.
	reg = &memRegistry{hooks: []Hook{
		{ID: 1, Action: ActionTaskUpdate, URL: "::not a url", Enabled: true},
		{ID: 2, Action: ActionTaskUpdate, URL: rcv.URL, Enabled: true},
	}}
	NewDispatcher(ctx, reg).Dispatch(ctx, ev)
	is.Equal(len(reg.logsFor(1)), 1)
	is.True(reg.logsFor(1)[0].StatusCode == nil)
	is.Equal(*reg.logsFor(2)[0].StatusCode, http.StatusOK)
}
