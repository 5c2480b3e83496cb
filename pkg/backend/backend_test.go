package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/db/migrate"
	"github.com/taskmill/taskmill/pkg/store/database"
	"github.com/taskmill/taskmill/pkg/webhook"
)

func setup(tb testing.TB, mutate ...func(*config.Config)) (context.Context, *Backend) {
	tb.Helper()
	is := is.New(tb)

	cfg := config.DefaultConfig()
	cfg.Webhook.Async = false
	cfg.Webhook.Timeout = 2 * time.Second
	cfg.Webhook.TestTimeout = 2 * time.Second
	for _, fn := range mutate {
		fn(cfg)
	}

	ctx := config.WithContext(context.TODO(), cfg)
	dsn := filepath.Join(tb.TempDir(), "backend.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	dbx, err := db.Open(ctx, "sqlite", dsn)
	is.NoErr(err)
	tb.Cleanup(func() { _ = dbx.Close() })
	is.NoErr(migrate.Migrate(ctx, dbx))

	be := New(ctx, cfg, dbx, database.New(ctx, dbx))
	tb.Cleanup(func() { _ = be.Close(context.TODO()) })
	return ctx, be
}

// receiver is a webhook endpoint recording the bodies it receives.
type receiver struct {
	*httptest.Server
	mu     sync.Mutex
	bodies []string
}

func newReceiver(t *testing.T, status int) *receiver {
	t.Helper()
	rcv := &receiver{}
	rcv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rcv.mu.Lock()
		rcv.bodies = append(rcv.bodies, string(body))
		rcv.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, "received")
	}))
	t.Cleanup(rcv.Close)
	return rcv
}

func (r *receiver) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.bodies...)
}

func createHook(t *testing.T, ctx context.Context, be *Backend, action, url string) webhook.Hook {
	t.Helper()
	h, err := be.CreateWebhook(ctx, webhook.Definition{Action: action, URL: url})
	if err != nil {
		t.Fatalf("create %s webhook: %v", action, err)
	}
	return h
}

func createUser(t *testing.T, ctx context.Context, be *Backend, email string) int64 {
	t.Helper()
	u, err := be.CreateUser(ctx, UserOptions{Name: "Ada", Email: email, Password: "hunter22"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}
