package notifybridge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/jrazmi/taskwire/bridge/notifybridge"
	"github.com/jrazmi/taskwire/bridge/scaffolding/mid"
	"github.com/jrazmi/taskwire/infrastructure/notify"
	"github.com/jrazmi/taskwire/infrastructure/web"
	"github.com/jrazmi/taskwire/sdk/logger"
)

type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func newServer(t *testing.T) (*httptest.Server, *notify.Hub) {
	t.Helper()
	log := logger.NewDiscard()
	hub := notify.NewHub(log, notifybridge.HubOptions()...)

	wh := web.NewWebHandler(web.HandlerOptions{},
		web.WithGlobalMiddleware(mid.Logger(log), mid.Errors(log), mid.Panics()))
	notifybridge.AddHttpRoutes(wh.Group("/api"), notifybridge.Config{Log: log, Hub: hub})

	srv := httptest.NewServer(wh)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, hub
}

func dial(t *testing.T, ctx context.Context, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *notify.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d, want %d", hub.Count(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscriberReceivesEvents(t *testing.T) {
	srv, hub := newServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a := dial(t, ctx, srv)
	b := dial(t, ctx, srv)
	waitForSubscribers(t, hub, 2)

	hub.Publish(ctx, "taskCreated", map[string]string{"id": "t1", "title": "Ship it"})
	hub.Publish(ctx, "taskDeleted", "t1")

	for _, conn := range []*websocket.Conn{a, b} {
		var first, second frame
		if err := wsjson.Read(ctx, conn, &first); err != nil {
			t.Fatalf("read: %v", err)
		}
		if err := wsjson.Read(ctx, conn, &second); err != nil {
			t.Fatalf("read: %v", err)
		}

		data, ok := first.Data.(map[string]any)
		if first.Event != "taskCreated" || !ok || data["id"] != "t1" {
			t.Fatalf("first frame = %+v", first)
		}
		if second.Event != "taskDeleted" || second.Data != "t1" {
			t.Fatalf("second frame = %+v", second)
		}
	}
}

func TestDisconnectUnsubscribes(t *testing.T) {
	srv, hub := newServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, srv)
	waitForSubscribers(t, hub, 1)

	conn.Close(websocket.StatusNormalClosure, "bye")
	waitForSubscribers(t, hub, 0)
}

func TestHubCloseEndsStream(t *testing.T) {
	srv, hub := newServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, srv)
	waitForSubscribers(t, hub, 1)

	hub.Close()

	_, _, err := conn.Read(ctx)
	if websocket.CloseStatus(err) != websocket.StatusGoingAway {
		t.Fatalf("read err = %v, want going away close", err)
	}
}

func TestPlainRequestRejected(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		t.Fatalf("status = %d, want a 4xx for a non-websocket request", resp.StatusCode)
	}
}
