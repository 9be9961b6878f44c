// Package notifybridge streams hub events to websocket subscribers.
package notifybridge

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/jrazmi/taskwire/bridge/scaffolding/metrics"
	"github.com/jrazmi/taskwire/infrastructure/notify"
	"github.com/jrazmi/taskwire/infrastructure/web"
	"github.com/jrazmi/taskwire/sdk/cryptids"
	"github.com/jrazmi/taskwire/sdk/logger"
)

// DefaultWriteTimeout bounds a single frame write to a subscriber.
const DefaultWriteTimeout = 5 * time.Second

// Config holds configuration for the events bridge.
type Config struct {
	Log          *logger.Logger
	Hub          *notify.Hub
	Origins      []string
	WriteTimeout time.Duration
	Middleware   []web.Middleware
}

type bridge struct {
	log          *logger.Logger
	hub          *notify.Hub
	origins      []string
	writeTimeout time.Duration
}

// AddHttpRoutes registers GET {group}/events.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := &bridge{
		log:          cfg.Log,
		hub:          cfg.Hub,
		origins:      originPatterns(cfg.Origins),
		writeTimeout: cfg.WriteTimeout,
	}
	if b.writeTimeout <= 0 {
		b.writeTimeout = DefaultWriteTimeout
	}

	group.GET("/events", b.httpSubscribe, cfg.Middleware...)
}

// HubOptions reports hub activity through the metrics package.
func HubOptions() []notify.Option {
	return []notify.Option{
		notify.WithSubscriberCount(metrics.SetSubscribers),
		notify.WithPublishHook(func(event string, delivered, dropped int) {
			metrics.AddBroadcast(dropped)
		}),
	}
}

func (b *bridge) httpSubscribe(ctx context.Context, r *http.Request) web.Encoder {
	w := web.GetWriter(ctx)
	if w == nil {
		return web.NewErrorWithStatus("streaming not supported", http.StatusInternalServerError)
	}

	// The server's deadlines are sized for request/response, not a long-lived socket.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: b.origins})
	if err != nil {
		// Accept has already written the rejection.
		b.log.WarnContext(ctx, "events: upgrade rejected", "error", err, "remoteaddr", r.RemoteAddr)
		return web.NewNoResponse()
	}
	defer conn.CloseNow()

	id, err := cryptids.GenerateID()
	if err != nil {
		id = r.RemoteAddr
	}

	sub := b.hub.Subscribe()
	defer b.hub.Unsubscribe(sub)

	b.log.InfoContext(ctx, "events: subscriber connected", "subscriber", id, "remoteaddr", r.RemoteAddr)

	reason := b.stream(conn.CloseRead(ctx), conn, sub)

	b.log.InfoContext(ctx, "events: subscriber disconnected", "subscriber", id, "reason", reason)
	return web.NewNoResponse()
}

// stream copies frames to conn until the client goes away, the hub closes
// or a write fails.
func (b *bridge) stream(ctx context.Context, conn *websocket.Conn, sub *notify.Subscription) string {
	for {
		select {
		case <-ctx.Done():
			return "client closed"

		case frame, ok := <-sub.Messages():
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return "hub closed"
			}

			writeCtx, cancel := context.WithTimeout(ctx, b.writeTimeout)
			err := conn.Write(writeCtx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return "write timeout"
				}
				return "write failed"
			}
		}
	}
}

// originPatterns turns CORS origins into the host patterns websocket.Accept
// matches the Origin header against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if _, host, found := strings.Cut(o, "://"); found {
			o = host
		}
		patterns = append(patterns, strings.TrimSuffix(o, "/"))
	}
	return patterns
}
