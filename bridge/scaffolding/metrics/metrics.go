// Package metrics publishes process counters through expvar.
package metrics

import (
	"context"
	"expvar"
	"runtime"
)

type metrics struct {
	goroutines  *expvar.Int
	requests    *expvar.Int
	errors      *expvar.Int
	panics      *expvar.Int
	broadcasts  *expvar.Int
	dropped     *expvar.Int
	subscribers *expvar.Int
	logErrors   *expvar.Int
}

// Singleton: expvar panics on duplicate names.
var m metrics

func init() {
	m = metrics{
		goroutines:  expvar.NewInt("goroutines"),
		requests:    expvar.NewInt("requests"),
		errors:      expvar.NewInt("errors"),
		panics:      expvar.NewInt("panics"),
		broadcasts:  expvar.NewInt("broadcasts"),
		dropped:     expvar.NewInt("broadcasts_dropped"),
		logErrors:   expvar.NewInt("log_errors"),
		subscribers: expvar.NewInt("subscribers"),
	}
}

type ctxKey int

const key ctxKey = 1

// Set puts the metrics into the context for the request.
func Set(ctx context.Context) context.Context {
	return context.WithValue(ctx, key, &m)
}

func fromContext(ctx context.Context) *metrics {
	if v, ok := ctx.Value(key).(*metrics); ok {
		return v
	}
	return &m
}

// AddGoroutines refreshes the goroutine gauge.
func AddGoroutines(ctx context.Context) int64 {
	g := int64(runtime.NumGoroutine())
	fromContext(ctx).goroutines.Set(g)
	return g
}

// AddRequests increments the request counter.
func AddRequests(ctx context.Context) int64 {
	v := fromContext(ctx)
	v.requests.Add(1)
	return v.requests.Value()
}

// AddErrors increments the error counter.
func AddErrors(ctx context.Context) int64 {
	v := fromContext(ctx)
	v.errors.Add(1)
	return v.errors.Value()
}

// AddPanics increments the panic counter.
func AddPanics(ctx context.Context) int64 {
	v := fromContext(ctx)
	v.panics.Add(1)
	return v.panics.Value()
}

// SetSubscribers records the number of live notification subscribers.
func SetSubscribers(n int) {
	m.subscribers.Set(int64(n))
}

// AddBroadcast counts one published event and the deliveries it missed
// because a subscriber buffer was full.
func AddBroadcast(dropped int) {
	m.broadcasts.Add(1)
	m.dropped.Add(int64(dropped))
}

// AddLogError counts records written at error level.
func AddLogError() {
	m.logErrors.Add(1)
}
