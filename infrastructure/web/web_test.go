package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrazmi/taskwire/infrastructure/web"
)

type payload struct {
	Name string `json:"name"`
}

func (p payload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func tagging(tag string, order *[]string) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			*order = append(*order, tag)
			return next(ctx, r)
		}
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	wh := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(tagging("global", &order)))

	group := wh.Group("/api", tagging("group", &order))
	group.GET("/things", func(ctx context.Context, r *http.Request) web.Encoder {
		order = append(order, "handler")
		return web.NewJSONResponse([]string{"a"})
	}, tagging("route", &order))

	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/things", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := []string{"global", "group", "route", "handler"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v", order, want)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
}

func TestGroupsDoNotShareMiddleware(t *testing.T) {
	var order []string
	wh := web.NewWebHandler(web.HandlerOptions{})
	api := wh.Group("/api", tagging("api", &order))
	a := api.Group("/a", tagging("a", &order))
	b := api.Group("/b", tagging("b", &order))

	ok := func(ctx context.Context, r *http.Request) web.Encoder { return web.NewJSONResponse("ok") }
	a.GET("/x", ok)
	b.GET("/x", ok)

	wh.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/b/x", nil))

	if strings.Join(order, ",") != "api,b" {
		t.Fatalf("order = %v, want [api b]", order)
	}
}

func TestRespondStatus(t *testing.T) {
	wh := web.NewWebHandler(web.HandlerOptions{})
	wh.POST("/created", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewJSONResponseWithStatus(payload{Name: "x"}, http.StatusCreated)
	})
	wh.GET("/fail", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewErrorWithStatus("nope", http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/created", nil))
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	rec = httptest.NewRecorder()
	wh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"nope"}` {
		t.Errorf("body = %s", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	wh := web.NewWebHandler(web.HandlerOptions{CORSOrigins: []string{"https://app.example"}})
	called := false
	wh.PUT("/items/{id}", func(ctx context.Context, r *http.Request) web.Encoder {
		called = true
		return web.NewJSONResponse("ok")
	})
	wh.DELETE("/items/{id}", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewJSONResponse("ok")
	})

	req := httptest.NewRequest(http.MethodOptions, "/items/1", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, req)

	if called {
		t.Fatal("handler ran for preflight request")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("allow origin = %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestDecode(t *testing.T) {
	var p payload
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	if err := web.Decode(r, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "x" {
		t.Errorf("name = %q", p.Name)
	}

	var empty payload
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	if err := web.Decode(r, &empty); err == nil {
		t.Error("expected validation error")
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	if err := web.Decode(r, &p); !errors.Is(err, web.ErrEmptyBody) {
		t.Errorf("err = %v, want ErrEmptyBody", err)
	}
}
