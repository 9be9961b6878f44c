package web

import "strings"

// RouteGroup registers routes under a shared prefix and middleware stack.
type RouteGroup struct {
	webHandler *WebHandler
	prefix     string
	middleware []Middleware
}

func (wh *WebHandler) Group(prefix string, middleware ...Middleware) *RouteGroup {
	return &RouteGroup{
		webHandler: wh,
		prefix:     strings.TrimSuffix(prefix, "/"),
		middleware: middleware,
	}
}

func (g *RouteGroup) Handle(method, path string, handler HandlerFunc, middleware ...Middleware) {
	g.webHandler.Handle(method, g.prefix+path, handler, g.combine(middleware)...)
}

func (g *RouteGroup) Group(prefix string, middleware ...Middleware) *RouteGroup {
	return &RouteGroup{
		webHandler: g.webHandler,
		prefix:     g.prefix + strings.TrimSuffix(prefix, "/"),
		middleware: g.combine(middleware),
	}
}

// Prefix returns the full path prefix of the group.
func (g *RouteGroup) Prefix() string {
	return g.prefix
}

func (g *RouteGroup) combine(middleware []Middleware) []Middleware {
	all := make([]Middleware, 0, len(g.middleware)+len(middleware))
	all = append(all, g.middleware...)
	return append(all, middleware...)
}
