// Package router maps route names to view handlers. It replaces the
// implicit URL-fragment listener of a browser shell with an explicit
// component exposing Navigate and OnRouteChange.
package router

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	RouteProducts = "products"
	RouteProduct  = "product"
	RouteCart     = "cart"
	RouteOrders   = "orders"
	RouteLogin    = "login"
	RouteRegister = "register"
)

// Route is derived from a navigation event and never persisted. Param is
// used only by the product detail route.
type Route struct {
	Name  string
	Param string
}

func (r Route) Fragment() string {
	if r.Param == "" {
		return "#/" + r.Name
	}
	return "#/" + r.Name + "/" + r.Param
}

type HandlerFunc func(ctx context.Context, route Route) error

type Router struct {
	handlers map[string]HandlerFunc
	notFound HandlerFunc
	onChange []func(Route)
	onError  func(Route, error)
	current  Route
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Handle registers the view handler for a route name.
func (r *Router) Handle(name string, h HandlerFunc) {
	r.handlers[name] = h
}

// NotFound registers the fallback for unrecognized routes.
func (r *Router) NotFound(h HandlerFunc) {
	r.notFound = h
}

// OnRouteChange registers a hook invoked before every dispatch, in
// registration order. The shell uses this to refresh nav visibility.
func (r *Router) OnRouteChange(fn func(Route)) {
	r.onChange = append(r.onChange, fn)
}

// OnError registers the handler for errors escaping a view. With it set,
// dispatch errors are consumed; the next navigation proceeds normally.
func (r *Router) OnError(fn func(Route, error)) {
	r.onError = fn
}

func (r *Router) Current() Route {
	return r.current
}

// ParseFragment turns a hash fragment like "#/product/3" into a Route. An
// empty fragment or empty first segment selects the products route.
func ParseFragment(fragment string) Route {
	s := strings.TrimPrefix(fragment, "#")
	s = strings.TrimPrefix(s, "/")
	parts := strings.Split(s, "/")

	route := Route{Name: parts[0]}
	if route.Name == "" {
		route.Name = RouteProducts
	}
	if len(parts) > 1 {
		route.Param = parts[1]
	}
	return route
}

// Navigate dispatches the named route.
func (r *Router) Navigate(ctx context.Context, name, param string) error {
	return r.dispatch(ctx, Route{Name: name, Param: param})
}

// NavigateFragment dispatches the route encoded in a hash fragment.
func (r *Router) NavigateFragment(ctx context.Context, fragment string) error {
	return r.dispatch(ctx, ParseFragment(fragment))
}

func (r *Router) dispatch(ctx context.Context, route Route) error {
	r.current = route
	r.logger.Debug("Dispatching route",
		zap.String("name", route.Name),
		zap.String("param", route.Param))

	for _, fn := range r.onChange {
		fn(route)
	}

	handler, ok := r.handlers[route.Name]
	if !ok {
		handler = r.notFound
	}
	if handler == nil {
		return nil
	}

	if err := handler(ctx, route); err != nil {
		if r.onError != nil {
			r.onError(route, err)
			return nil
		}
		return err
	}
	return nil
}
