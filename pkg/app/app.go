// Package app wires the session store, API client, router, views, and
// renderer into the storefront shell and owns the user-triggered actions.
package app

import (
	"context"
	"fmt"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/render"
	"github.com/example/storefront/pkg/router"
	"github.com/example/storefront/pkg/session"
	"github.com/example/storefront/pkg/views"
	"go.uber.org/zap"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is the structured replacement for blocking alerts: the shell
// decides how to show it, but no action completes silently.
type Notice struct {
	Level   Level
	Message string
}

type App struct {
	api      *api.Client
	session  *session.Store
	router   *router.Router
	renderer render.Renderer
	logger   *zap.Logger

	cartCount int

	onNotice func(Notice)
	onBadge  func(int)
	onNav    func(session.NavState)
}

// Option hooks let the shell observe notices, the cart badge, and nav
// visibility without the app knowing how they are displayed.
type Option func(*App)

func WithNotifier(fn func(Notice)) Option {
	return func(a *App) { a.onNotice = fn }
}

func WithBadge(fn func(int)) Option {
	return func(a *App) { a.onBadge = fn }
}

func WithNavState(fn func(session.NavState)) Option {
	return func(a *App) { a.onNav = fn }
}

func New(client *api.Client, sess *session.Store, rt *router.Router, renderer render.Renderer, logger *zap.Logger, opts ...Option) *App {
	a := &App{
		api:      client,
		session:  sess,
		router:   rt,
		renderer: renderer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.registerRoutes()
	return a
}

func (a *App) registerRoutes() {
	a.router.Handle(router.RouteProducts, func(ctx context.Context, _ router.Route) error {
		view, err := views.Products(ctx, a.api)
		if err != nil {
			return err
		}
		a.renderer.Render(view)
		return nil
	})

	a.router.Handle(router.RouteProduct, func(ctx context.Context, route router.Route) error {
		a.renderer.Render(views.Product(ctx, a.api, route.Param))
		return nil
	})

	a.router.Handle(router.RouteCart, func(ctx context.Context, _ router.Route) error {
		if !a.session.Authenticated() {
			return a.router.Navigate(ctx, router.RouteLogin, "")
		}
		a.renderer.Render(views.Cart(ctx, a.api))
		return nil
	})

	a.router.Handle(router.RouteOrders, func(ctx context.Context, _ router.Route) error {
		if !a.session.Authenticated() {
			return a.router.Navigate(ctx, router.RouteLogin, "")
		}
		a.renderer.Render(views.Orders(ctx, a.api))
		return nil
	})

	a.router.Handle(router.RouteLogin, func(_ context.Context, _ router.Route) error {
		a.renderer.Render(views.Login())
		return nil
	})

	a.router.Handle(router.RouteRegister, func(_ context.Context, _ router.Route) error {
		a.renderer.Render(views.Register())
		return nil
	})

	a.router.NotFound(func(_ context.Context, _ router.Route) error {
		a.renderer.Render(views.NotFound())
		return nil
	})

	a.router.OnRouteChange(func(_ router.Route) {
		a.publishNav()
	})

	// Errors escaping a view (the products list is the one view that does
	// not catch its own) are rendered inline, never fatal.
	a.router.OnError(func(route router.Route, err error) {
		a.logger.Warn("View failed",
			zap.String("route", route.Name),
			zap.Error(err))
		a.renderer.Render(views.Notice(err.Error(), true))
	})
}

// Start brings the shell up the way the reference client initializes:
// publish nav state, refresh the badge, then dispatch the default route.
func (a *App) Start(ctx context.Context) error {
	a.publishNav()
	a.RefreshCartCount(ctx)
	return a.router.Navigate(ctx, router.RouteProducts, "")
}

func (a *App) Router() *router.Router {
	return a.router
}

func (a *App) Session() *session.Store {
	return a.session
}

func (a *App) CartCount() int {
	return a.cartCount
}

// RefreshCartCount updates the badge to the sum of cart quantities. Any
// failure, auth failures included, resets the badge to zero instead of
// propagating.
func (a *App) RefreshCartCount(ctx context.Context) {
	if !a.session.Authenticated() {
		a.setBadge(0)
		return
	}
	cart, err := a.api.Cart(ctx)
	if err != nil {
		a.logger.Debug("Cart badge refresh failed", zap.Error(err))
		a.setBadge(0)
		return
	}
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	a.setBadge(count)
}

// AddToCart adds one unit of the product, or redirects to login for
// anonymous users without touching the API.
func (a *App) AddToCart(ctx context.Context, productID int64) error {
	if !a.session.Authenticated() {
		return a.router.Navigate(ctx, router.RouteLogin, "")
	}
	if err := a.api.AddToCart(ctx, productID, 1); err != nil {
		a.notify(LevelError, err.Error())
		return err
	}
	a.RefreshCartCount(ctx)
	a.notify(LevelInfo, "Added to cart.")
	return nil
}

// PlaceOrder checks out the current cart and lands on the order history.
func (a *App) PlaceOrder(ctx context.Context) error {
	placed, err := a.api.PlaceOrder(ctx)
	if err != nil {
		a.notify(LevelError, err.Error())
		return err
	}
	a.notify(LevelInfo, fmt.Sprintf("Order #%d placed!", placed.OrderID))
	a.RefreshCartCount(ctx)
	return a.router.Navigate(ctx, router.RouteOrders, "")
}

// SubmitLogin authenticates and, on success, stores the submitted
// username alongside the token, refreshes the badge, and navigates to the
// products view. On failure the session is untouched and the login view
// stays current.
func (a *App) SubmitLogin(ctx context.Context, username, password string) error {
	token, err := a.api.Login(ctx, username, password)
	if err != nil {
		a.notify(LevelError, err.Error())
		return err
	}
	if err := a.session.SetAuth(token, username); err != nil {
		a.notify(LevelError, err.Error())
		return err
	}
	a.RefreshCartCount(ctx)
	return a.router.Navigate(ctx, router.RouteProducts, "")
}

// SubmitRegister creates the account and sends the user to the login view.
func (a *App) SubmitRegister(ctx context.Context, username, email, password string) error {
	if err := a.api.Register(ctx, username, email, password); err != nil {
		a.notify(LevelError, err.Error())
		return err
	}
	a.notify(LevelInfo, "Registration successful. Please login.")
	return a.router.Navigate(ctx, router.RouteLogin, "")
}

// Logout clears the persisted session, zeroes the badge, and returns to
// the products view.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Clear(); err != nil {
		a.notify(LevelError, err.Error())
		return err
	}
	a.setBadge(0)
	return a.router.Navigate(ctx, router.RouteProducts, "")
}

func (a *App) publishNav() {
	if a.onNav != nil {
		a.onNav(a.session.NavState())
	}
}

func (a *App) setBadge(n int) {
	a.cartCount = n
	if a.onBadge != nil {
		a.onBadge(n)
	}
}

func (a *App) notify(level Level, message string) {
	if a.onNotice != nil {
		a.onNotice(Notice{Level: level, Message: message})
	}
}
