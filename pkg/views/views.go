package views

import (
	"context"
	"strconv"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/router"
)

// Products lists all products as cards. Unlike the other data views it
// propagates fetch errors to the caller; the router's error hook renders
// them inline.
func Products(ctx context.Context, c *api.Client) (View, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return View{}, err
	}

	cards := make([]ProductCard, len(products))
	for i, p := range products {
		cards[i] = ProductCard{
			ProductID:      p.ProductID,
			Name:           p.Name,
			Price:          FormatPrice(p.Price),
			ImageURL:       imageOr(p.ImageURL, CardPlaceholderURL),
			DetailFragment: router.Route{Name: router.RouteProduct, Param: itoa(p.ProductID)}.Fragment(),
		}
	}

	return View{Kind: KindProducts, Title: "Products", Cards: cards}, nil
}

// Product fetches a single product for the detail view. A fetch failure
// renders the error message inline instead of navigating away.
func Product(ctx context.Context, c *api.Client, id string) View {
	p, err := c.Product(ctx, id)
	if err != nil {
		return Notice(err.Error(), true)
	}

	description := p.Description
	if description == "" {
		description = NoDescription
	}

	return View{
		Kind:  KindProductDetail,
		Title: p.Name,
		Detail: &ProductDetail{
			ProductID:    p.ProductID,
			Name:         p.Name,
			Price:        FormatPrice(p.Price),
			Description:  description,
			ImageURL:     imageOr(p.ImageURL, DetailPlaceholderURL),
			BackFragment: router.Route{Name: router.RouteProducts}.Fragment(),
		},
	}
}

// Cart renders the cart table with per-item subtotals and the grand total.
// Checkout stays disabled while the cart is empty.
func Cart(ctx context.Context, c *api.Client) View {
	cart, err := c.Cart(ctx)
	if err != nil {
		return Notice(err.Error(), true)
	}
	return cartView(cart)
}

func cartView(cart *models.Cart) View {
	rows := make([]CartRow, len(cart.Items))
	for i, item := range cart.Items {
		rows[i] = CartRow{
			Name:     item.Name,
			Price:    FormatPrice(item.Price),
			Quantity: item.Quantity,
			Subtotal: FormatPrice(item.Subtotal),
		}
	}

	return View{
		Kind:  KindCart,
		Title: "Your Cart",
		Cart: &CartTable{
			Rows:            rows,
			Total:           FormatPrice(cart.Total),
			Empty:           len(cart.Items) == 0,
			CheckoutEnabled: len(cart.Items) > 0,
		},
	}
}

// Orders renders the order history table, newest first as the server
// returns it.
func Orders(ctx context.Context, c *api.Client) View {
	history, err := c.Orders(ctx)
	if err != nil {
		return Notice(err.Error(), true)
	}

	rows := make([]OrderRow, len(history.Orders))
	for i, o := range history.Orders {
		rows[i] = OrderRow{
			OrderID: o.OrderID,
			Date:    o.OrderDate,
			Total:   FormatPrice(o.TotalAmount),
			Status:  o.Status,
		}
	}

	return View{Kind: KindOrders, Title: "Your Orders", Orders: rows}
}

// Login is a pure form view; submission runs through the shell's actions.
func Login() View {
	return View{
		Kind:  KindLogin,
		Title: "Login",
		Form: &Form{
			Name: "login",
			Fields: []FormField{
				{Name: "username", Label: "Username"},
				{Name: "password", Label: "Password", Secret: true},
			},
			Submit: "Login",
			Footer: "No account? Register at " + router.Route{Name: router.RouteRegister}.Fragment(),
		},
	}
}

func Register() View {
	return View{
		Kind:  KindRegister,
		Title: "Register",
		Form: &Form{
			Name: "register",
			Fields: []FormField{
				{Name: "username", Label: "Username"},
				{Name: "email", Label: "Email"},
				{Name: "password", Label: "Password", Secret: true},
			},
			Submit: "Create Account",
		},
	}
}

func imageOr(url, placeholder string) string {
	if url == "" {
		return placeholder
	}
	return url
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
