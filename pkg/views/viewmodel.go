// Package views builds structured view-models: each view fetches through
// the API client, transforms, and returns render instructions a Renderer
// can consume. Nothing here touches a display directly.
package views

import "fmt"

type Kind string

const (
	KindProducts      Kind = "products"
	KindProductDetail Kind = "product-detail"
	KindCart          Kind = "cart"
	KindOrders        Kind = "orders"
	KindLogin         Kind = "login"
	KindRegister      Kind = "register"
	KindNotice        Kind = "notice"
)

// Placeholder images used when a product carries no image URL. Cards and
// the detail view use different sizes.
const (
	CardPlaceholderURL   = "https://picsum.photos/seed/placeholder/400/300"
	DetailPlaceholderURL = "https://picsum.photos/seed/placeholder/800/600"
)

// NoDescription is rendered verbatim for products without a description.
const NoDescription = "No description."

// View is the render instruction set for one screen. Exactly one of the
// payload fields matching Kind is populated; Notice doubles as the inline
// error surface of any view.
type View struct {
	Kind    Kind
	Title   string
	Cards   []ProductCard
	Detail  *ProductDetail
	Cart    *CartTable
	Orders  []OrderRow
	Form    *Form
	Notice  string
	IsError bool
}

type ProductCard struct {
	ProductID      int64
	Name           string
	Price          string
	ImageURL       string
	DetailFragment string
}

type ProductDetail struct {
	ProductID    int64
	Name         string
	Price        string
	Description  string
	ImageURL     string
	BackFragment string
}

type CartTable struct {
	Rows            []CartRow
	Total           string
	Empty           bool
	CheckoutEnabled bool
}

type CartRow struct {
	Name     string
	Price    string
	Quantity int
	Subtotal string
}

type OrderRow struct {
	OrderID int64
	Date    string
	Total   string
	Status  string
}

type Form struct {
	Name   string
	Fields []FormField
	Submit string
	Footer string
}

type FormField struct {
	Name   string
	Label  string
	Secret bool
}

// FormatPrice renders a currency amount with exactly two decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Notice builds a standalone notice view; views also use it for their
// inline error states.
func Notice(message string, isError bool) View {
	return View{Kind: KindNotice, Notice: message, IsError: isError}
}

// NotFound is the fallback for unrecognized routes.
func NotFound() View {
	return Notice("Page not found", true)
}
