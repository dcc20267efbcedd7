// Package models holds the wire types of the storefront REST contract.
// Field names and JSON keys match the backend exactly; prices travel as
// plain JSON numbers.
package models

// Product is read-only from the client's perspective.
type Product struct {
	ProductID     int64   `json:"product_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url,omitempty"`
}

// CartItem is a single line of the server-held cart. Subtotal is computed
// server-side as price * quantity.
type CartItem struct {
	CartItemID int64   `json:"cart_item_id"`
	ProductID  int64   `json:"product_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// OrderSummary is one row of the order history, newest first.
type OrderSummary struct {
	OrderID     int64   `json:"order_id"`
	OrderDate   string  `json:"order_date"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
}

type OrderHistory struct {
	Orders []OrderSummary `json:"orders"`
}

// PlacedOrder is the response to a successful checkout.
type PlacedOrder struct {
	OrderID     int64   `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
}

type User struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
