// Package mockapi is a self-contained backend implementing the storefront
// HTTP contract, used for development and tests. Data lives in memory;
// issued sessions can optionally live in redis.
package mockapi

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/storefront/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// orderDateFormat matches the timestamp format the reference backend
// stores for orders.
const orderDateFormat = "2006-01-02 15:04:05"

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidCredential = errors.New("Invalid credentials")
	ErrProductNotFound   = errors.New("Product not found")
	ErrCartEmpty         = errors.New("Cart is empty")
)

type user struct {
	id           int64
	username     string
	email        string
	passwordHash []byte
}

type cartLine struct {
	itemID    int64
	productID int64
	quantity  int
}

type order struct {
	id     int64
	date   time.Time
	total  float64
	status string
}

// Store holds all fixture state behind one RW mutex. The client is
// sequential but the fixture serves arbitrary HTTP callers.
type Store struct {
	mu          sync.RWMutex
	products    map[int64]*models.Product
	usersByName map[string]*user
	carts       map[int64][]cartLine
	orders      map[int64][]order

	nextUserID  int64
	nextItemID  int64
	nextOrderID int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		products:    make(map[int64]*models.Product),
		usersByName: make(map[string]*user),
		carts:       make(map[int64][]cartLine),
		orders:      make(map[int64][]order),
		now:         time.Now,
	}
}

// Seed populates the catalog. A couple of products deliberately miss an
// image or description so the client's placeholder paths get exercised.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := []models.Product{
		{ProductID: 1, Name: "Mechanical Keyboard", Description: "Tenkeyless, hot-swappable switches.", Price: 89.99, StockQuantity: 25, ImageURL: "https://picsum.photos/seed/keyboard/400/300"},
		{ProductID: 2, Name: "USB-C Dock", Description: "Dual 4K output, 100W passthrough.", Price: 129.50, StockQuantity: 14, ImageURL: "https://picsum.photos/seed/dock/400/300"},
		{ProductID: 3, Name: "Desk Mat", Price: 19.00, StockQuantity: 60, ImageURL: "https://picsum.photos/seed/mat/400/300"},
		{ProductID: 4, Name: "Webcam Cover", Description: "Slide cover, 3 pack.", Price: 5.50, StockQuantity: 200},
		{ProductID: 5, Name: "Laptop Stand", Description: "Aluminium, adjustable height.", Price: 42.75, StockQuantity: 8, ImageURL: "https://picsum.photos/seed/stand/400/300"},
	}
	for i := range seed {
		p := seed[i]
		s.products[p.ProductID] = &p
	}
}

// CreateUser registers an account with a bcrypt-hashed password and an
// empty cart, as the reference backend does.
func (s *Store) CreateUser(username, email, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByName[username]; exists {
		return models.User{}, ErrDuplicateUsername
	}

	s.nextUserID++
	u := &user{
		id:           s.nextUserID,
		username:     username,
		email:        email,
		passwordHash: hash,
	}
	s.usersByName[username] = u
	s.carts[u.id] = nil

	return models.User{UserID: u.id, Username: u.username, Email: u.email}, nil
}

// Authenticate verifies credentials and returns the user id.
func (s *Store) Authenticate(username, password string) (int64, error) {
	s.mu.RLock()
	u, ok := s.usersByName[username]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return 0, ErrInvalidCredential
	}
	return u.id, nil
}

// ListProducts returns the catalog ordered by product id.
func (s *Store) ListProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (s *Store) GetProduct(id int64) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return *p, nil
}

// AddToCart merges quantity into an existing line or appends a new one,
// preserving insertion order.
func (s *Store) AddToCart(userID, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return ErrProductNotFound
	}

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].productID == productID {
			lines[i].quantity += quantity
			s.carts[userID] = lines
			return nil
		}
	}
	s.nextItemID++
	s.carts[userID] = append(lines, cartLine{
		itemID:    s.nextItemID,
		productID: productID,
		quantity:  quantity,
	})
	return nil
}

// GetCart projects the cart lines against the catalog: per-line subtotals
// and the grand total are computed here, never client-side.
func (s *Store) GetCart(userID int64) models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartLocked(userID)
}

func (s *Store) cartLocked(userID int64) models.Cart {
	cart := models.Cart{Items: []models.CartItem{}}
	for _, line := range s.carts[userID] {
		p, ok := s.products[line.productID]
		if !ok {
			continue
		}
		subtotal := p.Price * float64(line.quantity)
		cart.Items = append(cart.Items, models.CartItem{
			CartItemID: line.itemID,
			ProductID:  line.productID,
			Name:       p.Name,
			Price:      p.Price,
			Quantity:   line.quantity,
			Subtotal:   subtotal,
		})
		cart.Total += subtotal
	}
	return cart
}

// PlaceOrder converts the cart into a completed order: stock is checked
// and decremented, the cart cleared, and the order recorded newest-first.
func (s *Store) PlaceOrder(userID int64) (models.PlacedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	if len(lines) == 0 {
		return models.PlacedOrder{}, ErrCartEmpty
	}

	var total float64
	for _, line := range lines {
		p, ok := s.products[line.productID]
		if !ok {
			return models.PlacedOrder{}, ErrProductNotFound
		}
		if line.quantity > p.StockQuantity {
			return models.PlacedOrder{}, fmt.Errorf("Insufficient stock for product %d", line.productID)
		}
		total += p.Price * float64(line.quantity)
	}

	for _, line := range lines {
		s.products[line.productID].StockQuantity -= line.quantity
	}
	s.carts[userID] = nil

	s.nextOrderID++
	o := order{
		id:     s.nextOrderID,
		date:   s.now(),
		total:  total,
		status: "COMPLETED",
	}
	s.orders[userID] = append([]order{o}, s.orders[userID]...)

	return models.PlacedOrder{OrderID: o.id, TotalAmount: o.total, Status: o.status}, nil
}

// ListOrders returns the user's order history, newest first.
func (s *Store) ListOrders(userID int64) []models.OrderSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.OrderSummary, 0, len(s.orders[userID]))
	for _, o := range s.orders[userID] {
		out = append(out, models.OrderSummary{
			OrderID:     o.id,
			OrderDate:   o.date.UTC().Format(orderDateFormat),
			TotalAmount: o.total,
			Status:      o.status,
		})
	}
	return out
}
