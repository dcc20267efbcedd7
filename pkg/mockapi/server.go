package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/models"
)

const userIDKey = "user_id"

// Server exposes the storefront contract over gin.
type Server struct {
	store  *Store
	tokens TokenStore
	logger *zap.Logger
	router *gin.Engine
}

func NewServer(store *Store, tokens TokenStore, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	s := &Server{
		store:  store,
		tokens: tokens,
		logger: logger,
		router: router,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Storefront API",
			"endpoints": []string{
				"/register", "/login",
				"/products", "/products/{product_id}",
				"/cart", "/cart/add",
				"/order/place", "/orders",
			},
		})
	})

	s.router.POST("/register", s.register)
	s.router.POST("/login", s.login)
	s.router.GET("/products", s.listProducts)
	s.router.GET("/products/:id", s.getProduct)

	authed := s.router.Group("", s.requireAuth)
	authed.GET("/cart", s.getCart)
	authed.POST("/cart/add", s.addToCart)
	authed.POST("/order/place", s.placeOrder)
	authed.GET("/orders", s.listOrders)
}

// Handler exposes the engine for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(addr string) error {
	s.logger.Info("Storefront API starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// requireAuth resolves the bearer token through the token store. Error
// bodies carry a "detail" field, as the whole contract does.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return
	}

	userID, ok, err := s.tokens.Lookup(c.Request.Context(), header[len(prefix):])
	if err != nil {
		s.logger.Error("Token lookup failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "session store unavailable"})
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, err := s.store.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	userID, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	token := uuid.New().String()
	if err := s.tokens.Save(c.Request.Context(), token, userID); err != nil {
		s.logger.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "session store unavailable"})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.ListProducts())
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}

	product, err := s.store.GetProduct(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.GetCart(c.GetInt64(userIDKey)))
}

func (s *Server) addToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "quantity must be positive"})
		return
	}

	userID := c.GetInt64(userIDKey)
	if err := s.store.AddToCart(userID, req.ProductID, req.Quantity); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrProductNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"detail": err.Error()})
		return
	}

	// The reference backend answers with the updated cart.
	c.JSON(http.StatusOK, s.store.GetCart(userID))
}

func (s *Server) placeOrder(c *gin.Context) {
	placed, err := s.store.PlaceOrder(c.GetInt64(userIDKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, placed)
}

func (s *Server) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, models.OrderHistory{Orders: s.store.ListOrders(c.GetInt64(userIDKey))})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
