// Package api is the sole network boundary of the client. Every request
// goes through Client.do, which attaches the JSON content type and the
// current bearer header and normalizes failed responses into *Error values
// carrying a human-readable message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/session"
	"go.uber.org/zap"
)

// genericMessage is the fallback when an error body carries no detail.
const genericMessage = "API error"

// Error is the single error type raised for failed requests. Message is
// taken from the response body's "detail" field when present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	session    *session.Store
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for the given origin. A zero timeout means no
// timeout: a hung request hangs the calling view, matching the reference
// behavior.
func NewClient(baseURL string, timeout time.Duration, sess *session.Store, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do performs the request. Caller headers override the default content
// type, but the auth header is applied last and cannot be suppressed. The
// returned flag reports whether the body was JSON.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string) ([]byte, bool, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, false, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for k, v := range c.session.AuthHeader() {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, false, &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, &Error{Status: resp.StatusCode, Message: err.Error()}
	}

	c.logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &Error{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	return data, isJSON, nil
}

// errorMessage extracts the "detail" field from an error body. A JSON body
// without detail is surfaced verbatim; anything unparsable gets the generic
// message.
func errorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return genericMessage
	}
	if raw, ok := payload["detail"]; ok {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil && detail != "" {
			return detail
		}
	}
	compact := &bytes.Buffer{}
	if err := json.Compact(compact, body); err != nil {
		return genericMessage
	}
	return compact.String()
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, isJSON, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if !isJSON {
		return &Error{Message: "unexpected non-JSON response"}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Message: err.Error()}
	}
	return nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.getJSON(ctx, "/products/"+id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) Cart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.getJSON(ctx, "/cart", &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity units of a product. The server answers with the
// updated cart; callers that need it refetch, matching the reference
// client.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	body := models.AddToCartRequest{ProductID: productID, Quantity: quantity}
	_, _, err := c.do(ctx, http.MethodPost, "/cart/add", body, nil)
	return err
}

func (c *Client) PlaceOrder(ctx context.Context) (*models.PlacedOrder, error) {
	data, _, err := c.do(ctx, http.MethodPost, "/order/place", nil, nil)
	if err != nil {
		return nil, err
	}
	var placed models.PlacedOrder
	if err := json.Unmarshal(data, &placed); err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return &placed, nil
}

func (c *Client) Orders(ctx context.Context) (*models.OrderHistory, error) {
	var history models.OrderHistory
	if err := c.getJSON(ctx, "/orders", &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Login exchanges credentials for an access token. It does not touch the
// session store; the caller decides what to persist.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := models.LoginRequest{Username: username, Password: password}
	data, _, err := c.do(ctx, http.MethodPost, "/login", body, nil)
	if err != nil {
		return "", err
	}
	var token models.TokenResponse
	if err := json.Unmarshal(data, &token); err != nil {
		return "", &Error{Message: err.Error()}
	}
	return token.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := models.RegisterRequest{Username: username, Email: email, Password: password}
	_, _, err := c.do(ctx, http.MethodPost, "/register", body, nil)
	return err
}
