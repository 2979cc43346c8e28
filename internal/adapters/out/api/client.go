// Package api implements the storefront.Client port over the versioned
// JSON HTTP API (/api/v1/).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"termstore/internal/storefront"
)

// DefaultTimeout bounds every request; expiry surfaces as a network error.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps response reads; the API never returns payloads near this.
const maxBodyBytes = 8 << 20

// Client talks to the storefront API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Config configures the API client.
type Config struct {
	// BaseURL includes the version prefix, e.g. "http://localhost:8080/api/v1/".
	BaseURL string
	Timeout time.Duration
}

// NewClient creates an API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
	}
}

// envelope is the API's status/message wrapper. Success payloads that carry
// extra fields (token, data, order_id) extend it per call site.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		envelope
		Token string `json:"token"`
	}
	if err := c.post(ctx, "login/", map[string]any{
		"username": username,
		"password": password,
	}, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Token) == "" {
		return "", &storefront.NetworkError{Err: fmt.Errorf("login response carried no token")}
	}
	return out.Token, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	var out envelope
	return c.post(ctx, "register/", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
}

func (c *Client) Logout(ctx context.Context, token string) error {
	var out envelope
	return c.post(ctx, "logout/", map[string]any{"token": token}, &out)
}

func (c *Client) CheckToken(ctx context.Context, token string) (storefront.Identity, error) {
	var out struct {
		envelope
		Data struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Role     string `json:"role"`
		} `json:"data"`
	}
	if err := c.post(ctx, "check-token/", map[string]any{"token": token}, &out); err != nil {
		return storefront.Identity{}, err
	}
	return storefront.Identity{
		Username: out.Data.Username,
		Email:    out.Data.Email,
		Role:     out.Data.Role,
	}, nil
}

func (c *Client) CategoriesAndProducts(ctx context.Context) ([]storefront.Category, error) {
	var out []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Products []struct {
			ID    string  `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
			Image string  `json:"image"`
		} `json:"products"`
	}
	if err := c.get(ctx, "categories-and-products/", &out); err != nil {
		return nil, err
	}

	cats := make([]storefront.Category, 0, len(out))
	for _, cd := range out {
		cat := storefront.Category{ID: cd.ID, Name: cd.Name}
		for _, p := range cd.Products {
			cat.Products = append(cat.Products, storefront.Product{
				ID:       p.ID,
				Name:     p.Name,
				Price:    p.Price,
				ImageURL: p.Image,
			})
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func (c *Client) Product(ctx context.Context, id string) (storefront.Product, error) {
	var out struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		Image       string  `json:"image"`
	}
	if err := c.get(ctx, "product/"+url.PathEscape(id)+"/", &out); err != nil {
		return storefront.Product{}, err
	}
	return storefront.Product{
		ID:          out.ID,
		Name:        out.Name,
		Description: out.Description,
		Price:       out.Price,
		Stock:       out.Stock,
		ImageURL:    out.Image,
	}, nil
}

func (c *Client) Cart(ctx context.Context, token string) ([]storefront.CartLine, error) {
	var out []struct {
		ProductID  string  `json:"product_id"`
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		Quantity   int     `json:"quantity"`
		TotalPrice float64 `json:"total_price"`
	}
	if err := c.get(ctx, "cart/?token="+url.QueryEscape(token), &out); err != nil {
		return nil, err
	}

	lines := make([]storefront.CartLine, 0, len(out))
	for _, it := range out {
		lines = append(lines, storefront.CartLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			LineTotal: it.TotalPrice,
		})
	}
	return lines, nil
}

func (c *Client) AddToCart(ctx context.Context, token, productID string, qty int) error {
	var out envelope
	return c.post(ctx, "add-to-cart/", map[string]any{
		"token":      token,
		"product_id": productID,
		"quantity":   qty,
	}, &out)
}

func (c *Client) RemoveFromCart(ctx context.Context, token, productID string) error {
	var out envelope
	return c.post(ctx, "remove-from-cart/", map[string]any{
		"token":      token,
		"product_id": productID,
	}, &out)
}

func (c *Client) CreateOrder(ctx context.Context, token, couponCode string) (string, error) {
	body := map[string]any{"token": token}
	if code := strings.TrimSpace(couponCode); code != "" {
		body["coupon_code"] = code
	}

	var out struct {
		envelope
		OrderID string `json:"order_id"`
	}
	if err := c.post(ctx, "create-order/", body, &out); err != nil {
		return "", err
	}
	return out.OrderID, nil
}

// ------------------------------------------------------------------
// transport
// ------------------------------------------------------------------

func (c *Client) get(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) post(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPost, path, body, target)
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &storefront.NetworkError{Err: fmt.Errorf("marshal request: %w", err)}
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &storefront.NetworkError{Err: fmt.Errorf("create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &storefront.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &storefront.NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return decodeRejection(resp.StatusCode, raw)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		// malformed success payload: no server opinion we can trust
		return &storefront.NetworkError{Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)}
	}
	return nil
}

// decodeRejection maps the API's error envelope onto the closed outcome set.
// The taxonomy is keyed on the server's exact message strings; anything
// unrecognized becomes ReasonUnknown carrying the server's wording.
func decodeRejection(status int, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || strings.TrimSpace(env.Message) == "" {
		return &storefront.NetworkError{Err: fmt.Errorf("undecodable error response (status %d)", status)}
	}

	switch env.Message {
	case "Invalid token", "Token expired":
		return storefront.ErrAuthRequired
	case "Product not found":
		return &storefront.Rejection{Reason: storefront.ReasonProductNotFound, Message: env.Message}
	case "Not enough stock":
		return &storefront.Rejection{Reason: storefront.ReasonOutOfStock, Message: env.Message}
	case "Cart is empty":
		return &storefront.Rejection{Reason: storefront.ReasonEmptyCart, Message: env.Message}
	case "Invalid coupon":
		return &storefront.Rejection{Reason: storefront.ReasonInvalidCoupon, Message: env.Message}
	case "Invalid username or password":
		return &storefront.Rejection{Reason: storefront.ReasonInvalidCredentials, Message: env.Message}
	case "Username already taken":
		return &storefront.Rejection{Reason: storefront.ReasonUsernameTaken, Message: env.Message}
	case "Email already registered":
		return &storefront.Rejection{Reason: storefront.ReasonEmailRegistered, Message: env.Message}
	default:
		return &storefront.Rejection{Reason: storefront.ReasonUnknown, Message: env.Message}
	}
}
