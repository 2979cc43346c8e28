package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termstore/internal/storefront"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/v1/"})
}

func errResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": message})
}

func TestDecodeRejectionTaxonomy(t *testing.T) {
	cases := []struct {
		message string
		status  int
		reason  storefront.RejectReason
		auth    bool
	}{
		{"Invalid token", http.StatusUnauthorized, "", true},
		{"Token expired", http.StatusUnauthorized, "", true},
		{"Product not found", http.StatusNotFound, storefront.ReasonProductNotFound, false},
		{"Not enough stock", http.StatusBadRequest, storefront.ReasonOutOfStock, false},
		{"Cart is empty", http.StatusBadRequest, storefront.ReasonEmptyCart, false},
		{"Invalid coupon", http.StatusBadRequest, storefront.ReasonInvalidCoupon, false},
		{"Invalid username or password", http.StatusUnauthorized, storefront.ReasonInvalidCredentials, false},
		{"Username already taken", http.StatusBadRequest, storefront.ReasonUsernameTaken, false},
		{"Email already registered", http.StatusBadRequest, storefront.ReasonEmailRegistered, false},
		{"Teapot refuses", http.StatusTeapot, storefront.ReasonUnknown, false},
	}

	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			err := decodeRejection(tc.status, []byte(`{"status":"error","message":"`+tc.message+`"}`))
			if tc.auth {
				assert.True(t, storefront.IsAuthRequired(err))
				return
			}
			rej, ok := storefront.AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, tc.reason, rej.Reason)
			assert.Equal(t, tc.message, rej.Message, "server wording is preserved for display")
		})
	}
}

func TestDecodeRejectionUndecodableBody(t *testing.T) {
	for _, raw := range []string{"<html>bad gateway</html>", "", `{"status":"error"}`} {
		err := decodeRejection(http.StatusBadGateway, []byte(raw))
		assert.True(t, storefront.IsNetworkError(err), "body %q carries no server opinion", raw)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/login/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["username"] != "alice" || body["password"] != "pw" {
			errResponse(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "token": "tok-abc"})
	}))

	tok, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	_, err = c.Login(context.Background(), "alice", "wrong")
	rej, ok := storefront.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, storefront.ReasonInvalidCredentials, rej.Reason)
}

func TestLoginMissingTokenIsNetworkError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))

	_, err := c.Login(context.Background(), "alice", "pw")
	assert.True(t, storefront.IsNetworkError(err))
}

func TestCartMapsWireFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/cart/", r.URL.Path)
		require.Equal(t, "tok-abc", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`[
			{"id":"l1","product_id":"p1","name":"Mug","price":10,"quantity":2,"total_price":20},
			{"id":"l2","product_id":"p2","name":"Pen","price":5,"quantity":1,"total_price":5}
		]`))
	}))

	lines, err := c.Cart(context.Background(), "tok-abc")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, storefront.CartLine{
		ProductID: "p1", Name: "Mug", UnitPrice: 10, Quantity: 2, LineTotal: 20,
	}, lines[0])
}

func TestCheckToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/check-token/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["token"] != "tok-abc" {
			errResponse(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","data":{"username":"alice","email":"a@example.com","role":"customer"}}`))
	}))

	id, err := c.CheckToken(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, storefront.Identity{Username: "alice", Email: "a@example.com", Role: "customer"}, id)

	_, err = c.CheckToken(context.Background(), "stale")
	assert.True(t, storefront.IsAuthRequired(err))
}

func TestCreateOrder(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/create-order/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "success", "message": "Order created successfully", "order_id": "ord-7",
		})
	}))

	orderID, err := c.CreateOrder(context.Background(), "tok-abc", "")
	require.NoError(t, err)
	assert.Equal(t, "ord-7", orderID)
	_, hasCoupon := gotBody["coupon_code"]
	assert.False(t, hasCoupon, "blank coupon is omitted from the request")

	_, err = c.CreateOrder(context.Background(), "tok-abc", "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", gotBody["coupon_code"])
}

func TestCategoriesAndProducts(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/categories-and-products/", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"c1","name":"Drinkware","products":[{"id":"p1","name":"Mug","price":10,"image":null}]},
			{"id":"c2","name":"Stationery","products":[]}
		]`))
	}))

	cats, err := c.CategoriesAndProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Drinkware", cats[0].Name)
	require.Len(t, cats[0].Products, 1)
	assert.Equal(t, 10.0, cats[0].Products[0].Price)
	assert.Empty(t, cats[1].Products)
}

func TestConnectionRefusedIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: base + "/api/v1/"})
	_, err := c.Cart(context.Background(), "tok")
	assert.True(t, storefront.IsNetworkError(err))
}
