package storefront

import "context"

// Store is the injected local persistence: two string-keyed entries
// surviving restarts, the systems equivalent of browser local storage.
// Implementations live in adapters/out/localstore.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Store keys. Both are cleared independently: the token on logout or
// invalidation, the cart on successful checkout.
const (
	TokenKey = "authToken"
	CartKey  = "cart"
)

// Product is the storefront view of one catalog item.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
}

// Category groups products for browsing.
type Category struct {
	ID       string
	Name     string
	Products []Product
}

// Identity is what the server reports for a verified token.
type Identity struct {
	Username string
	Email    string
	Role     string
}

// Client is the outbound port to the storefront HTTP API.
//
// Error contract: implementations return ErrAuthRequired for an
// invalid/expired token signal, *Rejection for business refusals,
// *NetworkError for transport failures or undecodable payloads.
type Client interface {
	Login(ctx context.Context, username, password string) (token string, err error)
	Register(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context, token string) error
	CheckToken(ctx context.Context, token string) (Identity, error)

	CategoriesAndProducts(ctx context.Context) ([]Category, error)
	Product(ctx context.Context, id string) (Product, error)

	Cart(ctx context.Context, token string) ([]CartLine, error)
	AddToCart(ctx context.Context, token, productID string, qty int) error
	RemoveFromCart(ctx context.Context, token, productID string) error
	CreateOrder(ctx context.Context, token, couponCode string) (orderID string, err error)
}
