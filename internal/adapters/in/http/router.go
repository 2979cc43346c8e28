package httpin

import (
	"log"
	"net/http"

	"termstore/internal/adapters/in/http/handler"
	usecase "termstore/internal/application/usecase"
)

// RouterDeps collects the usecases injected from the DI container.
type RouterDeps struct {
	AuthUC    *usecase.AuthUsecase
	CatalogUC *usecase.CatalogUsecase
	CartUC    *usecase.CartUsecase
	OrderUC   *usecase.OrderUsecase

	// Images resolves product image paths to public URLs; nil disables images.
	Images handler.ImageResolver

	// ImageUploads signs product image upload URLs; nil disables uploads.
	ImageUploads handler.ImageSigner
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so a partially
// wired container still serves /healthz).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// NewRouter builds the /api/v1 route table.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	var auth, catalog, cart, order, images http.Handler
	if deps.AuthUC != nil {
		auth = handler.NewAuthHandler(deps.AuthUC)
	}
	if deps.CatalogUC != nil {
		catalog = handler.NewCatalogHandler(deps.CatalogUC, deps.Images)
	}
	if deps.AuthUC != nil && deps.CartUC != nil {
		cart = handler.NewCartHandler(deps.AuthUC, deps.CartUC)
	}
	if deps.AuthUC != nil && deps.OrderUC != nil {
		order = handler.NewOrderHandler(deps.AuthUC, deps.OrderUC)
	}
	if deps.AuthUC != nil && deps.ImageUploads != nil {
		images = handler.NewImageHandler(deps.AuthUC, deps.ImageUploads)
	}

	// auth
	handleSafe(mux, "/api/v1/register/", auth, "Auth")
	handleSafe(mux, "/api/v1/login/", auth, "Auth")
	handleSafe(mux, "/api/v1/logout/", auth, "Auth")
	handleSafe(mux, "/api/v1/check-token/", auth, "Auth")

	// catalog
	handleSafe(mux, "/api/v1/categories-and-products/", catalog, "Catalog")
	handleSafe(mux, "/api/v1/product/", catalog, "Catalog")

	// cart
	handleSafe(mux, "/api/v1/cart/", cart, "Cart")
	handleSafe(mux, "/api/v1/add-to-cart/", cart, "Cart")
	handleSafe(mux, "/api/v1/remove-from-cart/", cart, "Cart")

	// orders
	handleSafe(mux, "/api/v1/create-order/", order, "Order")
	handleSafe(mux, "/api/v1/remove-order/", order, "Order")

	// seller/admin image uploads
	handleSafe(mux, "/api/v1/product-image-upload/", images, "Image")

	return mux
}
