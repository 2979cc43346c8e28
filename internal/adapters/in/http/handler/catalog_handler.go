package handler

import (
	"net/http"
	"strings"

	usecase "termstore/internal/application/usecase"
)

// ImageResolver turns a stored image path into a public URL.
// The GCS adapter satisfies this; nil means images are served as null.
type ImageResolver interface {
	PublicURL(objectPath string) string
}

// CatalogHandler serves /api/v1/categories-and-products/ and
// /api/v1/product/{id}/.
type CatalogHandler struct {
	uc     *usecase.CatalogUsecase
	images ImageResolver
}

func NewCatalogHandler(uc *usecase.CatalogUsecase, images ImageResolver) *CatalogHandler {
	return &CatalogHandler{uc: uc, images: images}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "catalog handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimRight(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/")
	switch {
	case path == "/categories-and-products":
		h.categoriesAndProducts(w, r)
	case strings.HasPrefix(path, "/product/"):
		h.product(w, r, strings.TrimPrefix(path, "/product/"))
	default:
		writeErr(w, http.StatusNotFound, "Not found")
	}
}

func (h *CatalogHandler) categoriesAndProducts(w http.ResponseWriter, r *http.Request) {
	cats, err := h.uc.CategoriesAndProducts(r.Context())
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	out := make([]map[string]any, 0, len(cats))
	for _, c := range cats {
		products := make([]map[string]any, 0, len(c.Products))
		for _, p := range c.Products {
			products = append(products, map[string]any{
				"id":    p.ID,
				"name":  p.Name,
				"price": p.Price,
				"image": h.imageURL(p.ImagePath),
			})
		}
		out = append(out, map[string]any{
			"id":       c.Category.ID,
			"name":     c.Category.Name,
			"products": products,
		})
	}

	// bare array, no envelope (browse contract)
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) product(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.Product(r.Context(), id)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"image":       h.imageURL(p.ImagePath),
	})
}

// imageURL returns nil for products without an image so the JSON carries
// null rather than an empty string.
func (h *CatalogHandler) imageURL(path string) any {
	if h.images == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	if url := h.images.PublicURL(path); url != "" {
		return url
	}
	return nil
}
