package usecase

import (
	"context"
	"errors"
	"strings"

	catdom "termstore/internal/domain/catalog"
)

var (
	ErrCatalogInvalidArgument = errors.New("catalog_usecase: invalid argument")
	ErrProductNotFound        = errors.New("catalog_usecase: product not found")
)

// CategoryWithProducts is the storefront browse aggregation.
type CategoryWithProducts struct {
	Category catdom.Category
	Products []catdom.Product
}

// CatalogUsecase serves storefront browsing reads.
type CatalogUsecase struct {
	repo catdom.Repository
}

func NewCatalogUsecase(repo catdom.Repository) *CatalogUsecase {
	return &CatalogUsecase{repo: repo}
}

// CategoriesAndProducts returns every category with its products, in
// category display order.
func (uc *CatalogUsecase) CategoriesAndProducts(ctx context.Context) ([]CategoryWithProducts, error) {
	cats, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryWithProducts, 0, len(cats))
	for _, c := range cats {
		products, err := uc.repo.ListProductsByCategory(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, CategoryWithProducts{Category: c, Products: products})
	}
	return out, nil
}

// Product returns one product by id.
func (uc *CatalogUsecase) Product(ctx context.Context, id string) (catdom.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catdom.Product{}, ErrCatalogInvalidArgument
	}

	p, err := uc.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catdom.ErrNotFound) {
			return catdom.Product{}, ErrProductNotFound
		}
		return catdom.Product{}, err
	}
	return p, nil
}
