package catalog

import (
	"context"

	"github.com/jrmart12/nayos/internal/domain"
)

// MockCatalog implements domain.CatalogProvider for testing.
type MockCatalog struct {
	GetProductFunc   func(ctx context.Context, slug string) (*domain.Product, error)
	ListProductsFunc func(ctx context.Context) ([]domain.Product, error)
}

var _ domain.CatalogProvider = (*MockCatalog)(nil)

func (m *MockCatalog) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, slug)
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx)
	}
	return nil, nil
}
