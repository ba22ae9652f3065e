// Package catalog serves product configuration templates from a JSON menu
// file. Content is authored in the CMS and exported; the storefront only
// reads it.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jrmart12/nayos/internal/domain"
)

// FileCatalog implements domain.CatalogProvider from a menu export on disk.
// The file is parsed once at startup; Reload picks up a new export without
// restarting the server.
type FileCatalog struct {
	path string

	mu       sync.RWMutex
	products []domain.Product
	bySlug   map[string]int
}

var _ domain.CatalogProvider = (*FileCatalog)(nil)

// NewFileCatalog loads the menu export at path.
func NewFileCatalog(path string) (*FileCatalog, error) {
	c := &FileCatalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the menu file. On error the previous catalog stays active.
func (c *FileCatalog) Reload() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	bySlug := make(map[string]int, len(products))
	for i, p := range products {
		if p.Slug == "" {
			return fmt.Errorf("catalog product %q has no slug", p.Name)
		}
		if _, dup := bySlug[p.Slug]; dup {
			return fmt.Errorf("catalog has duplicate slug %q", p.Slug)
		}
		bySlug[p.Slug] = i
	}

	c.mu.Lock()
	c.products = products
	c.bySlug = bySlug
	c.mu.Unlock()
	return nil
}

// GetProduct retrieves a product template by slug.
func (c *FileCatalog) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.bySlug[slug]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	p := c.products[i]
	return &p, nil
}

// ListProducts retrieves all product templates in menu order.
func (c *FileCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products := make([]domain.Product, len(c.products))
	copy(products, c.products)
	return products, nil
}
