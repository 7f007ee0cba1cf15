package storage

import (
	"context"

	"github.com/chris/jastip-settlement/pkg/models"
)

// CatalogStore is the part of the product catalog that checkout depends on.
type CatalogStore interface {
	// GetProduct retrieves a product snapshot by its id.
	GetProduct(ctx context.Context, productID string) (*models.Product, error)

	// PutProduct creates or replaces a product.
	PutProduct(ctx context.Context, product *models.Product) error
}
