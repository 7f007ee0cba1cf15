package postgres

import (
	"context"

	"github.com/chris/jastip-settlement/pkg/models"
)

// GetProduct retrieves a product by its id.
func (s *Store) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var (
		p        models.Product
		lat, lon *float64
	)
	err := s.DB.QueryRow(ctx, `
		SELECT id, seller_id, name, price, stock, origin_lat, origin_lon
		FROM products WHERE id = $1`, productID).
		Scan(&p.Id, &p.SellerID, &p.Name, &p.Price, &p.Stock, &lat, &lon)
	if err != nil {
		return nil, translate(err, "get product "+productID)
	}
	if lat != nil && lon != nil {
		p.Origin = &models.Coordinate{Lat: *lat, Lon: *lon}
	}
	return &p, nil
}

// PutProduct creates or replaces a product.
func (s *Store) PutProduct(ctx context.Context, product *models.Product) error {
	var lat, lon *float64
	if product.Origin != nil {
		lat, lon = &product.Origin.Lat, &product.Origin.Lon
	}
	_, err := s.DB.Exec(ctx, `
		INSERT INTO products (id, seller_id, name, price, stock, origin_lat, origin_lon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			seller_id = EXCLUDED.seller_id, name = EXCLUDED.name, price = EXCLUDED.price,
			stock = EXCLUDED.stock, origin_lat = EXCLUDED.origin_lat, origin_lon = EXCLUDED.origin_lon`,
		product.Id, product.SellerID, product.Name, product.Price, product.Stock, lat, lon)
	if err != nil {
		return translate(err, "put product "+product.Id)
	}
	return nil
}
