package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// GetProduct retrieves a product from DynamoDB by its id.
func (s *Store) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.ProductsTableName),
		Key:       map[string]types.AttributeValue{"id": stringAV(productID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("product %s: %w", productID, storage.ErrNotFound)
	}

	var product models.Product
	if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

// PutProduct creates or replaces a product record.
func (s *Store) PutProduct(ctx context.Context, product *models.Product) error {
	productAV, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.ProductsTableName),
		Item:      productAV,
	})
	if err != nil {
		return fmt.Errorf("failed to put product in DynamoDB: %w", err)
	}
	return nil
}
