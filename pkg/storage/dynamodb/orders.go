package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// GSIs on the orders table, each sorted by created_at.
const (
	buyerIndex  = "buyer_id-created_at-index"
	sellerIndex = "seller_id-created_at-index"
	driverIndex = "driver_id-created_at-index"
	statusIndex = "status-created_at-index"
)

// GetOrder retrieves an order from DynamoDB by its id.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.OrdersTableName),
		Key:            map[string]types.AttributeValue{"id": stringAV(orderID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get order from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrNotFound)
	}

	var order models.Order
	if err := attributevalue.UnmarshalMap(result.Item, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return &order, nil
}

// ListOrders queries the narrowest index the filter allows and applies the rest of the filter in memory.
func (s *Store) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	index, attr, value := orderIndexFor(filter)

	var (
		items    []map[string]types.AttributeValue
		startKey map[string]types.AttributeValue
	)
	for {
		var (
			page    []map[string]types.AttributeValue
			lastKey map[string]types.AttributeValue
		)
		if index == "" {
			result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
				TableName:         aws.String(s.OrdersTableName),
				ExclusiveStartKey: startKey,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to scan orders table: %w", err)
			}
			page, lastKey = result.Items, result.LastEvaluatedKey
		} else {
			result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
				TableName:              aws.String(s.OrdersTableName),
				IndexName:              aws.String(index),
				KeyConditionExpression: aws.String("#key = :value"),
				ExpressionAttributeNames: map[string]string{
					"#key": attr,
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":value": stringAV(value),
				},
				ScanIndexForward:  aws.Bool(false),
				ExclusiveStartKey: startKey,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to query orders by %s: %w", attr, err)
			}
			page, lastKey = result.Items, result.LastEvaluatedKey
		}

		items = append(items, page...)
		if len(lastKey) == 0 {
			break
		}
		startKey = lastKey
	}

	var all []models.Order
	if err := attributevalue.UnmarshalListOfMaps(items, &all); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}

	orders := make([]models.Order, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			orders = append(orders, all[i])
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].Id < orders[j].Id
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// orderIndexFor picks the GSI for a filter. An empty index means a full scan.
func orderIndexFor(filter models.OrderFilter) (index, attr, value string) {
	switch {
	case filter.BuyerID != "":
		return buyerIndex, "buyer_id", filter.BuyerID
	case filter.SellerID != "":
		return sellerIndex, "seller_id", filter.SellerID
	case filter.DriverID != "":
		return driverIndex, "driver_id", filter.DriverID
	case filter.Status != "":
		return statusIndex, "status", string(filter.Status)
	}
	return "", "", ""
}

// CommitCheckout writes the orders, the stock decrements and the payment entries in one transaction.
func (s *Store) CommitCheckout(ctx context.Context, checkout *models.Checkout) error {
	var ws writeSet

	// Net the decrements per product; one transaction may update an item only once.
	quantities := make(map[string]int64)
	var productIDs []string
	for _, d := range checkout.Decrements {
		if _, seen := quantities[d.ProductID]; !seen {
			productIDs = append(productIDs, d.ProductID)
		}
		quantities[d.ProductID] += d.Quantity
	}
	for _, id := range productIDs {
		ws.add(types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.ProductsTableName),
				Key:                 map[string]types.AttributeValue{"id": stringAV(id)},
				UpdateExpression:    aws.String("SET stock = stock - :qty"),
				ConditionExpression: aws.String("attribute_exists(id) AND stock >= :qty"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":qty": numberAV(quantities[id]),
				},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			},
		}, missingOr("product "+id, fmt.Errorf("product %s: %w", id, storage.ErrInsufficientStock)))
	}

	for _, o := range checkout.Orders {
		orderAV, err := attributevalue.MarshalMap(o)
		if err != nil {
			return fmt.Errorf("failed to marshal order: %w", err)
		}
		ws.add(types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.OrdersTableName),
				Item:                orderAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		}, always(fmt.Errorf("order %s: %w", o.Id, storage.ErrAlreadyExists)))
	}

	if err := s.addEntries(&ws, checkout.Entries); err != nil {
		return err
	}
	return ws.commit(ctx, s.Client)
}

// UpdateOrder reads the order, applies fn and writes the result back guarded by the order version.
// A concurrent writer that bumped the version first makes the transaction fail with ErrConflict.
func (s *Store) UpdateOrder(ctx context.Context, orderID string, fn storage.OrderMutation) (*models.Order, error) {
	current, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	updated := *current
	entries, err := fn(&updated)
	if err != nil {
		return nil, err
	}
	updated.Id = current.Id
	updated.Version = current.Version + 1

	orderAV, err := attributevalue.MarshalMap(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	var ws writeSet
	ws.add(types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.OrdersTableName),
			Item:                orderAV,
			ConditionExpression: aws.String("version = :version"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":version": numberAV(current.Version),
			},
		},
	}, always(fmt.Errorf("order %s: %w", orderID, storage.ErrConflict)))
	if err := s.addEntries(&ws, entries); err != nil {
		return nil, err
	}
	if err := ws.commit(ctx, s.Client); err != nil {
		return nil, err
	}
	return &updated, nil
}
