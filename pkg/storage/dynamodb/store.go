package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client            DynamoDBAPI
	AccountsTableName string
	LedgerTableName   string
	OrdersTableName   string
	ProductsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, accountsTable, ledgerTable, ordersTable, productsTable string) *Store {
	return &Store{
		Client:            client,
		AccountsTableName: accountsTable,
		LedgerTableName:   ledgerTable,
		OrdersTableName:   ordersTable,
		ProductsTableName: productsTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// maxTransactItems is the DynamoDB limit on actions in one TransactWriteItems call.
const maxTransactItems = 100

// failureFunc maps a failed condition on one transaction item to a storage error.
type failureFunc func(reason types.CancellationReason) error

// writeSet collects the items of a single TransactWriteItems call together with
// the error each item reports when its condition fails.
type writeSet struct {
	items    []types.TransactWriteItem
	failures []failureFunc
}

func (w *writeSet) add(item types.TransactWriteItem, onFail failureFunc) {
	w.items = append(w.items, item)
	w.failures = append(w.failures, onFail)
}

// commit executes every collected item atomically.
func (w *writeSet) commit(ctx context.Context, client DynamoDBAPI) error {
	if len(w.items) == 0 {
		return nil
	}
	if len(w.items) > maxTransactItems {
		return fmt.Errorf("transaction has %d items, DynamoDB allows %d", len(w.items), maxTransactItems)
	}

	_, err := client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: w.items,
	})
	if err == nil {
		return nil
	}

	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "ConditionalCheckFailed":
				if i < len(w.failures) && w.failures[i] != nil {
					return w.failures[i](reason)
				}
				return storage.ErrConflict
			case "TransactionConflict":
				return storage.ErrConflict
			}
		}
	}
	return fmt.Errorf("failed to execute transaction: %w", err)
}

// always returns a failureFunc that reports err regardless of the reason.
func always(err error) failureFunc {
	return func(types.CancellationReason) error { return err }
}

// missingOr reports ErrNotFound when the item did not exist and err otherwise.
// It relies on ReturnValuesOnConditionCheckFailure ALL_OLD being set on the item.
func missingOr(notFound string, err error) failureFunc {
	return func(reason types.CancellationReason) error {
		if len(reason.Item) == 0 {
			return fmt.Errorf("%s: %w", notFound, storage.ErrNotFound)
		}
		return err
	}
}

func numberAV(v int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", v)}
}

func stringAV(v string) *types.AttributeValueMemberS {
	return &types.AttributeValueMemberS{Value: v}
}
