package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
	"github.com/chris/jastip-settlement/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStore(client DynamoDBAPI) *Store {
	return New(client, "accounts", "ledger", "orders", "products")
}

func canceled(reasons ...types.CancellationReason) error {
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func reason(code string, item map[string]types.AttributeValue) types.CancellationReason {
	return types.CancellationReason{Code: aws.String(code), Item: item}
}

func TestCreateAccount(t *testing.T) {
	account := &models.Account{AccountID: "buyer-1", Role: models.BUYER, Version: 1}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return aws.ToString(in.ConditionExpression) == "attribute_not_exists(account_id)"
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		created, err := newStore(mockClient).CreateAccount(context.Background(), account)

		assert.NoError(t, err)
		assert.Equal(t, account, created)
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := newStore(mockClient).CreateAccount(context.Background(), account)

		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		_, err := newStore(mockClient).CreateAccount(context.Background(), account)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account in DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestGetAccount(t *testing.T) {
	account := &models.Account{AccountID: "buyer-1", Role: models.BUYER, Balance: 100, Version: 3, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		accountAV, _ := attributevalue.MarshalMap(account)
		mockClient.On("GetItem", mock.Anything, mock.AnythingOfType("*dynamodb.GetItemInput")).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil)

		got, err := newStore(mockClient).GetAccount(context.Background(), "buyer-1")

		assert.NoError(t, err)
		assert.Equal(t, account, got)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		_, err := newStore(mockClient).GetAccount(context.Background(), "buyer-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestSetVerified(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		attrs, _ := attributevalue.MarshalMap(&models.Account{AccountID: "seller-1", Role: models.SELLER, Verified: true})
		mockClient.On("UpdateItem", mock.Anything, mock.AnythingOfType("*dynamodb.UpdateItemInput")).Return(&dynamodb.UpdateItemOutput{Attributes: attrs}, nil).Once()

		got, err := newStore(mockClient).SetVerified(context.Background(), "seller-1", true)

		require.NoError(t, err)
		assert.True(t, got.Verified)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		_, err := newStore(mockClient).SetVerified(context.Background(), "seller-1", true)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListAccountsPaginates(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	first, _ := attributevalue.MarshalMap(&models.Account{AccountID: "a"})
	second, _ := attributevalue.MarshalMap(&models.Account{AccountID: "b"})
	lastKey := map[string]types.AttributeValue{"account_id": stringAV("a")}

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{first}, LastEvaluatedKey: lastKey}, nil).Once()
	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{second}}, nil).Once()

	accounts, err := newStore(mockClient).ListAccounts(context.Background())

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "b", accounts[1].AccountID)
	mockClient.AssertExpectations(t)
}

func TestApplyEntries(t *testing.T) {
	now := time.Now().UTC()
	entries := []models.Transaction{
		{Id: "e1", AccountID: "buyer-1", Kind: models.TRANSFER, Amount: 300, CreatedAt: now},
		{Id: "e2", AccountID: "seller-1", Kind: models.INCOME, Amount: 300, CreatedAt: now},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 4 {
				return false
			}
			debit := in.TransactItems[0].Update
			credit := in.TransactItems[1].Update
			return debit != nil && credit != nil &&
				aws.ToString(debit.ConditionExpression) == "attribute_exists(account_id) AND balance >= :need" &&
				aws.ToString(credit.ConditionExpression) == "attribute_exists(account_id)" &&
				in.TransactItems[2].Put != nil && in.TransactItems[3].Put != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		err := newStore(mockClient).ApplyEntries(context.Background(), entries)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		old, _ := attributevalue.MarshalMap(&models.Account{AccountID: "buyer-1", Balance: 10})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil,
			canceled(reason("ConditionalCheckFailed", old), reason("None", nil), reason("None", nil), reason("None", nil))).Once()

		err := newStore(mockClient).ApplyEntries(context.Background(), entries)

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		mockClient.AssertExpectations(t)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil,
			canceled(reason("None", nil), reason("ConditionalCheckFailed", nil), reason("None", nil), reason("None", nil))).Once()

		err := newStore(mockClient).ApplyEntries(context.Background(), entries)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Contains(t, err.Error(), "seller-1")
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil,
			canceled(reason("TransactionConflict", nil))).Once()

		err := newStore(mockClient).ApplyEntries(context.Background(), entries)

		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("Other Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		err := newStore(mockClient).ApplyEntries(context.Background(), entries)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute transaction")
	})

	t.Run("No Entries", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)

		assert.NoError(t, newStore(mockClient).ApplyEntries(context.Background(), nil))
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})
}

func TestCommitCheckout(t *testing.T) {
	now := time.Now().UTC()
	checkout := &models.Checkout{
		ID:      "co-1",
		BuyerID: "buyer-1",
		Orders: []models.Order{
			{Id: "o1", ProductID: "p1", Quantity: 1, Status: models.PENDING, Version: 1},
			{Id: "o2", ProductID: "p1", Quantity: 2, Status: models.PENDING, Version: 1},
		},
		Decrements: []models.StockDecrement{{ProductID: "p1", Quantity: 1}, {ProductID: "p1", Quantity: 2}},
		Entries:    []models.Transaction{{Id: "e1", AccountID: "buyer-1", Kind: models.PAYMENT, Amount: 500, CreatedAt: now}},
	}

	t.Run("Success nets decrements per product", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			// one product update, two order puts, one account update, one entry put
			if len(in.TransactItems) != 5 {
				return false
			}
			qty, ok := in.TransactItems[0].Update.ExpressionAttributeValues[":qty"].(*types.AttributeValueMemberN)
			return ok && qty.Value == "3"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		err := newStore(mockClient).CommitCheckout(context.Background(), checkout)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Stock", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		old, _ := attributevalue.MarshalMap(&models.Product{Id: "p1", Stock: 2})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil,
			canceled(reason("ConditionalCheckFailed", old))).Once()

		err := newStore(mockClient).CommitCheckout(context.Background(), checkout)

		assert.ErrorIs(t, err, storage.ErrInsufficientStock)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		old, _ := attributevalue.MarshalMap(&models.Account{AccountID: "buyer-1", Balance: 1})
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil,
			canceled(reason("None", nil), reason("None", nil), reason("None", nil), reason("ConditionalCheckFailed", old))).Once()

		err := newStore(mockClient).CommitCheckout(context.Background(), checkout)

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
	})
}

func TestUpdateOrder(t *testing.T) {
	order := &models.Order{Id: "o1", BuyerID: "buyer-1", SellerID: "seller-1", Status: models.PENDING, Version: 4}
	orderAV, _ := attributevalue.MarshalMap(order)

	confirm := func(o *models.Order) ([]models.Transaction, error) {
		o.Status = models.CONFIRMED
		return nil, nil
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: orderAV}, nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			put := in.TransactItems[0].Put
			version, ok := put.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN)
			return len(in.TransactItems) == 1 && ok && version.Value == "4"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		updated, err := newStore(mockClient).UpdateOrder(context.Background(), "o1", confirm)

		require.NoError(t, err)
		assert.Equal(t, models.CONFIRMED, updated.Status)
		assert.Equal(t, int64(5), updated.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Version Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: orderAV}, nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil,
			canceled(reason("ConditionalCheckFailed", orderAV))).Once()

		_, err := newStore(mockClient).UpdateOrder(context.Background(), "o1", confirm)

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Mutation Error Writes Nothing", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: orderAV}, nil).Once()
		boom := errors.New("not allowed")

		_, err := newStore(mockClient).UpdateOrder(context.Background(), "o1", func(*models.Order) ([]models.Transaction, error) {
			return nil, boom
		})

		assert.ErrorIs(t, err, boom)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		_, err := newStore(mockClient).UpdateOrder(context.Background(), "o1", confirm)

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListOrders(t *testing.T) {
	older, _ := attributevalue.MarshalMap(&models.Order{Id: "o1", BuyerID: "buyer-1", Status: models.PENDING, CreatedAt: time.Unix(100, 0).UTC()})
	newer, _ := attributevalue.MarshalMap(&models.Order{Id: "o2", BuyerID: "buyer-1", Status: models.CONFIRMED, CreatedAt: time.Unix(200, 0).UTC()})

	t.Run("Queries the buyer index", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return aws.ToString(in.IndexName) == buyerIndex && in.ExpressionAttributeNames["#key"] == "buyer_id"
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{older, newer}}, nil).Once()

		orders, err := newStore(mockClient).ListOrders(context.Background(), models.OrderFilter{BuyerID: "buyer-1"})

		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "o2", orders[0].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Applies remaining filters", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{older, newer}}, nil).Once()

		orders, err := newStore(mockClient).ListOrders(context.Background(), models.OrderFilter{BuyerID: "buyer-1", Status: models.PENDING})

		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "o1", orders[0].Id)
	})

	t.Run("Scans without a key filter", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{older}}, nil).Once()

		orders, err := newStore(mockClient).ListOrders(context.Background(), models.OrderFilter{Unassigned: true})

		require.NoError(t, err)
		assert.Len(t, orders, 1)
		mockClient.AssertExpectations(t)
	})
}

func TestListTransactions(t *testing.T) {
	accountAV, _ := attributevalue.MarshalMap(&models.Account{AccountID: "buyer-1"})
	ts := time.Unix(100, 0).UTC()
	a, _ := attributevalue.MarshalMap(&models.Transaction{Id: "a", AccountID: "buyer-1", Kind: models.TOPUP, Amount: 1, CreatedAt: ts})
	b, _ := attributevalue.MarshalMap(&models.Transaction{Id: "b", AccountID: "buyer-1", Kind: models.TOPUP, Amount: 1, CreatedAt: ts})

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountAV}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return aws.ToString(in.IndexName) == ledgerAccountIndex && !aws.ToBool(in.ScanIndexForward)
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{a, b}}, nil).Once()

		txs, err := newStore(mockClient).ListTransactions(context.Background(), "buyer-1")

		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, "b", txs[0].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Unknown Account", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		_, err := newStore(mockClient).ListTransactions(context.Background(), "buyer-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
	})
}

func TestProducts(t *testing.T) {
	t.Run("Get Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		_, err := newStore(mockClient).GetProduct(context.Background(), "p1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Put", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return aws.ToString(in.TableName) == "products"
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		err := newStore(mockClient).PutProduct(context.Background(), &models.Product{Id: "p1", SellerID: "seller-1", Price: 10, Stock: 1})

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})
}
