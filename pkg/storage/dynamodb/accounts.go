package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// CreateAccount creates a new account record in DynamoDB.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	accountAV, err := attributevalue.MarshalMap(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.AccountsTableName),
		Item:                accountAV,
		ConditionExpression: aws.String("attribute_not_exists(account_id)"), // Prevent overwriting existing accounts.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("account %s: %w", account.AccountID, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create account in DynamoDB: %w", err)
	}

	return account, nil
}

// GetAccount retrieves an account from DynamoDB by its id.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.AccountsTableName),
		Key:            map[string]types.AttributeValue{"account_id": stringAV(accountID)},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("account %s: %w", accountID, storage.ErrNotFound)
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(result.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// ListAccounts retrieves all accounts from DynamoDB.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var (
		accounts []models.Account
		startKey map[string]types.AttributeValue
	)
	for {
		result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.AccountsTableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan accounts table: %w", err)
		}

		var page []models.Account
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
		}
		accounts = append(accounts, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return accounts, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// SetVerified updates the verification flag of an existing account.
func (s *Store) SetVerified(ctx context.Context, accountID string, verified bool) (*models.Account, error) {
	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.AccountsTableName),
		Key:                 map[string]types.AttributeValue{"account_id": stringAV(accountID)},
		UpdateExpression:    aws.String("SET verified = :verified"),
		ConditionExpression: aws.String("attribute_exists(account_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":verified": &types.AttributeValueMemberBOOL{Value: verified},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("account %s: %w", accountID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update account in DynamoDB: %w", err)
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(result.Attributes, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}
