package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// ledgerAccountIndex is the GSI on the ledger table keyed by account_id and sorted by created_at.
const ledgerAccountIndex = "account_id-created_at-index"

// ApplyEntries writes the entries and their balance deltas in a single transaction.
func (s *Store) ApplyEntries(ctx context.Context, entries []models.Transaction) error {
	var ws writeSet
	if err := s.addEntries(&ws, entries); err != nil {
		return err
	}
	return ws.commit(ctx, s.Client)
}

// addEntries appends one balance update per account and one put per entry.
// DynamoDB rejects transactions that touch the same item twice, so deltas are netted per account.
func (s *Store) addEntries(ws *writeSet, entries []models.Transaction) error {
	deltas := ledger.NetDeltas(entries)
	for _, id := range ledger.AccountOrder(entries) {
		delta := deltas[id]

		condition := "attribute_exists(account_id)"
		values := map[string]types.AttributeValue{
			":delta": numberAV(delta),
			":inc":   numberAV(1),
		}
		if delta < 0 {
			condition += " AND balance >= :need"
			values[":need"] = numberAV(-delta)
		}

		ws.add(types.TransactWriteItem{
			Update: &types.Update{
				TableName:                           aws.String(s.AccountsTableName),
				Key:                                 map[string]types.AttributeValue{"account_id": stringAV(id)},
				UpdateExpression:                    aws.String("SET balance = balance + :delta, version = version + :inc"),
				ConditionExpression:                 aws.String(condition),
				ExpressionAttributeValues:           values,
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			},
		}, missingOr("account "+id, fmt.Errorf("account %s: %w", id, storage.ErrInsufficientFunds)))
	}

	for _, e := range entries {
		entryAV, err := attributevalue.MarshalMap(e)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger entry: %w", err)
		}
		ws.add(types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                entryAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		}, always(fmt.Errorf("ledger entry %s: %w", e.Id, storage.ErrAlreadyExists)))
	}
	return nil
}

// ListTransactions retrieves every ledger entry of an account, newest first.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	var (
		txs      []models.Transaction
		startKey map[string]types.AttributeValue
	)
	for {
		result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.LedgerTableName),
			IndexName:              aws.String(ledgerAccountIndex),
			KeyConditionExpression: aws.String("account_id = :account_id"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":account_id": stringAV(accountID),
			},
			ScanIndexForward:  aws.Bool(false), // Sort by created_at in descending order
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query for ledger entries: %w", err)
		}

		var page []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
		}
		txs = append(txs, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	// Entries written by one call share a timestamp; the index does not order those.
	ledger.SortNewestFirst(txs)
	return txs, nil
}
