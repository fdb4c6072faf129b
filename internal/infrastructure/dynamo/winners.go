package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/contest-api/internal/domain"
)

// WinnerRepo holds the singleton winner record. Every row uses the constant
// partition key domain.WinnerRecordID, so the conditional insert below is the
// storage-level "at most one winner ever" guard. It needs no locks and keeps
// working when several API instances race on the draw.
type WinnerRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewWinnerRepo(client *dynamodb.Client, tableName string) *WinnerRepo {
	return &WinnerRepo{client: client, tableName: tableName}
}

// PutNew inserts the winner record only when none exists yet. A concurrent
// losing insert fails the condition and is reported as domain.ErrConflict.
func (r *WinnerRepo) PutNew(ctx context.Context, w *domain.WinnerRecord) error {
	w.RecordID = domain.WinnerRecordID
	item, err := attributevalue.MarshalMap(w)
	if err != nil {
		return fmt.Errorf("marshal winner record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(record_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("draw already performed: %w", domain.ErrConflict)
	}
	return err
}

func (r *WinnerRepo) Get(ctx context.Context) (*domain.WinnerRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("record_id", domain.WinnerRecordID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("winner not drawn yet: %w", domain.ErrNotFound)
	}
	var w domain.WinnerRecord
	if err := attributevalue.UnmarshalMap(out.Item, &w); err != nil {
		return nil, err
	}
	return &w, nil
}
