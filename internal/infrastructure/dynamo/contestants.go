package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/contest-api/internal/domain"
)

// ContestantRepo provides typed DynamoDB operations for the contestants table.
// The partition key is the lowercased email, which makes the key itself the
// case-insensitive uniqueness constraint on registration.
type ContestantRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewContestantRepo(client *dynamodb.Client, tableName string) *ContestantRepo {
	return &ContestantRepo{client: client, tableName: tableName}
}

// PutNew inserts a contestant only if no row with the same email exists.
// A lost race between the advisory duplicate check and this insert surfaces
// here as domain.ErrConflict, the authoritative "already registered" signal.
func (r *ContestantRepo) PutNew(ctx context.Context, c *domain.Contestant) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal contestant: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	return err
}

func (r *ContestantRepo) GetByEmail(ctx context.Context, email string) (*domain.Contestant, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("contestant not found: %w", domain.ErrNotFound)
	}
	var c domain.Contestant
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ScanAll returns every contestant, following pagination until the table is
// exhausted. Contest tables are small; callers sort and filter in memory.
func (r *ContestantRepo) ScanAll(ctx context.Context) ([]domain.Contestant, error) {
	return r.scan(ctx, nil)
}

// ScanVerified returns the eligible pool: contestants with is_verified=true.
func (r *ContestantRepo) ScanVerified(ctx context.Context) ([]domain.Contestant, error) {
	return r.scan(ctx, aws.String("is_verified = :t"))
}

func (r *ContestantRepo) scan(ctx context.Context, filter *string) ([]domain.Contestant, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: filter,
	}
	if filter != nil {
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		}
	}
	var contestants []domain.Contestant
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Contestant
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		contestants = append(contestants, page...)
		if out.LastEvaluatedKey == nil {
			return contestants, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *ContestantRepo) Update(ctx context.Context, email string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("email", email),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// MarkVerified flips is_verified to true. The flag is monotonic; setting it
// again on an already-verified contestant is a harmless overwrite.
func (r *ContestantRepo) MarkVerified(ctx context.Context, email string) error {
	return r.Update(ctx, email, map[string]interface{}{fieldIsVerified: true})
}

// LinkAccount records the credential account username on the contestant row.
func (r *ContestantRepo) LinkAccount(ctx context.Context, email, username string) error {
	return r.Update(ctx, email, map[string]interface{}{fieldAccountUsername: username})
}
