// Package enrollment records which user owns which course. Enrolling is
// get-or-create: replayed fulfillment messages for the same purchase land on
// the conditional put and read as already-enrolled instead of failing.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/localaddons/addon-backend/internal/aws"
)

// Enrollment is the item stored in the enrollments DynamoDB table,
// keyed by owner (PK) and course (SK).
type Enrollment struct {
	OwnerID    string    `dynamodbav:"owner_id" json:"owner_id"`   // PK
	CourseKey  string    `dynamodbav:"course_key" json:"course_id"` // SK
	OrderRef   string    `dynamodbav:"order_reference,omitempty" json:"order_reference,omitempty"`
	EnrolledAt time.Time `dynamodbav:"enrolled_at" json:"enrolled_at"`
}

// Store encapsulates operations on the enrollments table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new enrollment Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Enroll creates the enrollment if it does not exist. The bool reports
// whether a new record was created; false means the user was already
// enrolled, which is a success for replay purposes.
func (s *Store) Enroll(ctx context.Context, ownerID, courseKey, orderRef string) (bool, error) {
	rec := Enrollment{
		OwnerID:    ownerID,
		CourseKey:  courseKey,
		OrderRef:   orderRef,
		EnrolledAt: s.nowFunc(),
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal enrollment: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(owner_id) AND attribute_not_exists(course_key)"),
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return false, nil
		}
		return false, fmt.Errorf("put enrollment: %w", err)
	}
	return true, nil
}

// ListByOwner returns the course keys a user is enrolled in.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]Enrollment, error) {
	var enrollments []Enrollment
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:              &s.tableName,
			KeyConditionExpression: awsString("owner_id = :o"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":o": &types.AttributeValueMemberS{Value: ownerID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query enrollments: %w", err)
		}
		var page []Enrollment
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal enrollments: %w", err)
		}
		enrollments = append(enrollments, page...)
		if out.LastEvaluatedKey == nil {
			return enrollments, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func awsString(s string) *string { return &s }
