package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/localaddons/addon-backend/internal/aws"
)

const slugIndex = "slug-index"

// Store encapsulates read access to the courses table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new catalog Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// GetPublished looks a published course up by numeric id or slug, the same
// dual lookup the storefront uses. Returns (nil, nil) when no published
// course matches.
func (s *Store) GetPublished(ctx context.Context, lookup string) (*Course, error) {
	var course *Course
	var err error
	if isDigits(lookup) {
		course, err = s.getByID(ctx, lookup)
	} else {
		course, err = s.getBySlug(ctx, lookup)
	}
	if err != nil {
		return nil, err
	}
	if course == nil || !course.Published {
		return nil, nil
	}
	return course, nil
}

func (s *Store) getByID(ctx context.Context, id string) (*Course, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"course_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Course
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal course: %w", err)
	}
	return &c, nil
}

func (s *Store) getBySlug(ctx context.Context, slug string) (*Course, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(slugIndex),
		KeyConditionExpression: awsString("slug = :slug"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":slug": &types.AttributeValueMemberS{Value: slug},
		},
		Limit: awsInt32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query slug index: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var c Course
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, fmt.Errorf("unmarshal course: %w", err)
	}
	return &c, nil
}

// ListPublished returns all published courses.
func (s *Store) ListPublished(ctx context.Context) ([]Course, error) {
	return s.scan(ctx, "published = :t", map[string]types.AttributeValue{
		":t": &types.AttributeValueMemberBOOL{Value: true},
	})
}

// ListFeatured returns published courses flagged for the landing page.
func (s *Store) ListFeatured(ctx context.Context) ([]Course, error) {
	return s.scan(ctx, "published = :t AND featured = :t", map[string]types.AttributeValue{
		":t": &types.AttributeValueMemberBOOL{Value: true},
	})
}

func (s *Store) scan(ctx context.Context, filter string, values map[string]types.AttributeValue) ([]Course, error) {
	var courses []Course
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:                 &s.tableName,
			FilterExpression:          awsString(filter),
			ExpressionAttributeValues: values,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan courses: %w", err)
		}
		var page []Course
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal courses: %w", err)
		}
		courses = append(courses, page...)
		if out.LastEvaluatedKey == nil {
			return courses, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func awsString(s string) *string { return &s }
func awsInt32(i int32) *int32    { return &i }
