package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// FulfillmentMessage is the payload sent from the payment callback handler to
// the fulfillment worker. Delivery is at-least-once; the worker must tolerate
// duplicates for the same order reference.
type FulfillmentMessage struct {
	OrderReference string `json:"order_reference"`
	OwnerID        string `json:"owner_id"`
	CorrelationID  string `json:"correlation_id,omitempty"`
}

// Publisher wraps an SQS client and the fulfillment queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// SendFulfillment publishes a fulfillment message for a verified payment.
// The order reference and owner travel both in the body and as message
// attributes so consumers can filter without unmarshalling.
func (p *Publisher) SendFulfillment(ctx context.Context, msg FulfillmentMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal fulfillment message: %w", err)
	}
	bodyStr := string(body)

	attrs := map[string]sqstypes.MessageAttributeValue{
		"order_reference": {DataType: awsString("String"), StringValue: &msg.OrderReference},
		"owner_id":        {DataType: awsString("String"), StringValue: &msg.OwnerID},
	}
	if msg.CorrelationID != "" {
		attrs["correlation_id"] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: &msg.CorrelationID,
		}
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          &p.QueueURL,
		MessageBody:       &bodyStr,
		MessageAttributes: attrs,
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
