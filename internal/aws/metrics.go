package aws

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the payment callback path.
const (
	MetricPaymentVerified           = "PaymentVerified"
	MetricPaymentRejected           = "PaymentRejected"
	MetricCallbackSignatureMismatch = "CallbackSignatureMismatch"
)

// Metrics emits operational counters to CloudWatch. Emission is best-effort:
// a metrics failure must never fail the request that produced it.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewMetrics returns a Metrics emitter publishing under the given namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Count increments a counter metric by one.
func (m *Metrics) Count(ctx context.Context, name string) {
	if m == nil || m.client == nil {
		return
	}
	now := m.nowFunc()
	one := float64(1)
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Timestamp:  &now,
				Value:      &one,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		log.Printf("put metric %s: %v", name, err)
	}
}
