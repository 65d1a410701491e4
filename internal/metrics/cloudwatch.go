package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric and dimension names emitted to CloudWatch.
const (
	MetricAPILatency      = "APILatency"
	MetricAPIRequestCount = "APIRequestCount"
	MetricQuoteCount      = "QuoteCount"

	DimMethod   = "Method"
	DimEndpoint = "Endpoint"
	DimStatus   = "Status"
	DimCycle    = "BillingCycle"
	DimOutcome  = "Outcome"
)

// putTimeout bounds each PutMetricData call; metrics are recorded off the
// request context so a slow CloudWatch never stalls a response.
const putTimeout = 2 * time.Second

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatch emits request and quote metrics with PutMetricData.
// Failures are logged and dropped.
type CloudWatch struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

func NewCloudWatch(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatch {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudWatch{client: client, namespace: namespace, logger: logger}
}

// RecordRequest emits APILatency and APIRequestCount with Method, Endpoint
// and Status dimensions.
func (m *CloudWatch) RecordRequest(method, endpoint, status string, duration time.Duration) {
	dims := []cwtypes.Dimension{
		{Name: aws.String(DimMethod), Value: aws.String(method)},
		{Name: aws.String(DimEndpoint), Value: aws.String(endpoint)},
		{Name: aws.String(DimStatus), Value: aws.String(status)},
	}
	m.put([]cwtypes.MetricDatum{
		{
			MetricName: aws.String(MetricAPILatency),
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       cwtypes.StandardUnitMilliseconds,
			Dimensions: dims,
		},
		{
			MetricName: aws.String(MetricAPIRequestCount),
			Value:      aws.Float64(1),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: dims,
		},
	}, "endpoint", endpoint)
}

// RecordQuote emits QuoteCount with BillingCycle and Outcome dimensions.
func (m *CloudWatch) RecordQuote(cycle, outcome string) {
	m.put([]cwtypes.MetricDatum{
		{
			MetricName: aws.String(MetricQuoteCount),
			Value:      aws.Float64(1),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: []cwtypes.Dimension{
				{Name: aws.String(DimCycle), Value: aws.String(cycle)},
				{Name: aws.String(DimOutcome), Value: aws.String(outcome)},
			},
		},
	}, "cycle", cycle, "outcome", outcome)
}

func (m *CloudWatch) put(data []cwtypes.MetricDatum, logArgs ...any) {
	ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
	defer cancel()

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to put metric data", append([]any{"error", err.Error()}, logArgs...)...)
	}
}

// Nop discards everything. It is used when METRICS_BACKEND is "none".
type Nop struct{}

func (Nop) RecordRequest(string, string, string, time.Duration) {}
func (Nop) RecordQuote(string, string)                          {}
