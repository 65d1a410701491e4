// Package events publishes plan and tier change events to SQS so consumers
// holding cached quotes or catalog copies can refresh them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends each ChangeEvent as a JSON message to a single queue.
// Entity and kind are copied into message attributes so subscribers can
// filter without decoding the body.
type SQSPublisher struct {
	client   SQSSender
	queueURL string
	logger   *slog.Logger
}

// NewSQSPublisher creates a publisher for queueURL.
func NewSQSPublisher(client SQSSender, queueURL string, logger *slog.Logger) *SQSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQSPublisher{client: client, queueURL: queueURL, logger: logger}
}

// Publish implements billing.ChangePublisher.
func (p *SQSPublisher) Publish(ctx context.Context, event types.ChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: failed to marshal ChangeEvent: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"entity": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Entity),
			},
			"kind": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Kind)),
			},
		},
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return types.NewAppError(types.ErrCodeUpstreamQueue,
			fmt.Sprintf("failed to send change event to %s", p.queueURL), err)
	}

	p.logger.InfoContext(ctx, "change event sent",
		"queue_url", p.queueURL,
		"event_id", event.ID,
		"entity", event.Entity,
		"entity_id", event.EntityID,
		"kind", string(event.Kind),
	)
	return nil
}

// LogPublisher records change events in the log only. It stands in for SQS
// when no queue is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event types.ChangeEvent) error {
	p.logger.DebugContext(ctx, "change event",
		"event_id", event.ID,
		"entity", event.Entity,
		"entity_id", event.EntityID,
		"kind", string(event.Kind),
	)
	return nil
}
