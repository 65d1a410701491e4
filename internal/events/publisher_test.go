package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// --- Mock SQS Client ---

// mockSQSSender captures SendMessage calls for test assertions.
type mockSQSSender struct {
	calls []*sqs.SendMessageInput
	err   error
}

func (m *mockSQSSender) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sqs.SendMessageOutput{}, nil
}

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/123456789/plan-events"

func testEvent() types.ChangeEvent {
	return types.ChangeEvent{
		ID:         "evt-1",
		Entity:     types.EntityPlan,
		EntityID:   "plan-1",
		Kind:       types.ChangeUpdated,
		OccurredAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestSQSPublisher_Publish(t *testing.T) {
	mock := &mockSQSSender{}
	pub := NewSQSPublisher(mock, testQueueURL, slog.Default())

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned unexpected error: %v", err)
	}
	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 SQS call, got %d", len(mock.calls))
	}

	call := mock.calls[0]
	if *call.QueueUrl != testQueueURL {
		t.Errorf("expected queue URL %q, got %q", testQueueURL, *call.QueueUrl)
	}

	var got types.ChangeEvent
	if err := json.Unmarshal([]byte(*call.MessageBody), &got); err != nil {
		t.Fatalf("message body is not a ChangeEvent: %v", err)
	}
	if got.EntityID != "plan-1" || got.Kind != types.ChangeUpdated {
		t.Errorf("unexpected event in body: %+v", got)
	}

	if v := *call.MessageAttributes["entity"].StringValue; v != "plan" {
		t.Errorf("entity attribute = %q, want %q", v, "plan")
	}
	if v := *call.MessageAttributes["kind"].StringValue; v != "updated" {
		t.Errorf("kind attribute = %q, want %q", v, "updated")
	}
}

func TestSQSPublisher_SendFailure(t *testing.T) {
	mock := &mockSQSSender{err: errors.New("AccessDenied")}
	pub := NewSQSPublisher(mock, testQueueURL, nil)

	err := pub.Publish(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected error when SQS send fails")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeUpstreamQueue {
		t.Errorf("code = %s, want %s", appErr.Code, types.ErrCodeUpstreamQueue)
	}
}

func TestLogPublisher_NeverFails(t *testing.T) {
	if err := NewLogPublisher(nil).Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("LogPublisher.Publish returned %v", err)
	}
}
