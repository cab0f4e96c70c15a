package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prasetya/wholesale-coupon-guard/internal/usecase"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher produces coupon-removal events. Records are keyed by
// session id so removals from one checkout stay ordered.
type Publisher struct {
	client *kgo.Client
}

func NewPublisher(client *kgo.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) CouponRemoved(ctx context.Context, sessionID, code, email string) error {
	ev := RemovalEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		SessionID:     sessionID,
		CouponCode:    code,
		BillingEmail:  email,
		Reason:        ReasonWholesaleRestricted,
		RemovedAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode removal event: %w", err)
	}

	record := &kgo.Record{
		Topic: TopicCouponRemoved,
		Key:   []byte(sessionID),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce removal event: %w", err)
	}
	return nil
}

// NoopPublisher is used when the event feed is disabled by
// configuration.
type NoopPublisher struct{}

func NewNoopPublisher() usecase.RemovalPublisher {
	return NoopPublisher{}
}

func (NoopPublisher) CouponRemoved(ctx context.Context, sessionID, code, email string) error {
	return nil
}
