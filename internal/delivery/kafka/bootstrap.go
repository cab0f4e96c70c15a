package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/prasetya/wholesale-coupon-guard/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

func EnsureTopics(ctx context.Context, client *kgo.Client, cfg *config.Config) error {
	adm := kadm.NewClient(client)

	partitions := cfg.TopicPartitions()
	replicationFactor := cfg.ReplicationFactor()

	resp, err := adm.CreateTopics(ctx, int32(partitions), replicationFactor, nil, TopicCouponRemoved)
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", TopicCouponRemoved, err)
	}
	for _, detail := range resp {
		if detail.Err != nil && !strings.Contains(detail.Err.Error(), "already exists") {
			return fmt.Errorf("failed to create topic %s: %w", detail.Topic, detail.Err)
		}
	}

	log.Info().Str("topic", TopicCouponRemoved).Msg("kafka topics ensured")
	return nil
}
