// Package session keeps per-visitor checkout state in Redis: the
// applied-coupon list, the queued shopper notices, and the boolean
// session flags.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prasetya/wholesale-coupon-guard/internal/domain"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func couponsKey(sessionID string) string {
	return "cart:" + sessionID + ":coupons"
}

func noticesKey(sessionID string) string {
	return "session:" + sessionID + ":notices"
}

func flagsKey(sessionID string) string {
	return "session:" + sessionID + ":flags"
}

// AppliedCoupons returns the session's coupon codes in cart order.
func (s *Store) AppliedCoupons(ctx context.Context, sessionID string) ([]string, error) {
	codes, err := s.rdb.LRange(ctx, couponsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read applied coupons: %w", err)
	}
	return codes, nil
}

// ApplyCoupon appends the code to the cart, deduplicating so a
// re-applied code keeps a single entry.
func (s *Store) ApplyCoupon(ctx context.Context, sessionID, code string) error {
	key := couponsKey(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.LRem(ctx, key, 0, code)
	pipe.RPush(ctx, key, code)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("apply coupon: %w", err)
	}
	return nil
}

// RemoveCoupon drops the code from the cart by value. Removing an
// absent code is a no-op.
func (s *Store) RemoveCoupon(ctx context.Context, sessionID, code string) error {
	if err := s.rdb.LRem(ctx, couponsKey(sessionID), 0, code).Err(); err != nil {
		return fmt.Errorf("remove coupon: %w", err)
	}
	return nil
}

func (s *Store) AddNotice(ctx context.Context, sessionID string, notice domain.Notice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	key := noticesKey(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue notice: %w", err)
	}
	return nil
}

func (s *Store) Notices(ctx context.Context, sessionID string) ([]domain.Notice, error) {
	entries, err := s.rdb.LRange(ctx, noticesKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read notices: %w", err)
	}
	notices := make([]domain.Notice, 0, len(entries))
	for _, entry := range entries {
		var notice domain.Notice
		if err := json.Unmarshal([]byte(entry), &notice); err != nil {
			return nil, fmt.Errorf("decode notice: %w", err)
		}
		notices = append(notices, notice)
	}
	return notices, nil
}

func (s *Store) SetFlag(ctx context.Context, sessionID, key string, value bool) error {
	hkey := flagsKey(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, hkey, key, strconv.FormatBool(value))
	pipe.Expire(ctx, hkey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set session flag %q: %w", key, err)
	}
	return nil
}

func (s *Store) Flag(ctx context.Context, sessionID, key string) (bool, error) {
	value, err := s.rdb.HGet(ctx, flagsKey(sessionID), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("read session flag %q: %w", key, err)
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse session flag %q: %w", key, err)
	}
	return parsed, nil
}
