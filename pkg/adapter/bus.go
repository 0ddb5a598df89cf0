package adapter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/redis/go-redis/v9"
)

// BusEntry is one published event on the downstream bus. Detail carries the
// JSON-encoded medical event.
type BusEntry struct {
	ID         string
	Source     string
	DetailType string
	Detail     []byte
}

// BusHandler processes one consumed bus entry. Returning an error leaves
// the entry unacknowledged for redelivery.
type BusHandler func(ctx context.Context, entry *BusEntry) error

// Bus is the interface for the downstream medical event bus
type Bus interface {
	// Publish sends an entry to the bus and returns its assigned ID
	Publish(ctx context.Context, entry *BusEntry) (string, error)

	// Subscribe consumes entries and passes them to handler until ctx is
	// cancelled
	Subscribe(ctx context.Context, handler BusHandler) error

	// Close releases the underlying client
	Close() error
}

const (
	fieldSource     = "source"
	fieldDetailType = "detail_type"
	fieldDetail     = "detail"

	consumerGroup = "schedulers"
)

// redisBus implements Bus on a Redis stream
type redisBus struct {
	client   *redis.Client
	stream   string
	consumer string
	block    time.Duration
}

type BusOption func(*redisBus)

// WithBlockTimeout sets how long one consume poll blocks for new entries
func WithBlockTimeout(d time.Duration) BusOption {
	return func(b *redisBus) {
		b.block = d
	}
}

// NewBus creates a new Redis-backed event bus on the given stream
func NewBus(ctx context.Context, addr, stream string, opts ...BusOption) (Bus, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, goerr.Wrap(model.ErrUpstreamUnavailable, "failed to connect to redis",
			goerr.V("addr", addr), goerr.V("cause", err.Error()))
	}

	b := &redisBus{
		client:   client,
		stream:   stream,
		consumer: uuid.New().String(),
		block:    5 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

func (b *redisBus) Close() error {
	return b.client.Close()
}

func (b *redisBus) Publish(ctx context.Context, entry *BusEntry) (string, error) {
	id, err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{
			fieldSource:     entry.Source,
			fieldDetailType: entry.DetailType,
			fieldDetail:     string(entry.Detail),
		},
	}).Result()
	if err != nil {
		return "", goerr.Wrap(model.ErrUpstreamUnavailable, "failed to publish to bus",
			goerr.V("stream", b.stream), goerr.V("detail_type", entry.DetailType),
			goerr.V("cause", err.Error()))
	}

	return id, nil
}

func (b *redisBus) Subscribe(ctx context.Context, handler BusHandler) error {
	if err := b.ensureGroup(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: b.consumer,
			Streams:  []string{b.stream, ">"},
			Count:    16,
			Block:    b.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return goerr.Wrap(model.ErrUpstreamUnavailable, "failed to read from bus",
				goerr.V("stream", b.stream), goerr.V("cause", err.Error()))
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				entry := decodeEntry(msg)
				if err := handler(ctx, entry); err != nil {
					// Leave unacked so another consumer can retry
					continue
				}
				if err := b.client.XAck(ctx, b.stream, consumerGroup, msg.ID).Err(); err != nil {
					return goerr.Wrap(model.ErrUpstreamUnavailable, "failed to ack bus entry",
						goerr.V("id", msg.ID), goerr.V("cause", err.Error()))
				}
			}
		}
	}
}

func (b *redisBus) ensureGroup(ctx context.Context) error {
	err := b.client.XGroupCreateMkStream(ctx, b.stream, consumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return goerr.Wrap(model.ErrUpstreamUnavailable, "failed to create consumer group",
			goerr.V("stream", b.stream), goerr.V("cause", err.Error()))
	}
	return nil
}

func decodeEntry(msg redis.XMessage) *BusEntry {
	entry := &BusEntry{ID: msg.ID}
	if v, ok := msg.Values[fieldSource].(string); ok {
		entry.Source = v
	}
	if v, ok := msg.Values[fieldDetailType].(string); ok {
		entry.DetailType = v
	}
	if v, ok := msg.Values[fieldDetail].(string); ok {
		entry.Detail = []byte(v)
	}
	return entry
}
