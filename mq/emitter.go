package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	MethodCreate  = "create"
	MethodUpdate  = "update"
	MethodDelete  = "delete"
	MethodToggle  = "toggle"
	MethodReorder = "reorder"
)

// Change announces a successful write to a content collection.
type Change struct {
	Entity string    `json:"entity"`
	Method string    `json:"method"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher delivers change notifications. Failures never undo the write.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// RedisPublisher publishes changes as JSON on a pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, c Change) error {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Nop drops every change. Used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Change) error { return nil }
