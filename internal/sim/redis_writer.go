package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/grid"
)

// latestTTL bounds how long a stale latest-reading key survives a stopped simulator.
const latestTTL = 10 * time.Minute

// redisClient is the subset of *redis.Client used by RedisPublisher.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisPublisher publishes readings and alerts to Redis pub/sub channels and
// keeps the latest reading per metric under a plain key.
type RedisPublisher struct {
	client  redisClient
	ctx     context.Context
	channel string
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, addr, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		MaxRetries: 3,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisPublisher{client: client, ctx: ctx, channel: channel}, nil
}

// AlertChannel returns the channel alert entries are published to.
func (p *RedisPublisher) AlertChannel() string { return p.channel + ":alerts" }

func latestKey(r grid.Reading) string {
	return fmt.Sprintf("gridwatch:latest:%s:%s", r.GridID, r.Metric)
}

// Write publishes a reading and stores it as the latest value of its metric.
func (p *RedisPublisher) Write(r grid.Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}
	if err := p.client.Publish(p.ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish reading: %w", err)
	}
	return p.client.Set(p.ctx, latestKey(r), data, latestTTL).Err()
}

// WriteBatch publishes multiple readings.
func (p *RedisPublisher) WriteBatch(rows []grid.Reading) error {
	for _, r := range rows {
		if err := p.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlert publishes an alert entry on the alert channel.
func (p *RedisPublisher) WriteAlert(e alert.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	return p.client.Publish(p.ctx, p.AlertChannel(), data).Err()
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
