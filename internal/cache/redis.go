package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/havenspace/backend/internal/models"
)

const (
	classifyChannel = "moderation.classify"
	modFeedChannel  = "moderation.feed"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Classification queue

// Enqueue publishes a classification job. The submit path treats this
// as fire-and-forget; subscribers pick the job up out-of-band.
func (r *RedisClient) Enqueue(contentID uuid.UUID, contentType string) error {
	job := models.ClassifyJob{
		ContentID:   contentID.String(),
		ContentType: contentType,
	}

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, classifyChannel, data).Err()
}

// ClassifyJobs subscribes to the classification channel and delivers
// decoded jobs. Malformed payloads are dropped.
func (r *RedisClient) ClassifyJobs() <-chan models.ClassifyJob {
	ps := r.client.Subscribe(r.ctx, classifyChannel)
	out := make(chan models.ClassifyJob, 64)

	go func() {
		defer ps.Close()
		defer close(out)
		for msg := range ps.Channel() {
			var job models.ClassifyJob
			if err := json.Unmarshal([]byte(msg.Payload), &job); err != nil {
				continue
			}
			out <- job
		}
	}()

	return out
}

// Moderator feed

// PublishFeedEvent pushes an event onto the moderator live feed
func (r *RedisClient) PublishFeedEvent(event models.FeedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, modFeedChannel, data).Err()
}

// SubscribeToFeed subscribes to the moderator feed channel
func (r *RedisClient) SubscribeToFeed() *redis.PubSub {
	return r.client.Subscribe(r.ctx, modFeedChannel)
}

// AllowAction implements a Redis-backed token-bucket limiter per key (user+action).
// Returns true if the action is allowed, false if rate-limited.
func (r *RedisClient) AllowAction(userID uuid.UUID, action string, rate int, burst int) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", action, userID.String())
	// Lua script: manage tokens and last timestamp
	script := `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local vals = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(vals[1])
local last = tonumber(vals[2])
if tokens == nil then tokens = burst end
if last == nil then last = now end
local delta = math.max(0, now - last)
local new_tokens = math.min(burst, tokens + (delta * rate / 1000))
if new_tokens >= 1 then
	new_tokens = new_tokens - 1
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 1
else
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 0
end
`

	now := time.Now().UnixNano() / int64(time.Millisecond)
	res, err := r.client.Eval(r.ctx, script, []string{key}, rate, burst, now).Result()
	if err != nil {
		return false, err
	}
	// Eval returns int64 (1 or 0)
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case int:
		return v == 1, nil
	default:
		return false, fmt.Errorf("unexpected result from rate limiter: %T %v", res, res)
	}
}
