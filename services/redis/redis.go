package redis

import (
	"context"
	"encoding/json"
	"fmt"

	redis_models "Abuze/models/redis"
	"Abuze/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	// Set of usernames with at least one live socket connection.
	presenceKey = "online_users"
	// Pub/sub channel carrying persisted chat messages.
	messageChannel = "chat:messages"
)

// RedisClient handles presence tracking and the chat message bus.
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance. Addr may be a plain
// host:port or a full redis:// URL (managed instances hand out the latter).
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if Addr != "localhost:6379" {
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// SetOnline marks a username as connected.
func (rc *RedisClient) SetOnline(username string) error {
	return rc.client.SAdd(rc.ctx, presenceKey, username).Err()
}

// SetOffline removes a username from the presence set.
func (rc *RedisClient) SetOffline(username string) error {
	return rc.client.SRem(rc.ctx, presenceKey, username).Err()
}

// IsOnline reports whether a username currently has a connection.
func (rc *RedisClient) IsOnline(username string) (bool, error) {
	return rc.client.SIsMember(rc.ctx, presenceKey, username).Result()
}

// PublishMessage announces a persisted message on the bus.
func (rc *RedisClient) PublishMessage(ctx context.Context, event redis_models.MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling message event: %w", err)
	}
	return rc.client.Publish(ctx, messageChannel, data).Err()
}

// SubscribeMessages delivers every bus event to handler on a dedicated
// goroutine until the returned function is called. Each subscription holds
// its own pub/sub connection, matching its session's lifetime.
func (rc *RedisClient) SubscribeMessages(handler func(redis_models.MessageEvent)) (func(), error) {
	pubsub := rc.client.Subscribe(rc.ctx, messageChannel)

	// Wait for the subscription to be active before returning, so no
	// event published after this call is missed.
	if _, err := pubsub.Receive(rc.ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("error subscribing to message bus: %w", err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			var event redis_models.MessageEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("dropping malformed message event", "error", err)
				continue
			}
			handler(event)
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			logger.Warn("error closing message subscription", "error", err)
		}
	}, nil
}
