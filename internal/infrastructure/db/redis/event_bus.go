package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

const authEventsChannel = "auth:events"

// AuthEventBus broadcasts auth state changes over Redis pub/sub so every
// instance sees sign-ins, sign-outs, and profile updates as they happen.
type AuthEventBus struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewAuthEventBus(client *redis.Client, log zerolog.Logger) *AuthEventBus {
	return &AuthEventBus{client: client, log: log}
}

func (b *AuthEventBus) Publish(ctx context.Context, ev domain.AuthEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("auth event marshal: %w", err)
	}
	if err := b.client.Publish(ctx, authEventsChannel, data).Err(); err != nil {
		return fmt.Errorf("auth event publish: %w", err)
	}
	return nil
}

// Subscribe returns a channel of auth events. The channel closes when ctx is
// cancelled; undecodable payloads are logged and skipped.
func (b *AuthEventBus) Subscribe(ctx context.Context) (<-chan domain.AuthEvent, error) {
	sub := b.client.Subscribe(ctx, authEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("auth event subscribe: %w", err)
	}

	out := make(chan domain.AuthEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev domain.AuthEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn().Err(err).Msg("dropping malformed auth event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
