package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher mirrors bus events onto a Redis channel so notification
// consumers behind other instances still see them. Publish stays
// fire-and-forget: a failed publish is logged and dropped.
type RedisPublisher struct {
	Client  *redis.Client
	Channel string
}

func (p *RedisPublisher) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("redis notify marshal error: %v", err)
		return
	}
	if err := p.Client.Publish(context.Background(), p.Channel, payload).Err(); err != nil {
		log.Printf("redis notify publish error: %v", err)
	}
}

// Fanout publishes each event to every configured publisher.
type Fanout []Publisher

func (f Fanout) Publish(event Event) {
	for _, p := range f {
		p.Publish(event)
	}
}

// RelayFromRedis pumps events published by other instances into the
// local bus until the context is cancelled.
func RelayFromRedis(ctx context.Context, client *redis.Client, channel string, bus *Bus) {
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("redis notify decode error: %v", err)
				continue
			}
			bus.Publish(event)
		}
	}
}

var _ Publisher = (*RedisPublisher)(nil)
