package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

const (
	LifecycleEventChannel = "file:lifecycle"
)

// EventPublisher broadcasts annotation and thread lifecycle events over
// redis pub/sub so every connected view hears about deletions it did not
// initiate.
type EventPublisher struct {
	redisClient *redis.Client
}

func NewEventPublisher(redisClient *redis.Client) *EventPublisher {
	return &EventPublisher{redisClient: redisClient}
}

func (p *EventPublisher) PublishLifecycleEvent(event *models.LifecycleEvent) error {
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		logging.Logger.Error("fail PublishLifecycleEvent", "error", err)
		return err
	}
	ctx := context.Background()
	if err := p.redisClient.Publish(ctx, LifecycleEventChannel, string(data)).Err(); err != nil {
		logging.Logger.Error("fail PublishLifecycleEvent", "error", err)
		return err
	}
	logging.Logger.Info("PublishLifecycleEvent", "event", event)
	return nil
}

func (p *EventPublisher) SubscribeLifecycleEvents(ctx context.Context) (<-chan *models.LifecycleEvent, error) {
	pubsub := p.redisClient.Subscribe(ctx, LifecycleEventChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		logging.Logger.Error("fail SubscribeLifecycleEvents", "error", err)
		return nil, err
	}
	ch := make(chan *models.LifecycleEvent, 100)

	go func() {
		defer close(ch)
		defer func(pubsub *redis.PubSub) {
			err := pubsub.Close()
			if err != nil {
				logging.Logger.Error("fail SubscribeLifecycleEvents", "error", err)
			}
		}(pubsub)

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-pubsub.Channel():
				var event models.LifecycleEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logging.Logger.Error("Failed to unmarshal event", "error", err)
					continue
				}

				select {
				case ch <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
