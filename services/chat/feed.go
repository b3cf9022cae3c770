package chat

import (
	redis_models "Abuze/models/redis"
)

// BusSubscriber is the slice of the realtime bus the feed needs. Satisfied
// by services/redis.RedisClient.
type BusSubscriber interface {
	SubscribeMessages(handler func(redis_models.MessageEvent)) (func(), error)
}

// BusFeed adapts the message bus to the engine's Feed.
type BusFeed struct {
	bus BusSubscriber
}

func NewBusFeed(bus BusSubscriber) *BusFeed {
	return &BusFeed{bus: bus}
}

func (f *BusFeed) Subscribe(handler func(Message)) (func(), error) {
	return f.bus.SubscribeMessages(func(ev redis_models.MessageEvent) {
		handler(Message{
			ID:        ev.ID,
			Sender:    ev.Sender,
			Recipient: ev.Recipient,
			Body:      ev.Body,
			SentAt:    ev.SentAt,
		})
	})
}
