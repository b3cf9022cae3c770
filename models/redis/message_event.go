package redis

import "time"

// MessageEvent is the payload published on the chat bus once a message has
// been persisted. Carries the server-assigned id.
type MessageEvent struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}
