package chat

import (
	"context"

	redis_models "Abuze/models/redis"
	apperr "Abuze/pkg/errors"

	"Abuze/models/postgres"

	"gorm.io/gorm"
)

// Publisher pushes a persisted message onto the realtime bus. Satisfied by
// services/redis.RedisClient.
type Publisher interface {
	PublishMessage(ctx context.Context, event redis_models.MessageEvent) error
}

// PostgresStore persists messages and, once a row is safely inserted,
// announces it on the bus so every subscribed engine can reconcile it.
type PostgresStore struct {
	db  *gorm.DB
	pub Publisher
}

// NewPostgresStore builds the store. pub may be nil in tests or one-box
// setups without a bus.
func NewPostgresStore(db *gorm.DB, pub Publisher) *PostgresStore {
	return &PostgresStore{db: db, pub: pub}
}

func (s *PostgresStore) History(ctx context.Context, self, peer string) ([]Message, error) {
	var rows []postgres.Message
	err := s.db.WithContext(ctx).
		Where("(sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?)",
			self, peer, peer, self).
		Order("sent_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrCodeInternalError, "error fetching message history")
	}

	history := make([]Message, len(rows))
	for i, row := range rows {
		history[i] = fromRow(row)
	}
	return history, nil
}

func (s *PostgresStore) Append(ctx context.Context, msg Message) (Message, error) {
	row := postgres.Message{
		Sender:    msg.Sender,
		Recipient: msg.Recipient,
		Body:      msg.Body,
		SentAt:    msg.SentAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Message{}, apperr.Wrap(err, apperr.ErrCodeInternalError, "error persisting message")
	}

	persisted := fromRow(row)
	if s.pub != nil {
		if err := s.pub.PublishMessage(ctx, redis_models.MessageEvent{
			ID:        persisted.ID,
			Sender:    persisted.Sender,
			Recipient: persisted.Recipient,
			Body:      persisted.Body,
			SentAt:    persisted.SentAt,
		}); err != nil {
			// The row is durable; a lost event only delays the peer until
			// their next history load.
			return persisted, apperr.Wrap(err, apperr.ErrCodeInternalError, "error publishing message event")
		}
	}
	return persisted, nil
}

func fromRow(row postgres.Message) Message {
	return Message{
		ID:        row.ID,
		Sender:    row.Sender,
		Recipient: row.Recipient,
		Body:      row.Body,
		SentAt:    row.SentAt,
	}
}
