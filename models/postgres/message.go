package postgres

import (
	"time"

	"github.com/rs/xid"
	"gorm.io/gorm"
)

/*
 * 'Message' is one chat message between two profiles. The ID is assigned
 * server-side on insert; clients display optimistic entries under their own
 * temporary ids until the persisted row comes back over the push feed.
 * Messages are never edited.
 */
type Message struct {
	ID        string    `gorm:"primaryKey;size:20"`
	Sender    string    `gorm:"size:50;not null;index:idx_messages_sender"`
	Recipient string    `gorm:"size:50;not null;index:idx_messages_recipient"`
	Body      string    `gorm:"type:text;not null"`
	SentAt    time.Time `gorm:"not null;index:idx_messages_sent_at"`

	SenderProfile    Profile `gorm:"foreignKey:Sender;constraint:OnDelete:CASCADE"`
	RecipientProfile Profile `gorm:"foreignKey:Recipient;constraint:OnDelete:CASCADE"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = xid.New().String()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	return nil
}
