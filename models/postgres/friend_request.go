package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// FriendRequest statuses. Declined requests are deleted, not retained.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
)

/*
 * 'FriendRequest' is a directed edge from Sender to Recipient. An accepted
 * row doubles as the friendship record; the friend list is derived from it.
 * The unique index enforces one row per ordered pair. The unordered-pair
 * invariant is checked by the service querying both directions before insert.
 */
type FriendRequest struct {
	ID        uint      `gorm:"primaryKey"`
	Sender    string    `gorm:"size:50;not null;uniqueIndex:idx_friend_request_pair"`
	Recipient string    `gorm:"size:50;not null;uniqueIndex:idx_friend_request_pair"`
	Status    string    `gorm:"size:20;default:'pending'"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	SenderProfile    Profile `gorm:"foreignKey:Sender;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	RecipientProfile Profile `gorm:"foreignKey:Recipient;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// GORM hook to reject self-referential requests at the lowest level too
func (fr *FriendRequest) BeforeSave(tx *gorm.DB) error {
	if fr.Sender == fr.Recipient {
		return errors.New("a friend request cannot reference its own sender")
	}
	return nil
}
