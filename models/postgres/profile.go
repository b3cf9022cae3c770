package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// Profile roles. Only admins may change another profile's role.
const (
	RoleStandard = "standard"
	RoleBeta     = "beta-tester"
	RoleAdmin    = "admin"
)

/*
 * 'Profile' is a user's public card: avatar, accumulated XP, role and the
 * optional Steam linkage. Username is unique and looked up case-insensitively.
 * It is referenced by User, FriendRequest, Message, Post, PostLike and
 * PostComment.
 */
type Profile struct {
	Username        string         `gorm:"primaryKey;size:50;not null"`
	AvatarURL       string         `gorm:"size:255"`
	XP              int            `gorm:"default:0;check:xp >= 0"`
	Role            string         `gorm:"size:20;default:'standard'"`
	Verified        bool           `gorm:"default:false"`
	SteamID         string         `gorm:"size:20"`
	SteamHours      int            `gorm:"default:0"`
	FavoriteKillers datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP"`

	// NOTE: a Profile -> User back-reference would be circular, see User
	SentRequests     []FriendRequest `gorm:"foreignKey:Sender"`
	ReceivedRequests []FriendRequest `gorm:"foreignKey:Recipient"`
	Posts            []Post          `gorm:"foreignKey:Author"`
}
