package postgres

import (
	"time"
)

/*
 * 'User' is the authentication record of a registered account. The public
 * side of the account lives in Profile.
 */
type User struct {
	Email           string    `gorm:"primaryKey;size:100;not null"`
	ProfileUsername string    `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash    string    `gorm:"size:255;not null"`
	MemberSince     time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationship with the public profile
	Profile Profile `gorm:"foreignKey:ProfileUsername;constraint:OnDelete:CASCADE"`
}
