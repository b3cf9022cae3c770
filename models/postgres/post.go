package postgres

import (
	"time"
)

/*
 * Feed entities. A Post may carry one image from the post-images bucket.
 * Likes are unique per (post, profile) pair, enforced by the composite
 * primary key.
 */
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Author    string    `gorm:"size:50;not null;index"`
	Content   string    `gorm:"type:text;not null"`
	ImageURL  string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	AuthorProfile Profile       `gorm:"foreignKey:Author;constraint:OnDelete:CASCADE"`
	Likes         []PostLike    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments      []PostComment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

type PostLike struct {
	PostID   uint   `gorm:"primaryKey"`
	Username string `gorm:"primaryKey;size:50"`

	Profile Profile `gorm:"foreignKey:Username;constraint:OnDelete:CASCADE"`
}

type PostComment struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    uint      `gorm:"not null;index"`
	Author    string    `gorm:"size:50;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	AuthorProfile Profile `gorm:"foreignKey:Author;constraint:OnDelete:CASCADE"`
}
