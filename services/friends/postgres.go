package friends

import (
	"context"
	"errors"

	apperr "Abuze/pkg/errors"

	"Abuze/models/postgres"

	"gorm.io/gorm"
)

// PostgresStore backs the friend graph with the friend_requests table.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindBetween(ctx context.Context, a, b string) (*postgres.FriendRequest, error) {
	var req postgres.FriendRequest
	err := s.db.WithContext(ctx).Where(
		"(sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?)",
		a, b, b, a,
	).First(&req).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrCodeInternalError, "error checking existing friend request")
	}
	return &req, nil
}

func (s *PostgresStore) Create(ctx context.Context, req *postgres.FriendRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return apperr.Wrap(err, apperr.ErrCodeInternalError, "error creating friend request")
	}
	return nil
}

func (s *PostgresStore) IncomingPending(ctx context.Context, user string) ([]postgres.FriendRequest, error) {
	var requests []postgres.FriendRequest
	err := s.db.WithContext(ctx).
		Where("recipient = ? AND status = ?", user, postgres.FriendRequestPending).
		Preload("SenderProfile").
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrCodeInternalError, "error fetching incoming friend requests")
	}
	return requests, nil
}

func (s *PostgresStore) Accept(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&postgres.FriendRequest{}).
		Where("id = ? AND status = ?", id, postgres.FriendRequestPending).
		Update("status", postgres.FriendRequestAccepted)

	if result.Error != nil {
		return apperr.Wrap(result.Error, apperr.ErrCodeInternalError, "error accepting friend request")
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&postgres.FriendRequest{}, id)
	if result.Error != nil {
		return apperr.Wrap(result.Error, apperr.ErrCodeInternalError, "error deleting friend request")
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (s *PostgresStore) AcceptedTouching(ctx context.Context, user string) ([]postgres.FriendRequest, error) {
	var requests []postgres.FriendRequest
	err := s.db.WithContext(ctx).
		Where("(sender = ? OR recipient = ?) AND status = ?", user, user, postgres.FriendRequestAccepted).
		Preload("SenderProfile").
		Preload("RecipientProfile").
		Find(&requests).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrCodeInternalError, "error fetching friendships")
	}
	return requests, nil
}
