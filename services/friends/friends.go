package friends

import (
	"context"

	apperr "Abuze/pkg/errors"

	"Abuze/models/postgres"
)

// Failure modes surfaced to controllers. Everything else is wrapped as an
// internal error by the store.
var (
	ErrSelfRequest      = apperr.New(apperr.ErrCodeValidation, "you cannot send a friend request to yourself")
	ErrDuplicateRequest = apperr.New(apperr.ErrCodeAlreadyExists, "a request between these users already exists")
	ErrRequestNotFound  = apperr.New(apperr.ErrCodeNotFound, "friend request not found")
)

// Store is the persistence collaborator for friend requests. The postgres
// implementation lives in this package; tests substitute an in-memory one.
type Store interface {
	// FindBetween returns the live request between the unordered pair, in
	// either direction and any status, or nil when there is none.
	FindBetween(ctx context.Context, a, b string) (*postgres.FriendRequest, error)
	Create(ctx context.Context, req *postgres.FriendRequest) error
	// IncomingPending returns pending requests addressed to user, with the
	// sender profile populated for display.
	IncomingPending(ctx context.Context, user string) ([]postgres.FriendRequest, error)
	// Accept flips a pending request to accepted. ErrRequestNotFound when
	// there is no pending row with that id.
	Accept(ctx context.Context, id uint) error
	// Delete removes a request row. ErrRequestNotFound when already gone.
	Delete(ctx context.Context, id uint) error
	// AcceptedTouching returns accepted requests where user is sender or
	// recipient, with both profiles populated.
	AcceptedTouching(ctx context.Context, user string) ([]postgres.FriendRequest, error)
}

// Service mediates the request/accept/decline/list lifecycle and derives
// the symmetric friend list from directed request rows.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// SendRequest creates a pending request from sender to recipient.
//
// The duplicate pre-check queries both directions but is advisory only:
// check and insert are two round trips, so two clients racing can still
// both pass it. The composite unique index on (sender, recipient) is the
// hard stop for the same direction; the cross-direction race is accepted
// as last-write-wins.
func (s *Service) SendRequest(ctx context.Context, sender, recipient string) (*postgres.FriendRequest, error) {
	if sender == recipient {
		return nil, ErrSelfRequest
	}

	existing, err := s.store.FindBetween(ctx, sender, recipient)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRequest
	}

	req := &postgres.FriendRequest{
		Sender:    sender,
		Recipient: recipient,
		Status:    postgres.FriendRequestPending,
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Incoming lists pending requests addressed to user, each carrying the
// sender's profile.
func (s *Service) Incoming(ctx context.Context, user string) ([]postgres.FriendRequest, error) {
	return s.store.IncomingPending(ctx, user)
}

// Accept transitions a pending request to accepted. The accepting view
// already holds the sender profile from Incoming, so no re-fetch happens
// here; the caller appends it to its local friend list.
func (s *Service) Accept(ctx context.Context, id uint) error {
	return s.store.Accept(ctx, id)
}

// Decline deletes the request row outright; declined requests are not
// retained.
func (s *Service) Decline(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}

// Friends derives the friend list: every accepted request touching user
// contributes its counterpart profile. A counterpart whose profile is
// missing (deleted account) is skipped rather than crashing the list.
func (s *Service) Friends(ctx context.Context, user string) ([]postgres.Profile, error) {
	accepted, err := s.store.AcceptedTouching(ctx, user)
	if err != nil {
		return nil, err
	}

	friends := []postgres.Profile{}
	for _, req := range accepted {
		var counterpart postgres.Profile
		if req.Sender == user {
			counterpart = req.RecipientProfile
		} else {
			counterpart = req.SenderProfile
		}
		if counterpart.Username == "" {
			continue
		}
		friends = append(friends, counterpart)
	}
	return friends, nil
}
