package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestRejectsSelf(t *testing.T) {
	fr := FriendRequest{Sender: "alice", Recipient: "alice"}
	assert.Error(t, fr.BeforeSave(nil))

	fr.Recipient = "bob"
	assert.NoError(t, fr.BeforeSave(nil))
}

func TestMessageAssignsIDAndTimestamp(t *testing.T) {
	msg := Message{Sender: "alice", Recipient: "bob", Body: "hi"}
	require.NoError(t, msg.BeforeCreate(nil))

	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.SentAt.IsZero())
	assert.Equal(t, time.UTC, msg.SentAt.Location())
}

func TestMessageKeepsExplicitFields(t *testing.T) {
	sentAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := Message{ID: "fixed-id", Sender: "alice", Recipient: "bob", Body: "hi", SentAt: sentAt}
	require.NoError(t, msg.BeforeCreate(nil))

	assert.Equal(t, "fixed-id", msg.ID)
	assert.Equal(t, sentAt, msg.SentAt)
}

func TestMessageIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		msg := Message{Sender: "alice", Recipient: "bob", Body: "hi"}
		require.NoError(t, msg.BeforeCreate(nil))
		assert.False(t, seen[msg.ID])
		seen[msg.ID] = true
	}
}
