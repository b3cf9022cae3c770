package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	apperr "Abuze/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps messages in memory and lets tests stall or fail the
// asynchronous paths.
type fakeStore struct {
	mu          sync.Mutex
	all         []Message
	nextID      int
	appendErr   error
	appended    chan Message
	historyHook func(self, peer string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, appended: make(chan Message, 16)}
}

func (s *fakeStore) seed(sender, recipient, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append(s.all, Message{
		ID:        fmt.Sprintf("srv-%d", s.nextID),
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
		SentAt:    time.Unix(int64(1700000000+s.nextID), 0),
	})
	s.nextID++
}

func (s *fakeStore) History(_ context.Context, self, peer string) ([]Message, error) {
	if s.historyHook != nil {
		s.historyHook(self, peer)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, m := range s.all {
		if (m.Sender == self && m.Recipient == peer) || (m.Sender == peer && m.Recipient == self) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) Append(_ context.Context, msg Message) (Message, error) {
	s.mu.Lock()
	if s.appendErr != nil {
		err := s.appendErr
		s.mu.Unlock()
		return Message{}, err
	}
	msg.ID = fmt.Sprintf("srv-%d", s.nextID)
	s.nextID++
	s.all = append(s.all, msg)
	s.mu.Unlock()

	s.appended <- msg
	return msg, nil
}

// fakeFeed delivers pushed messages to every live subscription.
type fakeFeed struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(Message)
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{handlers: map[int]func(Message){}}
}

func (f *fakeFeed) Subscribe(handler func(Message)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, id)
	}, nil
}

func (f *fakeFeed) push(msg Message) {
	f.mu.Lock()
	handlers := make([]func(Message), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()
	for _, h := range handlers {
		h(msg)
	}
}

func (f *fakeFeed) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

func bodies(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Body
	}
	return out
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("loads only the pair's history, both directions, in order", func(t *testing.T) {
		store := newFakeStore()
		store.seed("ada", "bob", "hi bob")
		store.seed("bob", "ada", "hi ada")
		store.seed("ada", "eve", "unrelated")

		engine := NewEngine(Config{Store: store, Feed: newFakeFeed()})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))

		assert.Equal(t, []string{"hi bob", "hi ada"}, bodies(engine.Messages()))
	})

	t.Run("switching replaces the list wholesale", func(t *testing.T) {
		store := newFakeStore()
		store.seed("ada", "bob", "for bob")
		store.seed("eve", "ada", "for ada")

		engine := NewEngine(Config{Store: store, Feed: newFakeFeed()})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))
		require.NoError(t, engine.Open(ctx, "ada", "eve"))

		assert.Equal(t, []string{"for ada"}, bodies(engine.Messages()))
	})

	t.Run("repeated switches never accumulate subscriptions", func(t *testing.T) {
		store := newFakeStore()
		feed := newFakeFeed()

		engine := NewEngine(Config{Store: store, Feed: feed})
		for i := 0; i < 5; i++ {
			peer := fmt.Sprintf("peer%d", i%2)
			require.NoError(t, engine.Open(ctx, "ada", peer))
		}
		assert.Equal(t, 1, feed.active())

		engine.Close()
		assert.Equal(t, 0, feed.active())
	})

	t.Run("a stale history fetch is discarded", func(t *testing.T) {
		store := newFakeStore()
		store.seed("ada", "bob", "for bob")
		store.seed("eve", "ada", "for ada")

		release := make(chan struct{})
		started := make(chan struct{})
		var once sync.Once
		store.historyHook = func(_, peer string) {
			if peer == "bob" {
				once.Do(func() { close(started) })
				<-release
			}
		}

		engine := NewEngine(Config{Store: store, Feed: newFakeFeed()})

		done := make(chan error, 1)
		go func() { done <- engine.Open(ctx, "ada", "bob") }()
		<-started

		// The view moves on while the first fetch is still in flight.
		require.NoError(t, engine.Open(ctx, "ada", "eve"))
		close(release)
		require.NoError(t, <-done)

		assert.Equal(t, []string{"for ada"}, bodies(engine.Messages()))
	})
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("appends exactly one optimistic entry and persists in background", func(t *testing.T) {
		store := newFakeStore()
		engine := NewEngine(Config{Store: store, Feed: newFakeFeed()})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))

		require.NoError(t, engine.Send(ctx, "hello"))

		msgs := engine.Messages()
		require.Len(t, msgs, 1)
		assert.True(t, msgs[0].Pending)
		assert.Contains(t, msgs[0].ID, "local-")

		persisted := <-store.appended
		assert.Equal(t, "hello", persisted.Body)
		assert.NotEqual(t, msgs[0].ID, persisted.ID)
	})

	t.Run("whitespace-only text is a silent no-op", func(t *testing.T) {
		store := newFakeStore()
		engine := NewEngine(Config{Store: store, Feed: newFakeFeed()})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))

		require.NoError(t, engine.Send(ctx, ""))
		require.NoError(t, engine.Send(ctx, "   \t\n"))

		assert.Empty(t, engine.Messages())
	})

	t.Run("send without an open conversation fails", func(t *testing.T) {
		engine := NewEngine(Config{Store: newFakeStore(), Feed: newFakeFeed()})
		assert.ErrorIs(t, engine.Send(ctx, "hello"), ErrNoConversation)
	})

	t.Run("persist failure is surfaced but the entry stays", func(t *testing.T) {
		store := newFakeStore()
		store.appendErr = apperr.New(apperr.ErrCodeInternalError, "boom")

		failed := make(chan error, 1)
		engine := NewEngine(Config{
			Store: store,
			Feed:  newFakeFeed(),
			OnSendError: func(_ Message, err error) {
				failed <- err
			},
		})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))
		require.NoError(t, engine.Send(ctx, "doomed"))

		select {
		case err := <-failed:
			assert.Error(t, err)
		case <-time.After(time.Second):
			t.Fatal("send failure was never surfaced")
		}

		// Known inconsistency: the optimistic entry is not rolled back.
		assert.Equal(t, []string{"doomed"}, bodies(engine.Messages()))
	})
}

func TestReceive(t *testing.T) {
	ctx := context.Background()

	t.Run("own echo from the feed is dropped", func(t *testing.T) {
		store := newFakeStore()
		feed := newFakeFeed()
		engine := NewEngine(Config{Store: store, Feed: feed})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))

		require.NoError(t, engine.Send(ctx, "hello"))
		persisted := <-store.appended

		// The server confirms the write under its own id.
		feed.push(persisted)

		msgs := engine.Messages()
		require.Len(t, msgs, 1)
		assert.True(t, msgs[0].Pending)
	})

	t.Run("a peer message is appended once, even if delivered twice", func(t *testing.T) {
		feed := newFakeFeed()
		engine := NewEngine(Config{Store: newFakeStore(), Feed: feed})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))

		incoming := Message{ID: "srv-9", Sender: "bob", Recipient: "ada", Body: "yo", SentAt: time.Now()}
		feed.push(incoming)
		feed.push(incoming)

		assert.Equal(t, []string{"yo"}, bodies(engine.Messages()))
	})

	t.Run("events for other pairs are ignored", func(t *testing.T) {
		feed := newFakeFeed()
		engine := NewEngine(Config{Store: newFakeStore(), Feed: feed})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))

		feed.push(Message{ID: "srv-1", Sender: "eve", Recipient: "ada", Body: "psst"})
		feed.push(Message{ID: "srv-2", Sender: "bob", Recipient: "eve", Body: "other"})

		assert.Empty(t, engine.Messages())
	})

	t.Run("change notifications carry the full snapshot", func(t *testing.T) {
		feed := newFakeFeed()

		var mu sync.Mutex
		var last []Message
		engine := NewEngine(Config{
			Store: newFakeStore(),
			Feed:  feed,
			OnChange: func(snapshot []Message) {
				mu.Lock()
				last = snapshot
				mu.Unlock()
			},
		})
		require.NoError(t, engine.Open(ctx, "ada", "bob"))

		feed.push(Message{ID: "srv-1", Sender: "bob", Recipient: "ada", Body: "one"})
		feed.push(Message{ID: "srv-2", Sender: "bob", Recipient: "ada", Body: "two"})

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"one", "two"}, bodies(last))
	})
}
