package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	apperr "Abuze/pkg/errors"

	"github.com/rs/xid"
)

// Message is the view-side shape of a chat message. Pending marks an
// optimistic entry whose persisted twin has not been confirmed; the two
// never share an id, so reconciliation keys on authorship instead.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
	Pending   bool      `json:"pending,omitempty"`
}

// Store is the persistence collaborator.
type Store interface {
	// History returns every message between the two users in either
	// direction, ascending by send time.
	History(ctx context.Context, self, peer string) ([]Message, error)
	// Append persists a message and returns it with its server-assigned id.
	Append(ctx context.Context, msg Message) (Message, error)
}

// Feed is the push collaborator: it delivers every newly persisted message
// to the handler until the returned unsubscribe func runs. Filtering down
// to the open conversation is the engine's job.
type Feed interface {
	Subscribe(handler func(Message)) (func(), error)
}

var ErrNoConversation = apperr.New(apperr.ErrCodeValidation, "no conversation is open")

// Config wires an Engine. OnChange (optional) receives a snapshot after
// every visible mutation; OnSendError (optional) receives the optimistic
// message and the failure when the background persist of a send fails.
type Config struct {
	Store       Store
	Feed        Feed
	OnChange    func([]Message)
	OnSendError func(Message, error)
}

// Engine keeps the message history of one open conversation consistent
// across the optimistic local write path and the asynchronous push path.
//
// One Engine belongs to one view session. Its methods and the feed handler
// interleave from different goroutines, so all state is mutex-guarded.
type Engine struct {
	cfg Config

	mu     sync.Mutex
	self   string
	peer   string
	open   bool
	gen    uint64
	msgs   []Message
	cancel func()
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Open switches the engine to the conversation between self and peer. It
// drops the previous subscription and message list wholesale, fetches the
// pair's history and resubscribes. Call once per conversation switch.
//
// A history fetch that resolves after another Open (or Close) has moved
// the engine on is discarded, not applied.
func (e *Engine) Open(ctx context.Context, self, peer string) error {
	e.mu.Lock()
	e.dropSubscription()
	e.gen++
	gen := e.gen
	e.self, e.peer = self, peer
	e.open = true
	e.msgs = nil
	e.mu.Unlock()

	history, err := e.cfg.Store.History(ctx, self, peer)
	if err != nil {
		e.mu.Lock()
		if e.gen == gen {
			e.open = false
		}
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	if e.gen != gen || !e.open {
		// The view moved on while the fetch was in flight.
		e.mu.Unlock()
		return nil
	}
	e.msgs = history

	unsub, err := e.cfg.Feed.Subscribe(func(msg Message) {
		e.receive(gen, msg)
	})
	if err != nil {
		e.open = false
		e.mu.Unlock()
		return err
	}
	e.cancel = unsub
	e.mu.Unlock()

	e.notify()
	return nil
}

// Send appends an optimistic entry under a temporary local id and persists
// the message in the background. Empty or whitespace-only text is a no-op,
// not an error.
//
// If the persist fails the optimistic entry stays in place and the failure
// goes to OnSendError; the view disagrees with the server until the next
// full history load. That mismatch is accepted, not rolled back.
func (e *Engine) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return ErrNoConversation
	}
	local := Message{
		ID:        "local-" + xid.New().String(),
		Sender:    e.self,
		Recipient: e.peer,
		Body:      text,
		SentAt:    time.Now().UTC(),
		Pending:   true,
	}
	e.msgs = append(e.msgs, local)
	e.mu.Unlock()

	e.notify()

	go func() {
		persist := local
		persist.ID = ""
		persist.Pending = false
		if _, err := e.cfg.Store.Append(ctx, persist); err != nil && e.cfg.OnSendError != nil {
			e.cfg.OnSendError(local, err)
		}
	}()
	return nil
}

// receive reconciles one pushed message into the open view.
//
// The rule is asymmetric on purpose: a message authored by self is already
// on screen as an optimistic entry, and since the temporary and server ids
// differ, id-based dedup cannot catch the echo. So own-author events are
// dropped, open-peer events are appended (idempotently, by server id), and
// events for any other pair are ignored.
func (e *Engine) receive(gen uint64, msg Message) {
	e.mu.Lock()
	if !e.open || e.gen != gen {
		e.mu.Unlock()
		return
	}
	if msg.Sender == e.self {
		e.mu.Unlock()
		return
	}
	if msg.Sender != e.peer || msg.Recipient != e.self {
		e.mu.Unlock()
		return
	}
	for _, existing := range e.msgs {
		if existing.ID == msg.ID {
			e.mu.Unlock()
			return
		}
	}
	e.msgs = append(e.msgs, msg)
	e.mu.Unlock()

	e.notify()
}

// Close tears the conversation down and stops push delivery.
func (e *Engine) Close() {
	e.mu.Lock()
	e.dropSubscription()
	e.gen++
	e.open = false
	e.msgs = nil
	e.mu.Unlock()
}

// Messages returns a copy of the current view state in display order.
func (e *Engine) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.msgs))
	copy(out, e.msgs)
	return out
}

// Peer returns the username on the other side of the open conversation.
func (e *Engine) Peer() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.peer, e.open
}

// caller must hold e.mu
func (e *Engine) dropSubscription() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) notify() {
	if e.cfg.OnChange == nil {
		return
	}
	e.cfg.OnChange(e.Messages())
}
