// Package realtime manages the client's live feeds: global notifications,
// the personal message queue, and group chat rooms. Each logical channel
// kind holds at most one connection; connecting an already-open kind tears
// the old connection down first. Delivery is best effort: transport drops
// are retried with a fixed delay and are never surfaced to callers.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("realtime")

// ChannelKind identifies a logical real-time feed.
type ChannelKind string

const (
	KindNotifications ChannelKind = "notifications"
	KindUserQueue     ChannelKind = "queue"
	KindGroup         ChannelKind = "group"
)

// Channel states.
const (
	StateDisconnected int32 = iota
	StateConnecting
	StateConnected
)

// Handler receives the raw JSON body of an inbound event. Malformed
// payloads are dropped before the handler is invoked.
type Handler func(body []byte)

// RetryPolicy decides how long to wait before a reconnect attempt.
type RetryPolicy interface {
	NextDelay(attempt int) time.Duration
}

// FixedDelay retries forever with a constant delay.
type FixedDelay time.Duration

// NextDelay implements RetryPolicy.
func (d FixedDelay) NextDelay(int) time.Duration { return time.Duration(d) }

// Subscription is an active topic subscription.
type Subscription interface {
	Unsubscribe() error
}

// Session is one live transport connection.
type Session interface {
	Subscribe(destination string, fn func(body []byte)) (Subscription, error)
	Send(destination, contentType string, body []byte) error
	Disconnect() error
	// Done is closed when the session is no longer usable.
	Done() <-chan struct{}
}

// Transport dials new sessions. The default is STOMP over websocket; tests
// inject fakes.
type Transport interface {
	Dial(ctx context.Context, token string) (Session, error)
}

// ChannelParams scope a channel to a user or group.
type ChannelParams struct {
	UserID  string
	GroupID string
	Token   string
}

type topicBinding struct {
	destination string
	handler     Handler
}

type channel struct {
	kind   ChannelKind
	topics []topicBinding
	state  atomic.Int32

	mu      sync.Mutex
	session Session
	subs    []Subscription

	cancel context.CancelFunc
	done   chan struct{}
}

// Manager owns all live channels.
type Manager struct {
	transport Transport
	retry     RetryPolicy

	mu       sync.Mutex
	channels map[ChannelKind]*channel
}

// NewManager creates a channel manager over the given transport.
func NewManager(transport Transport, retry RetryPolicy) *Manager {
	if retry == nil {
		retry = FixedDelay(5 * time.Second)
	}
	return &Manager{
		transport: transport,
		retry:     retry,
		channels:  make(map[ChannelKind]*channel),
	}
}

// Connect opens a channel of the given kind. An already-open channel of
// the same kind is closed first; there are never two live connections per
// kind. onAux handles the kind's secondary topic (group typing) and may be
// nil.
func (m *Manager) Connect(kind ChannelKind, params ChannelParams, onEvent Handler, onAux Handler) error {
	topics, err := topicsFor(kind, params, onEvent, onAux)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := &channel{
		kind:   kind,
		topics: topics,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	// Swap under one critical section so concurrent connects of the same
	// kind each tear down exactly the channel they displaced.
	m.mu.Lock()
	old := m.channels[kind]
	m.channels[kind] = ch
	m.mu.Unlock()

	if old != nil {
		old.cancel()
		<-old.done
	}

	go m.run(ctx, ch, params.Token)
	return nil
}

// Disconnect closes the channel of the given kind. Safe to call when
// nothing is connected.
func (m *Manager) Disconnect(kind ChannelKind) {
	m.mu.Lock()
	ch, ok := m.channels[kind]
	if ok {
		delete(m.channels, kind)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	ch.cancel()
	<-ch.done
}

// Publish sends a payload to a destination on an open channel. A silent
// no-op when the channel is absent or not currently connected: no queuing,
// no retry.
func (m *Manager) Publish(kind ChannelKind, destination string, payload interface{}) {
	m.mu.Lock()
	ch := m.channels[kind]
	m.mu.Unlock()

	if ch == nil || ch.state.Load() != StateConnected {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Debugf("Dropping unencodable publish to %s: %v", destination, err)
		return
	}

	ch.mu.Lock()
	sess := ch.session
	ch.mu.Unlock()
	if sess == nil {
		return
	}
	if err := sess.Send(destination, "application/json", body); err != nil {
		log.Debugf("Publish to %s failed: %v", destination, err)
	}
}

// State reports the current state of a channel kind.
func (m *Manager) State(kind ChannelKind) int32 {
	m.mu.Lock()
	ch := m.channels[kind]
	m.mu.Unlock()
	if ch == nil {
		return StateDisconnected
	}
	return ch.state.Load()
}

// Close tears down every open channel.
func (m *Manager) Close() {
	m.mu.Lock()
	kinds := make([]ChannelKind, 0, len(m.channels))
	for kind := range m.channels {
		kinds = append(kinds, kind)
	}
	m.mu.Unlock()
	for _, kind := range kinds {
		m.Disconnect(kind)
	}
}

// run is the per-channel connection loop: Disconnected -> Connecting ->
// Connected, back to Disconnected on failure, forever until canceled.
func (m *Manager) run(ctx context.Context, ch *channel, token string) {
	defer close(ch.done)
	attempt := 0
	for {
		ch.state.Store(StateConnecting)
		sess, err := m.transport.Dial(ctx, token)
		if err != nil {
			ch.state.Store(StateDisconnected)
			log.Debugf("Channel %s dial failed: %v", ch.kind, err)
			if !sleepCtx(ctx, m.retry.NextDelay(attempt)) {
				return
			}
			attempt++
			continue
		}

		var subs []Subscription
		for _, t := range ch.topics {
			t := t
			sub, err := sess.Subscribe(t.destination, func(body []byte) {
				if !json.Valid(body) {
					log.Debugf("Dropping malformed payload on %s", t.destination)
					return
				}
				t.handler(body)
			})
			if err != nil {
				log.Debugf("Subscribe %s failed: %v", t.destination, err)
				continue
			}
			subs = append(subs, sub)
		}

		ch.mu.Lock()
		ch.session = sess
		ch.subs = subs
		ch.mu.Unlock()
		ch.state.Store(StateConnected)
		attempt = 0
		log.Infof("Channel %s connected", ch.kind)

		select {
		case <-ctx.Done():
			ch.teardown()
			return
		case <-sess.Done():
		}

		ch.state.Store(StateDisconnected)
		ch.teardown()
		log.Infof("Channel %s lost, reconnecting", ch.kind)

		if !sleepCtx(ctx, m.retry.NextDelay(attempt)) {
			return
		}
		attempt++
	}
}

// teardown unsubscribes and disconnects the current session, ignoring
// errors from already-dead handles.
func (ch *channel) teardown() {
	ch.mu.Lock()
	subs := ch.subs
	sess := ch.session
	ch.subs = nil
	ch.session = nil
	ch.mu.Unlock()

	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Debugf("Unsubscribe on %s: %v", ch.kind, err)
		}
	}
	if sess != nil {
		if err := sess.Disconnect(); err != nil {
			log.Debugf("Disconnect on %s: %v", ch.kind, err)
		}
	}
}

func topicsFor(kind ChannelKind, params ChannelParams, onEvent, onAux Handler) ([]topicBinding, error) {
	switch kind {
	case KindNotifications:
		if params.UserID == "" {
			return nil, fmt.Errorf("notifications channel requires a user id")
		}
		return []topicBinding{{NotificationsTopic(params.UserID), onEvent}}, nil
	case KindUserQueue:
		if params.UserID == "" {
			return nil, fmt.Errorf("user queue channel requires a user id")
		}
		return []topicBinding{{UserQueueTopic(params.UserID), onEvent}}, nil
	case KindGroup:
		if params.GroupID == "" {
			return nil, fmt.Errorf("group channel requires a group id")
		}
		topics := []topicBinding{{GroupTopic(params.GroupID), onEvent}}
		if onAux != nil {
			topics = append(topics, topicBinding{GroupTypingTopic(params.GroupID), onAux})
		}
		return topics, nil
	default:
		return nil, fmt.Errorf("unknown channel kind %q", kind)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
