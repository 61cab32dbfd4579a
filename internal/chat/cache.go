// Package chat maintains the in-memory message caches for 1:1
// conversations and group rooms, merging paged REST history with live
// events pushed over the realtime channels. Messages are ordered
// oldest-first and deduplicated by id at the cache boundary, so the same
// message arriving through both the send acknowledgment and the live
// channel renders exactly once.
package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("chat")

// Defaults for page size and the dedup window.
const (
	DefaultPageSize = 20
	seenCapacity    = 512
)

// HistoryAPI is the REST surface the cache loads from, satisfied by
// api.Client.
type HistoryAPI interface {
	Conversations(ctx context.Context) ([]models.Conversation, error)
	Messages(ctx context.Context, conversationID string, page, size int) (*models.Page[models.Message], error)
	SendMessage(ctx context.Context, conversationID, text string) (*models.Message, error)
	MarkRead(ctx context.Context, conversationID string) error
}

// MessageStore is the optional local store, satisfied by db.ClientDB.
// Live and sent messages are written through to it, and opening a
// conversation reads it back so a restarted client shows recent history
// before the first network round-trip. May be nil.
type MessageStore interface {
	CacheMessage(msg *models.CachedMessage) error
	UpsertConversation(conv *models.Conversation) error
	GetCachedMessages(conversationID string, limit int) ([]models.CachedMessage, error)
}

// Cache holds the conversation directory and the message list of the one
// active conversation.
type Cache struct {
	api      HistoryAPI
	store    MessageStore
	pageSize int
	onChange func()

	mu            sync.Mutex
	conversations []models.Conversation
	activeID      string
	messages      []models.Message
	page          int
	hasMore       bool
	loading       bool
	seen          *seenRing
	epoch         uint64
}

// NewCache creates a conversation cache. store and onChange may be nil.
func NewCache(api HistoryAPI, store MessageStore, onChange func()) *Cache {
	return &Cache{
		api:      api,
		store:    store,
		pageSize: DefaultPageSize,
		onChange: onChange,
		hasMore:  true,
		seen:     newSeenRing(seenCapacity),
	}
}

// RefreshConversations reloads the conversation directory from the server.
func (c *Cache) RefreshConversations(ctx context.Context) error {
	convs, err := c.api.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("load conversations: %w", err)
	}
	c.mu.Lock()
	c.conversations = convs
	c.mu.Unlock()

	if c.store != nil {
		for i := range convs {
			if err := c.store.UpsertConversation(&convs[i]); err != nil {
				log.Warningf("Failed to cache conversation %s: %v", convs[i].ID, err)
			}
		}
	}
	c.notify()
	return nil
}

// OpenConversation makes a conversation the active one: the message list
// is reset to whatever the local store holds, pagination resets to page 0,
// the conversation is marked read, and the first page is loaded.
func (c *Cache) OpenConversation(ctx context.Context, id string) error {
	c.mu.Lock()
	c.activeID = id
	c.messages = nil
	c.page = 0
	c.hasMore = true
	c.loading = false
	c.seen = newSeenRing(seenCapacity)
	c.epoch++
	epoch := c.epoch
	for i := range c.conversations {
		if c.conversations[i].ID == id {
			c.conversations[i].UnreadCount = 0
		}
	}
	c.seedFromStoreLocked(id)
	c.mu.Unlock()
	c.notify()

	// Mark-read is idempotent on the server; a failure only delays the
	// unread reset until the next open.
	if err := c.api.MarkRead(ctx, id); err != nil {
		log.Warningf("Mark read %s failed: %v", id, err)
	}

	return c.loadPage(ctx, id, 0, epoch)
}

// LoadOlder prepends the next older page of the active conversation.
// A no-op while a load is in flight or when no more pages exist.
func (c *Cache) LoadOlder(ctx context.Context) error {
	c.mu.Lock()
	if c.activeID == "" || c.loading || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	id, page, epoch := c.activeID, c.page, c.epoch
	c.mu.Unlock()
	return c.loadPage(ctx, id, page, epoch)
}

// loadPage fetches one page and merges it, discarding the result if the
// active conversation changed while the request was in flight.
func (c *Cache) loadPage(ctx context.Context, id string, page int, epoch uint64) error {
	c.mu.Lock()
	if c.epoch != epoch || c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	pg, err := c.api.Messages(ctx, id, page, c.pageSize)

	c.mu.Lock()
	if c.epoch != epoch {
		// Navigated away mid-flight; the result belongs to a stale view.
		c.mu.Unlock()
		return nil
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("load page %d of %s: %w", page, id, err)
	}

	// The server reports newest-first; reverse to display order, dropping
	// ids already present through the live channel or the offline seed.
	var older []models.Message
	for i := len(pg.Content) - 1; i >= 0; i-- {
		m := pg.Content[i]
		if m.ID != "" && c.seen.Has(m.ID) {
			continue
		}
		c.seen.Add(m.ID)
		older = append(older, m)
	}
	c.messages = append(older, c.messages...)
	sortChronological(c.messages)
	c.hasMore = !pg.Last
	c.page = page + 1
	c.mu.Unlock()

	c.notify()
	return nil
}

// ReceiveLive merges a live-pushed message. For the active conversation
// the message is appended unless its id was already seen; for any other
// conversation the unread counter is bumped instead.
func (c *Cache) ReceiveLive(msg models.Message) {
	c.mu.Lock()
	active := msg.ConversationID == c.activeID
	if active {
		if msg.ID != "" && c.seen.Has(msg.ID) {
			c.mu.Unlock()
			return
		}
		c.seen.Add(msg.ID)
		c.messages = append(c.messages, msg)
	}
	for i := range c.conversations {
		if c.conversations[i].ID != msg.ConversationID {
			continue
		}
		if msg.CreatedAt != "" {
			c.conversations[i].LastMessageTime = msg.CreatedAt
		}
		if !active {
			c.conversations[i].UnreadCount++
		}
	}
	c.mu.Unlock()

	c.writeThrough(&msg)
	c.notify()
}

// Send sends a message on a conversation and appends the acknowledged
// copy without waiting for the live channel. The id is registered so a
// later live echo of the same message deduplicates.
func (c *Cache) Send(ctx context.Context, conversationID, text string) (*models.Message, error) {
	msg, err := c.api.SendMessage(ctx, conversationID, text)
	if err != nil {
		return nil, fmt.Errorf("send on %s: %w", conversationID, err)
	}

	c.mu.Lock()
	if conversationID == c.activeID && (msg.ID == "" || !c.seen.Has(msg.ID)) {
		c.seen.Add(msg.ID)
		c.messages = append(c.messages, *msg)
	}
	for i := range c.conversations {
		if c.conversations[i].ID == conversationID && msg.CreatedAt != "" {
			c.conversations[i].LastMessageTime = msg.CreatedAt
		}
	}
	c.mu.Unlock()

	c.writeThrough(msg)
	c.notify()
	return msg, nil
}

// ActiveID returns the id of the open conversation, or "".
func (c *Cache) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// HasMore reports whether older pages remain for the active conversation.
func (c *Cache) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Messages returns a copy of the active conversation's message list,
// oldest first.
func (c *Cache) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Conversations returns a copy of the conversation directory.
func (c *Cache) Conversations() []models.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Conversation, len(c.conversations))
	copy(out, c.conversations)
	return out
}

// seedFromStoreLocked preloads the message list from the local store so a
// restarted client shows recent history before the first page resolves.
// Seeded ids enter the seen ring; the page load skips them on arrival.
func (c *Cache) seedFromStoreLocked(id string) {
	if c.store == nil {
		return
	}
	cached, err := c.store.GetCachedMessages(id, c.pageSize)
	if err != nil {
		log.Warningf("Failed to read cached messages for %s: %v", id, err)
		return
	}
	for _, cm := range cached {
		c.seen.Add(cm.MessageID)
		c.messages = append(c.messages, models.Message{
			ID:             cm.MessageID,
			ConversationID: cm.ConversationID,
			SenderID:       cm.SenderID,
			MessageText:    cm.Text,
			CreatedAt:      cm.CreatedAt,
		})
	}
}

// sortChronological reconciles ordering across the three delivery paths
// (offline seed, paged history, live events). Stable, so entries without a
// timestamp keep their arrival order.
func sortChronological(msgs []models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt < msgs[j].CreatedAt
	})
}

func (c *Cache) writeThrough(msg *models.Message) {
	if c.store == nil || msg.ID == "" {
		return
	}
	err := c.store.CacheMessage(&models.CachedMessage{
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID,
		SenderID:       msg.SenderID,
		Text:           msg.MessageText,
		CreatedAt:      msg.CreatedAt,
	})
	if err != nil {
		log.Warningf("Failed to cache message %s: %v", msg.ID, err)
	}
}

func (c *Cache) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
