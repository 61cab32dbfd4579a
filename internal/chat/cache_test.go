package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// fakeHistoryAPI serves canned pages and records calls. Messages blocks on
// block (when set) until released, to exercise in-flight behavior.
type fakeHistoryAPI struct {
	mu           sync.Mutex
	pages        map[string][]models.Page[models.Message]
	messageCalls int
	markReadIDs  []string
	sendResult   *models.Message
	sendErr      error

	started chan struct{}
	release chan struct{}
}

func (f *fakeHistoryAPI) Conversations(ctx context.Context) ([]models.Conversation, error) {
	return []models.Conversation{
		{ID: "c1", OtherUserID: "u2", OtherUserName: "Beth"},
		{ID: "c2", OtherUserID: "u3", OtherUserName: "Carl"},
	}, nil
}

func (f *fakeHistoryAPI) Messages(ctx context.Context, conversationID string, page, size int) (*models.Page[models.Message], error) {
	f.mu.Lock()
	f.messageCalls++
	started := f.started
	release := f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	pages := f.pages[conversationID]
	if page >= len(pages) {
		return &models.Page[models.Message]{Number: page, Size: size, Last: true}, nil
	}
	pg := pages[page]
	return &pg, nil
}

func (f *fakeHistoryAPI) SendMessage(ctx context.Context, conversationID, text string) (*models.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.sendResult != nil {
		return f.sendResult, nil
	}
	return &models.Message{ID: "sent-1", ConversationID: conversationID, MessageText: text}, nil
}

func (f *fakeHistoryAPI) MarkRead(ctx context.Context, conversationID string) error {
	f.mu.Lock()
	f.markReadIDs = append(f.markReadIDs, conversationID)
	f.mu.Unlock()
	return nil
}

func (f *fakeHistoryAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messageCalls
}

// fakeStore is an in-memory MessageStore. rows is what GetCachedMessages
// returns, chronological like the sqlite store.
type fakeStore struct {
	mu      sync.Mutex
	rows    []models.CachedMessage
	written []models.CachedMessage
}

func (f *fakeStore) CacheMessage(m *models.CachedMessage) error {
	f.mu.Lock()
	f.written = append(f.written, *m)
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) UpsertConversation(conv *models.Conversation) error { return nil }

func (f *fakeStore) GetCachedMessages(conversationID string, limit int) ([]models.CachedMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, nil
}

func msg(id, conv, text string) models.Message {
	return models.Message{ID: id, ConversationID: conv, SenderID: "u2", MessageText: text}
}

func page(last bool, msgs ...models.Message) models.Page[models.Message] {
	return models.Page[models.Message]{Content: msgs, Last: last}
}

func TestOpenConversationLoadsFirstPageOldestFirst(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		// Server reports newest-first.
		"c1": {page(false, msg("m3", "c1", "three"), msg("m2", "c1", "two"), msg("m1", "c1", "one"))},
	}}
	c := NewCache(api, nil, nil)

	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	got := c.Messages()
	if len(got) != 3 || got[0].ID != "m1" || got[2].ID != "m3" {
		t.Fatalf("expected m1..m3 oldest first, got %+v", got)
	}
	if !c.HasMore() {
		t.Fatalf("expected more pages available")
	}
	if len(api.markReadIDs) != 1 || api.markReadIDs[0] != "c1" {
		t.Fatalf("expected mark read of c1, got %v", api.markReadIDs)
	}
}

func TestLoadOlderPrependsAndAdvancesOnlyOnSuccess(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		"c1": {
			page(false, msg("m4", "c1", "four"), msg("m3", "c1", "three")),
			page(true, msg("m2", "c1", "two"), msg("m1", "c1", "one")),
		},
	}}
	c := NewCache(api, nil, nil)

	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.LoadOlder(context.Background()); err != nil {
		t.Fatalf("load older: %v", err)
	}

	got := c.Messages()
	want := []string{"m1", "m2", "m3", "m4"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if c.HasMore() {
		t.Fatalf("expected no more pages after last page")
	}

	// Further loads are no-ops once exhausted.
	before := api.calls()
	if err := c.LoadOlder(context.Background()); err != nil {
		t.Fatalf("load older after last: %v", err)
	}
	if api.calls() != before {
		t.Fatalf("expected no network call after last page")
	}
}

func TestLoadOlderSingleFlight(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		"c1": {page(false, msg("m1", "c1", "one")), page(false, msg("m0", "c1", "zero"))},
	}}
	c := NewCache(api, nil, nil)
	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	api.mu.Lock()
	api.started = make(chan struct{}, 1)
	api.release = make(chan struct{})
	api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.LoadOlder(context.Background()) }()
	<-api.started

	before := api.calls()
	// A second call while the first is in flight must not issue a fetch.
	if err := c.LoadOlder(context.Background()); err != nil {
		t.Fatalf("concurrent load older: %v", err)
	}
	if api.calls() != before {
		t.Fatalf("expected single in-flight fetch, got %d calls", api.calls())
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("first load older: %v", err)
	}
}

func TestOpenReplacesActiveConversation(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		"c1": {page(true, msg("a1", "c1", "from a"))},
		"c2": {page(true, msg("b1", "c2", "from b"))},
	}}
	c := NewCache(api, nil, nil)

	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open c1: %v", err)
	}
	if err := c.OpenConversation(context.Background(), "c2"); err != nil {
		t.Fatalf("open c2: %v", err)
	}

	if c.ActiveID() != "c2" {
		t.Fatalf("expected active c2, got %s", c.ActiveID())
	}
	got := c.Messages()
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("expected only c2 messages, got %+v", got)
	}
}

func TestStalePageLoadDiscardedAfterSwitch(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		"c1": {page(true, msg("a1", "c1", "from a"))},
		"c2": {page(true, msg("b1", "c2", "from b"))},
	}}
	c := NewCache(api, nil, nil)

	api.mu.Lock()
	api.started = make(chan struct{}, 2)
	api.release = make(chan struct{})
	api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.OpenConversation(context.Background(), "c1") }()
	<-api.started

	// Navigate away while c1's first page is still in flight.
	api.mu.Lock()
	release := api.release
	api.started = nil
	api.release = nil
	api.mu.Unlock()
	if err := c.OpenConversation(context.Background(), "c2"); err != nil {
		t.Fatalf("open c2: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("open c1: %v", err)
	}

	got := c.Messages()
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("expected stale c1 page to be discarded, got %+v", got)
	}
}

func TestHistoryPageSkipsLiveDeliveredIDs(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		// Newest-first; m1 will also arrive through the live channel while
		// this page is still in flight.
		"c1": {page(true, msg("m1", "c1", "one"), msg("m0", "c1", "zero"))},
	}}
	c := NewCache(api, nil, nil)

	api.mu.Lock()
	api.started = make(chan struct{}, 1)
	api.release = make(chan struct{})
	api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.OpenConversation(context.Background(), "c1") }()
	<-api.started

	c.ReceiveLive(msg("m1", "c1", "one"))

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("open: %v", err)
	}

	got := c.Messages()
	if len(got) != 2 {
		t.Fatalf("expected m0 and one m1, got %+v", got)
	}
	count := 0
	for _, m := range got {
		if m.ID == "m1" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one m1, got %d", count)
	}
	if got[0].ID != "m0" || got[1].ID != "m1" {
		t.Fatalf("expected m0 then m1, got %+v", got)
	}
}

func TestOpenConversationSeedsFromLocalStore(t *testing.T) {
	store := &fakeStore{rows: []models.CachedMessage{
		{ConversationID: "c1", MessageID: "m1", SenderID: "u2", Text: "one", CreatedAt: "2026-01-01T10:00:00"},
		{ConversationID: "c1", MessageID: "m2", SenderID: "u2", Text: "two", CreatedAt: "2026-01-01T10:01:00"},
	}}
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		// The server has a newer message the cache missed, plus the two
		// cached ones.
		"c1": {page(true,
			models.Message{ID: "m3", ConversationID: "c1", MessageText: "three", CreatedAt: "2026-01-01T10:02:00"},
			models.Message{ID: "m2", ConversationID: "c1", MessageText: "two", CreatedAt: "2026-01-01T10:01:00"},
			models.Message{ID: "m1", ConversationID: "c1", MessageText: "one", CreatedAt: "2026-01-01T10:00:00"},
		)},
	}}
	c := NewCache(api, store, nil)

	api.mu.Lock()
	api.started = make(chan struct{}, 1)
	api.release = make(chan struct{})
	api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.OpenConversation(context.Background(), "c1") }()
	<-api.started

	// Cached history is visible before the network round-trip resolves.
	seeded := c.Messages()
	if len(seeded) != 2 || seeded[0].ID != "m1" || seeded[1].ID != "m2" {
		t.Fatalf("expected cached m1,m2 before page load, got %+v", seeded)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("open: %v", err)
	}

	got := c.Messages()
	want := []string{"m1", "m2", "m3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v once each, got %+v", want, got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestReceiveLiveDeduplicatesByID(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		"c1": {page(true)},
	}}
	c := NewCache(api, nil, nil)
	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	m := msg("m1", "c1", "hello")
	c.ReceiveLive(m)
	c.ReceiveLive(m)

	got := c.Messages()
	if len(got) != 1 {
		t.Fatalf("expected exactly one entry for m1, got %d", len(got))
	}
}

func TestSendEchoThroughLiveChannelDeduplicates(t *testing.T) {
	api := &fakeHistoryAPI{
		pages:      map[string][]models.Page[models.Message]{"c1": {page(true)}},
		sendResult: &models.Message{ID: "m1", ConversationID: "c1", SenderID: "u1", MessageText: "hello"},
	}
	c := NewCache(api, nil, nil)
	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := c.Send(context.Background(), "c1", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	// The live channel later redelivers the identical message.
	c.ReceiveLive(models.Message{ID: "m1", ConversationID: "c1", SenderID: "u1", MessageText: "hello"})

	got := c.Messages()
	if len(got) != 1 || got[0].MessageText != "hello" {
		t.Fatalf("expected exactly one hello bubble, got %+v", got)
	}
}

func TestReceiveLiveBumpsUnreadForInactiveConversation(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		"c1": {page(true)},
	}}
	c := NewCache(api, nil, nil)
	if err := c.RefreshConversations(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	c.ReceiveLive(models.Message{ID: "x1", ConversationID: "c2", MessageText: "psst", CreatedAt: "2026-01-02T03:04:05"})
	c.ReceiveLive(models.Message{ID: "x2", ConversationID: "c1", MessageText: "hey"})

	var c1, c2 models.Conversation
	for _, cv := range c.Conversations() {
		switch cv.ID {
		case "c1":
			c1 = cv
		case "c2":
			c2 = cv
		}
	}
	if c2.UnreadCount != 1 {
		t.Fatalf("expected unread 1 on inactive c2, got %d", c2.UnreadCount)
	}
	if c2.LastMessageTime != "2026-01-02T03:04:05" {
		t.Fatalf("expected last message time update, got %q", c2.LastMessageTime)
	}
	if c1.UnreadCount != 0 {
		t.Fatalf("expected unread 0 on active c1, got %d", c1.UnreadCount)
	}
	if got := c.Messages(); len(got) != 1 || got[0].ID != "x2" {
		t.Fatalf("expected only the active conversation message, got %+v", got)
	}
}

func TestChangeNotificationFires(t *testing.T) {
	api := &fakeHistoryAPI{pages: map[string][]models.Page[models.Message]{
		"c1": {page(true, msg("m1", "c1", "one"))},
	}}
	var fired int
	var mu sync.Mutex
	c := NewCache(api, nil, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := fired
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected change notification")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSendErrorPropagates(t *testing.T) {
	api := &fakeHistoryAPI{
		pages:   map[string][]models.Page[models.Message]{"c1": {page(true)}},
		sendErr: fmt.Errorf("backend down"),
	}
	c := NewCache(api, nil, nil)
	if err := c.OpenConversation(context.Background(), "c1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := c.Send(context.Background(), "c1", "hello"); err == nil {
		t.Fatalf("expected send error")
	}
	if got := c.Messages(); len(got) != 0 {
		t.Fatalf("expected no local append on failed send, got %+v", got)
	}
}
