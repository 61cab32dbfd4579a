package chat

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

type fakeGroupAPI struct {
	mu      sync.Mutex
	recent  []models.GroupMessage
	members []models.GroupMember
	joined  []string
	sentID  string
}

func (f *fakeGroupAPI) GroupMessages(ctx context.Context, id string) ([]models.GroupMessage, error) {
	return f.recent, nil
}

func (f *fakeGroupAPI) SendGroupMessage(ctx context.Context, id, text string) (*models.GroupMessage, error) {
	return &models.GroupMessage{ID: f.sentID, GroupID: id, SenderID: "u1", MessageText: text}, nil
}

func (f *fakeGroupAPI) GroupMembers(ctx context.Context, id string) ([]models.GroupMember, error) {
	return f.members, nil
}

func (f *fakeGroupAPI) JoinGroup(ctx context.Context, id string) error {
	f.mu.Lock()
	f.joined = append(f.joined, id)
	f.mu.Unlock()
	return nil
}

func TestOpenGroupRoomAutoJoinsNonMembers(t *testing.T) {
	api := &fakeGroupAPI{members: []models.GroupMember{{UserID: "u9", Name: "Someone"}}}

	if _, err := OpenGroupRoom(context.Background(), api, "g1", "u1", nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(api.joined) != 1 || api.joined[0] != "g1" {
		t.Fatalf("expected auto-join of g1, got %v", api.joined)
	}

	api.joined = nil
	api.members = []models.GroupMember{{UserID: "u1", Name: "Me"}}
	if _, err := OpenGroupRoom(context.Background(), api, "g1", "u1", nil); err != nil {
		t.Fatalf("open as member: %v", err)
	}
	if len(api.joined) != 0 {
		t.Fatalf("expected no join for existing member, got %v", api.joined)
	}
}

func TestGroupRoomSeedsDedupFromInitialMessages(t *testing.T) {
	api := &fakeGroupAPI{
		members: []models.GroupMember{{UserID: "u1"}},
		// Newest-first from the server.
		recent: []models.GroupMessage{
			{ID: "g2", GroupID: "g1", MessageText: "second"},
			{ID: "g2-older", GroupID: "g1", MessageText: "first"},
		},
	}
	r, err := OpenGroupRoom(context.Background(), api, "g1", "u1", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	got := r.Messages()
	if len(got) != 2 || got[0].ID != "g2-older" || got[1].ID != "g2" {
		t.Fatalf("expected initial messages oldest first, got %+v", got)
	}

	// A live redelivery of an initial message is dropped.
	if r.ReceiveLive(models.GroupMessage{ID: "g2", GroupID: "g1", MessageText: "second"}) {
		t.Fatalf("expected redelivered initial message to be dropped")
	}
	if len(r.Messages()) != 2 {
		t.Fatalf("expected list unchanged after duplicate")
	}
}

func TestGroupRoomRendersMessagesWithoutID(t *testing.T) {
	api := &fakeGroupAPI{members: []models.GroupMember{{UserID: "u1"}}}
	r, err := OpenGroupRoom(context.Background(), api, "g1", "u1", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if !r.ReceiveLive(models.GroupMessage{GroupID: "g1", MessageText: "anon"}) {
		t.Fatalf("expected id-less message to render")
	}
	// Same content arriving later with a real id is a separate entry, not
	// deduplicated by content.
	if !r.ReceiveLive(models.GroupMessage{ID: "real-1", GroupID: "g1", MessageText: "anon"}) {
		t.Fatalf("expected identical-content message with real id to render")
	}

	got := r.Messages()
	if len(got) != 2 {
		t.Fatalf("expected two entries, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].ID, "local-") {
		t.Fatalf("expected local fallback id, got %q", got[0].ID)
	}
}

func TestGroupRoomSendEchoDeduplicates(t *testing.T) {
	api := &fakeGroupAPI{members: []models.GroupMember{{UserID: "u1"}}, sentID: "m1"}
	r, err := OpenGroupRoom(context.Background(), api, "g1", "u1", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := r.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if r.ReceiveLive(models.GroupMessage{ID: "m1", GroupID: "g1", SenderID: "u1", MessageText: "hello"}) {
		t.Fatalf("expected topic echo of own send to be dropped")
	}
	if got := r.Messages(); len(got) != 1 {
		t.Fatalf("expected exactly one hello, got %d", len(got))
	}
}
