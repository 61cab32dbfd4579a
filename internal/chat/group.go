package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
	"github.com/google/uuid"
)

// GroupAPI is the REST surface a group room needs, satisfied by
// api.Client.
type GroupAPI interface {
	GroupMessages(ctx context.Context, id string) ([]models.GroupMessage, error)
	SendGroupMessage(ctx context.Context, id, text string) (*models.GroupMessage, error)
	GroupMembers(ctx context.Context, id string) ([]models.GroupMember, error)
	JoinGroup(ctx context.Context, id string) error
}

// GroupRoom is the message cache for one open group chat. Dedup uses the
// same bounded seen-id ring as 1:1 conversations; messages arriving
// without a server id render under a local fallback id and are never
// entered in the ring, so an identical-content message with a real id is
// a separate entry.
type GroupRoom struct {
	api      GroupAPI
	groupID  string
	onChange func()

	mu       sync.Mutex
	messages []models.GroupMessage
	seen     *seenRing
}

// OpenGroupRoom loads a group's recent messages and ensures the user is a
// member, joining automatically when not. onChange may be nil.
func OpenGroupRoom(ctx context.Context, api GroupAPI, groupID, userID string, onChange func()) (*GroupRoom, error) {
	members, err := api.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load members of %s: %w", groupID, err)
	}
	isMember := false
	for _, m := range members {
		if m.UserID == userID {
			isMember = true
			break
		}
	}
	if !isMember {
		if err := api.JoinGroup(ctx, groupID); err != nil {
			return nil, fmt.Errorf("join group %s: %w", groupID, err)
		}
	}

	recent, err := api.GroupMessages(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load messages of %s: %w", groupID, err)
	}
	// Newest-first from the server; reverse to display order.
	initial := make([]models.GroupMessage, len(recent))
	for i, m := range recent {
		initial[len(recent)-1-i] = m
	}

	r := &GroupRoom{
		api:      api,
		groupID:  groupID,
		onChange: onChange,
		messages: initial,
		seen:     newSeenRing(seenCapacity),
	}
	for _, m := range initial {
		r.seen.Add(m.ID)
	}
	return r, nil
}

// GroupID returns the room's group id.
func (r *GroupRoom) GroupID() string {
	return r.groupID
}

// ReceiveLive merges a live-pushed group message, reporting whether it was
// appended.
func (r *GroupRoom) ReceiveLive(msg models.GroupMessage) bool {
	r.mu.Lock()
	if msg.ID != "" {
		if r.seen.Has(msg.ID) {
			r.mu.Unlock()
			return false
		}
		r.seen.Add(msg.ID)
	} else {
		msg.ID = "local-" + uuid.New().String()
	}
	r.messages = append(r.messages, msg)
	r.mu.Unlock()

	r.notify()
	return true
}

// Send sends over REST and appends the acknowledged copy; the topic echo
// of the same message deduplicates against the ring.
func (r *GroupRoom) Send(ctx context.Context, text string) (*models.GroupMessage, error) {
	msg, err := r.api.SendGroupMessage(ctx, r.groupID, text)
	if err != nil {
		return nil, fmt.Errorf("send to group %s: %w", r.groupID, err)
	}

	r.mu.Lock()
	if msg.ID == "" || !r.seen.Has(msg.ID) {
		r.seen.Add(msg.ID)
		r.messages = append(r.messages, *msg)
	}
	r.mu.Unlock()

	r.notify()
	return msg, nil
}

// Messages returns a copy of the room's messages, oldest first.
func (r *GroupRoom) Messages() []models.GroupMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.GroupMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *GroupRoom) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}
