// Package gateway exposes the client's state to a thin local UI over a
// websocket: live events fan out to every attached UI client, and UI
// commands drive the conversation cache, group rooms, and realtime
// channels.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/MelvinDenish/Skill-Swap/internal/api"
	"github.com/MelvinDenish/Skill-Swap/internal/chat"
	"github.com/MelvinDenish/Skill-Swap/internal/db"
	"github.com/MelvinDenish/Skill-Swap/internal/draft"
	"github.com/MelvinDenish/Skill-Swap/internal/models"
	"github.com/MelvinDenish/Skill-Swap/internal/protocol"
	"github.com/MelvinDenish/Skill-Swap/internal/realtime"
	"github.com/MelvinDenish/Skill-Swap/internal/session"
	"github.com/gorilla/websocket"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("gateway")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The daemon listens on loopback only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const typingExpiry = 1500 * time.Millisecond

// uiClient is one attached UI connection. The mutex serializes writes:
// gorilla/websocket supports a single concurrent writer per connection,
// and both the broadcast pump and direct command replies write here.
type uiClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *uiClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *uiClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Gateway bridges the client state to local UI websocket clients.
type Gateway struct {
	db       *db.ClientDB
	api      *api.Client
	sessions *session.Store
	channels *realtime.Manager
	cache    *chat.Cache
	drafts   *draft.Store

	uiMu      sync.RWMutex
	uiClients map[*uiClient]bool
	broadcast chan []byte

	groupMu     sync.Mutex
	room        *chat.GroupRoom
	typingTimer *time.Timer
}

// New creates a gateway and starts its broadcast pump. The conversation
// cache's change notifications should be wired to BroadcastMessages by the
// caller.
func New(database *db.ClientDB, client *api.Client, sessions *session.Store, channels *realtime.Manager) *Gateway {
	g := &Gateway{
		db:        database,
		api:       client,
		sessions:  sessions,
		channels:  channels,
		uiClients: make(map[*uiClient]bool),
		broadcast: make(chan []byte, 256),
	}
	go g.runBroadcast()
	return g
}

// SetCache attaches the conversation cache once constructed.
func (g *Gateway) SetCache(cache *chat.Cache) {
	g.cache = cache
}

// StartRealtime opens the always-on channels for a logged-in user: the
// notification feed and the personal message queue.
func (g *Gateway) StartRealtime() {
	user := g.sessions.User()
	if user == nil {
		return
	}
	params := realtime.ChannelParams{UserID: user.ID, Token: g.sessions.Token()}

	g.channels.Connect(realtime.KindNotifications, params, func(body []byte) {
		g.broadcastEnvelope(protocol.TypeNotification, json.RawMessage(body))
	}, nil)

	g.channels.Connect(realtime.KindUserQueue, params, func(body []byte) {
		var msg models.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			log.Debugf("Dropping undecodable queue event: %v", err)
			return
		}
		g.cache.ReceiveLive(msg)
		g.broadcastEnvelope(protocol.TypeMessage, msg)
	}, nil)
}

// StopRealtime closes every live channel, used on logout.
func (g *Gateway) StopRealtime() {
	g.channels.Close()
}

// BroadcastMessages pushes the active conversation's current list to all
// UI clients. Wired as the conversation cache's change notification.
func (g *Gateway) BroadcastMessages() {
	if g.cache == nil {
		return
	}
	g.broadcastEnvelope(protocol.TypeMessages, protocol.MessagesMessage{
		ConversationID: g.cache.ActiveID(),
		Messages:       g.cache.Messages(),
		HasMore:        g.cache.HasMore(),
	})
	g.broadcastEnvelope(protocol.TypeConversations, protocol.ConversationsMessage{
		Conversations: g.cache.Conversations(),
	})
}

func (g *Gateway) runBroadcast() {
	for data := range g.broadcast {
		g.uiMu.Lock()
		for client := range g.uiClients {
			if err := client.write(data); err != nil {
				client.conn.Close()
				delete(g.uiClients, client)
			}
		}
		g.uiMu.Unlock()
	}
}

func (g *Gateway) broadcastEnvelope(msgType protocol.MessageType, data interface{}) {
	env, err := protocol.NewEnvelope(msgType, data)
	if err != nil {
		return
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case g.broadcast <- raw:
	default:
		// Drop if buffer full
	}
}

// HandleWebSocket handles websocket connections from the local UI.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warningf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &uiClient{conn: conn}
	g.uiMu.Lock()
	g.uiClients[client] = true
	g.uiMu.Unlock()

	g.sendInitialState(client)
	go g.readUI(client)
}

func (g *Gateway) sendInitialState(client *uiClient) {
	convs := g.cache.Conversations()
	if len(convs) == 0 {
		// Fall back to the offline directory before the first refresh.
		if cached, err := g.db.GetConversations(); err == nil {
			convs = cached
		}
	}
	env, err := protocol.NewEnvelope(protocol.TypeConversations, protocol.ConversationsMessage{Conversations: convs})
	if err != nil {
		return
	}
	client.writeJSON(env)
}

func (g *Gateway) readUI(client *uiClient) {
	defer func() {
		g.uiMu.Lock()
		delete(g.uiClients, client)
		g.uiMu.Unlock()
		client.conn.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warningf("UI WebSocket error: %v", err)
			}
			return
		}
		g.handleUIMessage(client, data)
	}
}

func (g *Gateway) handleUIMessage(client *uiClient, data []byte) {
	env, err := protocol.ParseEnvelope(data)
	if err != nil {
		g.sendError(client, protocol.ErrCodeInvalidMsg, "malformed envelope")
		return
	}
	ctx := context.Background()

	switch env.Type {
	case protocol.TypeOpenConversation:
		var msg protocol.OpenConversationMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil || msg.ConversationID == "" {
			g.sendError(client, protocol.ErrCodeInvalidMsg, "missing conversation_id")
			return
		}
		if err := g.cache.OpenConversation(ctx, msg.ConversationID); err != nil {
			g.sendError(client, protocol.ErrCodeInternal, err.Error())
		}

	case protocol.TypeLoadOlder:
		if err := g.cache.LoadOlder(ctx); err != nil {
			g.sendError(client, protocol.ErrCodeInternal, err.Error())
		}

	case protocol.TypeSendMessage:
		var msg protocol.SendMessageMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil || msg.ConversationID == "" || msg.Text == "" {
			g.sendError(client, protocol.ErrCodeInvalidMsg, "missing conversation_id or text")
			return
		}
		if _, err := g.cache.Send(ctx, msg.ConversationID, msg.Text); err != nil {
			g.sendError(client, protocol.ErrCodeInternal, err.Error())
		}

	case protocol.TypeWatchGroup:
		var msg protocol.WatchGroupMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil || msg.GroupID == "" {
			g.sendError(client, protocol.ErrCodeInvalidMsg, "missing group_id")
			return
		}
		if err := g.watchGroup(ctx, msg.GroupID); err != nil {
			g.sendError(client, protocol.ErrCodeInternal, err.Error())
		}

	case protocol.TypeUnwatchGroup:
		g.unwatchGroup()

	case protocol.TypeSendGroupMessage:
		var msg protocol.SendGroupMessageMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil || msg.Text == "" {
			g.sendError(client, protocol.ErrCodeInvalidMsg, "missing text")
			return
		}
		g.groupMu.Lock()
		room := g.room
		g.groupMu.Unlock()
		if room == nil || room.GroupID() != msg.GroupID {
			g.sendError(client, protocol.ErrCodeInvalidMsg, "group not watched")
			return
		}
		if _, err := room.Send(ctx, msg.Text); err != nil {
			g.sendError(client, protocol.ErrCodeInternal, err.Error())
		}

	case protocol.TypeTyping:
		var msg protocol.TypingMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil || msg.GroupID == "" {
			return
		}
		name := ""
		if u := g.sessions.User(); u != nil {
			name = u.Name
		}
		g.channels.Publish(realtime.KindGroup, realtime.GroupTypingDest(msg.GroupID), models.TypingEvent{User: name})

	default:
		g.sendError(client, protocol.ErrCodeInvalidMsg, "unknown message type")
	}
}

// watchGroup opens the group room and its live channel. Watching a new
// group replaces the previous watch.
func (g *Gateway) watchGroup(ctx context.Context, groupID string) error {
	userID := ""
	if u := g.sessions.User(); u != nil {
		userID = u.ID
	}

	room, err := chat.OpenGroupRoom(ctx, g.api, groupID, userID, nil)
	if err != nil {
		return err
	}

	g.groupMu.Lock()
	g.room = room
	g.groupMu.Unlock()

	params := realtime.ChannelParams{GroupID: groupID, Token: g.sessions.Token()}
	g.channels.Connect(realtime.KindGroup, params, func(body []byte) {
		var msg models.GroupMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			log.Debugf("Dropping undecodable group event: %v", err)
			return
		}
		g.groupMu.Lock()
		room := g.room
		g.groupMu.Unlock()
		if room == nil || room.GroupID() != msg.GroupID {
			return
		}
		if room.ReceiveLive(msg) {
			g.broadcastGroup(room)
		}
	}, func(body []byte) {
		var ev models.TypingEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return
		}
		g.onTyping(groupID, ev.User)
	})

	g.broadcastGroup(room)
	return nil
}

func (g *Gateway) unwatchGroup() {
	g.channels.Disconnect(realtime.KindGroup)
	g.groupMu.Lock()
	g.room = nil
	if g.typingTimer != nil {
		g.typingTimer.Stop()
		g.typingTimer = nil
	}
	g.groupMu.Unlock()
}

func (g *Gateway) broadcastGroup(room *chat.GroupRoom) {
	g.broadcastEnvelope(protocol.TypeGroupMessages, protocol.GroupMessagesMessage{
		GroupID:  room.GroupID(),
		Messages: room.Messages(),
	})
}

// onTyping reports the composing member, then clears the indicator after
// the expiry unless another event restarts it.
func (g *Gateway) onTyping(groupID, user string) {
	if user == "" {
		user = "Someone"
	}
	g.broadcastEnvelope(protocol.TypeGroupTyping, protocol.GroupTypingMessage{GroupID: groupID, User: user})

	g.groupMu.Lock()
	if g.typingTimer != nil {
		g.typingTimer.Stop()
	}
	g.typingTimer = time.AfterFunc(typingExpiry, func() {
		g.broadcastEnvelope(protocol.TypeGroupTyping, protocol.GroupTypingMessage{GroupID: groupID})
	})
	g.groupMu.Unlock()
}

func (g *Gateway) sendError(client *uiClient, code, message string) {
	env, err := protocol.NewEnvelope(protocol.TypeError, protocol.ErrorMessage{Code: code, Message: message})
	if err != nil {
		return
	}
	client.writeJSON(env)
}

// HandleConversations returns the conversation directory over REST.
func (g *Gateway) HandleConversations(w http.ResponseWriter, r *http.Request) {
	convs := g.cache.Conversations()
	if len(convs) == 0 {
		if cached, err := g.db.GetConversations(); err == nil {
			convs = cached
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(convs)
}

// HandlePreferences handles preference operations.
func (g *Gateway) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		key := r.URL.Query().Get("key")
		if key == "" {
			http.Error(w, "Missing key", http.StatusBadRequest)
			return
		}
		value, err := g.db.GetPreference(key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"value": value})

	case http.MethodPut:
		var req struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := g.db.SetPreference(req.Key, req.Value); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
