package realtime

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-stomp/stomp/v3"
	"github.com/gorilla/websocket"
)

// StompTransport dials STOMP sessions over a raw websocket connection to
// the backend's /ws/websocket endpoint.
type StompTransport struct {
	url       string
	dialer    *websocket.Dialer
	heartBeat time.Duration
}

// NewStompTransport creates a transport for the given websocket URL.
func NewStompTransport(url string, heartBeat time.Duration) *StompTransport {
	return &StompTransport{
		url:       url,
		dialer:    websocket.DefaultDialer,
		heartBeat: heartBeat,
	}
}

// Dial implements Transport.
func (t *StompTransport) Dial(ctx context.Context, token string) (Session, error) {
	ws, _, err := t.dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", t.url, err)
	}

	opts := []func(*stomp.Conn) error{
		stomp.ConnOpt.HeartBeat(t.heartBeat, t.heartBeat),
	}
	if token != "" {
		opts = append(opts, stomp.ConnOpt.Header("Authorization", "Bearer "+token))
	}

	conn, err := stomp.Connect(newWSStream(ws), opts...)
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("stomp connect: %w", err)
	}

	return &stompSession{conn: conn, ws: ws, done: make(chan struct{})}, nil
}

type stompSession struct {
	conn *stomp.Conn
	ws   *websocket.Conn

	closeOnce sync.Once
	done      chan struct{}
}

func (s *stompSession) Subscribe(destination string, fn func(body []byte)) (Subscription, error) {
	sub, err := s.conn.Subscribe(destination, stomp.AckAuto)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", destination, err)
	}

	go func() {
		for msg := range sub.C {
			if msg.Err != nil {
				log.Debugf("Subscription %s error: %v", destination, msg.Err)
				continue
			}
			fn(msg.Body)
		}
		// Channel closed: the connection is gone.
		s.markDone()
	}()

	return stompSubscription{sub}, nil
}

type stompSubscription struct {
	sub *stomp.Subscription
}

func (s stompSubscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}

func (s *stompSession) Send(destination, contentType string, body []byte) error {
	return s.conn.Send(destination, contentType, body)
}

func (s *stompSession) Disconnect() error {
	defer s.markDone()
	err := s.conn.Disconnect()
	s.ws.Close()
	return err
}

func (s *stompSession) Done() <-chan struct{} {
	return s.done
}

func (s *stompSession) markDone() {
	s.closeOnce.Do(func() { close(s.done) })
}

// wsStream adapts a websocket connection to the io.ReadWriteCloser the
// STOMP library expects. Each write becomes one text frame; reads drain
// successive frames.
type wsStream struct {
	conn *websocket.Conn
	r    io.Reader
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

func (w *wsStream) Read(p []byte) (int, error) {
	for {
		if w.r == nil {
			_, r, err := w.conn.NextReader()
			if err != nil {
				return 0, err
			}
			w.r = r
		}
		n, err := w.r.Read(p)
		if err == io.EOF {
			w.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (w *wsStream) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsStream) Close() error {
	return w.conn.Close()
}
