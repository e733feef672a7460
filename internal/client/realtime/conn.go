// Package realtime is a minimal socket.io client (engine.io protocol v4,
// websocket transport only) for the chat channel.
//
// Frames handled:
//
//	0{...}            engine.io open, carries ping settings
//	40 / 40{...}      namespace connect (sent with the auth payload, acknowledged by the server)
//	44{...}           namespace connect error
//	2 / 3             ping / pong
//	42["event",data]  event, either direction
//	41, 1             disconnect / close
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/greenhub/internal/common"
	"github.com/dmitrijs2005/greenhub/internal/logging"
	"github.com/gorilla/websocket"
)

// Chat events.
const (
	EventChatSend    = "chat:send"
	EventChatReceive = "chat:receive"
)

// ChatMessage is the payload of both chat events.
type ChatMessage struct {
	Message string `json:"message"`
}

var (
	ErrHandshake = errors.New("socket.io handshake failed")
	ErrClosed    = errors.New("connection closed")
)

type Options struct {
	Dialer *websocket.Dialer
	Header http.Header
	Logger logging.Logger
}

type openPacket struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

// Conn is a connected socket.io client. Handlers run on the read goroutine
// and must not block.
type Conn struct {
	ws  *websocket.Conn
	log logging.Logger
	sid string

	readTimeout time.Duration

	writeMu sync.Mutex

	mu       sync.RWMutex
	handlers map[string][]func(json.RawMessage)

	done      chan struct{}
	closeOnce sync.Once
	err       error
}

// SocketURL maps an http(s) origin to the socket.io websocket endpoint.
func SocketURL(origin string) (string, error) {
	u, err := url.Parse(strings.TrimRight(origin, "/"))
	if err != nil {
		return "", fmt.Errorf("parse origin: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported origin scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/socket.io/"
	u.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()
	return u.String(), nil
}

// Dial connects to origin and joins the default namespace. A non-empty
// token is sent both as a bearer header and in the connect auth payload.
func Dial(ctx context.Context, origin, token string, opts Options) (*Conn, error) {
	target, err := SocketURL(origin)
	if err != nil {
		return nil, err
	}

	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	header := opts.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if token != "" {
		header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	ws, resp, err := dialer.DialContext(ctx, target, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}

	c := &Conn{
		ws:       ws,
		log:      log.With("component", "realtime"),
		handlers: make(map[string][]func(json.RawMessage)),
		done:     make(chan struct{}),
	}
	if err := c.handshake(ctx, token); err != nil {
		_ = ws.Close()
		return nil, err
	}

	go c.readLoop()
	return c, nil
}

func (c *Conn) handshake(ctx context.Context, token string) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.ws.SetReadDeadline(dl)
		defer func() { _ = c.ws.SetReadDeadline(time.Time{}) }()
	}

	msg, err := c.readText()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	if !strings.HasPrefix(msg, "0") {
		return fmt.Errorf("%w: expected open packet, got %q", ErrHandshake, msg)
	}
	var open openPacket
	if err := json.Unmarshal([]byte(msg[1:]), &open); err != nil {
		return fmt.Errorf("%w: open packet: %v", ErrHandshake, err)
	}
	c.sid = open.SID
	if open.PingInterval > 0 {
		c.readTimeout = time.Duration(open.PingInterval+open.PingTimeout) * time.Millisecond
	}

	connect := "40"
	if token != "" {
		auth, _ := json.Marshal(map[string]string{"token": token})
		connect += string(auth)
	}
	if err := c.writeText(connect); err != nil {
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}

	for {
		msg, err := c.readText()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHandshake, err)
		}
		switch {
		case msg == "2":
			if err := c.writeText("3"); err != nil {
				return fmt.Errorf("%w: %v", ErrHandshake, err)
			}
		case strings.HasPrefix(msg, "40"):
			return nil
		case strings.HasPrefix(msg, "44"):
			var reason struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal([]byte(msg[2:]), &reason)
			return fmt.Errorf("%w: %s", ErrHandshake, reason.Message)
		default:
			return fmt.Errorf("%w: unexpected packet %q", ErrHandshake, msg)
		}
	}
}

// SID is the engine.io session id from the open packet.
func (c *Conn) SID() string { return c.sid }

// On registers fn for event. Several handlers per event are allowed.
func (c *Conn) On(event string, fn func(payload json.RawMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], fn)
}

// Emit sends event with payload encoded as JSON.
func (c *Conn) Emit(event string, payload any) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	frame, err := json.Marshal([]any{event, payload})
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	return c.writeText("42" + string(frame))
}

// Done is closed when the connection ends.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Err reports why the connection ended; nil after a local Close.
func (c *Conn) Err() error {
	<-c.done
	return c.err
}

// Close leaves the namespace and closes the socket.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.writeText("41")
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
		close(c.done)
	})
	return err
}

func (c *Conn) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.err = cause
		_ = c.ws.Close()
		close(c.done)
	})
}

func (c *Conn) readLoop() {
	for {
		if c.readTimeout > 0 {
			_ = c.ws.SetReadDeadline(time.Now().Add(c.readTimeout))
		}
		msg, err := c.readText()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Debug(context.Background(), "read failed", "err", err)
				c.shutdown(err)
			}
			return
		}

		switch {
		case msg == "2":
			if err := c.writeText("3"); err != nil {
				c.shutdown(err)
				return
			}
		case msg == "1", strings.HasPrefix(msg, "41"):
			c.shutdown(ErrClosed)
			return
		case strings.HasPrefix(msg, "42"):
			c.dispatch(msg[2:])
		}
	}
}

func (c *Conn) dispatch(body string) {
	// an ack id may precede the array
	if i := strings.IndexByte(body, '['); i > 0 {
		body = body[i:]
	}

	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(body), &parts); err != nil || len(parts) == 0 {
		c.log.Debug(context.Background(), "dropping malformed event", "frame", body)
		return
	}
	var event string
	if err := json.Unmarshal(parts[0], &event); err != nil {
		return
	}
	var payload json.RawMessage
	if len(parts) > 1 {
		payload = parts[1]
	}

	c.mu.RLock()
	handlers := slices.Clone(c.handlers[event])
	c.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (c *Conn) readText() (string, error) {
	for {
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		if typ == websocket.TextMessage {
			return string(data), nil
		}
	}
}

func (c *Conn) writeText(s string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(s))
}
