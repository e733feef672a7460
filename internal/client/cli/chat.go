package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/greenhub/internal/client/realtime"
)

// Chats lists the assistant conversations.
func (a *App) Chats(ctx context.Context) error {
	list, err := a.chats.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No conversations yet. Start one with 'newchat'.")
		return nil
	}
	for _, c := range list {
		line := fmt.Sprintf("%s  %s", c.ID, c.Title)
		if c.LastMsg != "" {
			line += "  - " + c.LastMsg
		}
		printlnFn(line)
	}
	return nil
}

// NewChat opens a conversation with message, prompting for it when empty.
func (a *App) NewChat(ctx context.Context, message string) error {
	if message == "" {
		var err error
		if message, err = getSimpleText(a.reader, "First message", a.out); err != nil {
			return err
		}
	}
	c, err := a.chats.Create(ctx, message)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Started %q (%s)", c.Title, c.ID))
	return nil
}

func (a *App) DeleteChat(ctx context.Context, id string) error {
	msg, err := a.chats.Delete(ctx, id)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Conversation deleted."
	}
	printlnFn(msg)
	return nil
}

// Ask sends one message to the assistant and prints its reply.
func (a *App) Ask(ctx context.Context, message string) error {
	if message == "" {
		var err error
		if message, err = getSimpleText(a.reader, "Ask the assistant", a.out); err != nil {
			return err
		}
	}
	reply, err := a.assistant.Reply(ctx, message)
	if err != nil {
		return err
	}
	printlnFn(reply)
	return nil
}

// Classify asks the waste classifier about an image and prints the
// recycling advice.
func (a *App) Classify(ctx context.Context, path string) error {
	c, err := a.assistant.Classify(ctx, path)
	if err != nil {
		return err
	}
	printlnFn("Item:", c.Label)
	if len(c.Suggestions) > 0 {
		printlnFn("Reuse ideas:")
		for _, s := range c.Suggestions {
			printlnFn("  -", s)
		}
	}
	if len(c.RecycleSteps) > 0 {
		printlnFn("How to recycle:")
		for i, s := range c.RecycleSteps {
			printlnFn(fmt.Sprintf("  %d. %s", i+1, s))
		}
	}
	printlnFn("Where:", c.Location)
	return nil
}

// liveConn is the part of *realtime.Conn the live chat uses.
type liveConn interface {
	On(event string, fn func(payload json.RawMessage))
	Emit(event string, payload any) error
	Done() <-chan struct{}
	Close() error
}

type dialFunc func(ctx context.Context, origin, token string) (liveConn, error)

func (a *App) dialRealtime(ctx context.Context, origin, token string) (liveConn, error) {
	header := make(http.Header, len(a.config.ExtraHeaders))
	for k, v := range a.config.ExtraHeaders {
		header.Set(k, v)
	}
	conn, err := realtime.Dial(ctx, origin, token, realtime.Options{Header: header, Logger: a.log})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Live joins the realtime chat channel. Every line typed is sent; an empty
// line leaves.
func (a *App) Live(ctx context.Context) error {
	conn, err := a.dialLive(ctx, a.config.RealtimeOrigin(), a.session.Token())
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.On(realtime.EventChatReceive, func(payload json.RawMessage) {
		var m realtime.ChatMessage
		if err := json.Unmarshal(payload, &m); err != nil {
			a.log.Warn(ctx, "bad chat payload", "err", err)
			return
		}
		printlnFn("<", m.Message)
	})

	printlnFn("Connected to live chat. Empty line to leave.")
	for {
		line, err := a.reader.ReadString('\n')
		text := strings.TrimSpace(line)
		if text == "" {
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			printlnFn("Left live chat.")
			return nil
		}

		select {
		case <-conn.Done():
			return realtime.ErrClosed
		default:
		}
		if err := conn.Emit(realtime.EventChatSend, realtime.ChatMessage{Message: text}); err != nil {
			return err
		}
		if err != nil {
			printlnFn("Left live chat.")
			return nil
		}
	}
}
