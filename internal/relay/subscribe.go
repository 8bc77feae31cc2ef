package relay

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/net/websocket"

	"pigeon/internal/domain"
)

// Subscribe opens a WebSocket on the conversation and calls fn for each
// pushed message. It returns ctx.Err() once ctx is done.
func (c *HTTP) Subscribe(ctx context.Context, conv domain.ConversationID, fn func(domain.MessageEntry)) error {
	wsURL, err := websocketURL(c.Base, "/conversations/"+url.PathEscape(conv.String())+"/subscribe")
	if err != nil {
		return err
	}
	cfg, err := websocket.NewConfig(wsURL, c.Base)
	if err != nil {
		return err
	}
	if tok := c.token(); tok != "" {
		cfg.Header.Set(AuthHeader, "Bearer "+tok)
	}

	conn, err := cfg.DialContext(ctx)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", conv, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		var entry domain.MessageEntry
		if err := websocket.JSON.Receive(conn, &entry); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("subscribe %s: %w", conv, err)
		}
		if entry.ID == "" {
			// keepalive
			continue
		}
		fn(entry)
	}
}

func websocketURL(base, path string) (string, error) {
	u, err := url.Parse(base + path)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", errors.New("relay url must be http or https")
	}
	return u.String(), nil
}
