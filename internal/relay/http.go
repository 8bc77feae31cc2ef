package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"pigeon/internal/domain"
)

// HTTP talks to the relay's JSON API.
type HTTP struct {
	Base string
	HTTP *http.Client

	mu      sync.RWMutex
	session domain.AuthSession
}

// NewHTTP returns a client for the relay at base using http.DefaultClient.
func NewHTTP(base string) *HTTP {
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient}
}

// SetSession sets the bearer token used on every request.
func (c *HTTP) SetSession(s domain.AuthSession) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *HTTP) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.AccessToken
}

// ---------- auth ----------

func (c *HTTP) SignUp(ctx context.Context, email domain.Email, password string) (domain.AuthSession, error) {
	return c.authenticate(ctx, "/auth/signup", email, password)
}

func (c *HTTP) SignIn(ctx context.Context, email domain.Email, password string) (domain.AuthSession, error) {
	return c.authenticate(ctx, "/auth/signin", email, password)
}

func (c *HTTP) authenticate(ctx context.Context, path string, email domain.Email, password string) (domain.AuthSession, error) {
	var out domain.AuthSession
	if err := c.do(ctx, http.MethodPost, path, Credentials{Email: email, Password: password}, &out); err != nil {
		return domain.AuthSession{}, err
	}
	c.SetSession(out)
	return out, nil
}

func (c *HTTP) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
	c.SetSession(domain.AuthSession{})
	return err
}

func (c *HTTP) CurrentUser(ctx context.Context) (domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

// ---------- users ----------

func (c *HTTP) UserIDByEmail(ctx context.Context, email domain.Email) (domain.UserID, bool, error) {
	var out domain.User
	err := c.do(ctx, http.MethodGet, "/users?email="+url.QueryEscape(email.String()), nil, &out)
	if ok, err := found(err); !ok {
		return "", false, err
	}
	return out.ID, true, nil
}

func (c *HTTP) EmailByUserID(ctx context.Context, id domain.UserID) (domain.Email, bool, error) {
	var out domain.User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id.String()), nil, &out)
	if ok, err := found(err); !ok {
		return "", false, err
	}
	return out.Email, true, nil
}

// ---------- keys ----------

func (c *HTTP) StorePublicKey(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodPut, "/public-keys", PublicKeyBody{Key: key}, nil)
}

func (c *HTTP) PublicKey(ctx context.Context, user domain.UserID) (string, bool, error) {
	var out domain.PublicKeyRecord
	err := c.do(ctx, http.MethodGet, "/public-keys/"+url.PathEscape(user.String()), nil, &out)
	if ok, err := found(err); !ok {
		return "", false, err
	}
	return out.Key, true, nil
}

func (c *HTTP) StorePrivateKey(ctx context.Context, record domain.PrivateKeyRecord) error {
	return c.do(ctx, http.MethodPut, "/private-keys", record, nil)
}

func (c *HTTP) PrivateKey(ctx context.Context, user domain.UserID) (domain.PrivateKeyRecord, bool, error) {
	var out domain.PrivateKeyRecord
	err := c.do(ctx, http.MethodGet, "/private-keys/"+url.PathEscape(user.String()), nil, &out)
	if ok, err := found(err); !ok {
		return domain.PrivateKeyRecord{}, false, err
	}
	return out, true, nil
}

// ---------- conversations ----------

func (c *HTTP) Conversations(ctx context.Context) ([]domain.ConversationEntry, error) {
	var out []domain.ConversationEntry
	if err := c.do(ctx, http.MethodGet, "/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTP) ConversationWith(ctx context.Context, peer domain.UserID) (domain.ConversationEntry, bool, error) {
	var out domain.ConversationEntry
	err := c.do(ctx, http.MethodGet, "/conversations/with/"+url.PathEscape(peer.String()), nil, &out)
	if ok, err := found(err); !ok {
		return domain.ConversationEntry{}, false, err
	}
	return out, true, nil
}

func (c *HTTP) CreateConversation(ctx context.Context, peer domain.UserID) (domain.ConversationEntry, error) {
	var out domain.ConversationEntry
	if err := c.do(ctx, http.MethodPost, "/conversations", NewConversation{UserTwo: peer}, &out); err != nil {
		return domain.ConversationEntry{}, err
	}
	return out, nil
}

// ---------- messages ----------

func (c *HTTP) Messages(ctx context.Context, conv domain.ConversationID) ([]domain.MessageEntry, error) {
	var out []domain.MessageEntry
	if err := c.do(ctx, http.MethodGet, messagesPath(conv), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTP) SendMessage(ctx context.Context, conv domain.ConversationID, contents string) (domain.MessageEntry, error) {
	var out domain.MessageEntry
	if err := c.do(ctx, http.MethodPost, messagesPath(conv), NewMessage{Contents: contents}, &out); err != nil {
		return domain.MessageEntry{}, err
	}
	return out, nil
}

func messagesPath(conv domain.ConversationID) string {
	return "/conversations/" + url.PathEscape(conv.String()) + "/messages"
}

// ---------- transport ----------

// found turns a 404 into ok=false with no error.
func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (c *HTTP) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set(AuthHeader, "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		serr := &StatusError{Method: method, URL: c.Base + path, Code: resp.StatusCode}
		var eb ErrorBody
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb) == nil {
			serr.Message = eb.Error
		}
		return serr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domain.RelayClient = (*HTTP)(nil)
