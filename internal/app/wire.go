package app

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"pigeon/internal/domain"
	"pigeon/internal/relay"
	conversationsvc "pigeon/internal/services/conversation"
	identitysvc "pigeon/internal/services/identity"
	messagesvc "pigeon/internal/services/message"
	"pigeon/internal/services/session"
	"pigeon/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config Config
	Log    logrus.FieldLogger

	Relay    *relay.HTTP
	Accounts domain.AccountStore
	Contacts domain.ContactStore
	Keys     *session.Keyring

	Identity      domain.IdentityService
	Conversations domain.ConversationService
	Messages      domain.MessageService

	// Profile is the stored account, if signed in.
	Profile  domain.AccountProfile
	SignedIn bool
}

// NewWire constructs the dependency graph from cfg. A stored session for
// cfg.RelayURL is loaded into the relay client.
func NewWire(cfg Config, log logrus.FieldLogger) (*Wire, error) {
	cfg.setDefaults()
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	rc := relay.NewHTTP(cfg.RelayURL)
	rc.HTTP = httpClient

	accounts := store.NewAccountFileStore(cfg.Home, cfg.RelayURL)
	profile, ok, err := accounts.LoadAccount()
	if err != nil {
		return nil, err
	}
	if ok {
		rc.SetSession(profile.Session)
	}

	// Contacts are kept per account.
	owner := "anonymous"
	if ok {
		owner = profile.Session.UserID.String()
	}
	contacts := store.NewContactFileStore(filepath.Join(cfg.Home, "contacts", owner))

	keys := session.NewKeyring()
	convs := conversationsvc.New(rc, contacts, log)
	return &Wire{
		Config:        cfg,
		Log:           log,
		Relay:         rc,
		Accounts:      accounts,
		Contacts:      contacts,
		Keys:          keys,
		Identity:      identitysvc.New(rc, keys, cfg.Recipe, log),
		Conversations: convs,
		Messages:      messagesvc.New(rc, convs, keys, log, cfg.Workers),
		Profile:       profile,
		SignedIn:      ok,
	}, nil
}
