package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
)

var (
	// ErrNoPublicKey means the peer has an account but has not set up keys.
	ErrNoPublicKey = errors.New("peer has not published a public key")
	// ErrUnknownContact is returned by Open for a peer never added.
	ErrUnknownContact = errors.New("unknown contact")
)

// Service caches contacts and opens conversations with them.
type Service struct {
	relay    domain.RelayClient
	contacts domain.ContactStore
	log      logrus.FieldLogger
}

func New(relay domain.RelayClient, contacts domain.ContactStore, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{relay: relay, contacts: contacts, log: log}
}

// Lookup resolves email to a contact without saving it.
func (s *Service) Lookup(ctx context.Context, email domain.Email) (domain.Contact, error) {
	id, ok, err := s.relay.UserIDByEmail(ctx, email)
	if err != nil {
		return domain.Contact{}, err
	}
	if !ok {
		return domain.Contact{}, fmt.Errorf("%w: %s", domain.ErrNotFound, email)
	}
	key, err := s.publicKey(ctx, id)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("%s: %w", email, err)
	}
	return domain.Contact{UserID: id, Email: email, PublicKey: key}, nil
}

// Add resolves email and caches the contact, keeping any known
// conversation id.
func (s *Service) Add(ctx context.Context, email domain.Email) (domain.Contact, error) {
	c, err := s.Lookup(ctx, email)
	if err != nil {
		return domain.Contact{}, err
	}
	if err := s.save(c); err != nil {
		return domain.Contact{}, err
	}
	return s.load(c.UserID)
}

// Sync caches a contact for every conversation on the relay.
func (s *Service) Sync(ctx context.Context) ([]domain.Contact, error) {
	me, err := s.relay.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	convs, err := s.relay.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	for _, conv := range convs {
		peer := conv.Peer(me.ID)
		email, ok, err := s.relay.EmailByUserID(ctx, peer)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.log.WithField("peer", peer).Warn("conversation peer no longer exists")
			continue
		}
		key, err := s.publicKey(ctx, peer)
		if errors.Is(err, ErrNoPublicKey) {
			s.log.WithField("peer", peer).Warn("peer has no public key yet")
			continue
		}
		if err != nil {
			return nil, err
		}
		c := domain.Contact{UserID: peer, Email: email, PublicKey: key, ConversationID: conv.ID}
		if err := s.save(c); err != nil {
			return nil, err
		}
	}
	return s.contacts.ListContacts()
}

// Open returns the contact for peer with its conversation, creating the
// conversation on the relay when needed.
func (s *Service) Open(ctx context.Context, peer domain.UserID) (domain.Contact, error) {
	c, ok, err := s.contacts.LoadContact(peer)
	if err != nil {
		return domain.Contact{}, err
	}
	if !ok {
		return domain.Contact{}, fmt.Errorf("%w: %s", ErrUnknownContact, peer)
	}
	if c.ConversationID != "" {
		return c, nil
	}
	conv, err := s.relay.CreateConversation(ctx, peer)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("open conversation: %w", err)
	}
	c.ConversationID = conv.ID
	if err := s.contacts.SaveContact(c); err != nil {
		return domain.Contact{}, err
	}
	return c, nil
}

func (s *Service) Contacts() ([]domain.Contact, error) { return s.contacts.ListContacts() }

func (s *Service) Remove(peer domain.UserID) error { return s.contacts.DeleteContact(peer) }

func (s *Service) publicKey(ctx context.Context, id domain.UserID) (string, error) {
	key, ok, err := s.relay.PublicKey(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoPublicKey
	}
	if _, err := crypto.DecodePublicKey(key); err != nil {
		return "", fmt.Errorf("peer public key: %w", err)
	}
	return key, nil
}

// save merges c over any cached contact. A changed key is logged so the
// user can re-check fingerprints.
func (s *Service) save(c domain.Contact) error {
	old, ok, err := s.contacts.LoadContact(c.UserID)
	if err != nil {
		return err
	}
	if ok {
		if c.ConversationID == "" {
			c.ConversationID = old.ConversationID
		}
		if old.PublicKey != "" && old.PublicKey != c.PublicKey {
			s.log.WithField("peer", c.Email).Warn("peer public key changed")
		}
	}
	return s.contacts.SaveContact(c)
}

func (s *Service) load(id domain.UserID) (domain.Contact, error) {
	c, ok, err := s.contacts.LoadContact(id)
	if err != nil {
		return domain.Contact{}, err
	}
	if !ok {
		return domain.Contact{}, fmt.Errorf("%w: %s", ErrUnknownContact, id)
	}
	return c, nil
}

var _ domain.ConversationService = (*Service)(nil)
