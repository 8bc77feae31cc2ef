package message

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
	"pigeon/internal/services/session"
)

// Service sends and receives messages over the relay.
type Service struct {
	relay   domain.RelayClient
	convs   domain.ConversationService
	keys    *session.Keyring
	log     logrus.FieldLogger
	workers int
}

// New constructs a message service. workers bounds concurrent decryption in
// History; zero means GOMAXPROCS.
func New(
	relay domain.RelayClient,
	convs domain.ConversationService,
	keys *session.Keyring,
	log logrus.FieldLogger,
	workers int,
) *Service {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{relay: relay, convs: convs, keys: keys, log: log, workers: workers}
}

// Send encrypts text for peer and posts it.
func (s *Service) Send(ctx context.Context, peer domain.UserID, text string) (domain.MessageEntry, error) {
	c, secret, err := s.open(ctx, peer)
	if err != nil {
		return domain.MessageEntry{}, err
	}
	sealed, err := crypto.Encrypt(text, secret)
	if err != nil {
		return domain.MessageEntry{}, err
	}
	contents, err := crypto.EncodeContents(sealed)
	if err != nil {
		return domain.MessageEntry{}, err
	}
	return s.relay.SendMessage(ctx, c.ConversationID, contents)
}

// History returns every message with peer in order, decrypted.
func (s *Service) History(ctx context.Context, peer domain.UserID) ([]domain.DecryptedMessage, error) {
	c, secret, err := s.open(ctx, peer)
	if err != nil {
		return nil, err
	}
	entries, err := s.relay.Messages(ctx, c.ConversationID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DecryptedMessage, len(entries))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, e := range entries {
		g.Go(func() error {
			out[i] = s.decrypt(e, secret)
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

// Watch calls fn with each new message from the conversation with peer
// until ctx is done.
func (s *Service) Watch(ctx context.Context, peer domain.UserID, fn func(domain.DecryptedMessage)) error {
	c, secret, err := s.open(ctx, peer)
	if err != nil {
		return err
	}
	return s.relay.Subscribe(ctx, c.ConversationID, func(e domain.MessageEntry) {
		fn(s.decrypt(e, secret))
	})
}

func (s *Service) open(ctx context.Context, peer domain.UserID) (domain.Contact, *crypto.SharedSecret, error) {
	if !s.keys.Unlocked() {
		return domain.Contact{}, nil, session.ErrLocked
	}
	c, err := s.convs.Open(ctx, peer)
	if err != nil {
		return domain.Contact{}, nil, err
	}
	pub, err := crypto.DecodePublicKey(c.PublicKey)
	if err != nil {
		return domain.Contact{}, nil, fmt.Errorf("contact %s: %w", c.Email, err)
	}
	secret, err := s.keys.Secret(c.ConversationID, pub)
	if err != nil {
		return domain.Contact{}, nil, err
	}
	return c, secret, nil
}

func (s *Service) decrypt(e domain.MessageEntry, secret *crypto.SharedSecret) domain.DecryptedMessage {
	m := domain.DecryptedMessage{ID: e.ID, Sender: e.Sender, CreatedAt: e.CreatedAt}
	sealed, err := crypto.DecodeContents(e.Contents)
	if err == nil {
		m.Text, err = crypto.Decrypt(sealed, secret)
	}
	if err != nil {
		s.log.WithError(err).WithField("message", e.ID).Debug("message did not decrypt")
		m.Text, m.Failed = domain.FailedText, true
	}
	return m
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
