package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"pigeon/internal/domain"
)

// BadgerConfig selects where the Badger store lives.
type BadgerConfig struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	Logger   logrus.FieldLogger
}

// Badger is the embedded Store backend.
//
// Key layout:
//
//	user/<id>                    User
//	email/<email>                user id
//	pub/<user>                   PublicKeyRecord
//	priv/<user>                  PrivateKeyRecord
//	conv/<id>                    ConversationEntry
//	pair/<a>|<b>                 conversation id (a < b)
//	uconv/<user>/<conv>          empty, one per participant
//	msg/<conv>/<nanos>/<id>      MessageEntry
type Badger struct {
	db *badger.DB
}

// OpenBadger opens or creates a Badger store.
func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("storage: badger path required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{cfg.Logger.WithField("component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// badgerLogger demotes badger's chatty info output to debug.
type badgerLogger struct{ log logrus.FieldLogger }

func (l badgerLogger) Errorf(f string, a ...any)   { l.log.Errorf(f, a...) }
func (l badgerLogger) Warningf(f string, a ...any) { l.log.Warnf(f, a...) }
func (l badgerLogger) Infof(f string, a ...any)    { l.log.Debugf(f, a...) }
func (l badgerLogger) Debugf(f string, a ...any)   { l.log.Debugf(f, a...) }

func (s *Badger) Close() error { return s.db.Close() }

// ---------- helpers ----------

func getJSON(txn *badger.Txn, key string, out any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(v []byte) error { return json.Unmarshal(v, out) })
}

func getString(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	v, err := item.ValueCopy(nil)
	return string(v), err
}

func setJSON(txn *badger.Txn, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), b)
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// scan visits every key under prefix in key order.
func scan(txn *badger.Txn, prefix string, fn func(key []byte, item *badger.Item) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		if err := fn(item.KeyCopy(nil), item); err != nil {
			return err
		}
	}
	return nil
}

// ---------- users ----------

func (s *Badger) CreateUser(_ context.Context, u User) error {
	return s.db.Update(func(txn *badger.Txn) error {
		taken, err := exists(txn, "email/"+string(u.Email))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email %s: %w", u.Email, ErrConflict)
		}
		if err := setJSON(txn, "user/"+string(u.ID), u); err != nil {
			return err
		}
		return txn.Set([]byte("email/"+string(u.Email)), []byte(u.ID))
	})
}

func (s *Badger) UserByEmail(_ context.Context, email domain.Email) (User, error) {
	var u User
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, "email/"+string(email))
		if err != nil {
			return err
		}
		return getJSON(txn, "user/"+id, &u)
	})
	return u, err
}

func (s *Badger) UserByID(_ context.Context, id domain.UserID) (User, error) {
	var u User
	err := s.db.View(func(txn *badger.Txn) error { return getJSON(txn, "user/"+string(id), &u) })
	return u, err
}

// ---------- keys ----------

func (s *Badger) PutPublicKey(_ context.Context, rec domain.PublicKeyRecord) error {
	return s.db.Update(func(txn *badger.Txn) error { return setJSON(txn, "pub/"+string(rec.UserID), rec) })
}

func (s *Badger) PublicKey(_ context.Context, user domain.UserID) (domain.PublicKeyRecord, error) {
	var rec domain.PublicKeyRecord
	err := s.db.View(func(txn *badger.Txn) error { return getJSON(txn, "pub/"+string(user), &rec) })
	return rec, err
}

func (s *Badger) PutPrivateKey(_ context.Context, rec domain.PrivateKeyRecord) error {
	return s.db.Update(func(txn *badger.Txn) error { return setJSON(txn, "priv/"+string(rec.UserID), rec) })
}

func (s *Badger) PrivateKey(_ context.Context, user domain.UserID) (domain.PrivateKeyRecord, error) {
	var rec domain.PrivateKeyRecord
	err := s.db.View(func(txn *badger.Txn) error { return getJSON(txn, "priv/"+string(user), &rec) })
	return rec, err
}

// ---------- conversations ----------

func (s *Badger) CreateConversation(_ context.Context, c domain.ConversationEntry) error {
	return s.db.Update(func(txn *badger.Txn) error {
		pair := "pair/" + pairKey(c.UserOne, c.UserTwo)
		taken, err := exists(txn, pair)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("conversation %s: %w", pairKey(c.UserOne, c.UserTwo), ErrConflict)
		}
		if err := setJSON(txn, "conv/"+string(c.ID), c); err != nil {
			return err
		}
		if err := txn.Set([]byte(pair), []byte(c.ID)); err != nil {
			return err
		}
		for _, u := range []domain.UserID{c.UserOne, c.UserTwo} {
			if err := txn.Set([]byte("uconv/"+string(u)+"/"+string(c.ID)), []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Badger) Conversation(_ context.Context, id domain.ConversationID) (domain.ConversationEntry, error) {
	var c domain.ConversationEntry
	err := s.db.View(func(txn *badger.Txn) error { return getJSON(txn, "conv/"+string(id), &c) })
	return c, err
}

func (s *Badger) ConversationBetween(_ context.Context, a, b domain.UserID) (domain.ConversationEntry, error) {
	var c domain.ConversationEntry
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, "pair/"+pairKey(a, b))
		if err != nil {
			return err
		}
		return getJSON(txn, "conv/"+id, &c)
	})
	return c, err
}

func (s *Badger) ConversationsFor(_ context.Context, u domain.UserID) ([]domain.ConversationEntry, error) {
	var out []domain.ConversationEntry
	prefix := "uconv/" + string(u) + "/"
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, prefix, func(key []byte, _ *badger.Item) error {
			var c domain.ConversationEntry
			if err := getJSON(txn, "conv/"+string(key[len(prefix):]), &c); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

// ---------- messages ----------

func messageKey(m domain.MessageEntry) string {
	return fmt.Sprintf("msg/%s/%020d/%s", m.ConversationID, m.CreatedAt.UnixNano(), m.ID)
}

func (s *Badger) AppendMessage(_ context.Context, m domain.MessageEntry) error {
	return s.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, "conv/"+string(m.ConversationID))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("conversation %s: %w", m.ConversationID, ErrNotFound)
		}
		return setJSON(txn, messageKey(m), m)
	})
}

func (s *Badger) Messages(_ context.Context, conv domain.ConversationID) ([]domain.MessageEntry, error) {
	var out []domain.MessageEntry
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, "msg/"+string(conv)+"/", func(_ []byte, item *badger.Item) error {
			var m domain.MessageEntry
			if err := item.Value(func(v []byte) error { return json.Unmarshal(v, &m) }); err != nil {
				return err
			}
			out = append(out, m)
			return nil
		})
	})
	return out, err
}

var _ Store = (*Badger)(nil)
