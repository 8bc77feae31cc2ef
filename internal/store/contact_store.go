package store

import (
	"path/filepath"
	"sort"
	"sync"

	"pigeon/internal/domain"
)

const contactsFile = "contacts.json"

// ContactFileStore caches contacts on disk.
type ContactFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewContactFileStore returns a ContactFileStore rooted at dir.
func NewContactFileStore(dir string) *ContactFileStore {
	return &ContactFileStore{dir: dir}
}

func (s *ContactFileStore) load() (map[domain.UserID]domain.Contact, error) {
	contacts := map[domain.UserID]domain.Contact{}
	if err := readJSON(filepath.Join(s.dir, contactsFile), &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// SaveContact writes or replaces the contact keyed by its user id.
func (s *ContactFileStore) SaveContact(contact domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load()
	if err != nil {
		return err
	}
	contacts[contact.UserID] = contact
	return writeJSON(filepath.Join(s.dir, contactsFile), contacts, 0o600)
}

// LoadContact retrieves a contact by user id.
func (s *ContactFileStore) LoadContact(id domain.UserID) (domain.Contact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load()
	if err != nil {
		return domain.Contact{}, false, err
	}
	c, ok := contacts[id]
	return c, ok, nil
}

// ListContacts returns every contact ordered by email.
func (s *ContactFileStore) ListContacts() ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// DeleteContact removes a contact. Removing an unknown id is not an error.
func (s *ContactFileStore) DeleteContact(id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := contacts[id]; !ok {
		return nil
	}
	delete(contacts, id)
	return writeJSON(filepath.Join(s.dir, contactsFile), contacts, 0o600)
}

// Compile-time assertion that ContactFileStore implements domain.ContactStore.
var _ domain.ContactStore = (*ContactFileStore)(nil)
