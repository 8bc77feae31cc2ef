package store

import (
	"path/filepath"
	"sync"

	"pigeon/internal/domain"
)

const accountsFile = "accounts.json"

// AccountFileStore persists the signed-in account for one relay server.
// Profiles for every server share one file keyed by server URL.
type AccountFileStore struct {
	dir       string
	serverURL string
	mu        sync.Mutex
}

// NewAccountFileStore returns an AccountFileStore rooted at dir and scoped
// to serverURL.
func NewAccountFileStore(dir, serverURL string) *AccountFileStore {
	return &AccountFileStore{dir: dir, serverURL: serverURL}
}

func (s *AccountFileStore) load() (map[string]domain.AccountProfile, error) {
	profiles := make(map[string]domain.AccountProfile)
	if err := readJSON(filepath.Join(s.dir, accountsFile), &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SaveAccount stores or replaces the profile for this server.
func (s *AccountFileStore) SaveAccount(profile domain.AccountProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}
	profile.ServerURL = s.serverURL
	profiles[s.serverURL] = profile
	return writeJSON(filepath.Join(s.dir, accountsFile), profiles, 0o600)
}

// LoadAccount returns the profile for this server, if any.
func (s *AccountFileStore) LoadAccount() (domain.AccountProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return domain.AccountProfile{}, false, err
	}
	profile, ok := profiles[s.serverURL]
	return profile, ok, nil
}

// DeleteAccount forgets the profile for this server.
func (s *AccountFileStore) DeleteAccount() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := profiles[s.serverURL]; !ok {
		return nil
	}
	delete(profiles, s.serverURL)
	return writeJSON(filepath.Join(s.dir, accountsFile), profiles, 0o600)
}

// Compile-time assertion that AccountFileStore implements domain.AccountStore.
var _ domain.AccountStore = (*AccountFileStore)(nil)
