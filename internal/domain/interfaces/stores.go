package interfaces

import domaintypes "pigeon/internal/domain/types"

// AccountStore persists the signed-in account between CLI runs.
type AccountStore interface {
	SaveAccount(profile domaintypes.AccountProfile) error
	LoadAccount() (domaintypes.AccountProfile, bool, error)
	DeleteAccount() error
}

// ContactStore caches peers, their public keys and conversation ids.
type ContactStore interface {
	SaveContact(contact domaintypes.Contact) error
	LoadContact(id domaintypes.UserID) (domaintypes.Contact, bool, error)
	ListContacts() ([]domaintypes.Contact, error)
	DeleteContact(id domaintypes.UserID) error
}
