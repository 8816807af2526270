package user

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

// Store is the in-memory user collection shared by all requests. Every
// method must be safe under concurrent use.
type Store interface {
	All() []User
	GetByGUID(guid string) (User, error)
	GetByEmail(email string) (User, error)
	Insert(u User) (User, error)
	Update(guid string, u User) (User, error)
}

// InMemoryStore keeps users in a slice guarded by a single RWMutex, so a
// reader never observes a half-applied update and concurrent inserts are
// never lost. Insertion order is preserved; the query engine relies on it
// to break sort ties deterministically.
type InMemoryStore struct {
	mu    sync.RWMutex
	users []User
}

// NewInMemoryStore builds a store pre-populated with seed. Seed entries
// without a GUID get one assigned.
func NewInMemoryStore(seed []User) *InMemoryStore {
	store := &InMemoryStore{users: make([]User, 0, len(seed))}
	for _, u := range seed {
		if u.GUID == "" {
			u.GUID = uuid.NewString()
		}
		store.users = append(store.users, u)
	}
	return store
}

// All returns a snapshot copy of the collection.
func (s *InMemoryStore) All() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, len(s.users))
	copy(users, s.users)
	return users
}

func (s *InMemoryStore) GetByGUID(guid string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.GUID == guid {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

// GetByEmail matches case-insensitively, mirroring the login lookup.
func (s *InMemoryStore) GetByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

// Insert adds u to the collection, assigning a fresh GUID when none is set.
func (s *InMemoryStore) Insert(u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.GUID == "" {
		u.GUID = uuid.NewString()
	}

	s.users = append(s.users, u)
	return u, nil
}

// Update overwrites the mutable fields of the record identified by guid.
func (s *InMemoryStore) Update(guid string, update User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.GUID == guid {
			u.FirstName = update.FirstName
			u.LastName = update.LastName
			u.Email = update.Email
			u.PhoneNumber = update.PhoneNumber
			s.users[i] = u
			return u, nil
		}
	}

	return User{}, ErrNotFound
}
