package memory

import (
	"context"
	"sync"

	"quiz-platform/internal/domain"
)

// UserDirectory is a static, in-memory implementation of app.UserRepository.
type UserDirectory struct {
	mu     sync.RWMutex
	byID   map[string]domain.User
	byName map[string]string
}

func NewUserDirectory(users ...domain.User) *UserDirectory {
	d := &UserDirectory{
		byID:   make(map[string]domain.User, len(users)),
		byName: make(map[string]string, len(users)),
	}
	for _, u := range users {
		_ = d.PutUser(context.Background(), u)
	}
	return d
}

// PutUser adds or replaces a user.
func (d *UserDirectory) PutUser(_ context.Context, user domain.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.byID[user.ID]; ok {
		delete(d.byName, prev.Username)
	}
	d.byID[user.ID] = user
	d.byName[user.Username] = user.ID
	return nil
}

func (d *UserDirectory) GetUser(_ context.Context, userID string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if user, ok := d.byID[userID]; ok {
		return user, nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (d *UserDirectory) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id, ok := d.byName[username]; ok {
		return d.byID[id], nil
	}
	return domain.User{}, domain.ErrUserNotFound
}
