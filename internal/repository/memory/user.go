package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/landregistry-server/internal/model"
)

var _ model.UserStore = (*UserStore)(nil)

type UserStore struct {
	s   *Store
	log *undoLog
}

func (u *UserStore) Create(_ context.Context, user model.User) (model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		switch {
		case existing.Username == user.Username:
			return model.User{}, model.ErrDuplicateUsername
		case existing.Email == user.Email:
			return model.User{}, model.ErrDuplicateEmail
		case strings.EqualFold(existing.Address, user.Address):
			return model.User{}, model.ErrDuplicateAddress
		}
	}

	user.PasswordHash = append([]byte(nil), user.PasswordHash...)
	u.s.users[user.ID] = user
	u.log.record(func() { delete(u.s.users, user.ID) })

	return user, nil
}

func (u *UserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (u *UserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	return u.find(func(user model.User) bool { return user.Username == username })
}

func (u *UserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	return u.find(func(user model.User) bool { return user.Email == email })
}

func (u *UserStore) find(match func(model.User) bool) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if match(user) {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (u *UserStore) UpdateAddress(_ context.Context, id uuid.UUID, address string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	for otherID, other := range u.s.users {
		if otherID != id && strings.EqualFold(other.Address, address) {
			return model.ErrDuplicateAddress
		}
	}

	return u.put(user, func(user *model.User) { user.Address = address })
}

func (u *UserStore) UpdateProfileImage(_ context.Context, id uuid.UUID, image string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.ErrNotFound
	}

	return u.put(user, func(user *model.User) { user.ProfileImage = image })
}

// put applies change to a copy of prev and stores it. Callers hold mu.
func (u *UserStore) put(prev model.User, change func(*model.User)) error {
	next := prev
	change(&next)
	next.UpdatedAt = time.Now()
	u.s.users[prev.ID] = next
	u.log.record(func() { u.s.users[prev.ID] = prev })
	return nil
}
