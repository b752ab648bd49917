package memory

import (
	"context"

	"github.com/hack-community/hackmate/internal/domain/errors"
	"github.com/hack-community/hackmate/internal/domain/models"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Upsert(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := *user
	r.store.users[user.ID] = &stored

	return nil
}

func (r *UserRepository) FindByID(_ context.Context, userID int64) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, exists := r.store.users[userID]
	if !exists {
		return nil, &errors.ErrUserNotFound{UserID: userID}
	}

	found := *user

	return &found, nil
}

func (r *UserRepository) FindAll(_ context.Context) ([]*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var users []*models.User

	for _, id := range r.store.sortedUserIDs() {
		user := *r.store.users[id]
		users = append(users, &user)
	}

	return users, nil
}
