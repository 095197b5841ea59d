package repo

import (
	"context"
	"slices"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemoryUserRepository struct {
	store *MemoryStore
}

func NewInMemoryUserRepository(store *MemoryStore) *InMemoryUserRepository {
	return &InMemoryUserRepository{store: store}
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var (
		user models.User
		ok   bool
	)
	r.store.read(func() {
		if i := slices.IndexFunc(r.store.users, func(u models.User) bool { return u.Username == username }); i >= 0 {
			user, ok = r.store.users[i], true
		}
	})
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	var err error
	r.store.write(ctx, func() {
		if slices.ContainsFunc(r.store.users, func(e models.User) bool { return e.Username == u.Username }) {
			err = ErrDuplicatedValueUnique
			return
		}
		u.ID = nextID(r.store.users, func(e models.User) int64 { return e.ID })
		u.CreatedAt = r.store.now()
		u.UpdatedAt = u.CreatedAt
		r.store.users = append(r.store.users, u)
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}
