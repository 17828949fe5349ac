package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

// UserRepository keeps accounts in process memory.
// It owns its map exclusively; callers always receive copies.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User
	order []string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[string]*entity.User{}}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrDuplicateIdentity
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	r.users[u.ID] = &cp
	r.order = append(r.order, u.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByEmailOrUsername(_ context.Context, email, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email || u.Username == username })
}

// find scans in registration order so the earliest match wins
func (r *UserRepository) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.users[id]; match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

var _ repository.UserRepository = (*UserRepository)(nil)
