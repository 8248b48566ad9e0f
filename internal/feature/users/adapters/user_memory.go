package adapters

import (
	"context"
	"sort"
	"sync"
	"time"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// userMemory is an in-memory UserRepository used for local runs and tests.
// Records are copied on the way in and out so callers never share state with the store.
type userMemory struct {
	mu     sync.RWMutex
	users  map[uint]entity.User
	nextID uint
}

var _ usecase.UserRepository = (*userMemory)(nil)

// NewUserMemory creates an empty in-memory store.
func NewUserMemory() *userMemory {
	return &userMemory{users: make(map[uint]entity.User), nextID: 1}
}

func (r *userMemory) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflicts(u, 0) {
		return domain.ErrDuplicateUser
	}
	now := time.Now()
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.nextID++
	r.users[u.ID] = cloneUser(*u)
	return nil
}

func (r *userMemory) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if r.conflicts(u, u.ID) {
		return domain.ErrDuplicateUser
	}
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = time.Now()
	r.users[u.ID] = cloneUser(*u)
	return nil
}

func (r *userMemory) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func (r *userMemory) FindByID(_ context.Context, id uint) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *userMemory) FindAll(_ context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *userMemory) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findFirst(func(u *entity.User) bool { return u.Username == username })
}

func (r *userMemory) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findFirst(func(u *entity.User) bool { return u.Email == email })
}

func (r *userMemory) FindByIdentification(ctx context.Context, identification string) (*entity.User, error) {
	if identification == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findFirst(func(u *entity.User) bool { return u.IdentificationValue() == identification })
}

func (r *userMemory) findFirst(match func(u *entity.User) bool) (*entity.User, error) {
	users, _ := r.FindAll(context.Background())
	for i := range users {
		if match(&users[i]) {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// conflicts reports whether another record (other than self) holds u's username
// or non-empty identification. Caller must hold the lock.
func (r *userMemory) conflicts(u *entity.User, self uint) bool {
	for id, other := range r.users {
		if id == self {
			continue
		}
		if other.Username == u.Username {
			return true
		}
		if ident := u.IdentificationValue(); ident != "" && other.IdentificationValue() == ident {
			return true
		}
	}
	return false
}

func cloneUser(u entity.User) entity.User {
	if u.Identification != nil {
		ident := *u.Identification
		u.Identification = &ident
	}
	if u.ExpirationDate != nil {
		exp := *u.ExpirationDate
		u.ExpirationDate = &exp
	}
	return u
}
