package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"user_backend/internal/feature/users/domain"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// UserRedis implements usecase.UserRepository using Redis.
//
// Key layout (prefix defaults to "users"):
//
//	<prefix>:seq                         INCR counter for new IDs
//	<prefix>:ids                         set of all user IDs
//	<prefix>:<id>                        JSON document
//	<prefix>:username:<username>         owning ID (SETNX)
//	<prefix>:identification:<document>   owning ID (SETNX)
type UserRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.UserRepository = (*UserRedis)(nil)

// NewUserRedis creates a new UserRedis instance.
func NewUserRedis(client *redis.Client, prefix string) *UserRedis {
	if prefix == "" {
		prefix = "users"
	}
	return &UserRedis{client: client, prefix: prefix}
}

func (r *UserRedis) seqKey() string { return r.prefix + ":seq" }

func (r *UserRedis) idsKey() string { return r.prefix + ":ids" }

func (r *UserRedis) userKey(id uint) string { return fmt.Sprintf("%s:%d", r.prefix, id) }

func (r *UserRedis) usernameKey(username string) string {
	return fmt.Sprintf("%s:username:%s", r.prefix, username)
}

func (r *UserRedis) identificationKey(identification string) string {
	return fmt.Sprintf("%s:identification:%s", r.prefix, identification)
}

// Create assigns the next ID and stores the user with its unique index keys.
func (r *UserRedis) Create(ctx context.Context, u *entity.User) error {
	id, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate user id: %w", err)
	}
	u.ID = uint(id)

	claimed, err := r.claimKeys(ctx, id, u.Username, u.IdentificationValue())
	if err != nil {
		return err
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := r.put(ctx, u); err != nil {
		r.release(ctx, claimed...)
		return err
	}
	if err := r.client.SAdd(ctx, r.idsKey(), id).Err(); err != nil {
		return err
	}
	return nil
}

// Update overwrites an existing user and moves its index keys when the
// username or identification changed.
func (r *UserRedis) Update(ctx context.Context, u *entity.User) error {
	old, err := r.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}

	var newUsername, newIdent string
	if u.Username != old.Username {
		newUsername = u.Username
	}
	if ident := u.IdentificationValue(); ident != old.IdentificationValue() {
		newIdent = ident
	}
	claimed, err := r.claimKeys(ctx, int64(u.ID), newUsername, newIdent)
	if err != nil {
		return err
	}

	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = time.Now()
	if err := r.put(ctx, u); err != nil {
		r.release(ctx, claimed...)
		return err
	}

	var stale []string
	if u.Username != old.Username {
		stale = append(stale, r.usernameKey(old.Username))
	}
	if oldIdent := old.IdentificationValue(); oldIdent != "" && oldIdent != u.IdentificationValue() {
		stale = append(stale, r.identificationKey(oldIdent))
	}
	r.release(ctx, stale...)
	return nil
}

// Delete removes the user document, its index keys and its ID from the set.
// Deleting a missing user is not an error.
func (r *UserRedis) Delete(ctx context.Context, id uint) error {
	old, err := r.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	keys := []string{r.userKey(id), r.usernameKey(old.Username)}
	if ident := old.IdentificationValue(); ident != "" {
		keys = append(keys, r.identificationKey(ident))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	return r.client.SRem(ctx, r.idsKey(), int64(id)).Err()
}

// FindByID retrieves a user by its ID.
func (r *UserRedis) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	data, err := r.client.Get(ctx, r.userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	var u entity.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

// FindAll returns all users ordered by ID.
func (r *UserRedis) FindAll(ctx context.Context) ([]entity.User, error) {
	members, err := r.client.SMembers(ctx, r.idsKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []entity.User{}, nil
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.userKey(id))
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]entity.User, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// The set and the documents are written separately; skip dangling IDs.
			continue
		}
		var u entity.User
		if err := json.Unmarshal([]byte(s), &u); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

// FindByUsername resolves the username index and loads the user.
func (r *UserRedis) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findByIndex(ctx, r.usernameKey(username))
}

// FindByIdentification resolves the identification index and loads the user.
func (r *UserRedis) FindByIdentification(ctx context.Context, identification string) (*entity.User, error) {
	if identification == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findByIndex(ctx, r.identificationKey(identification))
}

// FindByEmail scans all users; email is not indexed because it is not unique.
func (r *UserRedis) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	users, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRedis) findByIndex(ctx context.Context, key string) (*entity.User, error) {
	id, err := r.client.Get(ctx, key).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, uint(id))
}

func (r *UserRedis) put(ctx context.Context, u *entity.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return r.client.Set(ctx, r.userKey(u.ID), data, 0).Err()
}

// claimKeys reserves the index keys for a non-empty identification and
// username, in that order. On conflict every key claimed so far is released
// and domain.ErrDuplicateUser is returned.
func (r *UserRedis) claimKeys(ctx context.Context, id int64, username, identification string) ([]string, error) {
	var keys []string
	if identification != "" {
		keys = append(keys, r.identificationKey(identification))
	}
	if username != "" {
		keys = append(keys, r.usernameKey(username))
	}

	claimed := make([]string, 0, len(keys))
	for _, key := range keys {
		ok, err := r.client.SetNX(ctx, key, id, 0).Result()
		if err != nil {
			r.release(ctx, claimed...)
			return nil, err
		}
		if !ok {
			r.release(ctx, claimed...)
			return nil, domain.ErrDuplicateUser
		}
		claimed = append(claimed, key)
	}
	return claimed, nil
}

// release deletes index keys, ignoring errors.
func (r *UserRedis) release(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	_ = r.client.Del(ctx, keys...).Err()
}
