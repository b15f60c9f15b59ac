package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/codeshark-lucifer/pos-system/structs"
)

// memoryUserRepository is an in-memory UserRepository used by tests and
// local development. Each operation holds the lock for its full duration,
// mirroring the single-document atomicity of the MongoDB implementation.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*structs.User
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*structs.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *structs.User) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, ErrEmailExists
		}
	}

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Sessions == nil {
		user.Sessions = []structs.Session{}
	}

	r.users[user.ID.Hex()] = copyUser(user)
	return copyUser(user), nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) List(_ context.Context, skip, limit int64) ([]*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*structs.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if skip >= int64(len(all)) {
		return []*structs.User{}, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memoryUserRepository) Update(_ context.Context, id string, update UserUpdate) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if update.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *update.Email {
				return nil, ErrEmailExists
			}
		}
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	u.UpdatedAt = time.Now()

	return copyUser(u), nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) AddSession(_ context.Context, id string, sess structs.Session, loginAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Sessions = append(u.Sessions, sess)
	t := loginAt
	u.LastLoginAt = &t
	u.UpdatedAt = loginAt
	return nil
}

func (r *memoryUserRepository) RemoveSession(_ context.Context, id string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	kept := u.Sessions[:0]
	for _, s := range u.Sessions {
		if s.Token != token {
			kept = append(kept, s)
		}
	}
	u.Sessions = kept
	return nil
}

func (r *memoryUserRepository) PruneSessions(_ context.Context, id string, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	kept := u.Sessions[:0]
	for _, s := range u.Sessions {
		if !s.ExpiresAt.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	u.Sessions = kept
	return nil
}

func copyUser(u *structs.User) *structs.User {
	out := *u
	out.Sessions = append([]structs.Session(nil), u.Sessions...)
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}

// memoryProductRepository is an in-memory ProductRepository used by tests
// and local development.
type memoryProductRepository struct {
	mu       sync.Mutex
	products map[string]*structs.Product
}

// NewMemoryProductRepository creates an empty in-memory product repository.
func NewMemoryProductRepository() ProductRepository {
	return &memoryProductRepository{products: make(map[string]*structs.Product)}
}

func (r *memoryProductRepository) Create(_ context.Context, product *structs.Product) (*structs.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	stored := *product
	r.products[product.ID.Hex()] = &stored
	out := stored
	return &out, nil
}

func (r *memoryProductRepository) FindByID(_ context.Context, id string) (*structs.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	out := *p
	return &out, nil
}

func (r *memoryProductRepository) List(_ context.Context, filter ProductFilter, skip, limit int64) ([]*structs.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.matching(filter)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if skip >= int64(len(all)) {
		return []*structs.Product{}, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryProductRepository) Count(_ context.Context, filter ProductFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memoryProductRepository) Update(_ context.Context, id string, update ProductUpdate) (*structs.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Stock != nil {
		p.Stock = *update.Stock
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	p.UpdatedAt = time.Now()

	out := *p
	return &out, nil
}

func (r *memoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// matching returns copies of products passing the filter. Caller holds the
// lock.
func (r *memoryProductRepository) matching(filter ProductFilter) []*structs.Product {
	name := strings.ToLower(filter.Name)
	out := make([]*structs.Product, 0, len(r.products))
	for _, p := range r.products {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out
}
