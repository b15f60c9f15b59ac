package service

import (
	"context"

	"github.com/codeshark-lucifer/pos-system/crypto"
	"github.com/codeshark-lucifer/pos-system/data/repository"
	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/structs"
)

// UserService handles user account management.
type UserService struct {
	users  repository.UserRepository
	logger *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, log *logger.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: log,
	}
}

// UpdateUserRequest represents a user update. All fields are optional; the
// role field is only honored for an admin acting on another account.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"omitempty,min=1,max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*structs.User, error) {
	return s.users.FindByID(ctx, id)
}

// List retrieves a paginated list of users.
func (s *UserService) List(ctx context.Context, page, pageSize int) ([]*structs.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	users, err := s.users.List(ctx, int64((page-1)*pageSize), int64(pageSize))
	if err != nil {
		return nil, 0, err
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update applies an update on behalf of the acting principal.
//
// A non-admin may only update their own account. A role change is accepted
// only from an admin acting on a different account; in particular an admin
// can never change their own role through this path, whatever the payload.
func (s *UserService) Update(ctx context.Context, actor *structs.User, targetID string, req *UpdateUserRequest) (*structs.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	self := actor.ID == target.ID
	if !actor.IsAdmin() && !self {
		return nil, ErrForbidden
	}

	var update repository.UserUpdate
	if req.Name != "" {
		update.Name = &req.Name
	}
	if req.Email != "" {
		email := NormalizeEmail(req.Email)
		update.Email = &email
	}
	if req.Password != "" {
		if len(req.Password) < minPasswordLength {
			return nil, ErrWeakPassword
		}
		hash, err := crypto.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}
	if req.Role != "" {
		if !actor.IsAdmin() || self {
			return nil, ErrForbidden
		}
		role := structs.Role(req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		update.Role = &role
	}

	updated, err := s.users.Update(ctx, target.ID.Hex(), update)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user updated", "user_id", updated.ID.Hex(), "actor_id", actor.ID.Hex())
	return updated, nil
}

// Delete removes an account on behalf of the acting principal.
//
// A non-admin may delete only their own account and never an admin
// account. An admin may delete any account except their own.
func (s *UserService) Delete(ctx context.Context, actor *structs.User, targetID string) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	self := actor.ID == target.ID
	if !actor.IsAdmin() {
		if !self {
			return ErrForbidden
		}
		if target.IsAdmin() {
			return ErrForbidden
		}
	} else if self {
		return ErrForbidden
	}

	if err := s.users.Delete(ctx, target.ID.Hex()); err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "user_id", targetID, "actor_id", actor.ID.Hex())
	return nil
}
