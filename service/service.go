// Package service contains the business logic for the POS backend.
package service

import (
	"github.com/codeshark-lucifer/pos-system/config"
	"github.com/codeshark-lucifer/pos-system/data"
	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/security/jwt"
)

// Service aggregates all business logic services.
type Service struct {
	Auth    *AuthService
	User    *UserService
	Product *ProductService
}

// NewService creates a new service instance with all sub-services
// initialized.
func NewService(d *data.Data, authCfg *config.Auth, log *logger.Logger) *Service {
	tokens := jwt.NewTokenManager(authCfg.JWT.Secret, authCfg.JWT.Expire)

	return &Service{
		Auth:    NewAuthService(d.UserRepo, tokens, log),
		User:    NewUserService(d.UserRepo, log),
		Product: NewProductService(d.ProductRepo, log),
	}
}
