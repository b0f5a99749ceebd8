package service

import (
	"context"
	"errors"
	"fmt"
	"study_platform/internal/common"
	"study_platform/internal/common/security"
	"study_platform/internal/domain/model"
	"study_platform/internal/domain/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the login response. ExpiredAt is epoch milliseconds of the
// token expiry, matching the contract of the legacy platform.
type LoginResult struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Researcher  bool   `json:"researcher"`
	Name        string `json:"name"`
	LastName    string `json:"lastName"`
	AccessToken string `json:"accessToken"`
	ExpiredAt   int64  `json:"expiredAt"`
}

// ValidateCredentials resolves an email+password pair to a user. Any failure
// to match, including an unknown email, surfaces as ErrUnauthorized and is
// propagated to the caller unchanged.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	return user, nil
}

// Login mints an access token for an already validated identity.
func (s *AuthService) Login(ctx context.Context, user *model.User) (*LoginResult, error) {
	token, expiredAt, err := security.GenerateToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		ID:          user.ID,
		Email:       user.Email,
		Researcher:  user.Researcher,
		Name:        user.Name,
		LastName:    user.LastName,
		AccessToken: token,
		ExpiredAt:   expiredAt,
	}, nil
}
