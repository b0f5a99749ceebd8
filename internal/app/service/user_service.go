package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"
	"study_platform/internal/common"
	"study_platform/internal/common/security"
	"study_platform/internal/domain/model"
	"study_platform/internal/domain/repository"
	"study_platform/internal/platform/config"
	"time"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo  repository.UserRepository
	mailQueue MailEnqueuer
}

func NewUserService(userRepo repository.UserRepository, mailQueue MailEnqueuer) *UserService {
	return &UserService{userRepo: userRepo, mailQueue: mailQueue}
}

type CreateUserRequest struct {
	Name       string     `json:"name"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	BirthDate  *time.Time `json:"birthDate,omitempty"`
	Researcher bool       `json:"researcher"`
}

type UpdateUserRequest struct {
	Name       *string    `json:"name,omitempty"`
	LastName   *string    `json:"lastName,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Password   *string    `json:"password,omitempty"`
	BirthDate  *time.Time `json:"birthDate,omitempty"`
	Researcher *bool      `json:"researcher,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email                 string `json:"email"`
	RecoveryPasswordToken string `json:"recoveryPasswordToken"`
	NewPassword           string `json:"newPassword"`
}

// FindUsersResult is the discriminated outcome of a user listing. Exactly one
// branch is populated: All for an unfiltered listing, One for an email-filter
// hit, NotFound for an email-filter miss. The transport layer renders
// NotFound as the legacy {"error":"User not found","statusCode":404} payload
// instead of an error return.
type FindUsersResult struct {
	All      []model.UserView
	One      *model.UserView
	NotFound bool
}

// Create registers a new user. Name, last name, and email are trimmed before
// persisting, and the password only leaves this method as a bcrypt hash.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*model.UserView, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		LastName:       req.LastName,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		BirthDate:      req.BirthDate,
		Researcher:     req.Researcher,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on a duplicate email
		return nil, common.Errorf("failed to create user: %w", err)
	}

	// A stuck mail queue must not fail registration.
	if err := s.mailQueue.EnqueueMail(ctx, model.MailJob{
		ID:    uuid.NewString(),
		Kind:  model.MailJobWelcome,
		Email: user.Email,
		Name:  user.Name,
	}); err != nil {
		log.Printf("WARN: Failed to enqueue welcome mail for %s: %v", user.Email, err)
	}

	view := user.View()
	return &view, nil
}

// FindAll lists users, or resolves a single user when an email filter is set.
func (s *UserService) FindAll(ctx context.Context, emailFilter string) (*FindUsersResult, error) {
	if emailFilter != "" {
		user, err := s.userRepo.FindByEmail(ctx, emailFilter)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return &FindUsersResult{NotFound: true}, nil
			}
			return nil, err
		}
		view := user.View()
		return &FindUsersResult{One: &view}, nil
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return &FindUsersResult{All: views}, nil
}

func (s *UserService) FindOne(ctx context.Context, id string) (*model.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// Update applies a partial patch and returns the updated sanitized view.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*model.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A provided field must carry a usable value; a patch cannot blank a
	// required field.
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			user.Name = name
		} else {
			return nil, common.ErrBadRequest
		}
	}
	if req.LastName != nil {
		if lastName := strings.TrimSpace(*req.LastName); lastName != "" {
			user.LastName = lastName
		} else {
			return nil, common.ErrBadRequest
		}
	}
	if req.Email != nil {
		if email := strings.TrimSpace(*req.Email); email != "" {
			user.Email = email
		} else {
			return nil, common.ErrBadRequest
		}
	}
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}
	if req.Researcher != nil {
		user.Researcher = *req.Researcher
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, common.ErrBadRequest
		}
		hashedPassword, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, common.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	view := user.View()
	return &view, nil
}

func (s *UserService) Remove(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}

// ForgotPassword issues a recovery token for the account and queues the
// recovery mail. The token is only delivered out of band; it is never part
// of the HTTP response for this operation.
func (s *UserService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	token, _, err := s.issueRecoveryToken(ctx, user.ID)
	if err != nil {
		return err
	}

	return s.mailQueue.EnqueueMail(ctx, model.MailJob{
		ID:    uuid.NewString(),
		Kind:  model.MailJobRecovery,
		Email: user.Email,
		Name:  user.Name,
		Token: token,
	})
}

// ResetPassword consumes a pending recovery token. It fails with
// ErrUnauthorized when the stored token is missing, mismatched, or past its
// expiration, even if the presented value is otherwise correct.
func (s *UserService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.NewPassword == "" {
		return common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.RecoveryPasswordToken == nil || user.RecoveryPasswordTokenExpirationDate == nil {
		return common.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(*user.RecoveryPasswordToken), []byte(req.RecoveryPasswordToken)) != 1 {
		return common.ErrUnauthorized
	}
	if time.Now().After(*user.RecoveryPasswordTokenExpirationDate) {
		return common.ErrUnauthorized
	}

	hashedPassword, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return common.Errorf("failed to hash password: %w", err)
	}

	// Clears the recovery fields together with the hash swap. The store
	// re-checks the token, so one rotated after the read above is not
	// consumed.
	if err := s.userRepo.UpdatePassword(ctx, user.ID, req.RecoveryPasswordToken, hashedPassword); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return err
	}
	return nil
}

// AddRecoveryToken (re)generates a recovery token outside the forgot-password
// flow. This is the only operation that returns the raw token.
func (s *UserService) AddRecoveryToken(ctx context.Context, email string) (*model.RecoveryTokenView, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token, expiration, err := s.issueRecoveryToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.RecoveryTokenView{
		ID:                                  user.ID,
		RecoveryPasswordToken:               &token,
		RecoveryPasswordTokenExpirationDate: &expiration,
	}, nil
}

func (s *UserService) issueRecoveryToken(ctx context.Context, userID string) (string, time.Time, error) {
	token := uuid.NewString()
	expiration := time.Now().Add(config.AppConfig.RecoveryTokenTTL)
	if err := s.userRepo.SetRecoveryToken(ctx, userID, token, expiration); err != nil {
		return "", time.Time{}, err
	}
	return token, expiration, nil
}
