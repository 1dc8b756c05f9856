package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/caching"
	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
)

const (
	MsgUsernameNotFound  = "User not found with this username."
	MsgWrongPassword     = "Password is wrong."
	MsgUsernameTaken     = "There is already another user with this username."
	MsgEmailTaken        = "There is already another user with this email."
	MsgUserIDNotFound    = "User not found with this id."
	MsgProtectedUser     = "You are not allowed to delete protected users."
	MsgTooManyAttempts   = "Too many failed login attempts, try again later."
	msgFieldMayNotBeNull = "%s: may not be null"
)

type UserService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Create(ctx context.Context, req models.CreateUserRequest, createdBy *int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	repo      repositories.UserRepository
	hasher    PasswordHasher
	tokens    TokenService
	limiter   caching.LoginLimiter
	protected map[int64]struct{}
	validate  *validator.Validate
	log       *slog.Logger
}

func NewUserService(repo repositories.UserRepository, hasher PasswordHasher, tokens TokenService, limiter caching.LoginLimiter, protectedIDs []int64, log *slog.Logger) UserService {
	protected := make(map[int64]struct{}, len(protectedIDs))
	for _, id := range protectedIDs {
		protected[id] = struct{}{}
	}
	return &userService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		limiter:   limiter,
		protected: protected,
		validate:  common.NewValidator(),
		log:       log,
	}
}

func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	// Limiter errors are logged by the limiter and do not block the login
	if allowed, _ := s.limiter.Allow(ctx, req.Username); !allowed {
		return nil, common.TooManyRequests(MsgTooManyAttempts)
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(MsgUsernameNotFound)
		}
		return nil, fmt.Errorf("failed to load user %q: %w", req.Username, err)
	}

	if !s.hasher.Verify(req.Password, user.HashedPassword) {
		if err := s.limiter.RecordFailure(ctx, req.Username); err != nil {
			s.log.WarnContext(ctx, "failed to record login failure", slog.String("username", req.Username), slog.String("error", err.Error()))
		}
		return nil, common.Unauthorized(MsgWrongPassword)
	}

	if err := s.limiter.Reset(ctx, req.Username); err != nil {
		s.log.WarnContext(ctx, "failed to reset login failures", slog.String("username", req.Username), slog.String("error", err.Error()))
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))
	return &models.LoginResponse{
		User:        user,
		AccessToken: token,
		TokenType:   TokenTypeBearer,
	}, nil
}

func (s *userService) Create(ctx context.Context, req models.CreateUserRequest, createdBy *int64) (*models.User, error) {
	email := normalizeEmail(req.Email)

	if err := s.ensureUsernameFree(ctx, req.Username, 0); err != nil {
		return nil, err
	}
	if email != nil {
		if err := s.ensureEmailFree(ctx, *email, 0); err != nil {
			return nil, err
		}
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	userType := models.DefaultUserType
	if req.UserType != nil && *req.UserType != "" {
		userType = *req.UserType
	}

	user := &models.User{
		Username:       req.Username,
		Email:          email,
		FullName:       req.FullName,
		UserType:       userType,
		HashedPassword: hashed,
		CreatedBy:      createdBy,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, translateWriteError(err)
	}

	s.log.InfoContext(ctx, "user created", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(MsgUserIDNotFound)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	changes, err := s.buildChanges(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if changes.Username.Set {
		if err := s.ensureUsernameFree(ctx, changes.Username.Value, id); err != nil {
			return nil, err
		}
	}
	if changes.Email.Set && changes.Email.Value != nil {
		if err := s.ensureEmailFree(ctx, *changes.Email.Value, id); err != nil {
			return nil, err
		}
	}
	if req.Password.Set {
		hashed, err := s.hasher.Hash(*req.Password.Value)
		if err != nil {
			return nil, err
		}
		changes.HashedPassword = common.Some(hashed)
	}

	user, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if _, ok := s.protected[id]; ok {
		return common.Forbidden(MsgProtectedUser)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NotFound(MsgUserIDNotFound)
		}
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	s.log.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))
	return nil
}

// buildChanges validates the present fields of req. The password is
// validated here but hashed by the caller.
func (s *userService) buildChanges(req models.UpdateUserRequest) (models.UserChanges, error) {
	var changes models.UserChanges

	if req.Username.Set {
		if req.Username.Value == nil {
			return changes, common.Validation(msgFieldMayNotBeNull, "username")
		}
		if err := common.ValidateField(s.validate, "username", *req.Username.Value, "required,max=150"); err != nil {
			return changes, err
		}
		changes.Username = common.Some(*req.Username.Value)
	}

	if req.Password.Set {
		if req.Password.Value == nil {
			return changes, common.Validation(msgFieldMayNotBeNull, "password")
		}
		if err := common.ValidateField(s.validate, "password", *req.Password.Value, "required"); err != nil {
			return changes, err
		}
	}

	if req.Email.Set {
		email := normalizeEmail(req.Email.Value)
		if email != nil {
			if err := common.ValidateField(s.validate, "email", *email, "max=254,email"); err != nil {
				return changes, err
			}
		}
		changes.Email = common.Some(email)
	}

	if req.FullName.Set {
		if req.FullName.Value != nil {
			if err := common.ValidateField(s.validate, "full_name", *req.FullName.Value, "max=254"); err != nil {
				return changes, err
			}
		}
		changes.FullName = common.Some(req.FullName.Value)
	}

	if req.UserType.Set {
		if req.UserType.Value == nil {
			return changes, common.Validation(msgFieldMayNotBeNull, "user_type")
		}
		if err := common.ValidateField(s.validate, "user_type", *req.UserType.Value, "required,max=50"); err != nil {
			return changes, err
		}
		changes.UserType = common.Some(*req.UserType.Value)
	}

	return changes, nil
}

// ensureUsernameFree fails when another user than self holds username.
// self is zero on create.
func (s *userService) ensureUsernameFree(ctx context.Context, username string, self int64) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check username: %w", err)
	case existing.ID != self:
		return common.Conflict(MsgUsernameTaken)
	}
	return nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, self int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check email: %w", err)
	case existing.ID != self:
		return common.Conflict(MsgEmailTaken)
	}
	return nil
}

// translateWriteError maps constraint races surfaced by the database
func translateWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateUsername):
		return common.Conflict(MsgUsernameTaken)
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return common.Conflict(MsgEmailTaken)
	case errors.Is(err, repositories.ErrNotFound):
		return common.NotFound(MsgUserIDNotFound)
	default:
		return fmt.Errorf("failed to write user: %w", err)
	}
}

// normalizeEmail treats an empty email as absent
func normalizeEmail(email *string) *string {
	if email == nil || *email == "" {
		return nil
	}
	return email
}
