package models

import (
	"time"

	"storefront/internal/common"
)

// DefaultUserType is stored when a user is created without a user_type
const DefaultUserType = "default"

type User struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          *string   `json:"email" db:"email"`
	FullName       *string   `json:"full_name" db:"full_name"`
	UserType       string    `json:"user_type" db:"user_type"`
	HashedPassword string    `json:"-" db:"hashed_password"` // Never serialize in JSON
	CreatedBy      *int64    `json:"created_by" db:"created_by"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the user record plus an access token
type LoginResponse struct {
	*User
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,max=150"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,max=254,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=254"`
	UserType *string `json:"user_type" validate:"omitempty,max=50"`
}

// UpdateUserRequest is the body of PUT /api/users/:id.
// Only the keys present in the body are applied.
type UpdateUserRequest struct {
	Username common.Optional[*string] `json:"username"`
	Password common.Optional[*string] `json:"password"`
	Email    common.Optional[*string] `json:"email"`
	FullName common.Optional[*string] `json:"full_name"`
	UserType common.Optional[*string] `json:"user_type"`
}

// UserChanges is the set of columns a partial update writes
type UserChanges struct {
	Username       common.Optional[string]
	Email          common.Optional[*string]
	FullName       common.Optional[*string]
	UserType       common.Optional[string]
	HashedPassword common.Optional[string]
}

// Empty reports whether no column would be written
func (c UserChanges) Empty() bool {
	return !c.Username.Set && !c.Email.Set && !c.FullName.Set && !c.UserType.Set && !c.HashedPassword.Set
}
