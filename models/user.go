package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. Guest accounts get a synthetic email
// and no password hash; Google sign-in fills GoogleID and profile fields.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	GoogleID     *string   `json:"-"`
	DisplayName  *string   `json:"displayName,omitempty"`
	PhotoURL     *string   `json:"photoUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// AuthResponse is returned by every token-issuing endpoint.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName,omitempty"`
	PhotoURL    *string   `json:"photoUrl,omitempty"`
	IsGuest     bool      `json:"isGuest,omitempty"`
}
