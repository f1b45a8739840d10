package models

import (
	"io"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest holds the fields needed to open an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     Role   `json:"role" validate:"required,oneof=student teacher"`
	Bio      string `json:"bio" validate:"max=500"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued access token and user info.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

// UpdateProfileRequest changes the mutable profile fields. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Bio            *string     `json:"bio" form:"bio" validate:"omitempty,max=500"`
	ProfilePicture *FileUpload `json:"-" form:"-"`
}

// FileUpload describes a file received from a multipart form.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts verified claims into the caller identity.
func (c *JWTClaims) Principal() *Principal {
	if c == nil {
		return nil
	}
	return &Principal{UserID: c.UserID, Username: c.Username, Role: c.Role}
}
