package domain

import (
	"regexp"
	"strings"
	"time"
)

// User is the identity record. The password hash and the verification
// code fields never leave the API; email matching is exact and
// case-sensitive throughout.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"fullname"`
	IsVerified   bool       `json:"is_verified"`
	IsAdmin      bool       `json:"is_admin"`
	CodeHash     *string    `json:"-"`
	CodeIssuedAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasActiveCode reports whether a verification code has been requested
// and not yet consumed.
func (u *User) HasActiveCode() bool {
	return u.CodeHash != nil && u.CodeIssuedAt != nil
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type SendCodeRequest struct {
	Email string `json:"email"`
}

type VerifyCodeRequest struct {
	Email        string `json:"email"`
	ProvidedCode string `json:"provided_code"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Normalize trims surrounding whitespace. Emails keep their case: the
// store matches them exactly as given.
func (r *SignupRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
}

func (r *SignupRequest) Validate() error {
	if r.Email == "" {
		return Validationf("email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return Validationf("invalid email format")
	}
	if r.Password == "" {
		return Validationf("password is required")
	}
	if len(r.Password) < 8 {
		return Validationf("password must be at least 8 characters")
	}
	if r.FullName == "" {
		return Validationf("fullname is required")
	}
	return nil
}

func (r *SigninRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *SigninRequest) Validate() error {
	if r.Email == "" {
		return Validationf("email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return Validationf("invalid email format")
	}
	if r.Password == "" {
		return Validationf("password is required")
	}
	return nil
}

func (r *SendCodeRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *SendCodeRequest) Validate() error {
	if r.Email == "" {
		return Validationf("email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return Validationf("invalid email format")
	}
	return nil
}

func (r *VerifyCodeRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.ProvidedCode = strings.TrimSpace(r.ProvidedCode)
}

func (r *VerifyCodeRequest) Validate() error {
	if r.Email == "" {
		return Validationf("email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return Validationf("invalid email format")
	}
	if r.ProvidedCode == "" {
		return Validationf("provided_code is required")
	}
	return nil
}
