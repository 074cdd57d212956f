package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SignupRequest covers both signup calls: step one omits OTP, step two
// carries the otp field together with the email it was sent to.
type SignupRequest struct {
	Username        string `json:"username" validate:"omitempty,min=3,max=255"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"omitempty,min=8"`
	ConfirmPassword string `json:"confirm_password"`
	OTP             string `json:"otp"`
}

// IsVerificationStep reports whether this request is the OTP verification call.
func (r *SignupRequest) IsVerificationStep() bool {
	return r.OTP != ""
}

// ValidateInitial checks the first signup call.
func (r *SignupRequest) ValidateInitial() error {
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if r.Password != r.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}
	return validate.Struct(r)
}

// ValidateVerification checks the second signup call.
func (r *SignupRequest) ValidateVerification() error {
	if r.Email == "" {
		return fmt.Errorf("email is required for verification")
	}
	if r.OTP == "" {
		return fmt.Errorf("otp is required for verification")
	}
	return nil
}

// PendingSignup is the challenge payload stored between the two signup calls.
// The password is already hashed when it enters the payload.
type PendingSignup struct {
	Username     string `json:"username" validate:"required,min=3,max=255"`
	Email        string `json:"email" validate:"required,email"`
	PasswordHash string `json:"password_hash" validate:"required"`
}

func (p *PendingSignup) Validate() error {
	return validate.Struct(p)
}

type TokenObtainRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *TokenObtainRequest) Validate() error {
	return validate.Struct(r)
}

type TokenRefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

func (r *TokenRefreshRequest) Validate() error {
	return validate.Struct(r)
}

type SocialSignInRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"omitempty,max=255"`
	LastName  string `json:"last_name" validate:"omitempty,max=255"`
}

func (r *SocialSignInRequest) Validate() error {
	return validate.Struct(r)
}

type PasswordResetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *PasswordResetRequestRequest) Validate() error {
	return validate.Struct(r)
}

type PasswordResetVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

func (r *PasswordResetVerifyRequest) Validate() error {
	return validate.Struct(r)
}

type PasswordResetConfirmRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (r *PasswordResetConfirmRequest) Validate() error {
	if r.Password != r.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}
	return validate.Struct(r)
}

type LogoutRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

func (r *LogoutRequest) Validate() error {
	return validate.Struct(r)
}

// TokenPairResponse is returned by token obtain, refresh and social sign-in.
type TokenPairResponse struct {
	Access  string      `json:"access_token"`
	Refresh string      `json:"refresh_token"`
	User    interface{} `json:"user_data,omitempty"`
}
