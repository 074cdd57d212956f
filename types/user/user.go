package user

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ProfileResponse is the read shape for the profile endpoint. Email and id
// are immutable through the profile update path.
type ProfileResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ProfileUpdateRequest struct {
	Username  string `json:"username" validate:"omitempty,min=3,max=255"`
	FirstName string `json:"first_name" validate:"omitempty,max=255"`
	LastName  string `json:"last_name" validate:"omitempty,max=255"`
}

func (r *ProfileUpdateRequest) Validate() error {
	return validate.Struct(r)
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}

func (r *ChangePasswordRequest) Validate() error {
	if r.NewPassword != r.ConfirmNewPassword {
		return fmt.Errorf("passwords do not match")
	}
	return validate.Struct(r)
}

type EmailChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewEmail        string `json:"new_email" validate:"required,email"`
}

func (r *EmailChangeRequest) Validate() error {
	return validate.Struct(r)
}

type EmailChangeVerifyRequest struct {
	OTP string `json:"otp" validate:"required,len=6"`
}

func (r *EmailChangeVerifyRequest) Validate() error {
	return validate.Struct(r)
}

// PendingEmailChange is the challenge payload between the two email-change calls.
type PendingEmailChange struct {
	NewEmail string `json:"new_email"`
}
