package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequestStepDetection(t *testing.T) {
	t.Parallel()

	req := SignupRequest{Username: "alice", Email: "alice@example.com"}
	assert.False(t, req.IsVerificationStep())

	req.OTP = "123456"
	assert.True(t, req.IsVerificationStep())
}

func TestSignupRequestValidateInitial(t *testing.T) {
	t.Parallel()

	req := SignupRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "sup3rsecret",
		ConfirmPassword: "sup3rsecret",
	}
	assert.NoError(t, req.ValidateInitial())

	req.ConfirmPassword = "different"
	assert.Error(t, req.ValidateInitial())

	req = SignupRequest{Email: "alice@example.com", Password: "sup3rsecret", ConfirmPassword: "sup3rsecret"}
	assert.Error(t, req.ValidateInitial(), "username is required")

	req = SignupRequest{Username: "alice", Email: "not-an-email", Password: "sup3rsecret", ConfirmPassword: "sup3rsecret"}
	assert.Error(t, req.ValidateInitial())

	req = SignupRequest{Username: "alice", Email: "alice@example.com", Password: "short", ConfirmPassword: "short"}
	assert.Error(t, req.ValidateInitial(), "password must be at least 8 characters")
}

func TestSignupRequestValidateVerification(t *testing.T) {
	t.Parallel()

	req := SignupRequest{Email: "alice@example.com", OTP: "123456"}
	assert.NoError(t, req.ValidateVerification())

	req = SignupRequest{OTP: "123456"}
	assert.Error(t, req.ValidateVerification())

	req = SignupRequest{Email: "alice@example.com"}
	assert.Error(t, req.ValidateVerification())
}

func TestPasswordResetConfirmRequestValidate(t *testing.T) {
	t.Parallel()

	req := PasswordResetConfirmRequest{Password: "n3wpassword", ConfirmPassword: "n3wpassword"}
	assert.NoError(t, req.Validate())

	req.ConfirmPassword = "different"
	assert.Error(t, req.Validate())

	req = PasswordResetConfirmRequest{Password: "short", ConfirmPassword: "short"}
	assert.Error(t, req.Validate())
}

func TestPasswordResetVerifyRequestValidate(t *testing.T) {
	t.Parallel()

	req := PasswordResetVerifyRequest{Email: "alice@example.com", OTP: "123456"}
	assert.NoError(t, req.Validate())

	req.OTP = "1234"
	assert.Error(t, req.Validate(), "otp must be exactly 6 digits")

	req = PasswordResetVerifyRequest{OTP: "123456"}
	assert.Error(t, req.Validate())
}
