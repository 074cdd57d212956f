package auth

import (
	"errors"

	"travel-assistant/logger"
	userModel "travel-assistant/models/user"
	"travel-assistant/services/challenge"
	"travel-assistant/types"
	authTypes "travel-assistant/types/auth"
	"travel-assistant/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PasswordResetRequest starts the three-step reset flow by emailing a code
// to an existing account.
func (h *AuthController) PasswordResetRequest(c *fiber.Ctx) error {
	var req authTypes.PasswordResetRequestRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse reset request body", err)
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	account, err := utils.GetUserByEmail(req.Email)
	if err != nil || !account.IsActive {
		return h.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "No account found with this email",
			Data:    nil,
		})
	}

	session := utils.ChallengeSession(c)
	_, err = h.challenges.Initiate(c.Context(), session, challenge.PurposePasswordReset, account.Email, nil)
	if err != nil {
		logger.Error("Failed to initiate password reset challenge", err)
		if errors.Is(err, challenge.ErrDelivery) {
			return h.sendResponseWithLog(c, fiber.StatusBadGateway, types.ApiResponse{
				Status:  fiber.StatusBadGateway,
				Message: "Failed to send reset email. Please try again.",
				Data:    nil,
			})
		}
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process reset request",
			Data:    nil,
		})
	}

	logger.Success("Password reset OTP sent to " + account.Email)
	return h.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "OTP sent to your email",
		Data:    map[string]interface{}{"email": account.Email},
	})
}

// PasswordResetVerify checks the emailed code and unlocks the final
// set-new-password call for this session.
func (h *AuthController) PasswordResetVerify(c *fiber.Ctx) error {
	var req authTypes.PasswordResetVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse reset verify body", err)
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	session := utils.ChallengeSession(c)
	if _, err := h.challenges.Verify(c.Context(), session, challenge.PurposePasswordReset, req.Email, req.OTP); err != nil {
		status, message := challengeErrorResponse(err)
		return h.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: message,
			Data:    nil,
		})
	}

	if err := h.challenges.MarkResetVerified(c.Context(), session); err != nil {
		logger.Error("Failed to mark reset session verified", err)
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to verify OTP",
			Data:    nil,
		})
	}

	return h.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "OTP verified. You can now set a new password.",
		Data:    nil,
	})
}

// PasswordResetConfirm sets the new password. Only sessions that passed the
// code check may reach the mutation; all reset state is flushed afterwards.
func (h *AuthController) PasswordResetConfirm(c *fiber.Ctx) error {
	var req authTypes.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse reset confirm body", err)
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	session := utils.ChallengeSession(c)
	verified, err := h.challenges.IsResetVerified(c.Context(), session)
	if err != nil {
		logger.Error("Failed to read reset verification state", err)
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to reset password",
			Data:    nil,
		})
	}
	if !verified {
		return h.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "OTP verification is required before resetting the password",
			Data:    nil,
		})
	}

	ch, err := h.challenges.Peek(c.Context(), session, challenge.PurposePasswordReset)
	if err != nil || ch == nil {
		return h.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Reset session has expired. Please start over.",
			Data:    nil,
		})
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash new password", err)
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to reset password",
			Data:    nil,
		})
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var account userModel.User
		if err := tx.Where("LOWER(email) = LOWER(?)", ch.Email).First(&account).Error; err != nil {
			return err
		}
		return tx.Model(&account).Update("password_hash", passwordHash).Error
	})
	if err != nil {
		logger.Error("Failed to update password", err)
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to reset password",
			Data:    nil,
		})
	}

	if err := h.challenges.Flush(c.Context(), session); err != nil {
		logger.Warning("Failed to flush reset session: " + err.Error())
	}

	logger.Success("Password reset completed for " + ch.Email)
	return h.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Password has been reset successfully",
		Data:    nil,
	})
}
