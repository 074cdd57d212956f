package user

import (
	"encoding/json"
	"errors"

	"travel-assistant/logger"
	userModel "travel-assistant/models/user"
	"travel-assistant/services/challenge"
	"travel-assistant/types"
	userTypes "travel-assistant/types/user"
	"travel-assistant/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequestEmailChange starts the verified email change: the current password
// is re-checked and a code is sent to the NEW address, proving the user
// controls it before anything is stored.
func (uc *UserController) RequestEmailChange(c *fiber.Ctx) error {
	account, err := uc.currentUser(c)
	if err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var req userTypes.EmailChangeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse email change body", err)
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, account.PasswordHash) {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Current password is incorrect",
			Data:    nil,
		})
	}

	var count int64
	uc.db.Model(&userModel.User{}).Where("LOWER(email) = LOWER(?) AND id != ?", req.NewEmail, account.ID).Count(&count)
	if count > 0 {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "User with this email already exists",
			Data:    nil,
		})
	}

	pending := userTypes.PendingEmailChange{NewEmail: req.NewEmail}
	session := utils.ChallengeSession(c)
	_, err = uc.challenges.Initiate(c.Context(), session, challenge.PurposeEmailChange, req.NewEmail, pending)
	if err != nil {
		logger.Error("Failed to initiate email change challenge", err)
		if errors.Is(err, challenge.ErrDelivery) {
			return uc.sendResponseWithLog(c, fiber.StatusBadGateway, types.ApiResponse{
				Status:  fiber.StatusBadGateway,
				Message: "Failed to send verification email. Please try again.",
				Data:    nil,
			})
		}
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process email change",
			Data:    nil,
		})
	}

	logger.Success("Email change OTP sent to " + req.NewEmail)
	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "OTP sent to your new email address",
		Data:    map[string]interface{}{"new_email": req.NewEmail},
	})
}

// VerifyEmailChange checks the code sent to the new address and applies the
// change. The previous address gets a best-effort notice afterwards.
func (uc *UserController) VerifyEmailChange(c *fiber.Ctx) error {
	account, err := uc.currentUser(c)
	if err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var req userTypes.EmailChangeVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse email change verify body", err)
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	session := utils.ChallengeSession(c)
	ch, err := uc.challenges.Peek(c.Context(), session, challenge.PurposeEmailChange)
	if err != nil || ch == nil {
		status, message := fiber.StatusBadRequest, "No pending verification found. Please start over."
		return uc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: message,
			Data:    nil,
		})
	}

	// The code was sent to the pending new address, so verify against it.
	if _, err := uc.challenges.Verify(c.Context(), session, challenge.PurposeEmailChange, ch.Email, req.OTP); err != nil {
		status := fiber.StatusBadRequest
		message := "Invalid OTP"
		if errors.Is(err, challenge.ErrExpired) {
			message = "OTP has expired. Please request a new one."
		}
		return uc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: message,
			Data:    nil,
		})
	}

	var pending userTypes.PendingEmailChange
	if err := json.Unmarshal(ch.Payload, &pending); err != nil || pending.NewEmail == "" {
		logger.Error("Failed to decode pending email change payload", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to change email",
			Data:    nil,
		})
	}

	oldEmail := account.Email
	err = uc.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&userModel.User{}).Where("LOWER(email) = LOWER(?) AND id != ?", pending.NewEmail, account.ID).Count(&count)
		if count > 0 {
			return errors.New("user with this email already exists")
		}
		return tx.Model(account).Update("email", pending.NewEmail).Error
	})
	if err != nil {
		logger.Error("Failed to update email", err)
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	if err := uc.challenges.Consume(c.Context(), session, challenge.PurposeEmailChange); err != nil {
		logger.Warning("Failed to consume email change challenge: " + err.Error())
	}

	// The change is committed; the notice to the old address must not block
	// or fail the request.
	go func(oldAddr, newAddr string) {
		if err := uc.mail.SendEmailChangeNotice(oldAddr, newAddr); err != nil {
			logger.Warning("Failed to notify previous email " + oldAddr + ": " + err.Error())
		}
	}(oldEmail, pending.NewEmail)

	logger.Success("Email changed from " + oldEmail + " to " + pending.NewEmail)
	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Email address updated successfully",
		Data:    map[string]interface{}{"email": pending.NewEmail},
	})
}
