package user

import (
	httpServices "travel-assistant/httpServices/mail"
	"travel-assistant/logger"
	userModel "travel-assistant/models/user"
	"travel-assistant/services/challenge"
	"travel-assistant/types"
	userTypes "travel-assistant/types/user"
	"travel-assistant/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
	challenges     *challenge.Manager
	mail           *httpServices.MailClient
}

func NewUserController(db *gorm.DB, asyncLogger *logger.AsyncLogger, challenges *challenge.Manager, mail *httpServices.MailClient) *UserController {
	return &UserController{
		db:             db,
		loggerInstance: asyncLogger,
		challenges:     challenges,
		mail:           mail,
	}
}

func (uc *UserController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	uc.loggerInstance.Log(logEntry)
}

func (uc *UserController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	uc.logAPIRequest(c)
	return result
}

func (uc *UserController) currentUser(c *fiber.Ctx) (*userModel.User, error) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return nil, err
	}
	return utils.GetUserByID(userID)
}

func profileResponse(account *userModel.User) userTypes.ProfileResponse {
	return userTypes.ProfileResponse{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}
}

// GetProfile returns the authenticated user's profile.
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	account, err := uc.currentUser(c)
	if err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    profileResponse(account),
	})
}

// UpdateProfile updates the mutable profile fields. Email changes go through
// the dedicated verified flow instead.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	account, err := uc.currentUser(c)
	if err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var req userTypes.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse profile update body", err)
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

	updates := map[string]interface{}{}
	if req.Username != "" && req.Username != account.Username {
		var count int64
		uc.db.Model(&userModel.User{}).Where("username = ? AND id != ?", req.Username, account.ID).Count(&count)
		if count > 0 {
			return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "User with this username already exists",
				Data:    nil,
			})
		}
		updates["username"] = req.Username
	}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}

	if len(updates) > 0 {
		if err := uc.db.Model(account).Updates(updates).Error; err != nil {
			logger.Error("Failed to update profile", err)
			return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to update profile",
				Data:    nil,
			})
		}
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Profile updated successfully",
		Data:    profileResponse(account),
	})
}

// ChangePassword updates the password for a signed-in user after checking
// the current one.
func (uc *UserController) ChangePassword(c *fiber.Ctx) error {
	account, err := uc.currentUser(c)
	if err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var req userTypes.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse change password body", err)
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

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to change password",
			Data:    nil,
		})
	}

	if err := uc.db.Model(account).Update("password_hash", passwordHash).Error; err != nil {
		logger.Error("Failed to update password", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to change password",
			Data:    nil,
		})
	}

	logger.Success("Password changed for " + account.Email)
	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Password changed successfully",
		Data:    nil,
	})
}
