package personalize

import (
	"travel-assistant/logger"
	"travel-assistant/models/interest"
	userModel "travel-assistant/models/user"
	"travel-assistant/types"
	personalizeTypes "travel-assistant/types/personalize"
	"travel-assistant/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PersonalizeController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewPersonalizeController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *PersonalizeController {
	return &PersonalizeController{
		db:             db,
		loggerInstance: asyncLogger,
	}
}

func (pc *PersonalizeController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	pc.loggerInstance.Log(logEntry)
}

func (pc *PersonalizeController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

func (pc *PersonalizeController) currentUser(c *fiber.Ctx) (*userModel.User, error) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return nil, err
	}
	return utils.GetUserByID(userID)
}

// ListInterests returns the full interest catalog for the onboarding picker.
func (pc *PersonalizeController) ListInterests(c *fiber.Ctx) error {
	var interests []interest.Interest
	if err := pc.db.Order("id").Find(&interests).Error; err != nil {
		logger.Error("Failed to load interests", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load interests",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Interests retrieved successfully",
		Data:    interests,
	})
}

// GetPreferences returns the user's saved interest tags.
func (pc *PersonalizeController) GetPreferences(c *fiber.Ctx) error {
	account, err := pc.currentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var preferences []interest.Interest
	if err := pc.db.Model(account).Association("Preferences").Find(&preferences); err != nil {
		logger.Error("Failed to load preferences", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load preferences",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Preferences retrieved successfully",
		Data:    preferences,
	})
}

// CreatePreferences saves the initial interest selection. Conflicts when the
// user already picked; updates go through UpdatePreferences.
func (pc *PersonalizeController) CreatePreferences(c *fiber.Ctx) error {
	return pc.savePreferences(c, false)
}

// UpdatePreferences replaces the interest selection.
func (pc *PersonalizeController) UpdatePreferences(c *fiber.Ctx) error {
	return pc.savePreferences(c, true)
}

func (pc *PersonalizeController) savePreferences(c *fiber.Ctx, replace bool) error {
	account, err := pc.currentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var req personalizeTypes.PreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse preference body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	existingCount := pc.db.Model(account).Association("Preferences").Count()
	if !replace && existingCount > 0 {
		return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Preferences already exist. Use the update endpoint instead.",
			Data:    nil,
		})
	}

	var interests []interest.Interest
	if err := pc.db.Where("id IN ?", req.Preferences).Find(&interests).Error; err != nil {
		logger.Error("Failed to load selected interests", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save preferences",
			Data:    nil,
		})
	}
	if len(interests) != len(req.Preferences) {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "One or more selected interests do not exist",
			Data:    nil,
		})
	}

	if err := pc.db.Model(account).Association("Preferences").Replace(interests); err != nil {
		logger.Error("Failed to save preferences", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save preferences",
			Data:    nil,
		})
	}

	status := fiber.StatusOK
	message := "Preferences updated successfully"
	if !replace {
		status = fiber.StatusCreated
		message = "Preferences saved successfully"
	}

	return pc.sendResponseWithLog(c, status, types.ApiResponse{
		Status:  status,
		Message: message,
		Data:    interests,
	})
}
