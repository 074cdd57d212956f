package personalize

import (
	"travel-assistant/logger"
	"travel-assistant/models/interest"
	spotModel "travel-assistant/models/spot"
	"travel-assistant/services/assistant"
	"travel-assistant/services/recommend"
	"travel-assistant/types"
	personalizeTypes "travel-assistant/types/personalize"

	"github.com/gofiber/fiber/v2"
)

// Recommendations filters the spot catalog around the user's position. When
// the request names no interests, the user's saved preferences apply.
func (pc *PersonalizeController) Recommendations(c *fiber.Ctx) error {
	account, err := pc.currentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var req personalizeTypes.RecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse recommendation body", err)
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

	if len(req.Preferences) == 0 {
		var saved []interest.Interest
		if err := pc.db.Model(account).Association("Preferences").Find(&saved); err == nil {
			for _, tag := range saved {
				req.Preferences = append(req.Preferences, tag.ID)
			}
		}
	}

	var catalog []spotModel.Spot
	if err := pc.db.Preload("Tags").Order("id").Find(&catalog).Error; err != nil {
		logger.Error("Failed to load spot catalog", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load recommendations",
			Data:    nil,
		})
	}

	results := recommend.Filter(catalog, &req)

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Recommendations retrieved successfully",
		Data: map[string]interface{}{
			"count":   len(results),
			"results": results,
		},
	})
}

// SuggestDayPlans generates an AI day-by-day plan for one itinerary, guided
// by the user's saved interests.
func (pc *PersonalizeController) SuggestDayPlans(c *fiber.Ctx) error {
	account, err := pc.currentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	it, err := pc.loadOwnedItinerary(c, account.ID)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Itinerary not found",
			Data:    nil,
		})
	}

	var interests []string
	var saved []interest.Interest
	if err := pc.db.Model(account).Association("Preferences").Find(&saved); err == nil {
		for _, tag := range saved {
			interests = append(interests, tag.Name)
		}
	}

	suggestion, err := assistant.SuggestDayPlans(c.Context(), it, interests)
	if err != nil {
		logger.Error("Failed to generate day plan suggestion", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadGateway, types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Failed to generate suggestions",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Suggestions generated successfully",
		Data:    suggestion,
	})
}
