package payment

import (
	"errors"
	"time"

	"travel-assistant/logger"
	subscriptionModel "travel-assistant/models/subscription"
	"travel-assistant/types"
	paymentTypes "travel-assistant/types/payment"
	"travel-assistant/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// webhookDedupTTL is how long processed provider event ids are remembered.
const webhookDedupTTL = 24 * time.Hour

type PaymentController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
	redis          *redis.Client
}

func NewPaymentController(db *gorm.DB, asyncLogger *logger.AsyncLogger, redisClient *redis.Client) *PaymentController {
	return &PaymentController{
		db:             db,
		loggerInstance: asyncLogger,
		redis:          redisClient,
	}
}

func (pc *PaymentController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	pc.loggerInstance.Log(logEntry)
}

func (pc *PaymentController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

// SubscriptionStatus reports the caller's current plan. No subscription row
// means the free plan.
func (pc *PaymentController) SubscriptionStatus(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var sub subscriptionModel.Subscription
	err = pc.db.Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Subscription status retrieved",
			Data: paymentTypes.SubscriptionStatusResponse{
				Plan:      string(subscriptionModel.PlanFree),
				Status:    string(subscriptionModel.StatusActive),
				IsPremium: false,
			},
		})
	}
	if err != nil {
		logger.Error("Failed to load subscription", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load subscription",
			Data:    nil,
		})
	}

	resp := paymentTypes.SubscriptionStatusResponse{
		Plan:      string(sub.Plan),
		Status:    string(sub.Status),
		IsPremium: sub.IsPremium(),
	}
	if sub.CurrentPeriodEnd != nil {
		resp.CurrentPeriodEnd = sub.CurrentPeriodEnd.Format(time.RFC3339)
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Subscription status retrieved",
		Data:    resp,
	})
}

// UpgradePlan opens a pending premium subscription. Activation happens when
// the provider confirms payment through the webhook.
func (pc *PaymentController) UpgradePlan(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var req paymentTypes.UpgradePlanRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse upgrade body", err)
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

	var sub subscriptionModel.Subscription
	err = pc.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sub = subscriptionModel.Subscription{
				UserID: userID,
				Plan:   subscriptionModel.PlanPremium,
				Status: subscriptionModel.StatusPending,
			}
			return tx.Create(&sub).Error
		}
		if err != nil {
			return err
		}
		if sub.IsPremium() {
			return errors.New("subscription is already active")
		}
		return tx.Model(&sub).Updates(map[string]interface{}{
			"plan":   subscriptionModel.PlanPremium,
			"status": subscriptionModel.StatusPending,
		}).Error
	})
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	logger.Success("Premium upgrade initiated for user")
	return pc.sendResponseWithLog(c, fiber.StatusAccepted, types.ApiResponse{
		Status:  fiber.StatusAccepted,
		Message: "Upgrade initiated. Your plan activates once payment is confirmed.",
		Data: paymentTypes.SubscriptionStatusResponse{
			Plan:      string(sub.Plan),
			Status:    string(subscriptionModel.StatusPending),
			IsPremium: false,
		},
	})
}

// ProviderWebhook applies billing events from the payment provider. Events
// are deduplicated by id so provider retries cannot double-apply.
func (pc *PaymentController) ProviderWebhook(c *fiber.Ctx) error {
	var event paymentTypes.WebhookEvent
	if err := c.BodyParser(&event); err != nil {
		logger.Error("Failed to parse webhook body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := event.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	// SETNX marks the event id before processing; a second delivery sees the
	// mark and acknowledges without acting.
	fresh, err := pc.redis.SetNX(c.Context(), "webhook:event:"+event.ID, "1", webhookDedupTTL).Result()
	if err != nil {
		logger.Error("Failed to deduplicate webhook event", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process event",
			Data:    nil,
		})
	}
	if !fresh {
		return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Event already processed",
			Data:    nil,
		})
	}

	if err := pc.applyEvent(&event); err != nil {
		// Drop the dedup mark so the provider's retry can re-apply.
		pc.redis.Del(c.Context(), "webhook:event:"+event.ID)
		logger.Error("Failed to apply webhook event "+event.ID, err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process event",
			Data:    nil,
		})
	}

	logger.Success("Webhook event processed: " + event.Type)
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Event processed",
		Data:    nil,
	})
}

func (pc *PaymentController) applyEvent(event *paymentTypes.WebhookEvent) error {
	return pc.db.Transaction(func(tx *gorm.DB) error {
		var sub subscriptionModel.Subscription
		if err := tx.Where("user_id = ?", event.Data.UserID).First(&sub).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		switch event.Type {
		case "subscription.activated":
			updates["status"] = subscriptionModel.StatusActive
			updates["plan"] = subscriptionModel.PlanPremium
			if event.Data.PeriodEnd > 0 {
				periodEnd := time.Unix(event.Data.PeriodEnd, 0)
				updates["current_period_end"] = &periodEnd
			}
			// Provider identifiers are encrypted at rest.
			if event.Data.CustomerID != "" {
				encrypted, err := utils.EncryptData(event.Data.CustomerID)
				if err != nil {
					return err
				}
				updates["provider_customer_id"] = encrypted
			}
			if event.Data.SubscriptionID != "" {
				encrypted, err := utils.EncryptData(event.Data.SubscriptionID)
				if err != nil {
					return err
				}
				updates["provider_subscription_id"] = encrypted
			}
		case "subscription.payment_failed":
			updates["status"] = subscriptionModel.StatusPastDue
		case "subscription.canceled":
			updates["status"] = subscriptionModel.StatusCanceled
			updates["plan"] = subscriptionModel.PlanFree
		default:
			// Unknown event types are acknowledged without action.
			return nil
		}

		return tx.Model(&sub).Updates(updates).Error
	})
}
