package routes

import (
	"os"

	"travel-assistant/controllers/auth"
	"travel-assistant/controllers/payment"
	"travel-assistant/controllers/personalize"
	"travel-assistant/controllers/user"
	"travel-assistant/database"
	httpServices "travel-assistant/httpServices/mail"
	"travel-assistant/logger"
	"travel-assistant/middleware"
	"travel-assistant/services/challenge"
	tokenService "travel-assistant/services/token"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	mailClient := httpServices.NewMailClient()
	challenges := challenge.NewManager(challenge.NewRedisStore(database.Redis), mailClient)
	tokens := tokenService.NewService(os.Getenv("JWT_SECRET"), tokenService.NewRedisBlacklist(database.Redis))

	asyncLogger := logger.NewAsyncLogger(db)
	authController := auth.NewAuthController(db, asyncLogger, challenges, tokens)
	userController := user.NewUserController(db, asyncLogger, challenges, mailClient)
	personalizeController := personalize.NewPersonalizeController(db, asyncLogger)
	paymentController := payment.NewPaymentController(db, asyncLogger, database.Redis)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// OTP-sending endpoints share one per-IP limiter.
	otpLimiter := middleware.NewRateLimiter(5, 3)
	requireAuth := middleware.IsAuthenticated(tokens)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "travel-assistant", "status": "ok"})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/auth/signup", otpLimiter.Limit(), authController.Signup)
	api.Post("/auth/token", authController.TokenObtain)
	api.Post("/auth/token/refresh", authController.TokenRefresh)
	api.Post("/auth/social", authController.SocialSignIn)
	api.Post("/auth/password-reset/request", otpLimiter.Limit(), authController.PasswordResetRequest)
	api.Post("/auth/password-reset/verify", authController.PasswordResetVerify)
	api.Post("/auth/password-reset/confirm", authController.PasswordResetConfirm)

	/*=============================================================================
	| Account Routes
	===============================================================================*/
	account := api.Group("/account").Use(requireAuth)
	account.Post("/logout", authController.Logout)
	account.Get("/profile", userController.GetProfile)
	account.Put("/profile", userController.UpdateProfile)
	account.Post("/change-password", userController.ChangePassword)
	account.Post("/email-change/request", otpLimiter.Limit(), userController.RequestEmailChange)
	account.Post("/email-change/verify", userController.VerifyEmailChange)

	/*=============================================================================
	| Personalization Routes
	===============================================================================*/
	personalizeGroup := api.Group("/personalize").Use(requireAuth)
	personalizeGroup.Get("/interests", personalizeController.ListInterests)
	personalizeGroup.Get("/preferences", personalizeController.GetPreferences)
	personalizeGroup.Post("/preferences", personalizeController.CreatePreferences)
	personalizeGroup.Put("/preferences", personalizeController.UpdatePreferences)
	personalizeGroup.Post("/itineraries", personalizeController.CreateItinerary)
	personalizeGroup.Get("/itineraries", personalizeController.ListItineraries)
	personalizeGroup.Get("/itineraries/:id", personalizeController.GetItinerary)
	personalizeGroup.Post("/itineraries/:id/days/:dayNumber/spots", personalizeController.AddTouristSpot)
	personalizeGroup.Post("/itineraries/:id/suggest", personalizeController.SuggestDayPlans)
	personalizeGroup.Post("/recommendations", personalizeController.Recommendations)

	/*=============================================================================
	| Subscription Routes
	===============================================================================*/
	subscriptionGroup := api.Group("/subscription")
	subscriptionGroup.Get("/status", requireAuth, paymentController.SubscriptionStatus)
	subscriptionGroup.Post("/upgrade", requireAuth, paymentController.UpgradePlan)
	subscriptionGroup.Post("/webhook", paymentController.ProviderWebhook)
}
