package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"travel-assistant/constants"
	"travel-assistant/logger"
	userModel "travel-assistant/models/user"
	"travel-assistant/services/challenge"
	tokenService "travel-assistant/services/token"
	"travel-assistant/types"
	authTypes "travel-assistant/types/auth"
	"travel-assistant/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
	challenges     *challenge.Manager
	tokens         *tokenService.Service
}

func NewAuthController(db *gorm.DB, asyncLogger *logger.AsyncLogger, challenges *challenge.Manager, tokens *tokenService.Service) *AuthController {
	return &AuthController{
		db:             db,
		loggerInstance: asyncLogger,
		challenges:     challenges,
		tokens:         tokens,
	}
}

func (h *AuthController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)
}

func (h *AuthController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	h.logAPIRequest(c)
	return result
}

// Helper function to set secure cookies based on environment
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

// challengeErrorResponse maps a failed verification to its HTTP reply.
func challengeErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, challenge.ErrNoPendingChallenge):
		return fiber.StatusBadRequest, "No pending verification found. Please start over."
	case errors.Is(err, challenge.ErrEmailMismatch):
		return fiber.StatusBadRequest, "Email does not match this verification session"
	case errors.Is(err, challenge.ErrExpired):
		return fiber.StatusBadRequest, "OTP has expired. Please request a new one."
	case errors.Is(err, challenge.ErrInvalidCode):
		return fiber.StatusBadRequest, "Invalid OTP"
	default:
		return fiber.StatusInternalServerError, "Verification failed"
	}
}

// Signup handles both steps of account creation. Without an otp field it
// validates the payload and emails a code; with one it verifies the code and
// creates the account.
func (h *AuthController) Signup(c *fiber.Ctx) error {
	var req authTypes.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse signup request body", err)
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if req.IsVerificationStep() {
		return h.verifySignup(c, &req)
	}
	return h.initiateSignup(c, &req)
}

func (h *AuthController) initiateSignup(c *fiber.Ctx, req *authTypes.SignupRequest) error {
	if err := req.ValidateInitial(); err != nil {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var count int64
	h.db.Model(&userModel.User{}).Where("LOWER(email) = LOWER(?)", req.Email).Count(&count)
	if count > 0 {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "User with this email already exists",
			Data:    nil,
		})
	}
	h.db.Model(&userModel.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "User with this username already exists",
			Data:    nil,
		})
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash signup password", err)
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process signup",
			Data:    nil,
		})
	}

	pending := authTypes.PendingSignup{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	session := utils.ChallengeSession(c)
	_, err = h.challenges.Initiate(c.Context(), session, challenge.PurposeSignup, req.Email, pending)
	if err != nil {
		logger.Error("Failed to initiate signup challenge", err)
		if errors.Is(err, challenge.ErrDelivery) {
			return h.sendResponseWithLog(c, fiber.StatusBadGateway, types.ApiResponse{
				Status:  fiber.StatusBadGateway,
				Message: "Failed to send verification email. Please try again.",
				Data:    nil,
			})
		}
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process signup",
			Data:    nil,
		})
	}

	logger.Success("Signup OTP sent to " + req.Email)
	return h.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "OTP sent to your email. Please verify to complete signup.",
		Data:    map[string]interface{}{"email": req.Email},
	})
}

func (h *AuthController) verifySignup(c *fiber.Ctx, req *authTypes.SignupRequest) error {
	if err := req.ValidateVerification(); err != nil {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	session := utils.ChallengeSession(c)
	ch, err := h.challenges.Verify(c.Context(), session, challenge.PurposeSignup, req.Email, req.OTP)
	if err != nil {
		status, message := challengeErrorResponse(err)
		return h.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: message,
			Data:    nil,
		})
	}

	var pending authTypes.PendingSignup
	if err := json.Unmarshal(ch.Payload, &pending); err != nil {
		logger.Error("Failed to decode pending signup payload", err)
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to complete signup",
			Data:    nil,
		})
	}
	if err := pending.Validate(); err != nil {
		logger.Error("Pending signup payload is incomplete", err)
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Signup session is corrupted. Please start over.",
			Data:    nil,
		})
	}

	newUser := userModel.User{
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		IsActive:     true,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&userModel.User{}).Where("LOWER(email) = LOWER(?)", pending.Email).Count(&count)
		if count > 0 {
			return fmt.Errorf("user with this email already exists")
		}
		tx.Model(&userModel.User{}).Where("username = ?", pending.Username).Count(&count)
		if count > 0 {
			return fmt.Errorf("user with this username already exists")
		}
		return tx.Create(&newUser).Error
	})
	if err != nil {
		logger.Error("Failed to create user", err)
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	if err := h.challenges.Consume(c.Context(), session, challenge.PurposeSignup); err != nil {
		logger.Warning("Failed to consume signup challenge: " + err.Error())
	}

	logger.Success("User registered successfully: " + newUser.Email)
	return h.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Account created successfully",
		Data: map[string]interface{}{
			"id":       newUser.ID,
			"username": newUser.Username,
			"email":    newUser.Email,
		},
	})
}

// TokenObtain exchanges email and password for a token pair.
func (h *AuthController) TokenObtain(c *fiber.Ctx) error {
	var req authTypes.TokenObtainRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse token request body", err)
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
	if err != nil || !account.IsActive || !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		return h.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "No active account found with the given credentials",
			Data:    nil,
		})
	}

	return h.issueTokenPair(c, account, "Signed in successfully")
}

// TokenRefresh rotates a refresh token into a fresh pair. The old refresh
// token is revoked so it cannot be replayed.
func (h *AuthController) TokenRefresh(c *fiber.Ctx) error {
	var req authTypes.TokenRefreshRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse refresh request body", err)
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

	claims, err := h.tokens.VerifyRefresh(c.Context(), req.Refresh)
	if err != nil {
		return h.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Token is invalid or expired",
			Data:    nil,
		})
	}

	userID, err := tokenService.UserIDFromClaims(claims)
	if err != nil {
		return h.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Token is invalid or expired",
			Data:    nil,
		})
	}

	account, err := utils.GetUserByID(userID)
	if err != nil || !account.IsActive {
		return h.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "No active account found for this token",
			Data:    nil,
		})
	}

	if err := h.tokens.Revoke(c.Context(), req.Refresh); err != nil {
		logger.Warning("Failed to revoke rotated refresh token: " + err.Error())
	}

	return h.issueTokenPair(c, account, "Token refreshed successfully")
}

// SocialSignIn signs a user in from a trusted identity provider profile,
// creating the account on first sight.
func (h *AuthController) SocialSignIn(c *fiber.Ctx) error {
	var req authTypes.SocialSignInRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse social sign-in body", err)
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

	var account userModel.User
	err := h.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("LOWER(email) = LOWER(?)", req.Email).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			account = userModel.User{
				Username:  req.Email,
				Email:     req.Email,
				FirstName: req.FirstName,
				LastName:  req.LastName,
				IsActive:  true,
			}
			return tx.Create(&account).Error
		}
		if err != nil {
			return err
		}

		// Keep the profile in sync with the provider.
		updates := map[string]interface{}{}
		if req.FirstName != "" && req.FirstName != account.FirstName {
			updates["first_name"] = req.FirstName
		}
		if req.LastName != "" && req.LastName != account.LastName {
			updates["last_name"] = req.LastName
		}
		if len(updates) > 0 {
			if err := tx.Model(&account).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to sign in social user", err)
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to sign in",
			Data:    nil,
		})
	}

	if !account.IsActive {
		return h.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "This account is inactive",
			Data:    nil,
		})
	}

	return h.issueTokenPair(c, &account, "Signed in successfully")
}

func (h *AuthController) issueTokenPair(c *fiber.Ctx, account *userModel.User, message string) error {
	access, refresh, err := h.tokens.GeneratePair(account)
	if err != nil {
		logger.Error("Failed to generate token pair", err)
		return h.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to sign in",
			Data:    nil,
		})
	}

	h.setSecureCookie(c, constants.CookieAccess, access, int(tokenService.AccessTokenTTL.Seconds()))
	h.setSecureCookie(c, constants.CookieRefresh, refresh, int(tokenService.RefreshTokenTTL.Seconds()))

	currentTime := time.Now().Format("2006-01-02 03:04:05 PM")
	logger.Success("User " + account.Email + " signed in at " + currentTime)

	return h.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data: authTypes.TokenPairResponse{
			Access:  access,
			Refresh: refresh,
			User: map[string]interface{}{
				"id":         account.ID,
				"username":   account.Username,
				"email":      account.Email,
				"first_name": account.FirstName,
				"last_name":  account.LastName,
			},
		},
	})
}

// Logout revokes the refresh token and clears the auth cookies.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	var req authTypes.LogoutRequest
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		// Fall back to the cookie when the body carries no token.
		req.Refresh = c.Cookies(constants.CookieRefresh)
	}
	if req.Refresh == "" {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Refresh token is required",
			Data:    nil,
		})
	}

	if err := h.tokens.Revoke(c.Context(), req.Refresh); err != nil {
		return h.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Token is invalid or expired",
			Data:    nil,
		})
	}

	h.setSecureCookie(c, constants.CookieAccess, "", -1)
	h.setSecureCookie(c, constants.CookieRefresh, "", -1)

	return h.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Logged out successfully",
		Data:    nil,
	})
}
