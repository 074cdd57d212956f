package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-assistant/database"
	"travel-assistant/models/user"
	"travel-assistant/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ChallengeSessionCookie carries the anonymous id that multi-step OTP flows
// are keyed by.
const ChallengeSessionCookie = "tsid"

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether a plaintext password matches its hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ChallengeSession returns the caller's challenge session id, issuing a new
// cookie when none is present yet.
func ChallengeSession(c *fiber.Ctx) string {
	session := c.Cookies(ChallengeSessionCookie)
	if session == "" {
		session = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     ChallengeSessionCookie,
			Value:    session,
			HTTPOnly: true,
			SameSite: "Lax",
			Expires:  time.Now().Add(24 * time.Hour),
		})
	}
	return session
}

// GetUserByEmail retrieves a user by email, matched case-insensitively.
func GetUserByEmail(email string) (*user.User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}

	var userModel user.User
	if err := database.DB.Where("LOWER(email) = LOWER(?)", email).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &userModel, nil
}

// GetUserByID retrieves a user by primary key.
func GetUserByID(id uint) (*user.User, error) {
	var userModel user.User
	if err := database.DB.First(&userModel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &userModel, nil
}

// CurrentUserID extracts the authenticated user's id from the claims the
// auth middleware stored on the context.
func CurrentUserID(c *fiber.Ctx) (uint, error) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return 0, errors.New("no authenticated user in context")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("user_id not found in token")
	}
	return uint(id), nil
}

// sensitiveFields are redacted from logged request bodies.
var sensitiveFields = []string{
	"password", "confirm_password", "current_password",
	"new_password", "confirm_new_password",
}

// sanitizeRequestBody strips credentials out of a JSON request body before
// it is persisted to the request log.
func sanitizeRequestBody(c *fiber.Ctx) string {
	body := c.Body()
	if len(body) == 0 {
		return ""
	}

	contentType := c.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return "[NON_JSON_BODY]"
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body)
	}

	for _, field := range sensitiveFields {
		if _, ok := payload[field]; ok {
			payload[field] = "[REDACTED]"
		}
	}

	if sanitized, err := json.Marshal(payload); err == nil {
		return string(sanitized)
	}
	return string(body)
}

// CreateSanitizedLogEntry creates a deep copied and sanitized log entry for logging
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	// Deep copies: fasthttp reuses its buffers after the handler returns.
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}
