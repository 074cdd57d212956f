package challenge

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Purpose identifies which flow a challenge gates. Purposes use distinct
// storage keys, so codes can never collide across flows within a session.
type Purpose string

const (
	PurposeSignup        Purpose = "signup"
	PurposePasswordReset Purpose = "password_reset"
	PurposeEmailChange   Purpose = "email_change"
)

// Per-purpose code lifetimes. Policy constants, not derived.
const (
	SignupTTL        = 2 * time.Minute
	PasswordResetTTL = 1 * time.Minute
	EmailChangeTTL   = 5 * time.Minute

	// How long the password-reset verified flag stays usable after a
	// successful code check.
	resetVerifiedTTL = 10 * time.Minute
)

var (
	ErrNoPendingChallenge = errors.New("no pending challenge")
	ErrEmailMismatch      = errors.New("email does not match this verification session")
	ErrExpired            = errors.New("otp has expired")
	ErrInvalidCode        = errors.New("invalid otp")
	ErrDelivery           = errors.New("failed to deliver otp")
)

// Challenge is the stored state for one pending verification.
type Challenge struct {
	Code      string          `json:"code"`
	ExpiresAt time.Time       `json:"expires_at"`
	Email     string          `json:"email"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Store is the keyed byte store backing challenge state. Get returns
// (nil, nil) when the key is absent.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
}

// Sender delivers a one-time code to an email address.
type Sender interface {
	SendOTP(to string, purpose string, code string) error
}

// Manager issues and verifies single-use numeric codes, keyed by
// (session, purpose). At most one live challenge per purpose per session.
type Manager struct {
	store  Store
	sender Sender
	now    func() time.Time
}

func NewManager(store Store, sender Sender) *Manager {
	return &Manager{
		store:  store,
		sender: sender,
		now:    time.Now,
	}
}

// GenerateOTP generates a random 6-digit OTP
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func challengeKey(session string, purpose Purpose) string {
	return fmt.Sprintf("challenge:%s:%s", session, purpose)
}

func resetVerifiedKey(session string) string {
	return fmt.Sprintf("challenge:%s:%s:verified", session, PurposePasswordReset)
}

// Initiate creates a challenge and delivers its code, with the lifetime set
// by the purpose's policy TTL. The code is sent before any state is written:
// a delivery failure leaves no live challenge behind. A prior challenge of
// the same purpose in the session is overwritten.
func (m *Manager) Initiate(ctx context.Context, session string, purpose Purpose, email string, payload interface{}) (*Challenge, error) {
	code, err := GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := m.sender.SendOTP(email, string(purpose), code); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	ttl := TTLFor(purpose)
	ch := &Challenge{
		Code:      code,
		ExpiresAt: m.now().Add(ttl),
		Email:     email,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode challenge payload: %w", err)
		}
		ch.Payload = raw
	}

	value, err := json.Marshal(ch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode challenge: %w", err)
	}

	// Keep the record around past its logical expiry so a late submit gets a
	// deterministic "expired" error instead of "no pending challenge".
	if err := m.store.Set(ctx, challengeKey(session, purpose), value, 2*ttl); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	return ch, nil
}

// Verify runs the guard checks in fixed order: existence, email match,
// expiry, code equality. The first failing check determines the error. On
// success the stored challenge is returned; the caller is responsible for
// consuming it and applying the gated mutation.
func (m *Manager) Verify(ctx context.Context, session string, purpose Purpose, email string, code string) (*Challenge, error) {
	ch, err := m.Peek(ctx, session, purpose)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrNoPendingChallenge
	}
	if ch.Email != email {
		return nil, ErrEmailMismatch
	}
	if m.now().After(ch.ExpiresAt) {
		return nil, ErrExpired
	}
	if ch.Code != code {
		return nil, ErrInvalidCode
	}
	return ch, nil
}

// Peek returns the stored challenge without any checks, or nil if absent.
func (m *Manager) Peek(ctx context.Context, session string, purpose Purpose) (*Challenge, error) {
	value, err := m.store.Get(ctx, challengeKey(session, purpose))
	if err != nil {
		return nil, fmt.Errorf("failed to read challenge: %w", err)
	}
	if value == nil {
		return nil, nil
	}

	var ch Challenge
	if err := json.Unmarshal(value, &ch); err != nil {
		return nil, fmt.Errorf("failed to decode challenge: %w", err)
	}
	return &ch, nil
}

// Consume deletes the challenge after a successful verification.
func (m *Manager) Consume(ctx context.Context, session string, purpose Purpose) error {
	return m.store.Del(ctx, challengeKey(session, purpose))
}

// Flush clears every challenge and flag held for the session.
func (m *Manager) Flush(ctx context.Context, session string) error {
	return m.store.Del(ctx,
		challengeKey(session, PurposeSignup),
		challengeKey(session, PurposePasswordReset),
		challengeKey(session, PurposeEmailChange),
		resetVerifiedKey(session),
	)
}

// MarkResetVerified records that the session passed the password-reset code
// check, allowing the final set-new-password call.
func (m *Manager) MarkResetVerified(ctx context.Context, session string) error {
	return m.store.Set(ctx, resetVerifiedKey(session), []byte("1"), resetVerifiedTTL)
}

// IsResetVerified reports whether the session passed the code check.
func (m *Manager) IsResetVerified(ctx context.Context, session string) (bool, error) {
	value, err := m.store.Get(ctx, resetVerifiedKey(session))
	if err != nil {
		return false, err
	}
	return value != nil, nil
}

// TTLFor returns the policy TTL for a purpose.
func TTLFor(purpose Purpose) time.Duration {
	switch purpose {
	case PurposeSignup:
		return SignupTTL
	case PurposePasswordReset:
		return PasswordResetTTL
	case PurposeEmailChange:
		return EmailChangeTTL
	default:
		return SignupTTL
	}
}
