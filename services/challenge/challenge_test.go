package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return value, nil
}

func (s *memStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

type sentMail struct {
	to      string
	purpose string
	code    string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeSender) SendOTP(to string, purpose string, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, sentMail{to: to, purpose: purpose, code: code})
	return nil
}

func newTestManager(t *testing.T) (*Manager, *memStore, *fakeSender) {
	t.Helper()
	store := newMemStore()
	sender := &fakeSender{}
	return NewManager(store, sender), store, sender
}

func TestGenerateOTP(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestInitiateSendsCodeBeforeStoring(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store, sender := newTestManager(t)

	ch, err := m.Initiate(ctx, "sess-1", PurposeSignup, "alice@example.com", nil)
	require.NoError(t, err)
	require.NotNil(t, ch)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].to)
	assert.Equal(t, "signup", sender.sent[0].purpose)
	assert.Equal(t, ch.Code, sender.sent[0].code)

	stored, err := store.Get(ctx, challengeKey("sess-1", PurposeSignup))
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestInitiateDeliveryFailureLeavesNoChallenge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store, sender := newTestManager(t)
	sender.fail = true

	_, err := m.Initiate(ctx, "sess-1", PurposeSignup, "alice@example.com", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDelivery)

	stored, err := store.Get(ctx, challengeKey("sess-1", PurposeSignup))
	require.NoError(t, err)
	assert.Nil(t, stored, "a failed delivery must not leave a live challenge")
}

func TestInitiateCarriesPayload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	payload := map[string]string{"username": "alice", "email": "alice@example.com"}
	_, err := m.Initiate(ctx, "sess-1", PurposeSignup, "alice@example.com", payload)
	require.NoError(t, err)

	ch, err := m.Peek(ctx, "sess-1", PurposeSignup)
	require.NoError(t, err)
	require.NotNil(t, ch)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(ch.Payload, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestVerifyGuardOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	current := time.Now()
	m.now = func() time.Time { return current }

	// No challenge at all.
	_, err := m.Verify(ctx, "sess-1", PurposePasswordReset, "alice@example.com", "000000")
	assert.ErrorIs(t, err, ErrNoPendingChallenge)

	ch, err := m.Initiate(ctx, "sess-1", PurposePasswordReset, "alice@example.com", nil)
	require.NoError(t, err)

	// Email mismatch wins over a wrong code.
	_, err = m.Verify(ctx, "sess-1", PurposePasswordReset, "bob@example.com", "000000")
	assert.ErrorIs(t, err, ErrEmailMismatch)

	// Wrong code on a live challenge.
	wrong := "000000"
	if ch.Code == wrong {
		wrong = "000001"
	}
	_, err = m.Verify(ctx, "sess-1", PurposePasswordReset, "alice@example.com", wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)

	// Expiry wins over code equality, correct code included.
	current = current.Add(PasswordResetTTL + time.Second)
	_, err = m.Verify(ctx, "sess-1", PurposePasswordReset, "alice@example.com", ch.Code)
	assert.ErrorIs(t, err, ErrExpired)
	_, err = m.Verify(ctx, "sess-1", PurposePasswordReset, "alice@example.com", wrong)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifySuccessAndConsume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	issued, err := m.Initiate(ctx, "sess-1", PurposeSignup, "alice@example.com", nil)
	require.NoError(t, err)

	ch, err := m.Verify(ctx, "sess-1", PurposeSignup, "alice@example.com", issued.Code)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", ch.Email)

	// Verify does not consume; a second check still passes.
	_, err = m.Verify(ctx, "sess-1", PurposeSignup, "alice@example.com", issued.Code)
	require.NoError(t, err)

	require.NoError(t, m.Consume(ctx, "sess-1", PurposeSignup))
	_, err = m.Verify(ctx, "sess-1", PurposeSignup, "alice@example.com", issued.Code)
	assert.ErrorIs(t, err, ErrNoPendingChallenge)
}

func TestChallengesAreIsolatedBySessionAndPurpose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	issued, err := m.Initiate(ctx, "sess-1", PurposeSignup, "alice@example.com", nil)
	require.NoError(t, err)

	// Same code, different session.
	_, err = m.Verify(ctx, "sess-2", PurposeSignup, "alice@example.com", issued.Code)
	assert.ErrorIs(t, err, ErrNoPendingChallenge)

	// Same session, different purpose.
	_, err = m.Verify(ctx, "sess-1", PurposeEmailChange, "alice@example.com", issued.Code)
	assert.ErrorIs(t, err, ErrNoPendingChallenge)
}

func TestReinitiateOverwritesPreviousCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	first, err := m.Initiate(ctx, "sess-1", PurposeSignup, "alice@example.com", nil)
	require.NoError(t, err)
	second, err := m.Initiate(ctx, "sess-1", PurposeSignup, "alice@example.com", nil)
	require.NoError(t, err)

	if first.Code != second.Code {
		_, err = m.Verify(ctx, "sess-1", PurposeSignup, "alice@example.com", first.Code)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	_, err = m.Verify(ctx, "sess-1", PurposeSignup, "alice@example.com", second.Code)
	assert.NoError(t, err)
}

func TestResetVerifiedFlagAndFlush(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	verified, err := m.IsResetVerified(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, verified)

	require.NoError(t, m.MarkResetVerified(ctx, "sess-1"))
	verified, err = m.IsResetVerified(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, verified)

	_, err = m.Initiate(ctx, "sess-1", PurposePasswordReset, "alice@example.com", nil)
	require.NoError(t, err)

	require.NoError(t, m.Flush(ctx, "sess-1"))

	verified, err = m.IsResetVerified(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, verified)

	ch, err := m.Peek(ctx, "sess-1", PurposePasswordReset)
	require.NoError(t, err)
	assert.Nil(t, ch)
}

func TestInitiateAppliesPurposeTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	current := time.Now()
	m.now = func() time.Time { return current }

	ch, err := m.Initiate(ctx, "sess-1", PurposeEmailChange, "alice@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, current.Add(EmailChangeTTL), ch.ExpiresAt)

	ch, err = m.Initiate(ctx, "sess-1", PurposePasswordReset, "alice@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, current.Add(PasswordResetTTL), ch.ExpiresAt)
}

func TestTTLFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SignupTTL, TTLFor(PurposeSignup))
	assert.Equal(t, PasswordResetTTL, TTLFor(PurposePasswordReset))
	assert.Equal(t, EmailChangeTTL, TTLFor(PurposeEmailChange))
	assert.Equal(t, SignupTTL, TTLFor(Purpose("unknown")))
}
