package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accdom "termstore/internal/domain/account"
)

func newAuthFixture() (*AuthUsecase, *fakeProfiles, *fakeTokens) {
	profiles := newFakeProfiles()
	tokens := newFakeTokens()
	return NewAuthUsecaseWithClock(profiles, tokens, fixedClock{testNow}), profiles, tokens
}

func TestRegister(t *testing.T) {
	uc, _, _ := newAuthFixture()

	p, err := uc.Register(context.Background(), "alice", "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, accdom.RoleCustomer, p.Role)
	assert.NotEqual(t, "secret", p.PasswordHash, "password is stored hashed")

	_, err = uc.Register(context.Background(), "alice", "other@example.com", "secret")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = uc.Register(context.Background(), "bob", "a@example.com", "secret")
	require.ErrorIs(t, err, ErrEmailRegistered)
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _ := newAuthFixture()

	for _, tc := range []struct{ username, email, password string }{
		{"", "a@example.com", "pw"},
		{"  ", "a@example.com", "pw"},
		{"alice", "", "pw"},
		{"alice", "a@example.com", ""},
	} {
		_, err := uc.Register(context.Background(), tc.username, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrAuthInvalidArgument)
	}
}

func TestLoginMintsToken(t *testing.T) {
	uc, _, tokens := newAuthFixture()
	_, err := uc.Register(context.Background(), "alice", "a@example.com", "secret")
	require.NoError(t, err)

	tok, err := uc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Len(t, tok.Token, tokenLength)
	assert.Equal(t, testNow.Add(accdom.TokenTTL), tok.ExpiresAt)
	for _, r := range tok.Token {
		assert.Contains(t, tokenAlphabet, string(r))
	}
	_, ok := tokens.byToken[tok.Token]
	assert.True(t, ok, "minted token is persisted")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, _, _ := newAuthFixture()
	_, err := uc.Register(context.Background(), "alice", "a@example.com", "secret")
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown usernames get the same answer as bad passwords
	_, err = uc.Login(context.Background(), "mallory", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify(t *testing.T) {
	uc, _, _ := newAuthFixture()
	reg, err := uc.Register(context.Background(), "alice", "a@example.com", "secret")
	require.NoError(t, err)
	tok, err := uc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	p, err := uc.Verify(context.Background(), tok.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, p.ID)

	_, err = uc.Verify(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrSessionTokenInvalid)
	_, err = uc.Verify(context.Background(), "  ")
	require.ErrorIs(t, err, ErrSessionTokenInvalid)
}

func TestVerifyExpiredTokenIsDeleted(t *testing.T) {
	profiles := newFakeProfiles()
	tokens := newFakeTokens()
	uc := NewAuthUsecaseWithClock(profiles, tokens, fixedClock{testNow})

	_, err := uc.Register(context.Background(), "alice", "a@example.com", "secret")
	require.NoError(t, err)
	tok, err := uc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	// move past the TTL
	late := NewAuthUsecaseWithClock(profiles, tokens, fixedClock{testNow.Add(accdom.TokenTTL + time.Minute)})
	_, err = late.Verify(context.Background(), tok.Token)
	require.ErrorIs(t, err, ErrSessionTokenExpired)

	_, ok := tokens.byToken[tok.Token]
	assert.False(t, ok, "expired token is reaped on sight")
}

func TestLogout(t *testing.T) {
	uc, _, tokens := newAuthFixture()
	_, err := uc.Register(context.Background(), "alice", "a@example.com", "secret")
	require.NoError(t, err)
	tok, err := uc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), tok.Token))
	assert.Empty(t, tokens.byToken)

	require.NoError(t, uc.Logout(context.Background(), tok.Token), "logging out twice is a no-op")
	require.NoError(t, uc.Logout(context.Background(), ""))
}
