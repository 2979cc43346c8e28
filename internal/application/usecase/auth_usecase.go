package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	accdom "termstore/internal/domain/account"
)

var (
	ErrAuthInvalidArgument = errors.New("auth_usecase: invalid argument")
	ErrUsernameTaken       = errors.New("auth_usecase: username already taken")
	ErrEmailRegistered     = errors.New("auth_usecase: email already registered")
	ErrInvalidCredentials  = errors.New("auth_usecase: invalid username or password")
	ErrSessionTokenInvalid = errors.New("auth_usecase: invalid token")
	ErrSessionTokenExpired = errors.New("auth_usecase: token expired")
)

// tokenLength matches the storefront's historical 128-char alphanumeric tokens.
const tokenLength = 128

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// AuthUsecase coordinates registration, login and token verification.
type AuthUsecase struct {
	profiles accdom.ProfileRepository
	tokens   accdom.TokenRepository
	clock    Clock
}

func NewAuthUsecase(profiles accdom.ProfileRepository, tokens accdom.TokenRepository) *AuthUsecase {
	return &AuthUsecase{profiles: profiles, tokens: tokens, clock: systemClock{}}
}

// NewAuthUsecaseWithClock is useful for tests.
func NewAuthUsecaseWithClock(profiles accdom.ProfileRepository, tokens accdom.TokenRepository, clock Clock) *AuthUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &AuthUsecase{profiles: profiles, tokens: tokens, clock: clock}
}

// Register creates a customer profile.
// Username and email must both be unused.
func (uc *AuthUsecase) Register(ctx context.Context, username, email, password string) (accdom.Profile, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return accdom.Profile{}, ErrAuthInvalidArgument
	}

	taken, err := uc.profiles.ExistsByUsername(ctx, username)
	if err != nil {
		return accdom.Profile{}, err
	}
	if taken {
		return accdom.Profile{}, ErrUsernameTaken
	}

	registered, err := uc.profiles.ExistsByEmail(ctx, email)
	if err != nil {
		return accdom.Profile{}, err
	}
	if registered {
		return accdom.Profile{}, ErrEmailRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return accdom.Profile{}, fmt.Errorf("auth_usecase: hash password: %w", err)
	}

	p, err := accdom.NewProfile(uuid.NewString(), username, email, string(hash), uc.clock.Now())
	if err != nil {
		return accdom.Profile{}, err
	}
	return uc.profiles.Create(ctx, p)
}

// Login verifies credentials and mints a bearer token valid for account.TokenTTL.
func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (accdom.AuthToken, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return accdom.AuthToken{}, ErrInvalidCredentials
	}

	p, err := uc.profiles.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, accdom.ErrNotFound) {
			return accdom.AuthToken{}, ErrInvalidCredentials
		}
		return accdom.AuthToken{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return accdom.AuthToken{}, ErrInvalidCredentials
	}

	raw, err := mintToken()
	if err != nil {
		return accdom.AuthToken{}, err
	}
	t, err := accdom.NewAuthToken(raw, p.ID, uc.clock.Now())
	if err != nil {
		return accdom.AuthToken{}, err
	}
	if err := uc.tokens.Put(ctx, t); err != nil {
		return accdom.AuthToken{}, err
	}
	return t, nil
}

// Verify resolves a bearer token to its profile.
// Expired tokens are deleted on sight and reported as ErrSessionTokenExpired.
func (uc *AuthUsecase) Verify(ctx context.Context, token string) (accdom.Profile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return accdom.Profile{}, ErrSessionTokenInvalid
	}

	t, err := uc.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, accdom.ErrNotFound) {
			return accdom.Profile{}, ErrSessionTokenInvalid
		}
		return accdom.Profile{}, err
	}

	if t.Expired(uc.clock.Now()) {
		// best effort; Firestore TTL reaps stragglers
		_ = uc.tokens.Delete(ctx, t.Token)
		return accdom.Profile{}, ErrSessionTokenExpired
	}

	return uc.profiles.GetByID(ctx, t.ProfileID)
}

// Logout discards the token. Unknown tokens are a no-op.
func (uc *AuthUsecase) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return uc.tokens.Delete(ctx, token)
}

func mintToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth_usecase: mint token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
