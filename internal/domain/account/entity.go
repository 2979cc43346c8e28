package account

import (
	"errors"
	"strings"
	"time"
)

// Role determines what a profile may do. The storefront only mints
// customer profiles; admin/seller exist for the dashboard side.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
)

// TokenTTL is how long a minted bearer token stays valid.
const TokenTTL = 24 * time.Hour

var (
	ErrInvalidProfile = errors.New("account: invalid profile")
	ErrInvalidToken   = errors.New("account: invalid token")
)

// Profile is a storefront user.
type Profile struct {
	ID           string
	Username     string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// NewProfile builds a customer profile. PasswordHash must already be hashed;
// the domain never sees a plaintext password.
func NewProfile(id, username, email, passwordHash string, now time.Time) (Profile, error) {
	p := Profile{
		ID:           strings.TrimSpace(id),
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		Role:         RoleCustomer,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	if p.ID == "" || p.Username == "" || p.Email == "" || p.PasswordHash == "" {
		return Profile{}, ErrInvalidProfile
	}
	return p, nil
}

// CanManageProducts reports whether the profile may change catalog
// content, such as uploading product images.
func (p Profile) CanManageProducts() bool {
	return p.Role == RoleAdmin || p.Role == RoleSeller
}

// AuthToken is an opaque bearer token bound to a profile.
//   - docId = token string (Firestore)
//   - ExpiresAt drives Firestore TTL auto deletion.
type AuthToken struct {
	Token     string    `json:"token" firestore:"token"`
	ProfileID string    `json:"profileId" firestore:"profileId"`
	IssuedAt  time.Time `json:"issuedAt" firestore:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// NewAuthToken mints a token for profileID valid for TokenTTL from now.
func NewAuthToken(token, profileID string, now time.Time) (AuthToken, error) {
	t := AuthToken{
		Token:     strings.TrimSpace(token),
		ProfileID: strings.TrimSpace(profileID),
		IssuedAt:  now,
		ExpiresAt: now.Add(TokenTTL),
	}
	if t.Token == "" || t.ProfileID == "" {
		return AuthToken{}, ErrInvalidToken
	}
	return t, nil
}

// Expired reports whether the token is past its expiry at now.
func (t AuthToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
