// Package auth provides JWT based authentication support.
package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// These are the expected values for Claims.Role.
const (
	RoleAdmin      = "ADMIN"
	RoleWorker     = "WORKER"
	RoleSupervisor = "SUPERVISOR"
	RoleDashboard  = "DASHBOARD"
)

// ctxKey represents the type of value for the context key.
type ctxKey int

// Key is used to store/retrieve a Claims value from a context.Context.
const Key ctxKey = 1

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
}

// Authorized returns true if the claims hold one of the provided roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

type Auth struct {
	key []byte

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuth(key string) *Auth {
	return &Auth{
		key:        []byte(key),
		accessTTL:  12 * time.Hour,
		refreshTTL: 7 * 24 * time.Hour,
	}
}

// GenerateTokens creates a signed access/refresh token pair for the claims.
func (a *Auth) GenerateTokens(userID int, role string) (access string, refresh string, err error) {
	now := time.Now()

	accessClaims := Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.accessTTL).Unix(),
		},
		UserId: userID,
		Role:   role,
	}

	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(a.key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refreshClaims := Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.refreshTTL).Unix(),
		},
		UserId: userID,
		Role:   role,
	}

	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(a.key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return access, refresh, nil
}

// ValidateToken recreates the Claims that were used to generate a token.
// It verifies the token was signed by us and has not expired.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.key, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}

	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	return claims, nil
}
