package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"inspection-api/pkg/logger"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingToken = errors.New("missing token")
)

type JWTClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserContext is the authenticated caller as reloaded from the database on every request
type UserContext struct {
	ID             uint
	Email          string
	Name           string
	Role           string
	ApprovalStatus string
	IsActive       bool
}

// IsApproved reports whether the caller passed admin approval and is still active
func (u *UserContext) IsApproved() bool {
	return u.ApprovalStatus == "approved" && u.IsActive
}

// GenerateToken issues an HS256 token whose subject is the user id
func GenerateToken(userID uint, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses the token and returns the user id in its subject
func ValidateToken(tokenString, jwtSecret string) (uint, error) {
	if tokenString == "" {
		return 0, ErrMissingToken
	}
	if bare := ExtractTokenFromHeader(tokenString); bare != "" {
		tokenString = bare
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}

	if !token.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}

	return uint(id), nil
}

// ExtractTokenFromHeader returns the credentials of a "Bearer <token>" header, or "" for any other shape.
func ExtractTokenFromHeader(authHeader string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

var (
	ErrNoUserContext      = errors.New("user not found in context")
	ErrInvalidUserContext = errors.New("invalid user context type")
)

func GetUserFromContext(c *fiber.Ctx) (*UserContext, error) {
	switch user := c.Locals("user").(type) {
	case *UserContext:
		return user, nil
	case nil:
		logger.Warn(logger.CategoryAuth, "get_user_context", "User not found in context", map[string]interface{}{"path": c.Path()})
		return nil, ErrNoUserContext
	default:
		logger.Warn(logger.CategoryAuth, "get_user_context", "Invalid user context type", map[string]interface{}{"type": logger.GetTypeName(user)})
		return nil, ErrInvalidUserContext
	}
}
