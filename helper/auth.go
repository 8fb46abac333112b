package helper

import (
	"errors"
	"fmt"
	"time"

	"venue_manager/config"
	"venue_manager/database"
	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

const (
	accessTokenTTL  = 60 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

func jwtSecret() []byte {
	return []byte(config.Config("JWT_SECRET"))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GetUserByUsername(u string) (*model.Account, error) {
	var account model.Account
	if err := database.DB.Where(&model.Account{Username: u}).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func generateToken(claim model.TokenClaim, ttl time.Duration, kind string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"accountId": claim.AccountId,
		"username":  claim.Username,
		"role":      claim.Role,
		"typ":       kind,
		"exp":       Clock.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret())
}

func GenerateAccessToken(claim model.TokenClaim) (string, error) {
	return generateToken(claim, accessTokenTTL, "access")
}

func GenerateRefreshToken(claim model.TokenClaim) (string, error) {
	return generateToken(claim, refreshTokenTTL, "refresh")
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	}, jwt.WithTimeFunc(Clock.Now))
}

// TokenKind returns the typ claim: "access" or "refresh".
func TokenKind(token *jwt.Token) (string, bool) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	kind, ok := claims["typ"].(string)
	return kind, ok
}

// ClaimFromToken reads the account claims out of a parsed token.
func ClaimFromToken(token *jwt.Token) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}, ErrUnauthorized
	}
	id, ok := claims["accountId"].(float64)
	if !ok || id <= 0 {
		return model.TokenClaim{}, ErrUnauthorized
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	return model.TokenClaim{AccountId: uint(id), Username: username, Role: role}, nil
}

// GetInfoAccountFromToken loads the signed-in account. The role always comes from the
// database so that demotions take effect before the token expires.
func GetInfoAccountFromToken(c *fiber.Ctx) (model.TokenClaim, *model.Account, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return model.TokenClaim{}, nil, ErrUnauthorized
	}
	claim, err := ClaimFromToken(token)
	if err != nil {
		return model.TokenClaim{}, nil, err
	}

	var account model.Account
	if err := database.DB.First(&account, claim.AccountId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.TokenClaim{}, nil, ErrUnauthorized
		}
		return model.TokenClaim{}, nil, err
	}
	if !account.Active {
		return model.TokenClaim{}, nil, ErrForbidden
	}
	claim.Role = account.Role
	claim.Username = account.Username
	return claim, &account, nil
}

// CheckPermission resolves the caller and verifies the role grants permission.
func CheckPermission(c *fiber.Ctx, permission string) (model.TokenClaim, error) {
	claim, _, err := GetInfoAccountFromToken(c)
	if err != nil {
		return claim, err
	}
	if !HasPermission(claim.Role, permission) {
		return claim, ErrForbidden
	}
	c.Locals("claim", claim)
	return claim, nil
}
