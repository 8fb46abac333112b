package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"venue_manager/config"
	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const resetTokenTTL = time.Hour

func setAuthCookies(c *fiber.Ctx, access, refresh string) {
	secure := config.Get().IsProduction()
	now := helper.Clock.Now()
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    access,
		Expires:  now.Add(time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   secure,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Expires:  now.Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   secure,
		Path:     "/",
	})
}

func issueTokens(c *fiber.Ctx, claim model.TokenClaim) (model.TokenData, error) {
	access, err := helper.GenerateAccessToken(claim)
	if err != nil {
		return model.TokenData{}, err
	}
	refresh, err := helper.GenerateRefreshToken(claim)
	if err != nil {
		return model.TokenData{}, err
	}
	setAuthCookies(c, access, refresh)
	return model.TokenData{AccessToken: access, RefreshToken: refresh}, nil
}

func Login(c *fiber.Ctx) error {
	loginInput, ok := c.Locals("input").(model.LoginInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	account, err := helper.GetUserByUsername(loginInput.Username)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	// Unknown user and wrong password answer the same way.
	if account == nil || !helper.CheckPasswordHash(loginInput.Password, account.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_PASSWORD, errors.New("invalid credentials"))
	}
	if !account.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, errors.New("active false"))
	}

	claim := model.TokenClaim{AccountId: account.ID, Username: account.Username, Role: account.Role}
	tokens, err := issueTokens(c, claim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	c.Locals("claim", claim)
	helper.WriteAudit(c, helper.AuditLogin, "account", account.ID, nil)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"tokens": tokens,
		"account": fiber.Map{
			"id":       account.ID,
			"username": account.Username,
			"role":     account.Role,
			"fullName": account.FullName,
		},
	})
}

// RefreshToken accepts the refresh token from its cookie or the request body.
func RefreshToken(c *fiber.Ctx) error {
	raw := c.Cookies("refresh_token")
	if raw == "" {
		var body model.RefreshTokenInput
		_ = c.BodyParser(&body)
		raw = body.RefreshToken
	}
	if raw == "" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("refresh token not found"))
	}

	token, err := helper.ParseToken(raw)
	if err != nil || !token.Valid {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
	}
	if kind, _ := helper.TokenKind(token); kind != "refresh" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("not a refresh token"))
	}
	claim, err := helper.ClaimFromToken(token)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
	}

	var account model.Account
	if err := database.DB.First(&account, claim.AccountId).Error; err != nil || !account.Active {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("account unavailable"))
	}
	claim.Role = account.Role

	tokens, err := issueTokens(c, claim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tokens)
}

func Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token", "refresh_token")
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "logged out"})
}

// ForgotPassword always answers 200 so usernames cannot be probed.
func ForgotPassword(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.ForgotPasswordRequest)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	done := func() error {
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "If the account exists a reset link has been sent"})
	}

	account, err := helper.GetUserByUsername(input.Username)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if account == nil || account.Email == "" || !account.Active {
		return done()
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	token := hex.EncodeToString(tokenBytes)

	resetToken := model.PasswordResetToken{
		AccountId: account.ID,
		Token:     token,
		ExpiresAt: helper.Clock.Now().Add(resetTokenTTL),
	}
	if err := db.Create(&resetToken).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", config.Get().PublicURL, token)
	go func(to string) {
		if err := utils.SendPasswordResetEmail(to, link); err != nil {
			zap.S().Warnf("password reset email to %s failed: %v", to, err)
		}
	}(account.Email)

	return done()
}

func ResetPassword(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.ResetPasswordRequest)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	now := helper.Clock.Now()
	var resetToken model.PasswordResetToken
	if err := db.Where("token = ? AND expires_at > ? AND used_at IS NULL", input.Token, now).First(&resetToken).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_TOKEN, err)
	}

	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}

	res := db.Model(&model.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", resetToken.ID).
		Update("used_at", now)
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_TOKEN, errors.New("token already used"))
	}
	if err := db.Model(&model.Account{}).Where("id = ?", resetToken.AccountId).Update("password", hash).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "account", resetToken.AccountId, fiber.Map{"passwordReset": true})
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "password updated"})
}
