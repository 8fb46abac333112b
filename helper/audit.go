package helper

import (
	"encoding/json"

	"venue_manager/database"
	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
	AuditStatus = "status_change"
	AuditLogin  = "login"
)

// WriteAudit records who did what. A failed write is logged and never fails the request.
func WriteAudit(c *fiber.Ctx, action, entity string, entityId uint, metadata any) {
	entry := model.AuditLog{
		Action:    action,
		Entity:    entity,
		CreatedAt: Clock.Now(),
	}
	if entityId > 0 {
		id := entityId
		entry.EntityId = &id
	}
	if c != nil {
		entry.IP = c.IP()
		if claim, ok := c.Locals("claim").(model.TokenClaim); ok && claim.AccountId > 0 {
			id := claim.AccountId
			entry.AccountId = &id
			entry.Username = claim.Username
		}
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			entry.Metadata = string(raw)
		}
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		zap.L().Warn("audit log write failed",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.Uint("entityId", entityId),
			zap.Error(err))
	}
}
