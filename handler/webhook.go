package handler

import (
	"errors"
	"strconv"

	"venue_manager/config"
	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/messaging"
	"venue_manager/metrics"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	webhookSourceSMS   = "sms"
	signatureHeader    = "X-Signature"
	eventIdHeader      = "X-Event-Id"
	maxWebhookErrorLen = 500
)

var errInvalidSignature = errors.New("signature mismatch")

// SmsStatusWebhook receives delivery callbacks from the SMS provider. Every
// delivery is logged; only signed ones change message state, and a repeated
// event id is acknowledged without being applied twice.
func SmsStatusWebhook(c *fiber.Ctx) error {
	db := database.DB
	payload := append([]byte(nil), c.Body()...)
	verified := messaging.VerifySignature(config.Get().SMSWebhookSecret, payload, c.Get(signatureHeader))
	metrics.WebhooksTotal.WithLabelValues(webhookSourceSMS, strconv.FormatBool(verified)).Inc()

	eventId := c.Get(eventIdHeader)
	if eventId == "" {
		eventId = uuid.NewString()
	}
	var cb model.SmsStatusCallback
	parseErr := c.BodyParser(&cb)

	entry := model.WebhookLog{
		EventId:    eventId,
		Source:     webhookSourceSMS,
		EventType:  cb.MessageStatus,
		Payload:    string(payload),
		Verified:   verified,
		ReceivedAt: helper.Clock.Now(),
	}
	var duplicate int64
	db.Model(&model.WebhookLog{}).Where("event_id = ?", eventId).Count(&duplicate)
	if duplicate > 0 {
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"eventId": eventId, "duplicate": true})
	}
	if err := db.Create(&entry).Error; err != nil {
		return failure(c, err)
	}

	if !verified {
		markWebhook(db, entry.ID, false, errInvalidSignature.Error())
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_SIGNATURE, errInvalidSignature)
	}
	if parseErr != nil {
		markWebhook(db, entry.ID, false, parseErr.Error())
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, parseErr)
	}

	applied, err := messaging.ApplyStatusCallback(db, cb, helper.Clock.Now())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		markWebhook(db, entry.ID, false, err.Error())
		return failure(c, err)
	}
	note := ""
	if errors.Is(err, gorm.ErrRecordNotFound) {
		note = "unknown provider id"
	}
	markWebhook(db, entry.ID, true, note)
	if applied {
		helper.InvalidateCache(c.UserContext(), helper.TagMessages)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"eventId": eventId, "applied": applied})
}

func markWebhook(db *gorm.DB, id uint, processed bool, errText string) {
	if len(errText) > maxWebhookErrorLen {
		errText = errText[:maxWebhookErrorLen]
	}
	if err := db.Model(&model.WebhookLog{}).Where("id = ?", id).
		Updates(map[string]any{"processed": processed, "error": errText}).Error; err != nil {
		zap.L().Warn("webhook log update failed", zap.Uint("id", id), zap.Error(err))
	}
}

func GetWebhookLogs(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterWebhookLog)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.WebhookLog{})
	if filter.Source != "" {
		condition = condition.Where("source = ?", filter.Source)
	}
	if filter.Processed != nil {
		condition = condition.Where("processed = ?", *filter.Processed)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var logs []model.WebhookLog
	if err := condition.Order("received_at DESC, id DESC").Find(&logs).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       logs,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}
