package handler

import (
	"errors"
	"fmt"
	"text/template"
	"time"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/messaging"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const scheduledLayout = "2006-01-02T15:04"

var (
	errNoRecipient   = errors.New("customer has no address for this channel")
	errNotOptedIn    = errors.New("customer has not opted in to this channel")
	errNoSmsMobile   = errors.New("sms recipient must be a UK mobile number")
	errNoOptedInList = errors.New("no opted-in customers for this channel")
)

func GetMessages(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterMessage)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.Message{})
	if filter.Channel != "" {
		condition = condition.Where("channel = ?", filter.Channel)
	}
	if filter.Status != "" {
		condition = condition.Where("status = ?", filter.Status)
	}
	if filter.CustomerId != nil {
		condition = condition.Where("customer_id = ?", *filter.CustomerId)
	}
	if filter.CampaignId != "" {
		condition = condition.Where("campaign_id = ?", filter.CampaignId)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var messages []model.Message
	if err := condition.Order("created_at DESC, id DESC").Find(&messages).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       messages,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func parseScheduledAt(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(scheduledLayout, s, helper.VenueLocation())
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func recipientFor(channel string, customer model.Customer) (string, error) {
	switch channel {
	case model.ChannelSMS:
		if !customer.SmsOptIn {
			return "", errNotOptedIn
		}
		if customer.Phone == "" {
			return "", errNoRecipient
		}
		return customer.Phone, nil
	case model.ChannelEmail:
		if !customer.EmailOptIn {
			return "", errNotOptedIn
		}
		if customer.Email == "" {
			return "", errNoRecipient
		}
		return customer.Email, nil
	}
	return "", fmt.Errorf("unknown channel %q", channel)
}

func messageFailure(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errNoRecipient), errors.Is(err, errNotOptedIn), errors.Is(err, errNoSmsMobile), errors.Is(err, errNoOptedInList):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.VALIDATION_FAILED, err)
	}
	return failure(c, err)
}

// enqueue hands stored messages to the outbound queue. Rows stay queued for the cron drain when publishing fails.
func enqueue(c *fiber.Ctx, messages []model.Message) {
	for _, m := range messages {
		if err := messaging.Outbound.Enqueue(c.UserContext(), m.ID); err != nil {
			zap.L().Warn("enqueue message failed", zap.Uint("messageId", m.ID), zap.Error(err))
		}
	}
}

// SendMessage stores one message for a customer or a raw address and queues it.
func SendMessage(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.SendMessageInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	scheduledAt, err := parseScheduledAt(input.ScheduledAt)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	tmpl, err := messaging.ParseBody(input.Body)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	msg := model.Message{
		Channel:     input.Channel,
		CustomerId:  input.CustomerId,
		To:          input.To,
		Subject:     input.Subject,
		Status:      model.MessageQueued,
		ScheduledAt: scheduledAt,
		CreatedBy:   currentAccountId(c),
	}
	var customer model.Customer
	if input.CustomerId != nil {
		if err := db.First(&customer, *input.CustomerId).Error; err != nil {
			return failure(c, err)
		}
		to, err := recipientFor(input.Channel, customer)
		if err != nil {
			return messageFailure(c, err)
		}
		msg.To = to
	}
	if msg.Channel == model.ChannelSMS {
		msg.To = helper.NormalisePhone(msg.To)
		if !helper.IsUKMobile(msg.To) {
			return messageFailure(c, errNoSmsMobile)
		}
	}
	if msg.Body, err = messaging.RenderBody(tmpl, customer); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	if err := db.Create(&msg).Error; err != nil {
		return failure(c, err)
	}
	enqueue(c, []model.Message{msg})

	helper.WriteAudit(c, "send", "message", msg.ID, fiber.Map{"channel": msg.Channel, "to": msg.To})
	helper.InvalidateCache(c.UserContext(), helper.TagMessages)
	return utils.SuccessResponse(c, fiber.StatusAccepted, msg)
}

func personalise(tmpl *template.Template, channel, subject, campaignId string, scheduledAt *time.Time, createdBy *uint, customers []model.Customer) []model.Message {
	messages := make([]model.Message, 0, len(customers))
	for _, cu := range customers {
		to, err := recipientFor(channel, cu)
		if err != nil {
			continue
		}
		if channel == model.ChannelSMS && !helper.IsUKMobile(to) {
			continue
		}
		body, err := messaging.RenderBody(tmpl, cu)
		if err != nil {
			zap.L().Warn("render message body", zap.Uint("customerId", cu.ID), zap.Error(err))
			continue
		}
		id := cu.ID
		messages = append(messages, model.Message{
			Channel:     channel,
			CustomerId:  &id,
			To:          to,
			Subject:     subject,
			Body:        body,
			Status:      model.MessageQueued,
			CampaignId:  campaignId,
			ScheduledAt: scheduledAt,
			CreatedBy:   createdBy,
		})
	}
	return messages
}

// SendBulkMessage queues one personalised message per opted-in customer under a shared campaign id.
func SendBulkMessage(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.BulkMessageInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	scheduledAt, err := parseScheduledAt(input.ScheduledAt)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	tmpl, err := messaging.ParseBody(input.Body)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	optIn := "sms_opt_in"
	if input.Channel == model.ChannelEmail {
		optIn = "email_opt_in"
	}
	var customers []model.Customer
	if err := db.Where(optIn+" = ?", true).Order("id ASC").Find(&customers).Error; err != nil {
		return failure(c, err)
	}

	campaignId := uuid.NewString()
	messages := personalise(tmpl, input.Channel, input.Subject, campaignId, scheduledAt, currentAccountId(c), customers)
	if len(messages) == 0 {
		return messageFailure(c, errNoOptedInList)
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&messages, 200).Error
	})
	if err != nil {
		return failure(c, err)
	}
	enqueue(c, messages)

	helper.WriteAudit(c, "bulk_send", "message", 0, fiber.Map{
		"campaignId": campaignId,
		"channel":    input.Channel,
		"recipients": len(messages),
		"skipped":    len(customers) - len(messages),
	})
	helper.InvalidateCache(c.UserContext(), helper.TagMessages, helper.TagDashboard)
	return utils.SuccessResponse(c, fiber.StatusAccepted, fiber.Map{
		"campaignId": campaignId,
		"queued":     len(messages),
		"skipped":    len(customers) - len(messages),
	})
}

// RetryMessage puts a failed message back in the queue with a fresh attempt budget.
func RetryMessage(c *fiber.Ctx) error {
	db := database.DB
	messageId := c.Locals("inputId").(uint)

	res := db.Model(&model.Message{}).
		Where("id = ? AND status = ?", messageId, model.MessageFailed).
		Updates(map[string]any{"status": model.MessageQueued, "attempts": 0, "last_error": "", "updated_at": helper.Clock.Now()})
	if res.Error != nil {
		return failure(c, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := db.First(&model.Message{}, messageId).Error; err != nil {
			return failure(c, err)
		}
		return failure(c, fmt.Errorf("%w: only failed messages can be retried", helper.ErrInvalidTransition))
	}

	var msg model.Message
	if err := db.First(&msg, messageId).Error; err != nil {
		return failure(c, err)
	}
	enqueue(c, []model.Message{msg})

	helper.WriteAudit(c, "retry", "message", msg.ID, nil)
	return utils.SuccessResponse(c, fiber.StatusAccepted, msg)
}
