package handler

import (
	"errors"
	"fmt"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

const memberHistoryLimit = 50

var errMemberSuspended = fmt.Errorf("%w: member is suspended", helper.ErrInvalidTransition)

func GetLoyaltyMembers(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterLoyaltyMember)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.LoyaltyMember{})
	if filter.Tier != "" {
		condition = condition.Where("loyalty_members.tier = ?", filter.Tier)
	}
	if filter.Status != "" {
		condition = condition.Where("loyalty_members.status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		condition = condition.Joins("JOIN customers ON customers.id = loyalty_members.customer_id").
			Where("LOWER(loyalty_members.member_number) LIKE ? OR LOWER(customers.first_name) LIKE ? OR LOWER(customers.last_name) LIKE ?",
				pattern, pattern, pattern)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var members []model.LoyaltyMember
	if err := condition.Preload("Customer").Order("loyalty_members.lifetime_points DESC").Find(&members).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       members,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

// GetLoyaltyMember returns the member with the most recent ledger entries.
func GetLoyaltyMember(c *fiber.Ctx) error {
	var member model.LoyaltyMember
	err := database.DB.Preload("Customer").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC").Limit(memberHistoryLimit)
		}).
		First(&member, c.Locals("inputId").(uint)).Error
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, member)
}

func EnrollMember(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.EnrollMemberInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	now := helper.Clock.Now()
	member := model.LoyaltyMember{
		CustomerId:     input.CustomerId,
		MemberNumber:   helper.NewMemberNumber(input.CustomerId),
		Tier:           model.TierBronze,
		Status:         model.MemberActive,
		EnrolledAt:     now,
		LastActivityAt: now,
		Version:        1,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.Customer{}, input.CustomerId).Error; err != nil {
			return err
		}
		var existing int64
		if err := tx.Unscoped().Model(&model.LoyaltyMember{}).Where("customer_id = ?", input.CustomerId).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return helper.ErrAlreadyMember
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "loyalty_member", member.ID, fiber.Map{"customerId": member.CustomerId})
	helper.InvalidateCache(c.UserContext(), helper.TagLoyalty, helper.TagDashboard)
	return utils.SuccessResponse(c, fiber.StatusCreated, member)
}

func loadActiveMember(db *gorm.DB, id uint) (*model.LoyaltyMember, error) {
	var member model.LoyaltyMember
	if err := db.First(&member, id).Error; err != nil {
		return nil, err
	}
	if member.Status != model.MemberActive {
		return nil, errMemberSuspended
	}
	return &member, nil
}

func pointsResponse(c *fiber.Ctx, member *model.LoyaltyMember, txn *model.LoyaltyTransaction) error {
	helper.WriteAudit(c, "points_"+txn.Type, "loyalty_member", member.ID, fiber.Map{
		"points":       txn.Points,
		"balanceAfter": txn.BalanceAfter,
		"reference":    txn.Reference,
	})
	helper.InvalidateCache(c.UserContext(), helper.TagLoyalty)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"member": member, "transaction": txn})
}

// EarnPoints converts a spend into points at the member's current tier rate.
func EarnPoints(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.EarnPointsInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	member, err := loadActiveMember(database.DB, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}

	points := helper.PointsForSpend(input.Amount, member.Tier)
	if points == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.VALIDATION_FAILED, errors.New("spend is too small to earn points"))
	}
	txn, err := helper.ApplyPoints(database.DB, member, helper.PointsChange{
		Type:      model.LoyaltyEarn,
		Points:    points,
		Reference: input.Reference,
		Note:      fmt.Sprintf("spend %.2f", input.Amount),
		CreatedBy: currentAccountId(c),
	})
	if err != nil {
		return failure(c, err)
	}
	return pointsResponse(c, member, txn)
}

func RedeemReward(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.RedeemRewardInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	member, err := loadActiveMember(db, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}

	var reward model.LoyaltyReward
	if err := db.Where("id = ? AND is_active = ?", input.RewardId, true).First(&reward).Error; err != nil {
		return failure(c, err)
	}
	txn, err := helper.ApplyPoints(db, member, helper.PointsChange{
		Type:      model.LoyaltyRedeem,
		Points:    -reward.PointsCost,
		Reference: fmt.Sprintf("reward:%d", reward.ID),
		Note:      reward.Name,
		CreatedBy: currentAccountId(c),
	})
	if err != nil {
		return failure(c, err)
	}
	return pointsResponse(c, member, txn)
}

// AdjustPoints is a manual correction; it never changes lifetime points or tier.
func AdjustPoints(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.AdjustPointsInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	var member model.LoyaltyMember
	if err := database.DB.First(&member, c.Locals("inputId").(uint)).Error; err != nil {
		return failure(c, err)
	}

	txn, err := helper.ApplyPoints(database.DB, &member, helper.PointsChange{
		Type:      model.LoyaltyAdjust,
		Points:    input.Points,
		Note:      input.Note,
		CreatedBy: currentAccountId(c),
	})
	if err != nil {
		return failure(c, err)
	}
	return pointsResponse(c, &member, txn)
}

// SetMemberStatus suspends or reactivates a membership.
func SetMemberStatus(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.StatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	if input.Status != model.MemberActive && input.Status != model.MemberSuspended {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, fmt.Errorf("unknown member status %q", input.Status))
	}

	var member model.LoyaltyMember
	if err := db.First(&member, c.Locals("inputId").(uint)).Error; err != nil {
		return failure(c, err)
	}
	from := member.Status
	if from == input.Status {
		return utils.SuccessResponse(c, fiber.StatusOK, member)
	}
	res := db.Model(&model.LoyaltyMember{}).
		Where("id = ? AND version = ?", member.ID, member.Version).
		Updates(map[string]any{"status": input.Status, "version": member.Version + 1})
	if res.Error != nil {
		return failure(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return failure(c, helper.ErrConcurrentUpdate)
	}
	member.Status = input.Status
	member.Version++

	helper.WriteAudit(c, helper.AuditStatus, "loyalty_member", member.ID, fiber.Map{"from": from, "to": member.Status, "reason": input.Reason})
	helper.InvalidateCache(c.UserContext(), helper.TagLoyalty)
	return utils.SuccessResponse(c, fiber.StatusOK, member)
}

func GetRewards(c *fiber.Ctx) error {
	var rewards []model.LoyaltyReward
	condition := database.DB.Model(&model.LoyaltyReward{})
	if c.Query("active") == "true" {
		condition = condition.Where("is_active = ?", true)
	}
	if err := condition.Order("points_cost ASC").Find(&rewards).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rewards)
}

func CreateReward(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateRewardInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	reward := model.LoyaltyReward{IsActive: true}
	copier.Copy(&reward, &input)
	if err := database.DB.Create(&reward).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "loyalty_reward", reward.ID, nil)
	return utils.SuccessResponse(c, fiber.StatusCreated, reward)
}

func UpdateReward(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateRewardInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	var reward model.LoyaltyReward
	if err := db.First(&reward, c.Locals("inputId").(uint)).Error; err != nil {
		return failure(c, err)
	}
	copier.CopyWithOption(&reward, &input, copier.Option{IgnoreEmpty: true})
	if input.IsActive != nil {
		reward.IsActive = *input.IsActive
	}
	if err := db.Model(&reward).Select("name", "description", "points_cost", "is_active").Updates(&reward).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "loyalty_reward", reward.ID, input)
	return utils.SuccessResponse(c, fiber.StatusOK, reward)
}

func DeleteReward(c *fiber.Ctx) error {
	rewardId := c.Locals("inputId").(uint)
	res := database.DB.Delete(&model.LoyaltyReward{}, rewardId)
	if res.Error != nil {
		return failure(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return failure(c, gorm.ErrRecordNotFound)
	}

	helper.WriteAudit(c, helper.AuditDelete, "loyalty_reward", rewardId, nil)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": rewardId})
}
