package validate

import (
	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func EnrollMember() fiber.Handler { return Body[model.EnrollMemberInput]() }
func EarnPoints() fiber.Handler { return Body[model.EarnPointsInput]() }
func RedeemReward() fiber.Handler { return Body[model.RedeemRewardInput]() }
func AdjustPoints() fiber.Handler { return Body[model.AdjustPointsInput]() }
func CreateReward() fiber.Handler { return Body[model.CreateRewardInput]() }
func UpdateReward() fiber.Handler { return Body[model.UpdateRewardInput]() }
func FilterLoyaltyMember() fiber.Handler { return Query[model.FilterLoyaltyMember]() }
