package helper

import (
	"fmt"
	"math"
	"time"

	"venue_manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SilverThreshold = 500
	GoldThreshold   = 1500
	// Points lapse after this many months without activity.
	InactivityMonths = 12
)

func TierFor(lifetimePoints int) string {
	switch {
	case lifetimePoints >= GoldThreshold:
		return model.TierGold
	case lifetimePoints >= SilverThreshold:
		return model.TierSilver
	}
	return model.TierBronze
}

func TierMultiplier(tier string) float64 {
	switch tier {
	case model.TierGold:
		return 1.5
	case model.TierSilver:
		return 1.25
	}
	return 1.0
}

// PointsForSpend awards one point per pound, weighted by tier and rounded down.
func PointsForSpend(amount float64, tier string) int {
	if amount <= 0 {
		return 0
	}
	return int(math.Floor(amount*TierMultiplier(tier) + 1e-9))
}

type PointsChange struct {
	Type      string
	Points    int
	Reference string
	Note      string
	CreatedBy *uint
}

// ApplyPoints changes a member's balance guarded by the row version and writes
// the ledger entry in the same transaction. Only earned points count towards tier.
func ApplyPoints(db *gorm.DB, member *model.LoyaltyMember, change PointsChange) (*model.LoyaltyTransaction, error) {
	balance := member.PointsBalance + change.Points
	if balance < 0 {
		return nil, ErrInsufficientPoints
	}
	lifetime := member.LifetimePoints
	if change.Type == model.LoyaltyEarn {
		lifetime += change.Points
	}
	tier := TierFor(lifetime)
	now := Clock.Now()

	txn := model.LoyaltyTransaction{
		MemberId:     member.ID,
		Type:         change.Type,
		Points:       change.Points,
		BalanceAfter: balance,
		Reference:    change.Reference,
		Note:         change.Note,
		CreatedBy:    change.CreatedBy,
		CreatedAt:    now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"points_balance":  balance,
			"lifetime_points": lifetime,
			"tier":            tier,
			"version":         member.Version + 1,
			"updated_at":      now,
		}
		if change.Type != model.LoyaltyExpire {
			updates["last_activity_at"] = now
		}
		res := tx.Model(&model.LoyaltyMember{}).
			Where("id = ? AND version = ?", member.ID, member.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	member.PointsBalance = balance
	member.LifetimePoints = lifetime
	member.Tier = tier
	member.Version++
	if change.Type != model.LoyaltyExpire {
		member.LastActivityAt = now
	}
	return &txn, nil
}

// ExpireInactivePoints zeroes the balance of members idle for InactivityMonths.
func ExpireInactivePoints(db *gorm.DB, now time.Time) (int, error) {
	cutoff := now.AddDate(0, -InactivityMonths, 0)
	var members []model.LoyaltyMember
	if err := db.Where("points_balance > 0 AND last_activity_at < ?", cutoff).Find(&members).Error; err != nil {
		return 0, err
	}

	expired := 0
	for i := range members {
		m := &members[i]
		_, err := ApplyPoints(db, m, PointsChange{
			Type:   model.LoyaltyExpire,
			Points: -m.PointsBalance,
			Note:   fmt.Sprintf("no activity since %s", m.LastActivityAt.Format(time.DateOnly)),
		})
		if err != nil {
			zap.S().Warnf("expire points for member %d: %v", m.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

func NewMemberNumber(customerId uint) string {
	return fmt.Sprintf("LM%06d", customerId)
}
