package helper

import (
	"testing"
	"time"

	"venue_manager/database"
	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierAndPoints(t *testing.T) {
	assert.Equal(t, model.TierBronze, TierFor(499))
	assert.Equal(t, model.TierSilver, TierFor(500))
	assert.Equal(t, model.TierGold, TierFor(1500))

	assert.Equal(t, 42, PointsForSpend(42.99, model.TierBronze))
	assert.Equal(t, 53, PointsForSpend(42.99, model.TierSilver))
	assert.Equal(t, 15, PointsForSpend(10, model.TierGold))
	assert.Zero(t, PointsForSpend(-5, model.TierGold))

	assert.Equal(t, "LM000042", NewMemberNumber(42))
}

func newMember(t *testing.T, balance, lifetime int) model.LoyaltyMember {
	t.Helper()
	customer := model.Customer{FirstName: "Lin"}
	require.NoError(t, database.DB.Create(&customer).Error)
	now := Clock.Now()
	m := model.LoyaltyMember{
		CustomerId:     customer.ID,
		MemberNumber:   NewMemberNumber(customer.ID),
		PointsBalance:  balance,
		LifetimePoints: lifetime,
		Tier:           TierFor(lifetime),
		Status:         model.MemberActive,
		EnrolledAt:     now,
		LastActivityAt: now,
		Version:        1,
	}
	require.NoError(t, database.DB.Create(&m).Error)
	return m
}

func TestApplyPoints(t *testing.T) {
	db := newTestDB(t)
	freezeClock(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))

	t.Run("earning promotes the tier", func(t *testing.T) {
		m := newMember(t, 100, 490)
		txn, err := ApplyPoints(db, &m, PointsChange{Type: model.LoyaltyEarn, Points: 20, Reference: "TB-1"})
		require.NoError(t, err)
		assert.Equal(t, 120, txn.BalanceAfter)
		assert.Equal(t, model.TierSilver, m.Tier)
		assert.Equal(t, 2, m.Version)

		var stored model.LoyaltyMember
		require.NoError(t, db.First(&stored, m.ID).Error)
		assert.Equal(t, 510, stored.LifetimePoints)
		assert.Equal(t, model.TierSilver, stored.Tier)
	})

	t.Run("redeeming does not lower lifetime points", func(t *testing.T) {
		m := newMember(t, 300, 600)
		_, err := ApplyPoints(db, &m, PointsChange{Type: model.LoyaltyRedeem, Points: -250})
		require.NoError(t, err)
		assert.Equal(t, 50, m.PointsBalance)
		assert.Equal(t, 600, m.LifetimePoints)
	})

	t.Run("balance cannot go negative", func(t *testing.T) {
		m := newMember(t, 10, 10)
		_, err := ApplyPoints(db, &m, PointsChange{Type: model.LoyaltyRedeem, Points: -11})
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("stale version is refused", func(t *testing.T) {
		m := newMember(t, 10, 10)
		stale := m
		_, err := ApplyPoints(db, &m, PointsChange{Type: model.LoyaltyEarn, Points: 5})
		require.NoError(t, err)
		_, err = ApplyPoints(db, &stale, PointsChange{Type: model.LoyaltyEarn, Points: 5})
		assert.ErrorIs(t, err, ErrConcurrentUpdate)

		var count int64
		db.Model(&model.LoyaltyTransaction{}).Where("member_id = ?", m.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestExpireInactivePoints(t *testing.T) {
	db := newTestDB(t)
	clock := freezeClock(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	idle := newMember(t, 80, 80)
	clock.Advance(300 * 24 * time.Hour)
	recent := newMember(t, 40, 40)

	expired, err := ExpireInactivePoints(db, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	require.NoError(t, db.First(&idle, idle.ID).Error)
	assert.Zero(t, idle.PointsBalance)
	require.NoError(t, db.First(&recent, recent.ID).Error)
	assert.Equal(t, 40, recent.PointsBalance)
}
