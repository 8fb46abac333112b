package helper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NextDocumentNumber returns "<prefix>-<year>-<seq>" with seq one past the
// highest number already issued that year, soft-deleted rows included.
func NextDocumentNumber(tx *gorm.DB, table, prefix string, at time.Time) (string, error) {
	head := fmt.Sprintf("%s-%d-", prefix, at.Year())
	var last string
	err := tx.Unscoped().Table(table).
		Select("number").
		Where("number LIKE ?", head+"%").
		Order("number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}
	seq := 0
	if last != "" {
		fmt.Sscanf(strings.TrimPrefix(last, head), "%d", &seq)
	}
	return fmt.Sprintf("%s%05d", head, seq+1), nil
}

// NewReference builds a short human-readable booking reference such as "TB-3F9A1C2B".
func NewReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:8])
}
