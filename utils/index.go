package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	var errMsg interface{}
	if err != nil {
		errMsg = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   errMsg,
	})
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

const maxPageSize = 200

// ApplyPagination pages the query when both limit and page are given; limit is capped at maxPageSize.
func ApplyPagination(query *gorm.DB, limit, page *int) *gorm.DB {
	if limit == nil || *limit <= 0 || page == nil || *page < 1 {
		return query
	}
	size := min(*limit, maxPageSize)
	return query.Limit(size).Offset(size * (*page - 1))
}

// CalculateGrowth is the percentage change from previous to current; a rise from zero counts as 100%.
func CalculateGrowth(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return roundFloat((current-previous)/previous*100, 2)
}

// Truncate cuts s to at most max characters, replacing invalid UTF-8 first.
func Truncate(s string, max int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
