package helper

import (
	"regexp"
	"strings"

	"venue_manager/model"

	"gorm.io/gorm"
)

var nonDigits = regexp.MustCompile(`[^\d+]`)

// NormalisePhone converts UK numbers to E.164: 07700 900123 -> +447700900123.
// Numbers already in international form keep their country code.
func NormalisePhone(phone string) string {
	p := nonDigits.ReplaceAllString(strings.TrimSpace(phone), "")
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "+"):
		return p
	case strings.HasPrefix(p, "00"):
		return "+" + p[2:]
	case strings.HasPrefix(p, "44"):
		return "+" + p
	case strings.HasPrefix(p, "0"):
		return "+44" + p[1:]
	}
	return p
}

// IsUKMobile accepts +447 followed by nine digits.
func IsUKMobile(e164 string) bool {
	return len(e164) == 13 && strings.HasPrefix(e164, "+447")
}

func CheckByPhoneNumberCustomer(db *gorm.DB, phone string, id *uint) (bool, error) {
	var count int64
	q := db.Model(&model.Customer{}).Where("phone = ?", phone)
	if id != nil {
		q = q.Where("id <> ?", *id)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func CheckByEmailCustomer(db *gorm.DB, email string, id *uint) (bool, error) {
	var count int64
	q := db.Model(&model.Customer{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if id != nil {
		q = q.Where("id <> ?", *id)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
