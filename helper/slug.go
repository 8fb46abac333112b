package helper

import (
	"strconv"

	"venue_manager/model"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxVendorSlugLength = 80

// GenerateUniqueVendorSlug slugs the vendor name and appends -2, -3, ...
// while another vendor, deleted ones included, already holds it.
func GenerateUniqueVendorSlug(tx *gorm.DB, name string, excludeId uint) string {
	base := slug.Make(name)
	if len(base) > maxVendorSlugLength {
		base = base[:maxVendorSlugLength]
	}
	if base == "" {
		base = "vendor"
	}

	var taken []string
	q := tx.Unscoped().Model(&model.Vendor{}).Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if excludeId > 0 {
		q = q.Where("id <> ?", excludeId)
	}
	q.Pluck("slug", &taken)

	used := make(map[string]bool, len(taken))
	for _, s := range taken {
		used[s] = true
	}
	candidate := base
	for n := 2; used[candidate]; n++ {
		candidate = base + "-" + strconv.Itoa(n)
	}
	return candidate
}
