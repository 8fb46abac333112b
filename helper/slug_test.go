package helper

import (
	"testing"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueVendorSlug(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, "the-flower-shed", GenerateUniqueVendorSlug(db, "The Flower Shed", 0))

	first := model.Vendor{Name: "The Flower Shed", Slug: "the-flower-shed"}
	require.NoError(t, db.Create(&first).Error)
	assert.Equal(t, "the-flower-shed-2", GenerateUniqueVendorSlug(db, "The Flower Shed!", 0))
	assert.Equal(t, "the-flower-shed", GenerateUniqueVendorSlug(db, "The Flower Shed", first.ID), "own slug is reusable")

	deleted := model.Vendor{Name: "The Flower Shed", Slug: "the-flower-shed-2"}
	require.NoError(t, db.Create(&deleted).Error)
	require.NoError(t, db.Delete(&deleted).Error)
	assert.Equal(t, "the-flower-shed-3", GenerateUniqueVendorSlug(db, "the flower shed", 0))

	assert.Equal(t, "vendor", GenerateUniqueVendorSlug(db, "!!!", 0))
}
