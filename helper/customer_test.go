package helper

import (
	"testing"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalisePhone(t *testing.T) {
	cases := map[string]string{
		"07700 900123":      "+447700900123",
		"(07700) 900-123":   "+447700900123",
		"447700900123":      "+447700900123",
		"00447700900123":    "+447700900123",
		"+33 1 23 45 67 89": "+33123456789",
		"  ":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalisePhone(in), in)
	}
}

func TestIsUKMobile(t *testing.T) {
	assert.True(t, IsUKMobile("+447700900123"))
	assert.False(t, IsUKMobile("+442071234567"))
	assert.False(t, IsUKMobile("+44770090012"))
	assert.False(t, IsUKMobile("07700900123"))
}

func TestCustomerUniqueness(t *testing.T) {
	db := newTestDB(t)
	c := model.Customer{FirstName: "Ada", Email: "Ada@Example.com", Phone: "+447700900123"}
	require.NoError(t, db.Create(&c).Error)

	taken, err := CheckByEmailCustomer(db, "ada@example.COM", nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = CheckByEmailCustomer(db, "ada@example.com", &c.ID)
	require.NoError(t, err)
	assert.False(t, taken, "the customer's own address is not a clash")

	taken, err = CheckByPhoneNumberCustomer(db, "+447700900123", nil)
	require.NoError(t, err)
	assert.True(t, taken)
}
