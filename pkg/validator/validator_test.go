package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Name   string          `validate:"required"`
	Price  decimal.Decimal `validate:"gt=0"`
	Method string          `validate:"required,payment_method"`
}

func TestValidateStruct(t *testing.T) {
	ok := listing{Name: "POS System", Price: decimal.NewFromInt(1000), Method: "gcash"}
	assert.Empty(t, ValidateStruct(ok))

	bad := listing{Name: "", Price: decimal.Zero, Method: "cash"}
	errs := ValidateStruct(bad)
	require.Len(t, errs, 3)
	assert.Equal(t, "listing.Name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "gt", errs[1].Tag)
	assert.Equal(t, "payment_method", errs[2].Tag)
}

func TestCheck(t *testing.T) {
	err := Check(listing{Name: "x", Price: decimal.NewFromFloat(-1), Method: "paymaya"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "listing.Price")

	assert.NoError(t, Check(listing{Name: "x", Price: decimal.NewFromFloat(0.5), Method: "bank_transfer"}))
}
