package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/testutil"
	"devmarket/pkg/validator"
)

func defaultIDs(t *testing.T, f *fixture, ownerID uint) []uint {
	t.Helper()
	methods, err := f.methods.List(ownerID)
	require.NoError(t, err)
	var ids []uint
	for _, m := range methods {
		if m.IsDefault {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func TestPaymentMethodDefaults(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)

	first, err := f.methods.Create(&PaymentMethodRequest{MethodType: model.MethodGCash, AccountName: "Juan", AccountNumber: "0917"}, owner.Actor())
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := f.methods.Create(&PaymentMethodRequest{MethodType: model.MethodBankTransfer, AccountName: "Juan", AccountNumber: "1234-5678"}, owner.Actor())
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, []uint{first.ID}, defaultIDs(t, f, owner.ID))

	require.NoError(t, f.methods.SetDefault(second.ID, owner.Actor()))
	assert.Equal(t, []uint{second.ID}, defaultIDs(t, f, owner.ID))

	third, err := f.methods.Create(&PaymentMethodRequest{MethodType: model.MethodPayMaya, AccountName: "Juan", AccountNumber: "0918", IsDefault: true}, owner.Actor())
	require.NoError(t, err)
	assert.Equal(t, []uint{third.ID}, defaultIDs(t, f, owner.ID))

	// deleting the default hands it to the oldest remaining method
	require.NoError(t, f.methods.Delete(third.ID, owner.Actor()))
	assert.Equal(t, []uint{first.ID}, defaultIDs(t, f, owner.ID))
}

func TestPaymentMethodOwnership(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	other := testutil.CreateUser(t, f.db, "other", model.RoleBuyer)

	m, err := f.methods.Create(&PaymentMethodRequest{MethodType: model.MethodGCash, AccountName: "Juan", AccountNumber: "0917"}, owner.Actor())
	require.NoError(t, err)

	assert.ErrorIs(t, f.methods.SetDefault(m.ID, other.Actor()), ErrForbidden)
	assert.ErrorIs(t, f.methods.Delete(m.ID, other.Actor()), ErrForbidden)
	_, err = f.methods.Update(m.ID, &PaymentMethodRequest{MethodType: model.MethodGCash, AccountName: "X", AccountNumber: "1"}, other.Actor())
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.methods.Update(m.ID, &PaymentMethodRequest{MethodType: model.MethodPayMaya, AccountName: "Juan D.", AccountNumber: "0919"}, owner.Actor())
	require.NoError(t, err)
	assert.Equal(t, model.MethodPayMaya, updated.MethodType)
	assert.Equal(t, "0919", updated.AccountNumber)
}

func TestPaymentMethodRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)

	_, err := f.methods.Create(&PaymentMethodRequest{MethodType: "paypal", AccountName: "Juan", AccountNumber: "x"}, owner.Actor())
	assert.ErrorIs(t, err, validator.ErrValidation)
}

// brokenPromotion fails every attempt to mark a method as default
type brokenPromotion struct {
	repository.PaymentMethodRepository
}

func (brokenPromotion) MarkDefault(*gorm.DB, uint) error {
	return errors.New("write failed")
}

func TestDeleteDefaultRollsBackWhenPromotionFails(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)

	first, err := f.methods.Create(&PaymentMethodRequest{MethodType: model.MethodGCash, AccountName: "Juan", AccountNumber: "0917"}, owner.Actor())
	require.NoError(t, err)
	_, err = f.methods.Create(&PaymentMethodRequest{MethodType: model.MethodPayMaya, AccountName: "Juan", AccountNumber: "0918"}, owner.Actor())
	require.NoError(t, err)

	broken := NewPaymentMethodService(brokenPromotion{f.methodRepo}, f.db)
	require.Error(t, broken.Delete(first.ID, owner.Actor()))

	// the default is still there, not deleted with no successor
	assert.Equal(t, []uint{first.ID}, defaultIDs(t, f, owner.ID))
}

func TestPaymentMethodAcceptsDisplaySpelling(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)

	m, err := f.methods.Create(&PaymentMethodRequest{MethodType: "GCash", AccountName: "Juan", AccountNumber: "0917"}, owner.Actor())
	require.NoError(t, err)
	assert.Equal(t, model.MethodGCash, m.MethodType)
}
