package service

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/testutil"
)

func createUserWithID(t *testing.T, db *gorm.DB, id uint, username string, role model.Role) *model.User {
	t.Helper()

	u := &model.User{
		BaseModel: model.BaseModel{ID: id},
		Username:  username,
		Email:     username + "@example.com",
		Status:    model.UserActive,
	}
	u.ApplyRole(role)
	if role == model.RoleSeller {
		u.Approval = model.ApprovalYes
	}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestSubmitPaymentRecordsCompletedSale(t *testing.T) {
	f := newFixture(t)
	buyer := createUserWithID(t, f.db, 5, "buyer", model.RoleBuyer)
	seller := createUserWithID(t, f.db, 7, "seller", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Web Applications")
	p := testutil.CreateProduct(t, f.db, seller, category, "Enrollment System", 1000, model.ProductAvailable)

	order, err := f.checkout.SubmitPayment(&PaymentRequest{
		ProductID:       p.ID,
		Method:          "GCash",
		ReferenceNumber: " 1234567890 ",
		Confirmed:       true,
	}, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(5), order.BuyerID)
	assert.Equal(t, uint(7), order.SellerID)
	assert.True(t, decimal.NewFromInt(1000).Equal(order.Amount))
	assert.Equal(t, model.TxCompleted, order.Status)
	assert.Equal(t, "1234567890", order.ReferenceNumber)
	assert.Equal(t, model.MethodGCash, order.PaymentMethod)

	product, err := f.productRepo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProductSold, product.Status)
	assert.Equal(t, []string{"order.completed"}, f.publisher.types(seller.ID))

	_, err = f.checkout.SubmitPayment(&PaymentRequest{ProductID: p.ID, Method: model.MethodGCash, Confirmed: true}, buyer.ID)
	assert.ErrorIs(t, err, ErrProductNotAvailable)

	purchases, err := f.checkout.ListBuyerPurchases(buyer.ID)
	require.NoError(t, err)
	assert.Len(t, purchases, 1)
	sales, err := f.checkout.ListSellerSales(seller.ID)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestSubmitPaymentPreconditions(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	buyer := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)
	category := testutil.CreateCategory(t, f.db, "Templates")
	available := testutil.CreateProduct(t, f.db, seller, category, "Theme", 100, model.ProductAvailable)
	pending := testutil.CreateProduct(t, f.db, seller, category, "Draft", 100, model.ProductPending)

	_, err := f.checkout.SubmitPayment(&PaymentRequest{ProductID: available.ID, Method: model.MethodGCash}, buyer.ID)
	assert.ErrorIs(t, err, ErrPaymentNotConfirmed)

	_, err = f.checkout.SubmitPayment(&PaymentRequest{ProductID: available.ID, Method: "cash", Confirmed: true}, buyer.ID)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = f.checkout.SubmitPayment(&PaymentRequest{ProductID: available.ID, Method: model.MethodPayMaya, Confirmed: true}, seller.ID)
	assert.ErrorIs(t, err, ErrOwnProduct)

	_, err = f.checkout.SubmitPayment(&PaymentRequest{ProductID: pending.ID, Method: model.MethodPayMaya, Confirmed: true}, buyer.ID)
	assert.ErrorIs(t, err, ErrProductNotAvailable)

	_, err = f.checkout.SubmitPayment(&PaymentRequest{ProductID: 999, Method: model.MethodPayMaya, Confirmed: true}, buyer.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	var count int64
	require.NoError(t, f.db.Model(&model.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConcurrentCheckoutSellsOnce(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Templates")
	p := testutil.CreateProduct(t, f.db, seller, category, "Theme", 100, model.ProductAvailable)

	var buyers []*model.User
	for _, name := range []string{"b1", "b2", "b3", "b4", "b5"} {
		buyers = append(buyers, testutil.CreateUser(t, f.db, name, model.RoleBuyer))
	}

	var wg sync.WaitGroup
	errs := make([]error, len(buyers))
	for i, b := range buyers {
		wg.Add(1)
		go func(i int, buyerID uint) {
			defer wg.Done()
			_, errs[i] = f.checkout.SubmitPayment(&PaymentRequest{ProductID: p.ID, Method: model.MethodBankTransfer, Confirmed: true}, buyerID)
		}(i, b.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrProductNotAvailable)
	}
	assert.Equal(t, 1, succeeded)

	var completed int64
	require.NoError(t, f.db.Model(&model.Transaction{}).
		Where("product_id = ? AND status = ?", p.ID, model.TxCompleted).
		Count(&completed).Error)
	assert.Equal(t, int64(1), completed)
}

func TestQuoteShowsFeeAndSellerMethods(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Templates")
	p := testutil.CreateProduct(t, f.db, seller, category, "Theme", 1000, model.ProductAvailable)

	_, err := f.methods.Create(&PaymentMethodRequest{
		MethodType:    model.MethodGCash,
		AccountName:   "Seller",
		AccountNumber: "09170000000",
	}, seller.Actor())
	require.NoError(t, err)

	quote, err := f.checkout.Quote(p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(quote.Price))
	assert.True(t, decimal.NewFromInt(100).Equal(quote.PlatformFee))
	assert.True(t, decimal.NewFromInt(900).Equal(quote.SellerPayout))
	require.Len(t, quote.PaymentMethods, 1)
	assert.Equal(t, model.MethodGCash, quote.PaymentMethods[0].MethodType)
}
