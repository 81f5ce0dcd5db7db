package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/testutil"
	"devmarket/pkg/validator"
)

func TestCreateProductStatusByRole(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin", model.RoleAdmin)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Web Applications")

	req := &ProductRequest{Name: "POS System", Price: decimal.RequireFromString("1500.499"), CategoryID: category.ID}

	p, err := f.products.CreateProduct(req, seller.Actor())
	require.NoError(t, err)
	assert.Equal(t, model.ProductPending, p.Status)
	assert.Equal(t, "1500.5", p.Price.String())
	assert.Equal(t, seller.ID, p.SellerID)

	p, err = f.products.CreateProduct(req, admin.Actor())
	require.NoError(t, err)
	assert.Equal(t, model.ProductAvailable, p.Status)
}

func TestCreateProductRequiresApprovedSeller(t *testing.T) {
	f := newFixture(t)
	category := testutil.CreateCategory(t, f.db, "Templates")
	buyer := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)
	pending, err := f.auth.Register(&RegisterRequest{
		Username: "newseller",
		Email:    "newseller@example.com",
		Password: "secret123",
		FullName: "New Seller",
		Role:     model.RoleSeller,
	})
	require.NoError(t, err)

	req := &ProductRequest{Name: "Theme", Price: decimal.NewFromInt(100), CategoryID: category.ID}
	_, err = f.products.CreateProduct(req, pending.Actor())
	assert.ErrorIs(t, err, ErrSellerNotApproved)
	_, err = f.products.CreateProduct(req, buyer.Actor())
	assert.ErrorIs(t, err, ErrSellerNotApproved)
}

func TestCreateProductValidatesPrice(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Templates")

	_, err := f.products.CreateProduct(&ProductRequest{Name: "Free", Price: decimal.Zero, CategoryID: category.ID}, seller.Actor())
	assert.ErrorIs(t, err, validator.ErrValidation)

	_, err = f.products.CreateProduct(&ProductRequest{Name: "Orphan", Price: decimal.NewFromInt(10), CategoryID: 999}, seller.Actor())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsShowsOnlyAvailable(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	web := testutil.CreateCategory(t, f.db, "Web Applications")
	mobile := testutil.CreateCategory(t, f.db, "Mobile Apps")

	testutil.CreateProduct(t, f.db, seller, web, "Inventory System", 3000, model.ProductAvailable)
	testutil.CreateProduct(t, f.db, seller, web, "Library System", 1500, model.ProductAvailable)
	testutil.CreateProduct(t, f.db, seller, mobile, "Android Grocery App", 2000, model.ProductAvailable)
	testutil.CreateProduct(t, f.db, seller, web, "Pending System", 100, model.ProductPending)
	testutil.CreateProduct(t, f.db, seller, web, "Sold System", 100, model.ProductSold)

	page, err := f.products.ListProducts(repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Meta.Total)
	for _, p := range page.Products {
		assert.Equal(t, model.ProductAvailable, p.Status)
	}

	page, err = f.products.ListProducts(repository.ProductFilter{CategoryID: web.ID, Sort: repository.SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Library System", page.Products[0].Name)
	assert.Equal(t, "Inventory System", page.Products[1].Name)

	min := decimal.NewFromInt(1800)
	page, err = f.products.ListProducts(repository.ProductFilter{MinPrice: &min, Sort: repository.SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Inventory System", page.Products[0].Name)

	page, err = f.products.ListProducts(repository.ProductFilter{Search: "grocery"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, mobile.ID, page.Products[0].CategoryID)

	page, err = f.products.ListProducts(repository.ProductFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.True(t, page.Meta.HasPrevious)
	assert.False(t, page.Meta.HasNext)
}

func TestGetProductHidesNonPublic(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin", model.RoleAdmin)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	buyer := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)
	category := testutil.CreateCategory(t, f.db, "Templates")
	hidden := testutil.CreateProduct(t, f.db, seller, category, "Hidden", 100, model.ProductHidden)

	_, err := f.products.GetProduct(hidden.ID, nil)
	assert.ErrorIs(t, err, ErrProductNotFound)

	buyerActor := buyer.Actor()
	_, err = f.products.GetProduct(hidden.ID, &buyerActor)
	assert.ErrorIs(t, err, ErrProductNotFound)

	sellerActor := seller.Actor()
	_, err = f.products.GetProduct(hidden.ID, &sellerActor)
	assert.NoError(t, err)

	adminActor := admin.Actor()
	_, err = f.products.GetProduct(hidden.ID, &adminActor)
	assert.NoError(t, err)
}

func TestUpdateProductOwnerOnly(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	other := testutil.CreateUser(t, f.db, "other", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Templates")
	p := testutil.CreateProduct(t, f.db, seller, category, "Theme", 100, model.ProductAvailable)

	req := &ProductRequest{Name: "Theme v2", Description: "Updated", Price: decimal.NewFromInt(150), CategoryID: category.ID}
	_, err := f.products.UpdateProduct(p.ID, req, other.Actor())
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.products.UpdateProduct(p.ID, req, seller.Actor())
	require.NoError(t, err)
	assert.Equal(t, "Theme v2", updated.Name)
	assert.True(t, decimal.NewFromInt(150).Equal(updated.Price))
	assert.Equal(t, model.ProductAvailable, updated.Status)
}

func TestSetProductStatusFollowsModerationRules(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin", model.RoleAdmin)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Templates")
	p := testutil.CreateProduct(t, f.db, seller, category, "Theme", 100, model.ProductPending)

	_, err := f.products.SetProductStatus(p.ID, model.ProductAvailable, seller.Actor())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.products.SetProductStatus(p.ID, model.ProductSold, admin.Actor())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err := f.products.SetProductStatus(p.ID, model.ProductAvailable, admin.Actor())
	require.NoError(t, err)
	assert.Equal(t, model.ProductAvailable, updated.Status)
	assert.Equal(t, []string{"product.status"}, f.publisher.types(seller.ID))

	_, err = f.products.SetProductStatus(p.ID, model.ProductHidden, admin.Actor())
	require.NoError(t, err)
	_, err = f.products.SetProductStatus(p.ID, model.ProductRejected, admin.Actor())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteProductRemovesFiles(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	buyer := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)
	category := testutil.CreateCategory(t, f.db, "Templates")
	p := testutil.CreateProduct(t, f.db, seller, category, "Theme", 100, model.ProductAvailable)

	_, err := f.products.AttachFiles(p.ID, "images/a.png", "sources/a.zip", seller.Actor())
	require.NoError(t, err)
	_, err = f.access.RequestAccess(p.ID, buyer.ID, "please")
	require.NoError(t, err)

	require.NoError(t, f.products.DeleteProduct(p.ID, seller.Actor()))
	assert.ElementsMatch(t, []string{"images/a.png", "sources/a.zip"}, f.files.removed)

	_, err = f.productRepo.FindByID(p.ID)
	assert.Error(t, err)
}

func TestDeleteProductWithOrdersIsRefused(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	buyer := testutil.CreateUser(t, f.db, "buyer", model.RoleBuyer)
	category := testutil.CreateCategory(t, f.db, "Templates")
	p := testutil.CreateProduct(t, f.db, seller, category, "Theme", 100, model.ProductAvailable)

	_, err := f.checkout.SubmitPayment(&PaymentRequest{ProductID: p.ID, Method: model.MethodGCash, Confirmed: true}, buyer.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.products.DeleteProduct(p.ID, seller.Actor()), ErrProductHasOrders)
}

func TestAttachFilesReplacesOldFiles(t *testing.T) {
	f := newFixture(t)
	seller := testutil.CreateUser(t, f.db, "seller", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Templates")
	p := testutil.CreateProduct(t, f.db, seller, category, "Theme", 100, model.ProductAvailable)

	updated, err := f.products.AttachFiles(p.ID, "images/old.png", "", seller.Actor())
	require.NoError(t, err)
	assert.False(t, updated.HasSource)

	updated, err = f.products.AttachFiles(p.ID, "images/new.png", "sources/code.zip", seller.Actor())
	require.NoError(t, err)
	assert.Equal(t, "images/new.png", updated.ImagePath)
	assert.True(t, updated.HasSource)
	assert.Equal(t, []string{"images/old.png"}, f.files.removed)
}
