package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devmarket/internal/model"
	"devmarket/internal/testutil"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	s := newOrderSetup(t, f)
	category := testutil.CreateCategory(t, f.db, "Templates")
	testutil.CreateProduct(t, f.db, s.seller, category, "Theme", 500, model.ProductAvailable)
	testutil.CreateProduct(t, f.db, s.seller, category, "Draft", 500, model.ProductPending)

	stats, err := f.stats.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalSellers)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ProductsByStatus[model.ProductSold])
	assert.Equal(t, int64(1), stats.CompletedOrders)
	assert.True(t, decimal.NewFromInt(2500).Equal(stats.GrossRevenue), stats.GrossRevenue.String())
	assert.True(t, decimal.NewFromInt(250).Equal(stats.PlatformFees), stats.PlatformFees.String())

	seller, err := f.stats.GetSellerStats(s.seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seller.ListedProducts)
	assert.Equal(t, int64(1), seller.SoldProducts)
	assert.Equal(t, int64(1), seller.PendingProducts)
	assert.Equal(t, int64(1), seller.CompletedSales)
	assert.True(t, decimal.NewFromInt(2250).Equal(seller.NetEarnings), seller.NetEarnings.String())

	// cancelled orders no longer count as revenue
	_, err = f.orders.UpdateOrderStatus(s.order.ID, model.TxCancelled, s.admin.Actor())
	require.NoError(t, err)
	stats, err = f.stats.GetDashboardStats()
	require.NoError(t, err)
	assert.True(t, stats.GrossRevenue.IsZero())
}
