package repository

import (
	"time"

	"devmarket/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows order listings
type TransactionFilter struct {
	Status   model.TransactionStatus
	BuyerID  uint
	SellerID uint
	From     *time.Time
	To       *time.Time
}

// DashboardStats untuk admin overview
type DashboardStats struct {
	TotalUsers       int64                         `json:"total_users"`
	TotalBuyers      int64                         `json:"total_buyers"`
	TotalSellers     int64                         `json:"total_sellers"`
	PendingSellers   int64                         `json:"pending_sellers"`
	TotalProducts    int64                         `json:"total_products"`
	ProductsByStatus map[model.ProductStatus]int64 `json:"products_by_status"`
	TotalOrders      int64                         `json:"total_orders"`
	CompletedOrders  int64                         `json:"completed_orders"`
	GrossRevenue     decimal.Decimal               `json:"gross_revenue"`
	PlatformFees     decimal.Decimal               `json:"platform_fees"`
	PendingRequests  int64                         `json:"pending_access_requests"`
}

// SalesTrendData untuk chart data
type SalesTrendData struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SellerStats untuk seller dashboard
type SellerStats struct {
	ListedProducts  int64           `json:"listed_products"`
	SoldProducts    int64           `json:"sold_products"`
	PendingProducts int64           `json:"pending_products"`
	CompletedSales  int64           `json:"completed_sales"`
	GrossSales      decimal.Decimal `json:"gross_sales"`
	NetEarnings     decimal.Decimal `json:"net_earnings"`
	PendingRequests int64           `json:"pending_access_requests"`
}

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	FindByID(id uint) (*model.Transaction, error)
	FindAll(filter TransactionFilter) ([]model.Transaction, error)
	UpdateStatus(tx *gorm.DB, id uint, status model.TransactionStatus, updatedBy string) error
	CountCompletedForProduct(tx *gorm.DB, productID uint, excludeID uint) (int64, error)
	GetDashboardStats() (*DashboardStats, error)
	GetSalesTrend(sellerID uint, startDate, endDate time.Time) ([]SalesTrendData, error)
	GetSellerStats(sellerID uint) (*SellerStats, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	return tx.Create(transaction).Error
}

func (r *transactionRepo) FindByID(id uint) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Product").Preload("Buyer").Preload("Seller").First(&transaction, id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindAll(filter TransactionFilter) ([]model.Transaction, error) {
	q := r.db.Model(&model.Transaction{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.BuyerID != 0 {
		q = q.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.SellerID != 0 {
		q = q.Where("seller_id = ?", filter.SellerID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var transactions []model.Transaction
	err := q.Preload("Product").Preload("Buyer").Preload("Seller").
		Order("created_at DESC").Order("id DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) UpdateStatus(tx *gorm.DB, id uint, status model.TransactionStatus, updatedBy string) error {
	return tx.Model(&model.Transaction{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_by": updatedBy,
	}).Error
}

func (r *transactionRepo) CountCompletedForProduct(tx *gorm.DB, productID uint, excludeID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Transaction{}).
		Where("product_id = ? AND status = ? AND id <> ?", productID, model.TxCompleted, excludeID).
		Count(&count).Error
	return count, err
}

type count struct {
	query *gorm.DB
	dest  *int64
}

// countInto runs each count and stops at the first failing query
func countInto(counts ...count) error {
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *transactionRepo) GetDashboardStats() (*DashboardStats, error) {
	stats := DashboardStats{ProductsByStatus: map[model.ProductStatus]int64{}}

	err := countInto(
		count{r.db.Model(&model.User{}), &stats.TotalUsers},
		count{r.db.Model(&model.User{}).Where("role = ?", model.RoleBuyer), &stats.TotalBuyers},
		count{r.db.Model(&model.User{}).Where("role = ?", model.RoleSeller), &stats.TotalSellers},
		count{r.db.Model(&model.User{}).Where("role = ? AND approval = ?", model.RoleSeller, model.ApprovalPending), &stats.PendingSellers},
		count{r.db.Model(&model.Transaction{}), &stats.TotalOrders},
		count{r.db.Model(&model.Transaction{}).Where("status = ?", model.TxCompleted), &stats.CompletedOrders},
		count{r.db.Model(&model.SourceAccessRequest{}).Where("status = ?", model.AccessPending), &stats.PendingRequests},
	)
	if err != nil {
		return nil, err
	}

	var byStatus []struct {
		Status model.ProductStatus
		Total  int64
	}
	if err := r.db.Model(&model.Product{}).Select("status, COUNT(*) AS total").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, s := range byStatus {
		stats.ProductsByStatus[s.Status] = s.Total
		stats.TotalProducts += s.Total
	}

	revenue, err := r.sumCompleted(r.db.Model(&model.Transaction{}))
	if err != nil {
		return nil, err
	}
	stats.GrossRevenue = revenue
	stats.PlatformFees = revenue.Mul(model.PlatformFeeRate).Round(2)

	return &stats, nil
}

func (r *transactionRepo) GetSellerStats(sellerID uint) (*SellerStats, error) {
	var stats SellerStats

	products := func(status model.ProductStatus) *gorm.DB {
		return r.db.Model(&model.Product{}).Where("seller_id = ? AND status = ?", sellerID, status)
	}
	err := countInto(
		count{products(model.ProductAvailable), &stats.ListedProducts},
		count{products(model.ProductSold), &stats.SoldProducts},
		count{products(model.ProductPending), &stats.PendingProducts},
		count{r.db.Model(&model.Transaction{}).Where("seller_id = ? AND status = ?", sellerID, model.TxCompleted), &stats.CompletedSales},
		count{r.db.Model(&model.SourceAccessRequest{}).Where("seller_id = ? AND status = ?", sellerID, model.AccessPending), &stats.PendingRequests},
	)
	if err != nil {
		return nil, err
	}

	gross, err := r.sumCompleted(r.db.Model(&model.Transaction{}).Where("seller_id = ?", sellerID))
	if err != nil {
		return nil, err
	}
	stats.GrossSales = gross
	stats.NetEarnings = gross.Sub(gross.Mul(model.PlatformFeeRate)).Round(2)

	return &stats, nil
}

// GetSalesTrend aggregates completed orders per day; sellerID 0 means all sellers
func (r *transactionRepo) GetSalesTrend(sellerID uint, startDate, endDate time.Time) ([]SalesTrendData, error) {
	results := []SalesTrendData{}

	q := r.db.Model(&model.Transaction{}).
		Select("DATE(created_at) as date, COUNT(*) as orders, COALESCE(SUM(amount), 0) as revenue").
		Where("status = ? AND created_at BETWEEN ? AND ?", model.TxCompleted, startDate, endDate)
	if sellerID != 0 {
		q = q.Where("seller_id = ?", sellerID)
	}

	rows, err := q.Group("DATE(created_at)").Order("date ASC").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesTrendData
		if err := rows.Scan(&data.Date, &data.Orders, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *transactionRepo) sumCompleted(q *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	row := q.Where("status = ?", model.TxCompleted).Select("SUM(amount)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
