package repository

import (
	"strings"

	"devmarket/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
)

// ProductFilter drives both the public catalog and the admin listing
type ProductFilter struct {
	Statuses   []model.ProductStatus
	CategoryID uint
	SellerID   uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Sort       ProductSort
	Page       int
	Limit      int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	Search(filter ProductFilter) ([]model.Product, int64, error)
	Update(product *model.Product) error
	UpdateFiles(id uint, imagePath, sourcePath, updatedBy string) error
	UpdateStatus(tx *gorm.DB, id uint, status model.ProductStatus, updatedBy string) error
	MarkSold(tx *gorm.DB, id uint, updatedBy string) (int64, error)
	Delete(tx *gorm.DB, id uint) error
	CountTransactions(id uint) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Seller").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	product.HasSource = product.SourcePath != ""
	return &product, nil
}

func (r *productRepo) Search(filter ProductFilter) ([]model.Product, int64, error) {
	q := r.db.Model(&model.Product{})

	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SellerID != 0 {
		q = q.Where("seller_id = ?", filter.SellerID)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case SortPriceAsc:
		q = q.Order("price ASC").Order("id DESC")
	case SortPriceDesc:
		q = q.Order("price DESC").Order("id DESC")
	default:
		q = q.Order("created_at DESC").Order("id DESC")
	}
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}

	var products []model.Product
	if err := q.Preload("Category").Preload("Seller").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	for i := range products {
		products[i].HasSource = products[i].SourcePath != ""
	}
	return products, total, nil
}

// Update saves the editable content of a product; status and ownership are left alone
func (r *productRepo) Update(product *model.Product) error {
	return r.db.Model(product).
		Select("name", "description", "price", "category_id", "updated_by").
		Updates(product).Error
}

func (r *productRepo) UpdateFiles(id uint, imagePath, sourcePath, updatedBy string) error {
	return r.db.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"image_path":  imagePath,
		"source_path": sourcePath,
		"updated_by":  updatedBy,
	}).Error
}

// UpdateStatus menerima *gorm.DB (tx) agar bisa berjalan dalam transaksi
func (r *productRepo) UpdateStatus(tx *gorm.DB, id uint, status model.ProductStatus, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}

// MarkSold flips an available product to sold and reports how many rows changed.
// Zero means the product was no longer available when the update ran.
func (r *productRepo) MarkSold(tx *gorm.DB, id uint, updatedBy string) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND status = ?", id, model.ProductAvailable).
		Updates(map[string]interface{}{
			"status":     model.ProductSold,
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Product{}, id).Error
}

func (r *productRepo) CountTransactions(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).Where("product_id = ?", id).Count(&count).Error
	return count, err
}
