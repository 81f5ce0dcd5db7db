package repository

import (
	"devmarket/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(id uint) error
	CountProducts(id uint) (int64, error)
	SeedDefaults() error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

const productCountSelect = "categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = categories.id) AS product_count"

func (r *categoryRepo) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Model(&model.Category{}).Select(productCountSelect).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Model(&model.Category{}).Select(productCountSelect).Where("categories.id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) Update(category *model.Category) error {
	return r.db.Model(category).Select("name", "description", "updated_by").Updates(category).Error
}

func (r *categoryRepo) Delete(id uint) error {
	return r.db.Delete(&model.Category{}, id).Error
}

func (r *categoryRepo) CountProducts(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// SeedDefaults creates default categories if they don't exist
func (r *categoryRepo) SeedDefaults() error {
	for _, c := range model.DefaultCategories {
		var existing model.Category
		if err := r.db.Where("name = ?", c.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			c := c
			c.CreatedBy = "system"
			c.UpdatedBy = "system"
			if err := r.db.Create(&c).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
