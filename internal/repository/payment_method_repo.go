package repository

import (
	"devmarket/internal/model"

	"gorm.io/gorm"
)

type PaymentMethodRepository interface {
	FindByOwner(ownerID uint) ([]model.PaymentMethod, error)
	FindByID(id uint) (*model.PaymentMethod, error)
	CountByOwner(ownerID uint) (int64, error)
	Create(tx *gorm.DB, method *model.PaymentMethod) error
	Update(method *model.PaymentMethod) error
	Delete(tx *gorm.DB, id uint) error
	OldestByOwner(tx *gorm.DB, ownerID uint) (*model.PaymentMethod, error)
	ClearDefault(tx *gorm.DB, ownerID uint) error
	MarkDefault(tx *gorm.DB, id uint) error
}

type paymentMethodRepo struct {
	db *gorm.DB
}

func NewPaymentMethodRepo(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepo{db}
}

// FindByOwner lists the owner's methods with the default first
func (r *paymentMethodRepo) FindByOwner(ownerID uint) ([]model.PaymentMethod, error) {
	var methods []model.PaymentMethod
	err := r.db.Where("owner_id = ?", ownerID).Order("is_default DESC").Order("id ASC").Find(&methods).Error
	return methods, err
}

func (r *paymentMethodRepo) FindByID(id uint) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	if err := r.db.First(&method, id).Error; err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *paymentMethodRepo) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.PaymentMethod{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *paymentMethodRepo) Create(tx *gorm.DB, method *model.PaymentMethod) error {
	return tx.Create(method).Error
}

func (r *paymentMethodRepo) Update(method *model.PaymentMethod) error {
	return r.db.Model(method).
		Select("method_type", "account_name", "account_number", "additional_info", "updated_by").
		Updates(method).Error
}

func (r *paymentMethodRepo) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.PaymentMethod{}, id).Error
}

func (r *paymentMethodRepo) OldestByOwner(tx *gorm.DB, ownerID uint) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	if err := tx.Where("owner_id = ?", ownerID).Order("id ASC").First(&method).Error; err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *paymentMethodRepo) ClearDefault(tx *gorm.DB, ownerID uint) error {
	return tx.Model(&model.PaymentMethod{}).Where("owner_id = ?", ownerID).Update("is_default", false).Error
}

func (r *paymentMethodRepo) MarkDefault(tx *gorm.DB, id uint) error {
	return tx.Model(&model.PaymentMethod{}).Where("id = ?", id).Update("is_default", true).Error
}
