package repository

import (
	"time"

	"devmarket/internal/model"

	"gorm.io/gorm"
)

type AccessRequestRepository interface {
	Create(request *model.SourceAccessRequest) error
	FindByID(id uint) (*model.SourceAccessRequest, error)
	FindByPair(productID, buyerID uint) (*model.SourceAccessRequest, error)
	FindByBuyer(buyerID uint) ([]model.SourceAccessRequest, error)
	FindBySeller(sellerID uint, status model.AccessStatus) ([]model.SourceAccessRequest, error)
	UpdateStatus(id uint, status model.AccessStatus, decidedAt time.Time, updatedBy string) error
	HasApproved(productID, buyerID uint) (bool, error)
	DeleteByProduct(tx *gorm.DB, productID uint) error
}

type accessRequestRepo struct {
	db *gorm.DB
}

func NewAccessRequestRepo(db *gorm.DB) AccessRequestRepository {
	return &accessRequestRepo{db}
}

func (r *accessRequestRepo) Create(request *model.SourceAccessRequest) error {
	return r.db.Create(request).Error
}

func (r *accessRequestRepo) FindByID(id uint) (*model.SourceAccessRequest, error) {
	var request model.SourceAccessRequest
	if err := r.db.Preload("Product").Preload("Buyer").First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *accessRequestRepo) FindByPair(productID, buyerID uint) (*model.SourceAccessRequest, error) {
	var request model.SourceAccessRequest
	err := r.db.Where("product_id = ? AND buyer_id = ?", productID, buyerID).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *accessRequestRepo) FindByBuyer(buyerID uint) ([]model.SourceAccessRequest, error) {
	var requests []model.SourceAccessRequest
	err := r.db.Preload("Product").Where("buyer_id = ?", buyerID).Order("id DESC").Find(&requests).Error
	return requests, err
}

func (r *accessRequestRepo) FindBySeller(sellerID uint, status model.AccessStatus) ([]model.SourceAccessRequest, error) {
	q := r.db.Preload("Product").Preload("Buyer").Where("seller_id = ?", sellerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var requests []model.SourceAccessRequest
	err := q.Order("id DESC").Find(&requests).Error
	return requests, err
}

func (r *accessRequestRepo) UpdateStatus(id uint, status model.AccessStatus, decidedAt time.Time, updatedBy string) error {
	return r.db.Model(&model.SourceAccessRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"decided_at": decidedAt,
		"updated_by": updatedBy,
	}).Error
}

func (r *accessRequestRepo) HasApproved(productID, buyerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.SourceAccessRequest{}).
		Where("product_id = ? AND buyer_id = ? AND status = ?", productID, buyerID, model.AccessApproved).
		Count(&count).Error
	return count > 0, err
}

func (r *accessRequestRepo) DeleteByProduct(tx *gorm.DB, productID uint) error {
	return tx.Where("product_id = ?", productID).Delete(&model.SourceAccessRequest{}).Error
}
