package repository

import (
	"strings"
	"time"

	"devmarket/internal/model"

	"gorm.io/gorm"
)

// UserFilter narrows the admin user listing
type UserFilter struct {
	Role     model.Role
	Status   model.UserStatus
	Approval model.Approval
	Search   string
}

type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByIdentifier(identifier string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
	FindAll(filter UserFilter) ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id uint) error
	UpdatePassword(userID uint, hashedPassword string) error
	UpdateSession(userID uint, tokenVersion string, loginAt time.Time) error
	UpdateTokenVersion(userID uint, version string) error
	CountOwnedRecords(userID uint) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("LOWER(username) = ?", strings.ToLower(username)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier accepts either an email address or a username
func (r *userRepo) FindByIdentifier(identifier string) (*model.User, error) {
	if strings.Contains(identifier, "@") {
		return r.FindByEmail(identifier)
	}
	return r.FindByUsername(identifier)
}

func (r *userRepo) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll(filter UserFilter) ([]model.User, error) {
	q := r.db.Model(&model.User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Approval != "" {
		q = q.Where("approval = ?", filter.Approval)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like, like)
	}

	var users []model.User
	if err := q.Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) Delete(id uint) error {
	return r.db.Delete(&model.User{}, id).Error
}

func (r *userRepo) UpdatePassword(userID uint, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) UpdateSession(userID uint, tokenVersion string, loginAt time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"token_version": tokenVersion,
		"last_login_at": loginAt,
	}).Error
}

func (r *userRepo) UpdateTokenVersion(userID uint, version string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}

// CountOwnedRecords counts products and transactions that reference the user
func (r *userRepo) CountOwnedRecords(userID uint) (int64, error) {
	var products, transactions int64
	if err := r.db.Model(&model.Product{}).Where("seller_id = ?", userID).Count(&products).Error; err != nil {
		return 0, err
	}
	if err := r.db.Model(&model.Transaction{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Count(&transactions).Error; err != nil {
		return 0, err
	}
	return products + transactions, nil
}
