package service

import (
	"errors"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/pkg/validator"
)

type UserService interface {
	CreateUser(req *CreateUserRequest, actor model.Actor) (*model.User, error)
	UpdateUser(userID uint, req *UpdateUserRequest, actor model.Actor) (*model.User, error)
	SetStatus(userID uint, status model.UserStatus, actor model.Actor) (*model.User, error)
	SetApproval(userID uint, approval model.Approval, actor model.Actor) (*model.User, error)
	DeleteUser(userID uint, actor model.Actor) error
	GetAllUsers(filter repository.UserFilter) ([]model.UserResponse, error)
	GetUserByID(id uint) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username    string         `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email       string         `json:"email" validate:"required,email"`
	Password    string         `json:"password" validate:"required,min=6"`
	FullName    string         `json:"full_name" validate:"required"`
	PhoneNumber string         `json:"phone_number" validate:"omitempty,max=20"`
	Role        model.Role     `json:"role" validate:"required,oneof=buyer seller admin"`
	Approval    model.Approval `json:"approval" validate:"omitempty,oneof=yes no pending"`
}

type UpdateUserRequest struct {
	Email       string           `json:"email" validate:"required,email"`
	Password    *string          `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName    string           `json:"full_name" validate:"required"`
	PhoneNumber string           `json:"phone_number" validate:"omitempty,max=20"`
	Role        model.Role       `json:"role" validate:"required,oneof=buyer seller admin"`
	Status      model.UserStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

type userService struct {
	userRepo repository.UserRepository
	db       *gorm.DB
}

func NewUserService(userRepo repository.UserRepository, db *gorm.DB) UserService {
	return &userService{
		userRepo: userRepo,
		db:       db,
	}
}

func (s *userService) CreateUser(req *CreateUserRequest, actor model.Actor) (*model.User, error) {
	// 1. Validate request
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	// 2. Check if username or email already exists
	if err := ensureUnique(s.userRepo, req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	// 3. Create user
	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Status:      model.UserActive,
	}
	user.ApplyRole(req.Role)
	if req.Role == model.RoleSeller {
		// Sellers created by an admin are approved unless told otherwise
		user.Approval = model.ApprovalYes
		if req.Approval != "" {
			user.Approval = req.Approval
		}
	}
	user.Stamp(actor.AuditName())

	// 4. Set password
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// 5. Save to database
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uint, req *UpdateUserRequest, actor model.Actor) (*model.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if err := ensureUnique(s.userRepo, "", req.Email, user.ID); err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.ApplyRole(req.Role)
	if req.Status != "" {
		user.Status = req.Status
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}
	user.Stamp(actor.AuditName())

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) SetStatus(userID uint, status model.UserStatus, actor model.Actor) (*model.User, error) {
	if status != model.UserActive && status != model.UserInactive {
		return nil, ErrInvalidStatus
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if user.ID == actor.UserID && status == model.UserInactive {
		return nil, ErrForbidden
	}
	user.Status = status
	user.Stamp(actor.AuditName())
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetApproval decides a seller application. pending may only move to yes or no;
// yes and no can be flipped back and forth.
func (s *userService) SetApproval(userID uint, approval model.Approval, actor model.Actor) (*model.User, error) {
	if approval != model.ApprovalYes && approval != model.ApprovalNo {
		return nil, ErrInvalidStatus
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if user.Role != model.RoleSeller {
		return nil, ErrInvalidRole
	}
	user.Approval = approval
	user.Stamp(actor.AuditName())
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser hard-deletes an account that owns no products and no orders,
// together with its messages, payment methods and access requests.
func (s *userService) DeleteUser(userID uint, actor model.Actor) error {
	if userID == actor.UserID {
		return ErrCannotDeleteSelf
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return notFound(err, ErrUserNotFound)
	}

	owned, err := s.userRepo.CountOwnedRecords(userID)
	if err != nil {
		return err
	}
	if owned > 0 {
		return ErrUserHasRecords
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", userID).Delete(&model.PaymentMethod{}).Error; err != nil {
			return err
		}
		if err := tx.Where("buyer_id = ?", userID).Delete(&model.SourceAccessRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, userID).Error
	})
}

func (s *userService) GetAllUsers(filter repository.UserFilter) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u model.User, _ int) model.UserResponse {
		return u.ToResponse()
	}), nil
}

func (s *userService) GetUserByID(id uint) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	response := user.ToResponse()
	return &response, nil
}
