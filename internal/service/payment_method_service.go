package service

import (
	"errors"

	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/pkg/validator"
)

type PaymentMethodService interface {
	List(ownerID uint) ([]model.PaymentMethod, error)
	Create(req *PaymentMethodRequest, actor model.Actor) (*model.PaymentMethod, error)
	Update(id uint, req *PaymentMethodRequest, actor model.Actor) (*model.PaymentMethod, error)
	Delete(id uint, actor model.Actor) error
	SetDefault(id uint, actor model.Actor) error
}

type PaymentMethodRequest struct {
	MethodType     model.PaymentMethodType `json:"method_type" validate:"required,payment_method"`
	AccountName    string                  `json:"account_name" validate:"required,max=100"`
	AccountNumber  string                  `json:"account_number" validate:"required,max=50"`
	AdditionalInfo string                  `json:"additional_info"`
	IsDefault      bool                    `json:"is_default"`
}

type paymentMethodService struct {
	methodRepo repository.PaymentMethodRepository
	db         *gorm.DB
}

func NewPaymentMethodService(methodRepo repository.PaymentMethodRepository, db *gorm.DB) PaymentMethodService {
	return &paymentMethodService{methodRepo: methodRepo, db: db}
}

func (s *paymentMethodService) List(ownerID uint) ([]model.PaymentMethod, error) {
	return s.methodRepo.FindByOwner(ownerID)
}

// Create adds a method. The owner's first method, or one flagged IsDefault,
// becomes the only default.
func (s *paymentMethodService) Create(req *PaymentMethodRequest, actor model.Actor) (*model.PaymentMethod, error) {
	req.MethodType = req.MethodType.Normalize()
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	count, err := s.methodRepo.CountByOwner(actor.UserID)
	if err != nil {
		return nil, err
	}

	method := &model.PaymentMethod{
		OwnerID:        actor.UserID,
		MethodType:     req.MethodType,
		AccountName:    req.AccountName,
		AccountNumber:  req.AccountNumber,
		AdditionalInfo: req.AdditionalInfo,
		IsDefault:      req.IsDefault || count == 0,
	}
	method.Stamp(actor.AuditName())

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if method.IsDefault {
			if err := s.methodRepo.ClearDefault(tx, actor.UserID); err != nil {
				return err
			}
		}
		return s.methodRepo.Create(tx, method)
	})
	if err != nil {
		return nil, err
	}
	return method, nil
}

func (s *paymentMethodService) Update(id uint, req *PaymentMethodRequest, actor model.Actor) (*model.PaymentMethod, error) {
	req.MethodType = req.MethodType.Normalize()
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	method, err := s.owned(id, actor)
	if err != nil {
		return nil, err
	}

	method.MethodType = req.MethodType
	method.AccountName = req.AccountName
	method.AccountNumber = req.AccountNumber
	method.AdditionalInfo = req.AdditionalInfo
	method.Stamp(actor.AuditName())

	if err := s.methodRepo.Update(method); err != nil {
		return nil, err
	}
	if req.IsDefault && !method.IsDefault {
		if err := s.SetDefault(method.ID, actor); err != nil {
			return nil, err
		}
		method.IsDefault = true
	}
	return method, nil
}

// Delete removes the method; when it was the default the oldest remaining one takes over
func (s *paymentMethodService) Delete(id uint, actor model.Actor) error {
	method, err := s.owned(id, actor)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.methodRepo.Delete(tx, method.ID); err != nil {
			return err
		}
		if !method.IsDefault {
			return nil
		}

		next, err := s.methodRepo.OldestByOwner(tx, method.OwnerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.methodRepo.MarkDefault(tx, next.ID)
	})
}

// SetDefault clears the owner's defaults and marks one method, atomically
func (s *paymentMethodService) SetDefault(id uint, actor model.Actor) error {
	method, err := s.owned(id, actor)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.methodRepo.ClearDefault(tx, method.OwnerID); err != nil {
			return err
		}
		return s.methodRepo.MarkDefault(tx, method.ID)
	})
}

func (s *paymentMethodService) owned(id uint, actor model.Actor) (*model.PaymentMethod, error) {
	method, err := s.methodRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	if method.OwnerID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return method, nil
}
