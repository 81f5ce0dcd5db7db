package service

import (
	"fmt"
	"strings"
	"time"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/ws"
)

type AccessService interface {
	RequestAccess(productID, buyerID uint, message string) (*model.SourceAccessRequest, error)
	DecideAccess(requestID uint, decision model.AccessStatus, actor model.Actor) (*model.SourceAccessRequest, error)
	AuthorizeDownload(productID, userID uint) (bool, error)
	ResolveDownload(productID, userID uint) (*model.Product, error)
	ListBuyerRequests(buyerID uint) ([]model.SourceAccessRequest, error)
	ListSellerRequests(sellerID uint, status model.AccessStatus) ([]model.SourceAccessRequest, error)
}

type accessService struct {
	accessRepo  repository.AccessRequestRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	publisher   ws.Publisher
}

func NewAccessService(
	accessRepo repository.AccessRequestRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	publisher ws.Publisher,
) AccessService {
	return &accessService{
		accessRepo:  accessRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// RequestAccess files a pending request. A buyer gets one request per
// product; asking again returns ErrAccessRequestExists whatever its status.
func (s *accessService) RequestAccess(productID, buyerID uint, message string) (*model.SourceAccessRequest, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil || product.Status == model.ProductDeleted {
		return nil, notFound(err, ErrProductNotFound)
	}
	if product.IsOwnedBy(buyerID) {
		return nil, ErrOwnProduct
	}
	if _, err := s.accessRepo.FindByPair(productID, buyerID); err == nil {
		return nil, ErrAccessRequestExists
	}

	request := &model.SourceAccessRequest{
		ProductID: product.ID,
		BuyerID:   buyerID,
		SellerID:  product.SellerID,
		Status:    model.AccessPending,
		Message:   strings.TrimSpace(message),
	}
	request.Stamp(model.Actor{UserID: buyerID}.AuditName())

	if err := s.accessRepo.Create(request); err != nil {
		// Lost a race against a concurrent request for the same pair
		if _, findErr := s.accessRepo.FindByPair(productID, buyerID); findErr == nil {
			return nil, ErrAccessRequestExists
		}
		return nil, err
	}

	s.publisher.Publish(product.SellerID, ws.Event{
		Type: "access.requested",
		Payload: map[string]interface{}{
			"request_id": request.ID,
			"product_id": product.ID,
			"buyer_id":   buyerID,
		},
	})
	return request, nil
}

// DecideAccess lets the product's seller (or an admin) approve or reject
func (s *accessService) DecideAccess(requestID uint, decision model.AccessStatus, actor model.Actor) (*model.SourceAccessRequest, error) {
	if decision != model.AccessApproved && decision != model.AccessRejected {
		return nil, ErrInvalidDecision
	}

	request, err := s.accessRepo.FindByID(requestID)
	if err != nil {
		return nil, notFound(err, fmt.Errorf("%w: access request %d", ErrNotFound, requestID))
	}
	if !actor.IsAdmin() && request.SellerID != actor.UserID {
		return nil, ErrForbidden
	}

	now := time.Now()
	if err := s.accessRepo.UpdateStatus(request.ID, decision, now, actor.AuditName()); err != nil {
		return nil, err
	}
	request.Status = decision
	request.DecidedAt = &now

	s.publisher.Publish(request.BuyerID, ws.Event{
		Type: "access.decided",
		Payload: map[string]interface{}{
			"request_id": request.ID,
			"product_id": request.ProductID,
			"status":     decision,
		},
	})
	return request, nil
}

// AuthorizeDownload is true iff the user is an admin, the product's seller,
// or holds an approved access request for the product.
func (s *accessService) AuthorizeDownload(productID, userID uint) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return false, notFound(err, ErrUserNotFound)
	}
	if user.Role == model.RoleAdmin {
		return true, nil
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return false, notFound(err, ErrProductNotFound)
	}
	if product.IsOwnedBy(userID) {
		return true, nil
	}
	return s.accessRepo.HasApproved(productID, userID)
}

// ResolveDownload authorizes the user and returns the product whose source file may be streamed
func (s *accessService) ResolveDownload(productID, userID uint) (*model.Product, error) {
	allowed, err := s.AuthorizeDownload(productID, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrDownloadDenied
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if product.SourcePath == "" {
		return nil, ErrNoSourceFile
	}
	return product, nil
}

func (s *accessService) ListBuyerRequests(buyerID uint) ([]model.SourceAccessRequest, error) {
	return s.accessRepo.FindByBuyer(buyerID)
}

func (s *accessService) ListSellerRequests(sellerID uint, status model.AccessStatus) ([]model.SourceAccessRequest, error) {
	return s.accessRepo.FindBySeller(sellerID, status)
}
