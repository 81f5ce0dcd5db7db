package service

import (
	"errors"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/ws"
)

type CheckoutService interface {
	Quote(productID uint) (*Quote, error)
	SubmitPayment(req *PaymentRequest, buyerID uint) (*model.Transaction, error)
	ListBuyerPurchases(buyerID uint) ([]model.Transaction, error)
	ListSellerSales(sellerID uint) ([]model.Transaction, error)
}

// Quote is the checkout summary. Fee and payout are informational only;
// the buyer pays the full price.
type Quote struct {
	Product        *model.Product        `json:"product"`
	Price          decimal.Decimal       `json:"price"`
	PlatformFee    decimal.Decimal       `json:"platform_fee"`
	SellerPayout   decimal.Decimal       `json:"seller_payout"`
	PaymentMethods []model.PaymentMethod `json:"payment_methods"`
}

type PaymentRequest struct {
	ProductID       uint                    `json:"product_id"`
	Method          model.PaymentMethodType `json:"payment_method"`
	ReferenceNumber string                  `json:"reference_number"`
	Notes           string                  `json:"notes"`
	Confirmed       bool                    `json:"confirm_payment"`
}

type checkoutService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	methodRepo      repository.PaymentMethodRepository
	db              *gorm.DB
	publisher       ws.Publisher
}

func NewCheckoutService(
	productRepo repository.ProductRepository,
	transactionRepo repository.TransactionRepository,
	methodRepo repository.PaymentMethodRepository,
	db *gorm.DB,
	publisher ws.Publisher,
) CheckoutService {
	return &checkoutService{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		methodRepo:      methodRepo,
		db:              db,
		publisher:       publisher,
	}
}

func (s *checkoutService) Quote(productID uint) (*Quote, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if product.Status != model.ProductAvailable {
		return nil, ErrProductNotAvailable
	}

	methods, err := s.methodRepo.FindByOwner(product.SellerID)
	if err != nil {
		return nil, err
	}

	fee := product.Price.Mul(model.PlatformFeeRate).Round(2)
	return &Quote{
		Product:        product,
		Price:          product.Price,
		PlatformFee:    fee,
		SellerPayout:   product.Price.Sub(fee),
		PaymentMethods: methods,
	}, nil
}

// SubmitPayment records a manual payment as a completed order and marks the
// product sold. Both writes commit together or not at all.
func (s *checkoutService) SubmitPayment(req *PaymentRequest, buyerID uint) (*model.Transaction, error) {
	if !req.Confirmed {
		return nil, ErrPaymentNotConfirmed
	}
	method := req.Method.Normalize()
	if !method.Valid() {
		return nil, ErrInvalidPayment
	}

	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if product.Status != model.ProductAvailable {
		return nil, ErrProductNotAvailable
	}
	if product.IsOwnedBy(buyerID) {
		return nil, ErrOwnProduct
	}

	auditName := model.Actor{UserID: buyerID}.AuditName()
	order := &model.Transaction{
		ProductID:       product.ID,
		BuyerID:         buyerID,
		SellerID:        product.SellerID,
		Amount:          product.Price,
		PaymentMethod:   method,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		Notes:           strings.TrimSpace(req.Notes),
		Status:          model.TxCompleted,
	}
	order.Stamp(auditName)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.productRepo.MarkSold(tx, product.ID, auditName)
		if err != nil {
			return err
		}
		// Someone else bought it between our read and this update
		if affected == 0 {
			return ErrProductNotAvailable
		}
		return s.transactionRepo.Create(tx, order)
	})
	if err != nil {
		if errors.Is(err, ErrProductNotAvailable) {
			return nil, err
		}
		log.Printf("Checkout failed for product %d: %v", product.ID, err)
		return nil, ErrCheckoutFailed
	}

	s.publisher.Publish(product.SellerID, ws.Event{
		Type: "order.completed",
		Payload: map[string]interface{}{
			"transaction_id": order.ID,
			"product_id":     product.ID,
			"amount":         order.Amount,
		},
	})
	return order, nil
}

func (s *checkoutService) ListBuyerPurchases(buyerID uint) ([]model.Transaction, error) {
	return s.transactionRepo.FindAll(repository.TransactionFilter{BuyerID: buyerID})
}

func (s *checkoutService) ListSellerSales(sellerID uint) ([]model.Transaction, error) {
	return s.transactionRepo.FindAll(repository.TransactionFilter{SellerID: sellerID})
}
