package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxCancelled TransactionStatus = "cancelled"
	TxRefunded  TransactionStatus = "refunded"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxCompleted, TxCancelled, TxRefunded:
		return true
	}
	return false
}

// PaymentMethodType is the manual payment channel the buyer used
type PaymentMethodType string

const (
	MethodGCash        PaymentMethodType = "gcash"
	MethodPayMaya      PaymentMethodType = "paymaya"
	MethodBankTransfer PaymentMethodType = "bank_transfer"
)

// Normalize accepts display spellings such as "GCash" or " PayMaya "
func (m PaymentMethodType) Normalize() PaymentMethodType {
	return PaymentMethodType(strings.ToLower(strings.TrimSpace(string(m))))
}

func (m PaymentMethodType) Valid() bool {
	switch m {
	case MethodGCash, MethodPayMaya, MethodBankTransfer:
		return true
	}
	return false
}

// PlatformFeeRate is shown to buyers and sellers; it is never stored.
var PlatformFeeRate = decimal.NewFromInt(10).Div(decimal.NewFromInt(100))

type Transaction struct {
	BaseModel
	ProductID       uint              `gorm:"index;not null" json:"product_id"`
	Product         *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BuyerID         uint              `gorm:"index;not null" json:"buyer_id"`
	Buyer           *User             `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	SellerID        uint              `gorm:"index;not null" json:"seller_id"`
	Seller          *User             `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Amount          decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"` // Snapshot of product price
	PaymentMethod   PaymentMethodType `gorm:"type:varchar(20);not null" json:"payment_method"`
	ReferenceNumber string            `gorm:"type:varchar(100)" json:"reference_number"`
	Notes           string            `gorm:"type:text" json:"notes"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
}
