package model

import "time"

type AccessStatus string

const (
	AccessPending  AccessStatus = "pending"
	AccessApproved AccessStatus = "approved"
	AccessRejected AccessStatus = "rejected"
)

// SourceAccessRequest is a buyer's request to download a product's source file.
// A buyer holds at most one request per product.
type SourceAccessRequest struct {
	BaseModel
	ProductID uint         `gorm:"not null;uniqueIndex:idx_access_product_buyer" json:"product_id"`
	Product   *Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BuyerID   uint         `gorm:"not null;uniqueIndex:idx_access_product_buyer;index" json:"buyer_id"`
	Buyer     *User        `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	SellerID  uint         `gorm:"not null;index" json:"seller_id"`
	Status    AccessStatus `gorm:"type:varchar(10);not null;default:pending" json:"status"`
	Message   string       `gorm:"type:text" json:"message"`
	DecidedAt *time.Time   `json:"decided_at,omitempty"`
}
