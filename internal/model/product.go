package model

import "github.com/shopspring/decimal"

type ProductStatus string

const (
	ProductAvailable ProductStatus = "available"
	ProductPending   ProductStatus = "pending"
	ProductSold      ProductStatus = "sold"
	ProductHidden    ProductStatus = "hidden"
	ProductDeleted   ProductStatus = "deleted"
	ProductRejected  ProductStatus = "rejected"
)

// moderationTransitions lists the status changes an admin may apply.
// available -> sold is reserved for checkout and therefore absent.
var moderationTransitions = map[ProductStatus][]ProductStatus{
	ProductPending:   {ProductAvailable, ProductRejected},
	ProductAvailable: {ProductHidden, ProductDeleted},
	ProductHidden:    {ProductAvailable, ProductDeleted},
	ProductRejected:  {ProductPending, ProductDeleted},
}

// CanModerate reports whether an admin may move a product from one status to another
func CanModerate(from, to ProductStatus) bool {
	for _, s := range moderationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price" validate:"gt=0"`
	ImagePath   string          `gorm:"type:varchar(255)" json:"image_path"`
	SourcePath  string          `gorm:"type:varchar(255)" json:"-"` // Served only through the download endpoint
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`

	CategoryID uint      `gorm:"index;not null" json:"category_id" validate:"required"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	SellerID   uint      `gorm:"index;not null" json:"seller_id"`
	Seller     *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty" validate:"-"`

	HasSource bool `gorm:"-" json:"has_source"`
}

// IsOwnedBy reports whether userID is the seller of the product
func (p *Product) IsOwnedBy(userID uint) bool {
	return p.SellerID == userID
}

func (p *Product) IsPublic() bool {
	return p.Status == ProductAvailable
}
