package model

// PaymentMethod is an account a user pays from (buyers) or receives on (sellers)
type PaymentMethod struct {
	BaseModel
	OwnerID        uint              `gorm:"index;not null" json:"owner_id"`
	MethodType     PaymentMethodType `gorm:"type:varchar(20);not null" json:"method_type" validate:"required,payment_method"`
	AccountName    string            `gorm:"type:varchar(100);not null" json:"account_name" validate:"required,max=100"`
	AccountNumber  string            `gorm:"type:varchar(50);not null" json:"account_number" validate:"required,max=50"`
	IsDefault      bool              `gorm:"default:false" json:"is_default"`
	AdditionalInfo string            `gorm:"type:text" json:"additional_info"`
}
