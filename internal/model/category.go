package model

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Description string `gorm:"type:text" json:"description"`

	ProductCount int64 `gorm:"->;-:migration" json:"product_count"`
}

// DefaultCategories are seeded on first start
var DefaultCategories = []Category{
	{Name: "Web Applications", Description: "Complete web systems and admin panels"},
	{Name: "Mobile Apps", Description: "Android and iOS source code"},
	{Name: "Templates", Description: "HTML, CSS and UI kits"},
	{Name: "Scripts & Plugins", Description: "Utilities, libraries and CMS plugins"},
	{Name: "Capstone Projects", Description: "Thesis and capstone-ready systems"},
}
