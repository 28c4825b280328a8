package model

import "time"

// Category is a product category. A category without a parent is a head
// category; read paths nest one level of children under each head.
type Category struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	TitleENG  string    `json:"titleENG" gorm:"type:varchar(255);not null"`
	TitleUA   string    `json:"titleUA" gorm:"type:varchar(255);not null"`
	ImagePath *string   `json:"imagePath" gorm:"type:varchar(512)"`
	ParentID  *uint     `json:"parentId" gorm:"index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsHead reports whether c has no parent
func (c Category) IsHead() bool {
	return c.ParentID == nil
}

// CategoryNode is a head category decorated with its direct children
type CategoryNode struct {
	Category
	SubCategories []Category `json:"subCategories"`
}
