package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue item. A non-null PriceOld marks it as on sale.
type Product struct {
	ID             uint                `json:"id" gorm:"primarykey"`
	TitleENG       string              `json:"titleENG" gorm:"type:varchar(255);not null"`
	TitleUA        string              `json:"titleUA" gorm:"type:varchar(255);not null"`
	DescriptionENG string              `json:"descriptionENG" gorm:"type:text;not null"`
	DescriptionUA  string              `json:"descriptionUA" gorm:"type:text;not null"`
	Size           string              `json:"size" gorm:"type:varchar(50);not null"`
	Article        int                 `json:"article" gorm:"uniqueIndex;not null"`
	Quantity       *int                `json:"quantity"`
	Price          decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);not null"`
	PriceOld       decimal.NullDecimal `json:"price_old" gorm:"type:decimal(10,2)"`
	CategoryID     *uint               `json:"categoryId" gorm:"index"`
	Status         ProductStatus       `json:"status" gorm:"type:varchar(30);not null"`
	Images         []ProductImage      `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// OnSale reports whether the product carries a previous price
func (p Product) OnSale() bool {
	return p.PriceOld.Valid
}

// ProductImage is one stored picture of a product
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	ProductID uint   `json:"productId" gorm:"index;not null"`
	Path      string `json:"path" gorm:"type:varchar(512);not null"`
}

// RatedProduct is a product with its review aggregate attached
type RatedProduct struct {
	Product
	ReviewCount   int64   `json:"reviewCount"`
	AverageRating float64 `json:"averageRating"`
}

// ProductSnapshot is the fixed product projection attached to order items
type ProductSnapshot struct {
	ID             uint                `json:"id"`
	TitleENG       string              `json:"titleENG"`
	TitleUA        string              `json:"titleUA"`
	DescriptionENG string              `json:"descriptionENG"`
	DescriptionUA  string              `json:"descriptionUA"`
	Size           string              `json:"size"`
	Article        int                 `json:"article"`
	Quantity       *int                `json:"quantity"`
	Price          decimal.Decimal     `json:"price"`
	PriceOld       decimal.NullDecimal `json:"price_old"`
	CategoryID     *uint               `json:"categoryId"`
	Status         ProductStatus       `json:"status"`
}

func (ProductSnapshot) TableName() string {
	return "products"
}
