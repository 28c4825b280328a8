package model

import "time"

// Review is a user's rating of a product. Several reviews per user and
// product pair are allowed.
type Review struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	ProductID uint      `json:"productId" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Rate      int       `json:"rate" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewStats is the review aggregate of one product
type ReviewStats struct {
	ProductID   uint
	ReviewCount int64
	RateSum     int64
}

// AverageRating is RateSum/ReviewCount, or 0 without reviews
func (s ReviewStats) AverageRating() float64 {
	if s.ReviewCount == 0 {
		return 0
	}
	return float64(s.RateSum) / float64(s.ReviewCount)
}

// Models lists every persisted model in migration order
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Product{},
		&ProductImage{},
		&Order{},
		&OrderProduct{},
		&Review{},
	}
}
