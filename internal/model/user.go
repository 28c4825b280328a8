package model

import "time"

// User is a customer or staff account
type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Lastname  string    `json:"lastname" gorm:"type:varchar(100);not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(20);not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
