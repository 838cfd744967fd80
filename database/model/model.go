// Package model contains the gorm models persisted by the drinkrate service.
package model

// Account is a registered user identity. It is created by registration and
// never updated or deleted.
type Account struct {
	Id           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
}

// Drink is a rated beverage owned by exactly one Account. Name is unique across
// all accounts.
type Drink struct {
	Id          int     `json:"id" gorm:"primaryKey;autoIncrement"`
	AccountId   int     `json:"-" gorm:"index;not null"`
	Name        string  `json:"name" gorm:"uniqueIndex;size:80;not null"`
	Price       float64 `json:"price" gorm:"not null"`
	Rating      float64 `json:"rating" gorm:"not null"`
	Description *string `json:"description" gorm:"size:120"`

	Account Account `json:"-" gorm:"foreignKey:AccountId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type Setting struct {
	Id    int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" form:"key" gorm:"uniqueIndex"`
	Value string `json:"value" form:"value"`
}
