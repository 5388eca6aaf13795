package domain

import "time"

// User is an account holder. The password is stored only as a bcrypt hash
// and is never serialized to clients.
type User struct {
	ID        string      `gorm:"primaryKey" json:"id"`
	Email     string      `gorm:"uniqueIndex;not null" json:"email"`
	Password  string      `gorm:"not null" json:"-"`
	Tokens    []UserToken `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
}

// UserToken is one issued bearer token. A token is only accepted while a
// matching row exists here; deleting the row revokes the token regardless
// of signature validity.
type UserToken struct {
	ID      uint   `gorm:"primaryKey"`
	UserID  string `gorm:"index;not null"`
	Purpose string `gorm:"not null"`
	Token   string `gorm:"not null"`
}
