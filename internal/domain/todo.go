package domain

import "time"

// Todo is a single todo item. Every todo belongs to exactly one creator and
// every query against the store is scoped by CreatorID.
type Todo struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Text      string `gorm:"not null" json:"text"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
	// CompletedAt is unix milliseconds. It is non-nil exactly when
	// Completed is true; the service layer maintains the pairing.
	CompletedAt *int64    `json:"completedAt"`
	CreatorID   string    `gorm:"index;not null" json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
