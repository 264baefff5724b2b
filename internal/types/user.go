package types

import "time"

// User identifies an account. Users are created lazily on the first OAuth
// interaction or session validation and are never deleted by the core.
type User struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name of the User model
func (User) TableName() string {
	return "users"
}
