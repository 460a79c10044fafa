package entities

import "time"

// User is an account that can sign in to the storefront.
//
// PasswordHash lives in the legacy "password" column and holds one of two
// formats: a 32-char hex MD5 digest carried over from the old deployment, or
// a bcrypt hash. Legacy digests are replaced with bcrypt on the first
// successful login.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"usuario"`
	PasswordHash string    `gorm:"column:password;size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName keeps the table name from the original schema.
func (User) TableName() string {
	return "usuarios"
}
