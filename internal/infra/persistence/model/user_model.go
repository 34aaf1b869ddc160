package model

import (
	"time"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:uidx_users_email;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Profile *UserProfileModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// UserProfileModel mirrors the 'user_profiles' table. UserID references users.id and is the primary key.
type UserProfileModel struct {
	UserID    uint64   `gorm:"primaryKey;autoIncrement:false"`
	Nickname  string   `gorm:"type:varchar(100);not null;default:''"`
	Height    *float64
	Goal      string   `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserProfileModel) TableName() string {
	return "user_profiles"
}
