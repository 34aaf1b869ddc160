package model

import (
	"time"
)

// WeightRecordModel mirrors the 'weight_records' table. One row per user and date.
type WeightRecordModel struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;uniqueIndex:uidx_weight_records_user_date"`
	RecordedAt time.Time `gorm:"type:date;not null;uniqueIndex:uidx_weight_records_user_date"`
	Weight     float64   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (WeightRecordModel) TableName() string {
	return "weight_records"
}

// SleepRecordModel mirrors the 'sleep_records' table. One row per user and date.
type SleepRecordModel struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;uniqueIndex:uidx_sleep_records_user_date"`
	RecordedAt time.Time `gorm:"type:date;not null;uniqueIndex:uidx_sleep_records_user_date"`
	SleepTime  float64   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (SleepRecordModel) TableName() string {
	return "sleep_records"
}

// CalorieRecordModel mirrors the 'calorie_records' table. Several rows per day are allowed.
type CalorieRecordModel struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;index:idx_calorie_records_user_date"`
	RecordedAt time.Time `gorm:"type:date;not null;index:idx_calorie_records_user_date"`
	Calorie    float64   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (CalorieRecordModel) TableName() string {
	return "calorie_records"
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&UserModel{},
		&UserProfileModel{},
		&WeightRecordModel{},
		&SleepRecordModel{},
		&CalorieRecordModel{},
	}
}
