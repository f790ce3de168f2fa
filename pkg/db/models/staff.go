package models

import "time"

// Staff is an operator allowed into the back-office.
type Staff struct {
	ID           uint       `gorm:"column:id;primaryKey"`
	Email        string     `gorm:"column:email;size:254;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	IsSuperuser  bool       `gorm:"column:is_superuser;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Staff) TableName() string {
	return "admin_staff"
}
