package model

import (
	"time"
)

type UserRole string

const (
	Participant UserRole = "participant"
	Admin       UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Nickname  string    `gorm:"size:100;not null" json:"nickname"` // 榜单上展示的昵称
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('participant','admin');default:'participant'" json:"role"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
