package models

import (
	"time"

	"gorm.io/gorm"
)

// 用户在线状态
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusInQueue = "in_queue"
	StatusInGame  = "in_game"
)

// User 用户基础信息表
type User struct {
	BaseModel
	AuthID      uint       `gorm:"uniqueIndex;not null" json:"auth_id"` // 外部认证ID
	Username    string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password    string     `gorm:"size:255" json:"-"`
	Avatar      string     `gorm:"size:255" json:"avatar"`
	Status      string     `gorm:"size:20;default:'offline'" json:"status"` // online, offline, in_queue, in_game
	Wins        int        `gorm:"default:0" json:"wins"`
	Losses      int        `gorm:"default:0" json:"losses"`
	BlockedIDs  Int64List  `gorm:"type:json" json:"-"` // 被该用户拉黑的用户ID列表
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TableName 指定User表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 创建前的钩子
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Status == "" {
		u.Status = StatusOffline
	}
	return nil
}

// IsOnline 检查用户是否在线（可被邀请）
func (u *User) IsOnline() bool {
	return u.Status == StatusOnline
}

// IsBusy 检查用户是否在排队或对局中
func (u *User) IsBusy() bool {
	return u.Status == StatusInQueue || u.Status == StatusInGame
}

// HasBlocked 检查用户是否拉黑了指定用户
func (u *User) HasBlocked(userID uint) bool {
	return u.BlockedIDs.Contains(int64(userID))
}

// UpdateLoginInfo 更新登录信息
func (u *User) UpdateLoginInfo() {
	now := time.Now()
	u.LastLoginAt = &now
}
