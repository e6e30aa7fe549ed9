package models

import (
	"time"
)

// CareCircleMember 信任联系人，危机时可收到提醒
type CareCircleMember struct {
	ID             string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID         string    `gorm:"type:varchar(50);index" json:"user_id"`
	Name           string    `gorm:"type:varchar(100)" json:"name"`
	Relationship   string    `gorm:"type:varchar(50)" json:"relationship"`
	ContactUserID  string    `gorm:"type:varchar(50)" json:"contactUserId"` // 对方在应用内的用户ID，可为空
	NotifyOnCrisis bool      `gorm:"default:true" json:"notifyOnCrisis"`
	CreatedAt      time.Time `json:"createdAt"`
}
