package models

import "time"

type NotificationType string

const (
	NotificationApproval NotificationType = "approval"
	NotificationNewPTW   NotificationType = "new_ptw"
	NotificationReminder NotificationType = "reminder"
	NotificationInfo     NotificationType = "info"
	NotificationWarning  NotificationType = "warning"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationApproval, NotificationNewPTW, NotificationReminder,
		NotificationInfo, NotificationWarning:
		return true
	}
	return false
}

// Notification represents one row in a user's inbox (PostgreSQL).
// A nil ReadAt means unread.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"index"`
	Type      NotificationType `json:"type" gorm:"size:30;index"`
	Title     string           `json:"title" gorm:"size:200"`
	Message   string           `json:"message,omitempty"`
	Link      string           `json:"link,omitempty" gorm:"size:200"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
	ReadAt    *time.Time       `json:"read_at,omitempty" gorm:"index"`
}
