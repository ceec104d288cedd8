package models

import "time"

// FaceReset is a request to discard a user's enrolled face data so it can be captured again.
type FaceReset struct {
	ID         uint64       `gorm:"primaryKey" json:"id"`
	UserID     uint64       `gorm:"index;not null" json:"user_id"`
	User       User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reason     string       `gorm:"size:500" json:"reason"`
	Status     ReviewStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewedBy *uint64      `json:"reviewed_by"`
	ReviewedAt *time.Time   `json:"reviewed_at"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// TableName specifies the database table name for the FaceReset model.
func (FaceReset) TableName() string {
	return "face_resets"
}
