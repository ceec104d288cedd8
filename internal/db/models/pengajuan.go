package models

import "time"

// PengajuanType is the kind of leave being requested.
type PengajuanType string

const (
	// PengajuanIzin is a permission to be absent.
	PengajuanIzin PengajuanType = "izin"
	// PengajuanSakit is a sick leave.
	PengajuanSakit PengajuanType = "sakit"
	// PengajuanCuti is an annual leave.
	PengajuanCuti PengajuanType = "cuti"
)

// Pengajuan is a leave request submitted by a user and reviewed by a supervisor.
type Pengajuan struct {
	ID         uint64        `gorm:"primaryKey" json:"id"`
	UserID     uint64        `gorm:"index;not null" json:"user_id"`
	User       User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type       PengajuanType `gorm:"type:varchar(20);not null" json:"type"`
	StartDate  time.Time     `gorm:"not null" json:"start_date"`
	EndDate    time.Time     `gorm:"not null" json:"end_date"`
	Reason     string        `gorm:"size:500" json:"reason"`
	Status     ReviewStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewedBy *uint64       `json:"reviewed_by"`
	ReviewedAt *time.Time    `json:"reviewed_at"`
	Note       string        `gorm:"size:500" json:"note"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// TableName specifies the database table name for the Pengajuan model.
func (Pengajuan) TableName() string {
	return "pengajuan"
}
