// Package pengajuan provides storage operations for leave requests.
package pengajuan

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoAbsensi/GoAbsensi/internal/db/controller"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
)

var (
	// ErrPengajuanNotFound is returned when a leave request is not found.
	ErrPengajuanNotFound = fmt.Errorf("pengajuan not found: %w", gorm.ErrRecordNotFound)
	// ErrInvalidType is returned for unknown leave types.
	ErrInvalidType = fmt.Errorf("%w: unknown pengajuan type", controller.ErrInvalid)
	// ErrInvalidPeriod is returned when the end date is before the start date.
	ErrInvalidPeriod = fmt.Errorf("%w: end date before start date", controller.ErrInvalid)
	// ErrAlreadyReviewed is returned when a decided request is reviewed again.
	ErrAlreadyReviewed = fmt.Errorf("%w: pengajuan already reviewed", controller.ErrConflict)
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = controller.ErrDBNil
)

// Input holds the fields a user submits.
type Input struct {
	Type      models.PengajuanType `json:"type" validate:"required,oneof=izin sakit cuti"`
	StartDate time.Time            `json:"start_date" validate:"required"`
	EndDate   time.Time            `json:"end_date" validate:"required"`
	Reason    string               `json:"reason" validate:"required,max=500"`
}

// Filter narrows List. Zero values do not filter.
type Filter struct {
	UserID uint64
	Status models.ReviewStatus
}

// Create stores a pending request of userID.
func Create(db *gorm.DB, userID uint64, in Input) (*models.Pengajuan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	switch in.Type {
	case models.PengajuanIzin, models.PengajuanSakit, models.PengajuanCuti:
	default:
		return nil, ErrInvalidType
	}

	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidPeriod
	}

	p := &models.Pengajuan{
		UserID:    userID,
		Type:      in.Type,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    in.Reason,
		Status:    models.StatusPending,
	}

	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, err
	}

	return p, nil
}

// Get retrieves a request by its ID.
func Get(db *gorm.DB, id uint64) (*models.Pengajuan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Pengajuan

	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPengajuanNotFound
		}

		return nil, err
	}

	return &p, nil
}

// List returns requests matching f, newest first.
func List(db *gorm.DB, f Filter) ([]models.Pengajuan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Model(&models.Pengajuan{})

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var all []models.Pengajuan
	if err := q.Order("created_at DESC, id DESC").Find(&all).Error; err != nil {
		return nil, err
	}

	return all, nil
}

// Review approves or rejects a pending request.
func Review(db *gorm.DB, id, reviewerID uint64, approve bool, note string, at time.Time) (*models.Pengajuan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}

	result := db.Model(&models.Pengajuan{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
			"note":        note,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// either missing or no longer pending
		if _, err := Get(db, id); err != nil {
			return nil, err
		}

		return nil, ErrAlreadyReviewed
	}

	return Get(db, id)
}

// Delete deletes a request by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Pengajuan{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrPengajuanNotFound
	}

	return nil
}
