// Package facereset provides storage operations for face data reset requests.
package facereset

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
	// ErrFaceResetNotFound is returned when a reset request is not found.
	ErrFaceResetNotFound = fmt.Errorf("face reset request not found: %w", gorm.ErrRecordNotFound)
	// ErrPendingExists is returned when the user already has a request awaiting review.
	ErrPendingExists = fmt.Errorf("%w: a face reset request is already pending", controller.ErrConflict)
	// ErrAlreadyReviewed is returned when a decided request is reviewed again.
	ErrAlreadyReviewed = fmt.Errorf("%w: face reset request already reviewed", controller.ErrConflict)
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = controller.ErrDBNil
)

// Input holds the fields a user submits.
type Input struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Filter narrows List. Zero values do not filter.
type Filter struct {
	UserID uint64
	Status models.ReviewStatus
}

// Create stores a pending reset request of userID. Only one request per user may be pending.
func Create(db *gorm.DB, userID uint64, in Input) (*models.FaceReset, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	r := &models.FaceReset{UserID: userID, Reason: in.Reason, Status: models.StatusPending}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&models.FaceReset{}).
			Where("user_id = ? AND status = ?", userID, models.StatusPending).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrPendingExists
		}

		return tx.Omit(clause.Associations).Create(r).Error
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Get retrieves a request by its ID.
func Get(db *gorm.DB, id uint64) (*models.FaceReset, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.FaceReset

	if err := db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFaceResetNotFound
		}

		return nil, err
	}

	return &r, nil
}

// List returns requests matching f, newest first.
func List(db *gorm.DB, f Filter) ([]models.FaceReset, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Model(&models.FaceReset{})

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var all []models.FaceReset
	if err := q.Order("created_at DESC, id DESC").Find(&all).Error; err != nil {
		return nil, err
	}

	return all, nil
}

// Review approves or rejects a pending request. Approval clears the user's
// enrolled face data in the same transaction.
func Review(db *gorm.DB, id, reviewerID uint64, approve bool, at time.Time) (*models.FaceReset, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := Get(tx, id)
		if err != nil {
			return err
		}

		if r.Status != models.StatusPending {
			return ErrAlreadyReviewed
		}

		status := models.StatusRejected
		if approve {
			status = models.StatusApproved
		}

		if err := tx.Model(&models.FaceReset{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		}).Error; err != nil {
			return err
		}

		if !approve {
			return nil
		}

		return tx.Model(&models.User{}).Where("id = ?", r.UserID).Update("face_enrolled_at", nil).Error
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}
