// Package shift provides CRUD operations for working shifts.
package shift

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/db/controller"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
)

const clockLayout = "15:04"

var (
	// ErrShiftNotFound is returned when a shift is not found.
	ErrShiftNotFound = fmt.Errorf("shift not found: %w", gorm.ErrRecordNotFound)
	// ErrShiftNameEmpty is returned when attempting to save a shift with an empty name.
	ErrShiftNameEmpty = fmt.Errorf("%w: shift name cannot be empty", controller.ErrInvalid)
	// ErrInvalidClock is returned when a start or end time is not in HH:MM format.
	ErrInvalidClock = fmt.Errorf("%w: shift times must be HH:MM", controller.ErrInvalid)
	// ErrEmptyShift is returned when start and end time are equal.
	ErrEmptyShift = fmt.Errorf("%w: shift start and end must differ", controller.ErrInvalid)
	// ErrShiftAlreadyExists is returned when another shift already uses the name.
	ErrShiftAlreadyExists = fmt.Errorf("%w: shift already exists", controller.ErrConflict)
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = controller.ErrDBNil
)

// Input holds the writable fields of a shift. An end before the start means the
// shift runs past midnight.
type Input struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
}

func (in Input) check() error {
	if in.Name == "" {
		return ErrShiftNameEmpty
	}

	start, err := time.Parse(clockLayout, in.StartTime)
	if err != nil {
		return ErrInvalidClock
	}

	end, err := time.Parse(clockLayout, in.EndTime)
	if err != nil {
		return ErrInvalidClock
	}

	if start.Equal(end) {
		return ErrEmptyShift
	}

	return nil
}

// Get retrieves a shift by its ID.
func Get(db *gorm.DB, id uint) (*models.Shift, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.Shift

	if err := db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}

		return nil, err
	}

	return &s, nil
}

// GetAll retrieves all shifts ordered by start time.
func GetAll(db *gorm.DB) ([]models.Shift, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var all []models.Shift
	if err := db.Order("start_time, name").Find(&all).Error; err != nil {
		return nil, err
	}

	return all, nil
}

// Create stores a new shift.
func Create(db *gorm.DB, in Input) (*models.Shift, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := in.check(); err != nil {
		return nil, err
	}

	if err := nameTaken(db, in.Name, 0); err != nil {
		return nil, err
	}

	s := &models.Shift{Name: in.Name, StartTime: in.StartTime, EndTime: in.EndTime}
	if err := db.Create(s).Error; err != nil {
		return nil, err
	}

	return s, nil
}

// Update replaces the fields of an existing shift.
func Update(db *gorm.DB, id uint, in Input) (*models.Shift, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := in.check(); err != nil {
		return nil, err
	}

	s, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if err := nameTaken(db, in.Name, id); err != nil {
		return nil, err
	}

	s.Name = in.Name
	s.StartTime = in.StartTime
	s.EndTime = in.EndTime

	if err := db.Save(s).Error; err != nil {
		return nil, err
	}

	return s, nil
}

// Delete deletes a shift by ID.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Shift{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

func nameTaken(db *gorm.DB, name string, exceptID uint) error {
	var count int64

	if err := db.Model(&models.Shift{}).Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrShiftAlreadyExists
	}

	return nil
}
