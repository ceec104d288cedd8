// Package lokasi provides CRUD operations for check-in locations.
package lokasi

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/db/controller"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrLokasiNotFound is returned when a location is not found.
	ErrLokasiNotFound = fmt.Errorf("lokasi not found: %w", gorm.ErrRecordNotFound)
	// ErrLokasiNameEmpty is returned when attempting to save a location with an empty name.
	ErrLokasiNameEmpty = fmt.Errorf("%w: lokasi name cannot be empty", controller.ErrInvalid)
	// ErrLokasiAlreadyExists is returned when another location already uses the name.
	ErrLokasiAlreadyExists = fmt.Errorf("%w: lokasi already exists", controller.ErrConflict)
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = controller.ErrDBNil
)

// Input holds the writable fields of a location.
type Input struct {
	Name         string  `json:"name" validate:"required,max=150"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	RadiusMeters uint    `json:"radius_meters" validate:"required,min=1,max=100000"`
}

// Get retrieves a location by its ID.
func Get(db *gorm.DB, id uint) (*models.Lokasi, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var l models.Lokasi

	if err := db.First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLokasiNotFound
		}

		return nil, err
	}

	return &l, nil
}

// GetAll retrieves all locations ordered by name.
func GetAll(db *gorm.DB) ([]models.Lokasi, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var all []models.Lokasi
	if err := db.Order("name").Find(&all).Error; err != nil {
		return nil, err
	}

	return all, nil
}

// Create stores a new location.
func Create(db *gorm.DB, in Input) (*models.Lokasi, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if in.Name == "" {
		return nil, ErrLokasiNameEmpty
	}

	if err := nameTaken(db, in.Name, 0); err != nil {
		return nil, err
	}

	l := &models.Lokasi{
		Name:         in.Name,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		RadiusMeters: in.RadiusMeters,
	}

	if err := db.Create(l).Error; err != nil {
		return nil, err
	}

	return l, nil
}

// Update replaces the fields of an existing location.
func Update(db *gorm.DB, id uint, in Input) (*models.Lokasi, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if in.Name == "" {
		return nil, ErrLokasiNameEmpty
	}

	l, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if err := nameTaken(db, in.Name, id); err != nil {
		return nil, err
	}

	l.Name = in.Name
	l.Latitude = in.Latitude
	l.Longitude = in.Longitude
	l.RadiusMeters = in.RadiusMeters

	if err := db.Save(l).Error; err != nil {
		return nil, err
	}

	return l, nil
}

// Delete deletes a location by ID.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Lokasi{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrLokasiNotFound
	}

	return nil
}

func nameTaken(db *gorm.DB, name string, exceptID uint) error {
	var count int64

	if err := db.Model(&models.Lokasi{}).Where(nameQueryPattern, name).Where("id <> ?", exceptID).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrLokasiAlreadyExists
	}

	return nil
}
