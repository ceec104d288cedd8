package facereset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/db/dbtest"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
)

func seedEnrolledUser(t *testing.T, db *gorm.DB, username string) uint64 {
	t.Helper()

	enrolled := time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC)
	u := models.User{Active: true, Username: username, FaceEnrolledAt: &enrolled}
	require.NoError(t, db.Create(&u).Error)

	return u.ID
}

func TestCreateOnePending(t *testing.T) {
	db := dbtest.Open(t)
	user := seedEnrolledUser(t, db, "siti")

	r, err := Create(db, user, Input{Reason: "ganti kacamata"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, r.Status)

	_, err = Create(db, user, Input{Reason: "lagi"})
	assert.ErrorIs(t, err, ErrPendingExists)

	_, err = Review(db, r.ID, user, false, time.Now())
	require.NoError(t, err)

	// a decided request no longer blocks a new one
	_, err = Create(db, user, Input{Reason: "lagi"})
	assert.NoError(t, err)
}

func TestReviewApproveClearsEnrollment(t *testing.T) {
	db := dbtest.Open(t)
	user := seedEnrolledUser(t, db, "siti")
	admin := seedEnrolledUser(t, db, "admin")

	r, err := Create(db, user, Input{Reason: "wajah tidak terbaca"})
	require.NoError(t, err)

	got, err := Review(db, r.ID, admin, true, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	var u models.User
	require.NoError(t, db.First(&u, user).Error)
	assert.Nil(t, u.FaceEnrolledAt)

	_, err = Review(db, r.ID, admin, false, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = Review(db, 999, admin, true, time.Now())
	assert.ErrorIs(t, err, ErrFaceResetNotFound)
}

func TestReviewRejectKeepsEnrollment(t *testing.T) {
	db := dbtest.Open(t)
	user := seedEnrolledUser(t, db, "siti")

	r, err := Create(db, user, Input{Reason: "iseng"})
	require.NoError(t, err)

	_, err = Review(db, r.ID, user, false, time.Now())
	require.NoError(t, err)

	var u models.User
	require.NoError(t, db.First(&u, user).Error)
	assert.NotNil(t, u.FaceEnrolledAt)

	list, err := List(db, Filter{Status: models.StatusRejected})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
